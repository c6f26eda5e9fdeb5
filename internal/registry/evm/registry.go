// Package evm 通过 JSON-RPC 与 EVM 链上的数据预言机合约交互。
package evm

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/nnlgsakib/DataFee-oracle/internal/registry"
	"github.com/nnlgsakib/DataFee-oracle/internal/source"
	"go.uber.org/zap"
)

var (
	// ErrMissingKey 表示没有配置签名私钥。
	ErrMissingKey = errors.New("private key is required")
	// ErrInvalidContract 表示合约地址格式错误。
	ErrInvalidContract = errors.New("invalid contract address")
)

// Config 配置 EVM 注册表。
type Config struct {
	RPCURL     string
	Contract   string
	PrivateKey string
	ChainID    int64
}

// Registry 是基于 EVM 合约的 registry.Registry 实现。
type Registry struct {
	eth      *ethclient.Client
	abi      abi.ABI
	contract common.Address
	key      *ecdsa.PrivateKey
	from     common.Address
	chainID  *big.Int
	logger   *zap.Logger

	// 串行化 nonce 获取与发送。
	sendMu sync.Mutex
}

// Dial 校验配置、解析私钥并连接 RPC 节点。
func Dial(ctx context.Context, cfg Config, logger *zap.Logger) (*Registry, error) {
	if strings.TrimSpace(cfg.RPCURL) == "" {
		return nil, fmt.Errorf("rpc url 不能为空")
	}
	if !common.IsHexAddress(cfg.Contract) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContract, cfg.Contract)
	}
	keyHex := strings.TrimPrefix(strings.TrimSpace(cfg.PrivateKey), "0x")
	if keyHex == "" {
		return nil, ErrMissingKey
	}
	key, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		return nil, fmt.Errorf("解析私钥失败: %w", err)
	}
	parsed, err := abi.JSON(strings.NewReader(oracleABI))
	if err != nil {
		return nil, fmt.Errorf("解析合约 ABI 失败: %w", err)
	}
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("连接 RPC 节点失败: %w", err)
	}

	chainID := big.NewInt(cfg.ChainID)
	if cfg.ChainID <= 0 {
		chainID, err = client.ChainID(ctx)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("查询 chain id 失败: %w", err)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	from := crypto.PubkeyToAddress(key.PublicKey)
	logger.Info("evm registry connected",
		zap.String("contract", common.HexToAddress(cfg.Contract).Hex()),
		zap.String("from", from.Hex()),
		zap.Stringer("chain_id", chainID))

	return &Registry{
		eth:      client,
		abi:      parsed,
		contract: common.HexToAddress(cfg.Contract),
		key:      key,
		from:     from,
		chainID:  chainID,
		logger:   logger,
	}, nil
}

// EstimateCost 估算 updateDataBatch 的 gas。
func (r *Registry) EstimateCost(ctx context.Context, payload registry.Payload) (uint64, error) {
	if err := payload.Validate(); err != nil {
		return 0, err
	}
	data, err := r.abi.Pack(methodUpdateDataBatch, payload.URLs, payload.Data)
	if err != nil {
		return 0, fmt.Errorf("编码 %s 失败: %w", methodUpdateDataBatch, err)
	}
	return r.estimate(ctx, data)
}

// FeeRate 返回节点建议的 gas price（wei）。
func (r *Registry) FeeRate(ctx context.Context) (*big.Int, error) {
	return r.eth.SuggestGasPrice(ctx)
}

// SubmitBatch 以 opts.CostLimit 为 gas limit、opts.FeeRate 为 gas price 发送 updateDataBatch。
func (r *Registry) SubmitBatch(ctx context.Context, payload registry.Payload, opts registry.Options) (registry.Handle, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	data, err := r.abi.Pack(methodUpdateDataBatch, payload.URLs, payload.Data)
	if err != nil {
		return nil, fmt.Errorf("编码 %s 失败: %w", methodUpdateDataBatch, err)
	}
	return r.send(ctx, data, opts.CostLimit, opts.FeeRate)
}

// ListEndpoints 调用 getAllUrlElements 读取合约中登记的数据源。
func (r *Registry) ListEndpoints(ctx context.Context) ([]source.Endpoint, error) {
	data, err := r.abi.Pack(methodGetAllURLElements)
	if err != nil {
		return nil, err
	}
	out, err := r.eth.CallContract(ctx, ethereum.CallMsg{From: r.from, To: &r.contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("调用 %s 失败: %w", methodGetAllURLElements, err)
	}
	return decodeURLElements(r.abi, out)
}

// AddEndpoint 调用 addUrlElement 登记数据源。
func (r *Registry) AddEndpoint(ctx context.Context, url, selector string) (registry.Handle, error) {
	data, err := r.abi.Pack(methodAddURLElement, url, selector)
	if err != nil {
		return nil, err
	}
	price, err := r.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询 gas price 失败: %w", err)
	}
	gas, err := r.estimate(ctx, data)
	if err != nil {
		return nil, err
	}
	return r.send(ctx, data, gas, price)
}

func (r *Registry) Close(context.Context) error {
	r.eth.Close()
	return nil
}

func (r *Registry) estimate(ctx context.Context, data []byte) (uint64, error) {
	gas, err := r.eth.EstimateGas(ctx, ethereum.CallMsg{From: r.from, To: &r.contract, Data: data})
	if err != nil {
		return 0, fmt.Errorf("估算 gas 失败: %w", err)
	}
	return gas, nil
}

func (r *Registry) send(ctx context.Context, data []byte, gas uint64, price *big.Int) (registry.Handle, error) {
	if price == nil {
		return nil, fmt.Errorf("gas price 不能为空")
	}
	r.sendMu.Lock()
	defer r.sendMu.Unlock()

	nonce, err := r.eth.PendingNonceAt(ctx, r.from)
	if err != nil {
		return nil, fmt.Errorf("查询 nonce 失败: %w", err)
	}
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &r.contract,
		Value:    new(big.Int),
		Gas:      gas,
		GasPrice: price,
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(r.chainID), r.key)
	if err != nil {
		return nil, fmt.Errorf("签名交易失败: %w", err)
	}
	if err := r.eth.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("发送交易失败: %w", err)
	}
	return &txHandle{backend: r.eth, tx: signed}, nil
}

func decodeURLElements(parsed abi.ABI, out []byte) ([]source.Endpoint, error) {
	values, err := parsed.Unpack(methodGetAllURLElements, out)
	if err != nil {
		return nil, fmt.Errorf("解码 %s 失败: %w", methodGetAllURLElements, err)
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("unexpected %s output size %d", methodGetAllURLElements, len(values))
	}
	urls, ok1 := values[0].([]string)
	elements, ok2 := values[1].([]string)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("unexpected %s output types %T, %T", methodGetAllURLElements, values[0], values[1])
	}
	if len(urls) != len(elements) {
		return nil, fmt.Errorf("%w: %d urls, %d elements", registry.ErrLengthMismatch, len(urls), len(elements))
	}
	eps := make([]source.Endpoint, 0, len(urls))
	for i := range urls {
		eps = append(eps, source.Endpoint{URL: urls[i], Selector: elements[i]})
	}
	return eps, nil
}

// txHandle 等待交易上链。
type txHandle struct {
	backend bind.DeployBackend
	tx      *types.Transaction
}

func (h *txHandle) ID() string {
	return h.tx.Hash().Hex()
}

func (h *txHandle) Wait(ctx context.Context) (registry.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, h.backend, h.tx)
	if err != nil {
		return registry.Receipt{}, fmt.Errorf("等待交易上链失败: %w", err)
	}
	out := registry.Receipt{TxID: h.ID(), CostUsed: receipt.GasUsed}
	if receipt.BlockNumber != nil {
		out.Block = receipt.BlockNumber.Uint64()
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return out, fmt.Errorf("%w: tx=%s block=%d", registry.ErrReverted, out.TxID, out.Block)
	}
	return out, nil
}
