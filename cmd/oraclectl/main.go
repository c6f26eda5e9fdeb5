package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nnlgsakib/DataFee-oracle/ioc"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", string(ioc.DefaultConfigPath), "配置文件路径")
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(1)
	}
	cmd := flag.Arg(0)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, configPath, cmd, flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s 执行失败: %v\n", cmd, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, cmd string, args []string) error {
	cfg, err := ioc.InitConfig(ioc.ConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	logger, syncLogger, err := ioc.InitLogger(cfg)
	if err != nil {
		return err
	}
	defer syncLogger()

	reg, closeRegistry, err := ioc.InitRegistry(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRegistry()

	if cmd == "register" {
		if len(args) == 0 {
			usage()
			return fmt.Errorf("缺少 url 参数")
		}
		selector := ""
		if len(args) > 1 {
			selector = args[1]
		}
		handle, err := reg.AddEndpoint(ctx, args[0], selector)
		if err != nil {
			return err
		}
		receipt, err := handle.Wait(ctx)
		if err != nil {
			return err
		}
		return printJSON(receipt)
	}

	endpoints, err := ioc.InitEndpoints(ctx, cfg, reg, logger)
	if err != nil {
		return err
	}
	svc := ioc.InitAppService(endpoints, ioc.InitCollector(cfg, logger), ioc.InitSubmitter(cfg, reg, logger), logger)

	switch cmd {
	case "once":
		report, err := svc.RunCycle(ctx)
		if err != nil {
			return err
		}
		return printJSON(report)
	case "preview":
		batch, stats := svc.Preview(ctx)
		return printJSON(struct {
			Batch any `json:"batch"`
			Stats any `json:"stats"`
		}{batch, stats})
	case "endpoints":
		return printJSON(svc.Endpoints())
	default:
		usage()
		return fmt.Errorf("未知命令: %s", cmd)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func usage() {
	fmt.Println("用法: oraclectl [-config configs/config.yaml] {once|preview|endpoints|register <url> [selector]}")
}

