package evm

// oracleABI 是数据预言机合约的接口定义。
const oracleABI = `[
  {"type":"function","name":"updateDataBatch","stateMutability":"nonpayable",
   "inputs":[{"name":"_urls","type":"string[]"},{"name":"_data","type":"string[]"}],"outputs":[]},
  {"type":"function","name":"addUrlElement","stateMutability":"nonpayable",
   "inputs":[{"name":"_url","type":"string"},{"name":"_element","type":"string"}],"outputs":[]},
  {"type":"function","name":"getUrlElement","stateMutability":"view",
   "inputs":[{"name":"_url","type":"string"}],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"getAllUrls","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"string[]"}]},
  {"type":"function","name":"getAllUrlElements","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"string[]"},{"name":"","type":"string[]"}]}
]`

const (
	methodUpdateDataBatch   = "updateDataBatch"
	methodAddURLElement     = "addUrlElement"
	methodGetAllURLElements = "getAllUrlElements"
)
