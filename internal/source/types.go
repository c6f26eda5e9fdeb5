package source

// Endpoint 描述一个数据源：URL 与可选的顶层字段选择器。
type Endpoint struct {
	URL      string            `json:"url" yaml:"url"`
	Selector string            `json:"selector" yaml:"selector"`
	Headers  map[string]string `json:"-" yaml:"headers"`
}

// Result 是单个数据源在一个周期内的抽取结果。Oversized 为 true 时 Summary 为空。
type Result struct {
	URL       string `json:"url"`
	Summary   string `json:"summary"`
	Oversized bool   `json:"oversized"`
}

// Batch 按数据源配置顺序保存一个周期内成功的抽取结果。
type Batch []Result

// Stats 汇总一次采集的计数。
type Stats struct {
	Total     int          `json:"total"`
	Collected int          `json:"collected"`
	Failed    int          `json:"failed"`
	Oversized int          `json:"oversized"`
	ByKind    map[Kind]int `json:"-"`
}
