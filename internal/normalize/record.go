package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Field 表示扁平化后的一个 path:value 对。
type Field struct {
	Path  string
	Value gjson.Result
}

// Record 是扁平化结果：path 唯一，按首次出现顺序保存，值均为标量。
type Record struct {
	fields []Field
	index  map[string]int
}

// NewRecord 返回空 Record。
func NewRecord() *Record {
	return &Record{index: make(map[string]int)}
}

// Set 写入 path；已存在时覆盖值但保留原位置。
func (r *Record) Set(path string, value gjson.Result) {
	if i, ok := r.index[path]; ok {
		r.fields[i].Value = value
		return
	}
	r.index[path] = len(r.fields)
	r.fields = append(r.fields, Field{Path: path, Value: value})
}

// Get 按 path 取值。
func (r *Record) Get(path string) (gjson.Result, bool) {
	i, ok := r.index[path]
	if !ok {
		return gjson.Result{}, false
	}
	return r.fields[i].Value, true
}

func (r *Record) Len() int {
	return len(r.fields)
}

// Fields 返回字段副本，顺序即遍历顺序。
func (r *Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Render 以 "path:value" 形式输出，字段之间用单个空格分隔。
func (r *Record) Render() string {
	var sb strings.Builder
	for i, f := range r.fields {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(f.Path)
		sb.WriteByte(':')
		sb.WriteString(ScalarString(f.Value))
	}
	return sb.String()
}

// ScalarString 返回标量的文本形式。
// 数字按 NumberString 规范化，数组按紧凑 JSON 输出，不存在的值渲染为 "undefined"。
func ScalarString(v gjson.Result) string {
	if !v.Exists() {
		return "undefined"
	}
	switch v.Type {
	case gjson.Null:
		return "null"
	case gjson.False:
		return "false"
	case gjson.True:
		return "true"
	case gjson.Number:
		return NumberString(v)
	case gjson.String:
		return v.Str
	default:
		return string(pretty.Ugly([]byte(v.Raw)))
	}
}

// maxExactInt 是 float64 能精确表示的最大整数。
const maxExactInt = 1 << 53

// NumberString 按 JavaScript Number 转字符串的规则渲染数字：
// [1e-7, 1e21) 内使用最短十进制形式，之外使用 "1e+21" 这样的指数形式，-0 输出 "0"。
// float64 无法精确表示的整数字面量原样保留。
func NumberString(v gjson.Result) string {
	raw := strings.TrimSpace(v.Raw)
	f := v.Num
	if isIntegerLiteral(raw) && math.Abs(f) > maxExactInt {
		return raw
	}
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-7 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	return mant + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
}

func isIntegerLiteral(raw string) bool {
	return raw != "" && !strings.ContainsAny(raw, ".eE")
}
