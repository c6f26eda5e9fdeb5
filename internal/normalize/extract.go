package normalize

import (
	"errors"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON 表示响应体不是合法 JSON。
var ErrInvalidJSON = errors.New("response body is not valid JSON")

// Extract 根据 selector 生成摘要字符串。
//
// selector 为空时展开整个 body；否则取 body 顶层同名字段：对象则展开，
// 其他值输出为单个 "selector:value"。字段不存在时输出 "selector:undefined"，不报错。
func Extract(body gjson.Result, selector string) string {
	if selector == "" {
		return Flatten(body, "").Render()
	}
	value := lookup(body, selector)
	if value.IsObject() {
		return Flatten(value, "").Render()
	}
	return selector + ":" + ScalarString(value)
}

// ExtractBytes 校验并解析原始响应体后调用 Extract。
func ExtractBytes(raw []byte, selector string) (string, error) {
	if !gjson.ValidBytes(raw) {
		return "", ErrInvalidJSON
	}
	return Extract(gjson.ParseBytes(raw), selector), nil
}

// lookup 按字面 key 查找顶层字段，不解析 gjson 路径语法；重复 key 取最后一个。
func lookup(body gjson.Result, key string) gjson.Result {
	var found gjson.Result
	if !body.IsObject() {
		return found
	}
	body.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found = v
		}
		return true
	})
	return found
}
