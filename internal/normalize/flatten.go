package normalize

import "github.com/tidwall/gjson"

// Flatten 将嵌套对象递归展开为以点号连接路径的扁平 Record。
// 只展开对象，数组作为不透明标量保留；非对象输入返回空 Record。
func Flatten(value gjson.Result, prefix string) *Record {
	rec := NewRecord()
	flattenInto(rec, value, prefix)
	return rec
}

func flattenInto(rec *Record, value gjson.Result, prefix string) {
	if !value.IsObject() {
		return
	}
	value.ForEach(func(key, child gjson.Result) bool {
		path := key.String()
		if prefix != "" {
			path = prefix + "." + path
		}
		if child.IsObject() {
			flattenInto(rec, child, path)
		} else {
			rec.Set(path, child)
		}
		return true
	})
}
