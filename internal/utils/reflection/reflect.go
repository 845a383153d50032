package reflection

import (
	"reflect"
	"runtime"
)

// NameOfFunction 获取函数名称, nil 返回空字符串
func NameOfFunction(f any) string {
	v := reflect.ValueOf(f)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	fn := runtime.FuncForPC(v.Pointer())
	if fn == nil {
		return ""
	}
	return fn.Name()
}
