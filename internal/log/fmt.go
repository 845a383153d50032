package log

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Format 按顺序替换 format 中的 %v %d %s %t %f %q %T 占位符:
//   - 参数多于占位符时, 剩余参数以空格拼接在末尾;
//   - 占位符多于参数时, 未被替换的占位符原样保留;
//   - 最后一个参数为 error 时, 以 " - 错误信息" 追加在末尾;
//   - %% 转义为 %, 未知占位符原样保留.
//
// 示例:
//
//	Format("timer [%v] paused", "x")               // "timer [x] paused"
//	Format("timer", "x", 30*time.Millisecond)      // "timer x 30ms"
//	Format("fire %v failed", "x", errors.New("e")) // "fire x failed - e"
func Format(format string, args ...any) string {
	var trailingErr error
	if n := len(args); n > 0 {
		if e, ok := args[n-1].(error); ok {
			trailingErr = e
			args = args[:n-1]
		}
	}

	var b strings.Builder
	b.Grow(len(format) + len(args)*8)
	next := 0
	for {
		idx := strings.IndexByte(format, '%')
		if idx < 0 {
			b.WriteString(format)
			break
		}
		b.WriteString(format[:idx])
		format = format[idx:]

		// 末尾单独一个 %
		if len(format) == 1 {
			b.WriteByte('%')
			break
		}

		verb := format[1]
		format = format[2:]
		if verb == '%' {
			b.WriteByte('%')
			continue
		}
		if next >= len(args) || !isVerb(verb) {
			b.WriteByte('%')
			b.WriteByte(verb)
			continue
		}

		arg := args[next]
		next++
		switch verb {
		case 'q':
			b.WriteString(strconv.Quote(toString(arg)))
		case 'T':
			b.WriteString(toTypeString(arg))
		default:
			b.WriteString(toString(arg))
		}
	}

	for _, arg := range args[next:] {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(toString(arg))
	}

	if trailingErr != nil {
		b.WriteString(" - ")
		b.WriteString(trailingErr.Error())
	}
	return b.String()
}

// FormatArgs 第一个参数作为 format, 只有一个参数时原样输出
func FormatArgs(args ...any) string {
	switch len(args) {
	case 0:
		return ""
	case 1:
		return toString(args[0])
	default:
		return Format(toString(args[0]), args[1:]...)
	}
}

func isVerb(verb byte) bool {
	switch verb {
	case 'd', 'f', 's', 't', 'v', 'q', 'T':
		return true
	}
	return false
}

func toTypeString(val any) string {
	if val == nil {
		return "<nil>"
	}
	return reflect.TypeOf(val).String()
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case time.Duration:
		return v.String()
	case time.Time:
		return v.Format("15:04:05.000")
	case *string:
		if v == nil {
			return "<nil>"
		}
		return *v
	case *int:
		if v == nil {
			return "<nil>"
		}
		return strconv.Itoa(*v)
	default:
		return fmt.Sprint(val)
	}
}
