package logger

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
	"unicode"
)

const escaper = "'"

func isPrintable(s []byte) bool {
	for _, r := range s {
		if !unicode.IsPrint(rune(r)) {
			return false
		}
	}
	return true
}

func isParamChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// ExplainSQL inline named parameters (`:name`) for logging, the result must never be executed
func ExplainSQL(sql string, params map[string]any) string {
	var (
		buf   strings.Builder
		quote byte
	)
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == ':' && i+1 < len(sql) && sql[i+1] == ':':
			buf.WriteString("::")
			i++
			continue
		case c == ':':
			j := i + 1
			for j < len(sql) && isParamChar(sql[j]) {
				j++
			}
			if value, ok := params[sql[i+1:j]]; ok && j > i+1 {
				buf.WriteString(explainValue(value))
				i = j - 1
				continue
			}
		}
		buf.WriteByte(c)
	}
	return buf.String()
}

func explainValue(v any) string {
	if valuer, ok := v.(driver.Valuer); ok {
		v, _ = valuer.Value()
	}

	switch v := v.(type) {
	case nil:
		return "NULL"
	case bool:
		return fmt.Sprint(v)
	case time.Time:
		return escaper + v.Format("2006-01-02 15:04:05") + escaper
	case *time.Time:
		if v == nil {
			return "NULL"
		}
		return escaper + v.Format("2006-01-02 15:04:05") + escaper
	case []byte:
		if isPrintable(v) {
			return escaper + strings.ReplaceAll(string(v), escaper, "\\"+escaper) + escaper
		}
		return escaper + "<binary>" + escaper
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float64, float32:
		return fmt.Sprintf("%.6f", v)
	case string:
		return escaper + strings.ReplaceAll(v, escaper, "\\"+escaper) + escaper
	}
	return escaper + strings.ReplaceAll(fmt.Sprint(v), escaper, "\\"+escaper) + escaper
}
