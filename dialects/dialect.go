package dialects

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hakuorm/haku/errtranslator"
)

// ErrMissingParam named parameter without value
var ErrMissingParam = errors.New("missing statement parameter")

// Dialect database flavour of a connection
type Dialect interface {
	Name() string
	// BindVar placeholder of the n-th positional argument, starting at 1
	BindVar(n int) string
	Translator() errtranslator.ErrTranslator
}

// Bind rewrite `:name` parameters into positional placeholders of dialect,
// leaving quoted literals and `::` casts untouched
func Bind(dialect Dialect, query string, params map[string]any) (string, []any, error) {
	if len(params) == 0 && !strings.Contains(query, ":") {
		return query, nil, nil
	}

	var (
		w     strings.Builder
		args  []any
		quote byte
	)
	w.Grow(len(query))

	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case quote != 0:
			if c == '\\' && quote != '`' && i+1 < len(query) {
				w.WriteByte(c)
				i++
				c = query[i]
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == ':' && i+1 < len(query) && query[i+1] == ':':
			w.WriteString("::")
			i++
			continue
		case c == ':' && i+1 < len(query) && isNameByte(query[i+1]):
			j := i + 1
			for j < len(query) && isNameByte(query[j]) {
				j++
			}
			name := query[i+1 : j]
			value, ok := params[name]
			if !ok {
				return "", nil, fmt.Errorf("%w: %s", ErrMissingParam, name)
			}
			args = append(args, value)
			w.WriteString(dialect.BindVar(len(args)))
			i = j - 1
			continue
		}
		w.WriteByte(c)
	}
	return w.String(), args, nil
}

func isNameByte(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
