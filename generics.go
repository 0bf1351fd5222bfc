package haku

import (
	"fmt"

	"github.com/hakuorm/haku/schema"
)

// As the typed value of a model
func As[T schema.Declarer](m *Model) (T, bool) {
	v, ok := m.Value().(T)
	return v, ok
}

// One typed value of a single model result, e.g. `haku.One[*Todo](m.Find(ctx, 1))`
func One[T schema.Declarer](m *Model, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if m == nil {
		return zero, ErrRecordNotFound
	}
	v, ok := As[T](m)
	if !ok {
		return zero, m.error("as", fmt.Errorf("value is %T, not %T", m.value, zero))
	}
	return v, nil
}

// Many typed values of a model list result
func Many[T schema.Declarer](models []*Model, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	values := make([]T, 0, len(models))
	for _, m := range models {
		v, err := One[T](m, nil)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
