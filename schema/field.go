package schema

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// Kind abstract storage type of a field
type Kind string

const (
	Unknown  Kind = ""
	Int      Kind = "int"
	BigInt   Kind = "bigint"
	Uint     Kind = "uint"
	BigUint  Kind = "biguint"
	Float    Kind = "float"
	String   Kind = "string"
	Bool     Kind = "bool"
	Time     Kind = "time"
	Geometry Kind = "point"
	Binary   Kind = "binary"
	JSON     Kind = "json"
)

// Integer reports whether values of the kind are whole numbers
func (k Kind) Integer() bool {
	switch k {
	case Int, BigInt, Uint, BigUint:
		return true
	}
	return false
}

// Field metadata of a declared model field
type Field struct {
	Name             string
	DBName           string
	Kind             Kind
	PrimaryKey       bool
	ReadOnly         bool
	Nullable         bool
	ColumnType       string
	Timestamp        bool
	TimestampDefault bool
	Unfiltered       bool
	Omitted          bool
	Included         bool
	Aggregate        string
	Spatial          bool
	Rules            RuleSet
}

// Stored reports whether the field is backed by a table column
func (field *Field) Stored() bool {
	return field.Aggregate == "" || field.Spatial
}

// Persisted reports whether the field belongs to a record filtered for persistence write
func (field *Field) Persisted() bool {
	return field.Stored() && (!field.Timestamp || field.Unfiltered)
}

// Binding instance accessor of a declared field
type Binding struct {
	Name   string
	Kind   Kind
	get    func() any
	set    func(any) error
	mutate func(any) any
}

// Get returns the in-memory value of the field
func (b *Binding) Get() any {
	return b.get()
}

// CanSet reports whether the field has a setter
func (b *Binding) CanSet() bool {
	return b.set != nil
}

// Set assigns a driver or user value to the field, converting it to the bound type
func (b *Binding) Set(value any) error {
	if b.set == nil {
		return fmt.Errorf("field %s: %w", b.Name, ErrMissingSetter)
	}
	if err := b.set(value); err != nil {
		return fmt.Errorf("field %s: %w", b.Name, err)
	}
	return nil
}

// Mutate applies the field's mutator hook, if any
func (b *Binding) Mutate(value any) any {
	if b.mutate == nil {
		return value
	}
	return b.mutate(value)
}

// Value returns the storage value of the field, ready to be bound as a statement parameter
func (b *Binding) Value() (any, error) {
	value := b.get()
	if value == nil {
		return nil, nil
	}

	switch b.Kind {
	case JSON:
		if raw, ok := value.(json.RawMessage); ok {
			return string(raw), nil
		}
		bs, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", b.Name, err)
		}
		return string(bs), nil
	}

	if valuer, ok := value.(driver.Valuer); ok {
		if _, isPoint := value.(Point); !isPoint {
			return valuer.Value()
		}
	}
	return value, nil
}

// bind builds the accessor pair for a pointer to a model field
func bind(name string, ptr any) (*Binding, bool, error) {
	b := &Binding{Name: name}
	nullable := false

	switch p := ptr.(type) {
	case *int:
		b.Kind = Int
		b.get = func() any { return *p }
		b.set = func(v any) error {
			i, err := toInt64(v)
			*p = int(i)
			return err
		}
	case *int32:
		b.Kind = Int
		b.get = func() any { return *p }
		b.set = func(v any) error {
			i, err := toInt64(v)
			*p = int32(i)
			return err
		}
	case *int64:
		b.Kind = BigInt
		b.get = func() any { return *p }
		b.set = func(v any) (err error) {
			*p, err = toInt64(v)
			return err
		}
	case *uint:
		b.Kind = Uint
		b.get = func() any { return *p }
		b.set = func(v any) error {
			i, err := toInt64(v)
			*p = uint(i)
			return err
		}
	case *uint32:
		b.Kind = Uint
		b.get = func() any { return *p }
		b.set = func(v any) error {
			i, err := toInt64(v)
			*p = uint32(i)
			return err
		}
	case *uint64:
		b.Kind = BigUint
		b.get = func() any { return *p }
		b.set = func(v any) error {
			i, err := toInt64(v)
			*p = uint64(i)
			return err
		}
	case *float32:
		b.Kind = Float
		b.get = func() any { return *p }
		b.set = func(v any) error {
			f, err := toFloat64(v)
			*p = float32(f)
			return err
		}
	case *float64:
		b.Kind = Float
		b.get = func() any { return *p }
		b.set = func(v any) (err error) {
			*p, err = toFloat64(v)
			return err
		}
	case *string:
		b.Kind = String
		b.get = func() any { return *p }
		b.set = func(v any) (err error) {
			*p, err = toString(v)
			return err
		}
	case *bool:
		b.Kind = Bool
		b.get = func() any { return *p }
		b.set = func(v any) (err error) {
			*p, err = toBool(v)
			return err
		}
	case *time.Time:
		b.Kind = Time
		b.get = func() any { return *p }
		b.set = func(v any) (err error) {
			*p, err = toTime(v)
			return err
		}
	case *[]byte:
		b.Kind = Binary
		b.get = func() any {
			if *p == nil {
				return nil
			}
			return *p
		}
		b.set = func(v any) error {
			switch data := v.(type) {
			case nil:
				*p = nil
			case []byte:
				*p = append([]byte(nil), data...)
			case string:
				*p = []byte(data)
			default:
				return fmt.Errorf("cannot convert %T to []byte", v)
			}
			return nil
		}
	case *Point:
		b.Kind = Geometry
		b.get = func() any { return *p }
		b.set = func(v any) (err error) {
			*p, err = toPoint(v)
			return err
		}
	case **int64:
		b.Kind, nullable = BigInt, true
		b.get = func() any {
			if *p == nil {
				return nil
			}
			return **p
		}
		b.set = func(v any) error {
			if v == nil {
				*p = nil
				return nil
			}
			i, err := toInt64(v)
			*p = &i
			return err
		}
	case **int:
		b.Kind, nullable = Int, true
		b.get = func() any {
			if *p == nil {
				return nil
			}
			return **p
		}
		b.set = func(v any) error {
			if v == nil {
				*p = nil
				return nil
			}
			i, err := toInt64(v)
			n := int(i)
			*p = &n
			return err
		}
	case **float64:
		b.Kind, nullable = Float, true
		b.get = func() any {
			if *p == nil {
				return nil
			}
			return **p
		}
		b.set = func(v any) error {
			if v == nil {
				*p = nil
				return nil
			}
			f, err := toFloat64(v)
			*p = &f
			return err
		}
	case **string:
		b.Kind, nullable = String, true
		b.get = func() any {
			if *p == nil {
				return nil
			}
			return **p
		}
		b.set = func(v any) error {
			if v == nil {
				*p = nil
				return nil
			}
			s, err := toString(v)
			*p = &s
			return err
		}
	case **bool:
		b.Kind, nullable = Bool, true
		b.get = func() any {
			if *p == nil {
				return nil
			}
			return **p
		}
		b.set = func(v any) error {
			if v == nil {
				*p = nil
				return nil
			}
			t, err := toBool(v)
			*p = &t
			return err
		}
	case **time.Time:
		b.Kind, nullable = Time, true
		b.get = func() any {
			if *p == nil {
				return nil
			}
			return **p
		}
		b.set = func(v any) error {
			if v == nil {
				*p = nil
				return nil
			}
			t, err := toTime(v)
			*p = &t
			return err
		}
	case **Point:
		b.Kind, nullable = Geometry, true
		b.get = func() any {
			if *p == nil {
				return nil
			}
			return **p
		}
		b.set = func(v any) error {
			if v == nil {
				*p = nil
				return nil
			}
			pt, err := toPoint(v)
			*p = &pt
			return err
		}
	case *map[string]any:
		b.Kind, nullable = JSON, true
		b.get = func() any {
			if *p == nil {
				return nil
			}
			return *p
		}
		b.set = func(v any) error { return setJSON(p, v) }
	case *[]string:
		b.Kind, nullable = JSON, true
		b.get = func() any {
			if *p == nil {
				return nil
			}
			return *p
		}
		b.set = func(v any) error { return setJSON(p, v) }
	case *[]any:
		b.Kind, nullable = JSON, true
		b.get = func() any {
			if *p == nil {
				return nil
			}
			return *p
		}
		b.set = func(v any) error { return setJSON(p, v) }
	case *json.RawMessage:
		b.Kind, nullable = JSON, true
		b.get = func() any {
			if *p == nil {
				return nil
			}
			return *p
		}
		b.set = func(v any) error {
			switch data := v.(type) {
			case nil:
				*p = nil
			case []byte:
				*p = append(json.RawMessage(nil), data...)
			case string:
				*p = json.RawMessage(data)
			default:
				bs, err := json.Marshal(data)
				if err != nil {
					return err
				}
				*p = bs
			}
			return nil
		}
	case sql.Scanner:
		b.Kind, nullable = Unknown, true
		b.get = func() any {
			if valuer, ok := p.(driver.Valuer); ok {
				v, err := valuer.Value()
				if err == nil {
					return v
				}
			}
			return p
		}
		b.set = p.Scan
	default:
		return nil, false, fmt.Errorf("%w %T", ErrUnsupportedType, ptr)
	}

	return b, nullable, nil
}

func setJSON[T any](p *T, v any) error {
	var zero T
	switch data := v.(type) {
	case nil:
		*p = zero
		return nil
	case T:
		*p = data
		return nil
	case []byte:
		return json.Unmarshal(data, p)
	case string:
		return json.Unmarshal([]byte(data), p)
	}

	bs, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(bs, p)
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows int64", n)
		}
		return int64(n), nil
	case float32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	case []byte:
		return strconv.ParseInt(strings.TrimSpace(string(n)), 10, 64)
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	}
	return 0, fmt.Errorf("cannot convert %T to integer", v)
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	}
	i, err := toInt64(v)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %T to float", v)
	}
	return float64(i), nil
}

func toString(v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	case time.Time:
		return s.Format(time.DateTime), nil
	case fmt.Stringer:
		return s.String(), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
		return fmt.Sprint(s), nil
	}
	return "", fmt.Errorf("cannot convert %T to string", v)
}

func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	case []byte:
		return strconv.ParseBool(strings.TrimSpace(string(b)))
	case string:
		return strconv.ParseBool(strings.TrimSpace(b))
	}
	i, err := toInt64(v)
	if err != nil {
		return false, fmt.Errorf("cannot convert %T to bool", v)
	}
	return i != 0, nil
}

func toTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return t, nil
	case *time.Time:
		if t == nil {
			return time.Time{}, nil
		}
		return *t, nil
	case []byte:
		return now.Parse(string(t))
	case string:
		return now.Parse(t)
	}
	return time.Time{}, fmt.Errorf("cannot convert %T to time", v)
}

func toPoint(v any) (Point, error) {
	switch p := v.(type) {
	case nil:
		return Point{}, nil
	case Point:
		return p, nil
	case *Point:
		if p == nil {
			return Point{}, nil
		}
		return *p, nil
	case []byte:
		return ParsePoint(string(p))
	case string:
		return ParsePoint(p)
	}
	return Point{}, fmt.Errorf("cannot convert %T to point", v)
}

// Point spatial value persisted as WKT text
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String WKT representation, longitude first
func (p Point) String() string {
	return "POINT(" + strconv.FormatFloat(p.Lng, 'f', -1, 64) + " " + strconv.FormatFloat(p.Lat, 'f', -1, 64) + ")"
}

// Value implements the driver Valuer interface.
func (p Point) Value() (driver.Value, error) {
	return p.String(), nil
}

// Placeholder wraps the bound WKT parameter so the column receives a geometry
func (p Point) Placeholder(param string) string {
	return "ST_GeomFromText(:" + param + ")"
}

// ParsePoint parse WKT `POINT(lng lat)`
func ParsePoint(wkt string) (Point, error) {
	s := strings.TrimSpace(wkt)
	if len(s) < 7 || !strings.EqualFold(s[:5], "POINT") {
		return Point{}, fmt.Errorf("invalid point %q", wkt)
	}

	s = strings.TrimSpace(s[5:])
	s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	coords := strings.Fields(s)
	if len(coords) != 2 {
		return Point{}, fmt.Errorf("invalid point %q", wkt)
	}

	lng, err := strconv.ParseFloat(coords[0], 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid point %q: %w", wkt, err)
	}
	lat, err := strconv.ParseFloat(coords[1], 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid point %q: %w", wkt, err)
	}
	return Point{Lat: lat, Lng: lng}, nil
}
