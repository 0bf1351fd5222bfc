package tests

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Slug lower-cased, dash separated text stored through sql.Scanner
type Slug struct {
	value string
}

func NewSlug(s string) Slug {
	return Slug{value: slugify(s)}
}

func (s *Slug) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		s.value = ""
	case []byte:
		s.value = slugify(string(v))
	case string:
		s.value = slugify(v)
	default:
		s.value = slugify(fmt.Sprint(v))
	}
	return nil
}

func (s Slug) Value() (driver.Value, error) {
	if s.value == "" {
		return nil, nil
	}
	return s.value, nil
}

func (s Slug) String() string {
	return s.value
}

func slugify(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
