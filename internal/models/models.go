// Package models declares the entities managed by the haku command
package models

import "github.com/hakuorm/haku/schema"

// Factories of every model
func Factories() []schema.Factory {
	return []schema.Factory{
		func() schema.Declarer { return &User{} },
		func() schema.Declarer { return &Post{} },
	}
}
