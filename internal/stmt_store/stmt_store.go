package stmt_store

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

const defaultTTL = time.Hour * 24

// ConnPool prepares statements
type ConnPool interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Store prepared statements keyed by SQL, closed once expired or deleted
type Store struct {
	mu    sync.Mutex
	cache *cache.Cache
}

// New statement store; ttl <= 0 keeps statements for a day
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	c := cache.New(ttl, cache.NoExpiration)
	c.OnEvicted(func(_ string, v interface{}) {
		if stmt, ok := v.(*sql.Stmt); ok {
			stmt.Close()
		}
	})
	return &Store{cache: c}
}

// Prepare cached statement of query, preparing it on conn when missing or expired
func (s *Store) Prepare(ctx context.Context, conn ConnPool, query string) (*sql.Stmt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache.Get(query); ok {
		return v.(*sql.Stmt), nil
	}
	s.cache.DeleteExpired()

	stmt, err := conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(query, stmt)
	return stmt, nil
}

// Keys cached queries
func (s *Store) Keys() []string {
	items := s.cache.Items()
	keys := make([]string, 0, len(items))
	for key := range items {
		keys = append(keys, key)
	}
	return keys
}

// Delete close and forget the statement of query
func (s *Store) Delete(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(query)
}

// Close close every cached statement
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.cache.Items() {
		s.cache.Delete(key)
	}
}
