// Package kvstore provides the string key-value stores that hold sessions,
// enrollment sets and the event catalog. Values are opaque strings and every
// write replaces the whole value.
package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a synchronous get/set-by-key string store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Observer receives the outcome of every store operation.
type Observer interface {
	ObserveStoreOperation(op string, err error, duration time.Duration)
}

type prefixed struct {
	Store
	prefix string
}

// WithPrefix namespaces every key with prefix. An empty prefix returns s unchanged.
func WithPrefix(s Store, prefix string) Store {
	if prefix == "" {
		return s
	}
	return &prefixed{Store: s, prefix: prefix}
}

func (p *prefixed) Get(ctx context.Context, key string) (string, error) {
	return p.Store.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key, value string) error {
	return p.Store.Set(ctx, p.prefix+key, value)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.Store.Delete(ctx, p.prefix+key)
}

type observed struct {
	Store
	observer Observer
}

// WithObserver reports every Get/Set/Delete to o. A nil observer returns s unchanged.
func WithObserver(s Store, o Observer) Store {
	if o == nil {
		return s
	}
	return &observed{Store: s, observer: o}
}

func (s *observed) Get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	value, err := s.Store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		s.observer.ObserveStoreOperation("get", nil, time.Since(start))
		return value, err
	}
	s.observer.ObserveStoreOperation("get", err, time.Since(start))
	return value, err
}

func (s *observed) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := s.Store.Set(ctx, key, value)
	s.observer.ObserveStoreOperation("set", err, time.Since(start))
	return err
}

func (s *observed) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.Store.Delete(ctx, key)
	s.observer.ObserveStoreOperation("delete", err, time.Since(start))
	return err
}
