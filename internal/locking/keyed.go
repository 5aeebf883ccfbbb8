// Package locking provides per-key mutual exclusion for guarded
// read-modify-write sequences.
package locking

import (
	"context"
	"sync"
)

type scope struct {
	ch   chan struct{}
	refs int
}

// Keyed serializes operations sharing a key while letting distinct keys
// proceed fully in parallel. The zero value is not usable; call NewKeyed.
type Keyed struct {
	mu     sync.Mutex
	scopes map[string]*scope
}

// NewKeyed returns an empty keyed mutex.
func NewKeyed() *Keyed {
	return &Keyed{scopes: make(map[string]*scope)}
}

// Do acquires the exclusive scope for key, runs fn to completion, and releases
// the scope on every exit path including panics. Acquisition honors ctx, so a
// caller that gives up while waiting never strands the key.
func (k *Keyed) Do(ctx context.Context, key string, fn func() error) error {
	s := k.retain(key)

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		k.release(key, s)
		return ctx.Err()
	}

	defer func() {
		<-s.ch
		k.release(key, s)
	}()

	return fn()
}

func (k *Keyed) retain(key string) *scope {
	k.mu.Lock()
	defer k.mu.Unlock()

	s, ok := k.scopes[key]
	if !ok {
		s = &scope{ch: make(chan struct{}, 1)}
		k.scopes[key] = s
	}
	s.refs++
	return s
}

func (k *Keyed) release(key string, s *scope) {
	k.mu.Lock()
	defer k.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(k.scopes, key)
	}
}
