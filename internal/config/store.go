// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"sync/atomic"
)

// Make sure that Store is a Source.
var _ Source = &Store{}

// Store is a Source whose value can be replaced at runtime.
type Store struct {
	current atomic.Pointer[Config]
}

// NewStore returns a Store holding cfg.
func NewStore(cfg Config) *Store {
	store := &Store{}
	store.Set(cfg)
	return store
}

// Current returns the stored configuration, or the defaults for a zero Store.
func (s *Store) Current() Config {
	if cfg := s.current.Load(); cfg != nil {
		return *cfg
	}
	return Default()
}

// Set replaces the stored configuration.
func (s *Store) Set(cfg Config) {
	s.current.Store(&cfg)
}
