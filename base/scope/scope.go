// Copyright 2025 The kir Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package scope provides name to symbol lookup contexts.
//
// A scope replaces ambient global symbol tables: passes that need to
// resolve a buffer or scalar name receive a scope explicitly. Lookups
// are safe under concurrent readers once the scope is frozen with
// ReadOnly.
package scope

import (
	"fmt"
	"strings"

	"github.com/kir-org/kir/base/ordered"
)

type (
	// Scope provides a set of symbols that can be found given their name.
	Scope[V any] interface {
		// Find returns the symbol associated with a name, if any.
		Find(string) (V, bool)
		// Items returns all the symbols visible from the scope.
		Items() *ordered.Map[string, V]
	}

	roScope[V any] struct {
		parent Scope[V]
		local  *ordered.Map[string, V]
	}
)

func find[V any](key string, local *ordered.Map[string, V], parent Scope[V]) (value V, ok bool) {
	value, ok = local.Load(key)
	if ok || parent == nil {
		return
	}
	return parent.Find(key)
}

func mergeItems[V any](parent Scope[V], local *ordered.Map[string, V]) *ordered.Map[string, V] {
	all := ordered.NewMap[string, V]()
	if parent != nil {
		for k, v := range parent.Items().Iter() {
			all.Store(k, v)
		}
	}
	for k, v := range local.Iter() {
		all.Store(k, v)
	}
	return all
}

// Find returns the symbol associated with a name, if any.
func (s *roScope[V]) Find(key string) (V, bool) {
	return find(key, s.local, s.parent)
}

// Items returns all the symbols visible from the scope.
func (s *roScope[V]) Items() *ordered.Map[string, V] {
	return mergeItems(s.parent, s.local)
}

// RWScope stores name,symbol pairs and implements the Scope interface.
// A symbol is retrieved from its name by querying the scope and,
// if not found, its parents recursively.
type RWScope[V any] struct {
	parent Scope[V]
	local  *ordered.Map[string, V]
}

var _ Scope[any] = (*RWScope[any])(nil)

// NewScope returns a new scope given a parent, which can be nil.
func NewScope[V any](parent Scope[V]) *RWScope[V] {
	return &RWScope[V]{
		parent: parent,
		local:  ordered.NewMap[string, V](),
	}
}

// Define maps a name to a symbol, overwriting if necessary.
func (s *RWScope[V]) Define(k string, v V) {
	s.local.Store(k, v)
}

// IsLocal returns true if the name is defined in the local scope.
func (s *RWScope[V]) IsLocal(key string) bool {
	return s.local.Has(key)
}

// Find a name in the scope and its parents.
func (s *RWScope[V]) Find(key string) (V, bool) {
	return find(key, s.local, s.parent)
}

// Items returns all the symbols visible from the scope.
func (s *RWScope[V]) Items() *ordered.Map[string, V] {
	return mergeItems(s.parent, s.local)
}

// ReadOnly returns a scope to which symbols cannot be defined.
func (s *RWScope[V]) ReadOnly() Scope[V] {
	return &roScope[V]{parent: s.parent, local: s.local}
}

// String representation of the scope.
func (s *RWScope[V]) String() string {
	var kvs []string
	for k, v := range s.Items().Iter() {
		kvs = append(kvs, fmt.Sprintf("%s: %T:%v", k, v, v))
	}
	if len(kvs) == 0 {
		return "empty"
	}
	return strings.Join(kvs, "\n")
}
