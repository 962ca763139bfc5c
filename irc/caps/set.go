// Copyright (c) 2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package caps

import (
	"sort"
	"strings"
	"sync"
)

// Set holds a set of capabilities advertised on a server link.
type Set struct {
	sync.RWMutex
	capabilities map[Capability]bool
}

// NewSet returns a new Set, with the given capabilities enabled.
func NewSet(capabs ...Capability) *Set {
	newSet := Set{
		capabilities: make(map[Capability]bool),
	}
	newSet.Enable(capabs...)

	return &newSet
}

// Enable enables the given capabilities.
func (s *Set) Enable(capabs ...Capability) {
	s.Lock()
	defer s.Unlock()

	for _, capab := range capabs {
		s.capabilities[capab] = true
	}
}

// Disable disables the given capabilities.
func (s *Set) Disable(capabs ...Capability) {
	s.Lock()
	defer s.Unlock()

	for _, capab := range capabs {
		delete(s.capabilities, capab)
	}
}

// Has returns true if this set has the given capabilities.
func (s *Set) Has(caps ...Capability) bool {
	s.RLock()
	defer s.RUnlock()

	for _, cap := range caps {
		if !s.capabilities[cap] {
			return false
		}
	}
	return true
}

// Count returns how many enabled caps this set has.
func (s *Set) Count() int {
	s.RLock()
	defer s.RUnlock()

	return len(s.capabilities)
}

// String returns all of our enabled capabilities as a space-separated
// string, the form they travel in over a CAPAB parameter.
func (s *Set) String() string {
	s.RLock()
	defer s.RUnlock()

	var strs sort.StringSlice

	for capability := range s.capabilities {
		strs = append(strs, capability.Name())
	}

	sort.Sort(strs)

	return strings.Join(strs, " ")
}
