// Copyright (c) 2021 Shivaram Lingamneni
// released under the MIT license

package irc

import (
	"github.com/banshee-irc/banshee/irc/utils"
)

// Remote actions a trust grant can authorize.
const (
	ActionKline   = "kline"
	ActionUnkline = "unkline"
)

// TrustGrant authorizes a remote principal to perform ban actions on this
// server. Patterns are globs over the claimed origin's server name,
// username, and hostname.
type TrustGrant struct {
	ServerPattern string
	UserPattern   string
	HostPattern   string
	actions       map[string]bool
}

// Allows returns whether the grant covers the given action.
func (grant *TrustGrant) Allows(action string) bool {
	return grant.actions[action]
}

// TrustStore holds the configured trust grants. It is read-only between
// rehashes and is owned by the server's main goroutine.
type TrustStore struct {
	grants []TrustGrant
}

// NewTrustStore returns a TrustStore over the given grants.
func NewTrustStore(grants []TrustGrant) *TrustStore {
	return &TrustStore{grants: grants}
}

// Find returns the first grant matching the claimed origin and covering
// the requested action, or nil if the origin is not trusted.
func (store *TrustStore) Find(action, serverName, username, hostname string) *TrustGrant {
	for i := range store.grants {
		grant := &store.grants[i]
		if !grant.Allows(action) {
			continue
		}
		if utils.GlobMatch(grant.ServerPattern, serverName) &&
			utils.GlobMatch(grant.UserPattern, username) &&
			utils.GlobMatch(grant.HostPattern, hostname) {
			return grant
		}
	}
	return nil
}

// Count returns the number of configured grants.
func (store *TrustStore) Count() int {
	return len(store.grants)
}
