// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package bans

import (
	"strings"
	"time"

	"github.com/banshee-irc/banshee/irc/flatip"
)

// Origin records where a ban came from. Only runtime bans can be removed
// over the wire; static bans live in the config file and stay until the
// next rehash.
type Origin uint

const (
	// OriginStatic is a ban loaded from the configuration file.
	OriginStatic Origin = iota
	// OriginRuntime is a ban added by an operator and kept in the datastore.
	OriginRuntime
)

// BanRecord is a single user@host ban.
type BanRecord struct {
	UserPattern string
	HostPattern string
	// Address is set when HostPattern is numeric.
	Address    flatip.IPNet
	HasAddress bool
	Origin     Origin
	Reason     string
	OperName   string
	TimeSet    time.Time
}

// Mask returns the user@host form of the record.
func (record *BanRecord) Mask() string {
	return record.UserPattern + "@" + record.HostPattern
}

type banKey struct {
	user string
	host string
}

func makeBanKey(userPattern, hostPattern string) banKey {
	return banKey{
		user: strings.ToLower(userPattern),
		host: strings.ToLower(hostPattern),
	}
}

// RemoveResult is the outcome of a removal attempt.
type RemoveResult uint

const (
	// Removed: the record existed and was deleted.
	Removed RemoveResult = iota
	// NotFound: no record has this exact (user, host) pair.
	NotFound
	// Protected: the record is static and cannot be removed at runtime.
	Protected
)

// Registry is the in-memory store of active bans, keyed by the exact
// (user pattern, host pattern) pair. It is owned by the server's main
// goroutine and is not safe for concurrent use.
type Registry struct {
	entries map[banKey]*BanRecord
}

// NewRegistry returns a new Registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[banKey]*BanRecord),
	}
}

// Add inserts a ban record, overwriting any previous record with the same
// (user, host) pair.
func (registry *Registry) Add(userPattern, hostPattern, reason, operName string, origin Origin) *BanRecord {
	record := &BanRecord{
		UserPattern: userPattern,
		HostPattern: hostPattern,
		Origin:      origin,
		Reason:      reason,
		OperName:    operName,
		TimeSet:     time.Now().UTC(),
	}
	if class, ipnet := ClassifyHost(hostPattern); class == ClassCIDR {
		record.Address = ipnet
		record.HasAddress = true
	}
	registry.entries[makeBanKey(userPattern, hostPattern)] = record
	return record
}

// Find looks up a record by its exact pattern pair; this is the lookup
// removal uses, as opposed to the address-overlap lookup enforcement uses.
func (registry *Registry) Find(userPattern, hostPattern string) *BanRecord {
	return registry.entries[makeBanKey(userPattern, hostPattern)]
}

// Remove deletes the record with the given exact pattern pair. Static
// records are never deleted, whoever asks.
func (registry *Registry) Remove(userPattern, hostPattern string) RemoveResult {
	key := makeBanKey(userPattern, hostPattern)
	record := registry.entries[key]
	if record == nil {
		return NotFound
	}
	if record.Origin == OriginStatic {
		return Protected
	}
	delete(registry.entries, key)
	return Removed
}

// ClearStatic drops all static records, ahead of a config rehash
// reloading them.
func (registry *Registry) ClearStatic() {
	for key, record := range registry.entries {
		if record.Origin == OriginStatic {
			delete(registry.entries, key)
		}
	}
}

// Match finds a record banning the given username/hostname/address, for
// enforcement at registration time. CIDR records match on address
// containment, others on a glob over the hostname.
func (registry *Registry) Match(username, hostname string, ip flatip.IP) *BanRecord {
	for _, record := range registry.entries {
		if !MatchHost(record.UserPattern, username) {
			continue
		}
		if record.HasAddress {
			if record.Address.Contains(ip) {
				return record
			}
			continue
		}
		if MatchHost(record.HostPattern, hostname) {
			return record
		}
	}
	return nil
}

// AllBans returns all records (for STATS and the like).
func (registry *Registry) AllBans() []*BanRecord {
	result := make([]*BanRecord, 0, len(registry.entries))
	for _, record := range registry.entries {
		result = append(result, record)
	}
	return result
}

// Count returns the number of active records.
func (registry *Registry) Count() int {
	return len(registry.entries)
}
