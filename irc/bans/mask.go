// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package bans

import (
	"strings"

	"github.com/banshee-irc/banshee/irc/flatip"
	"github.com/banshee-irc/banshee/irc/utils"
)

// MaskClass is the syntactic category of a host pattern.
type MaskClass uint

const (
	// ClassLiteral is a plain hostname with no wildcards.
	ClassLiteral MaskClass = iota
	// ClassWildcard is a hostname glob containing `*` or `?`.
	ClassWildcard
	// ClassCIDR is a numeric address, optionally with a prefix length.
	ClassCIDR
	// ClassInvalid is a pattern we refuse to match anything against.
	ClassInvalid
)

// ClassifyHost determines how a host pattern will be matched. Strict
// numeric parsing is attempted first; anything non-numeric is a hostname
// glob or literal. The parsed network is returned for CIDR patterns.
func ClassifyHost(host string) (class MaskClass, ipnet flatip.IPNet) {
	if host == "" || strings.ContainsAny(host, " \t!@") {
		return ClassInvalid, ipnet
	}
	ipnet, err := flatip.ParseToNormalizedNet(host)
	if err == nil {
		return ClassCIDR, ipnet
	}
	if strings.ContainsAny(host, "*?") {
		return ClassWildcard, flatip.IPNet{}
	}
	return ClassLiteral, flatip.IPNet{}
}

// MatchHost tests a candidate hostname (or stringified address) against a
// host pattern: numeric containment for CIDR patterns, case-insensitive
// glob match otherwise.
func MatchHost(pattern, candidate string) bool {
	class, ipnet := ClassifyHost(pattern)
	switch class {
	case ClassCIDR:
		ip, err := flatip.ParseIP(candidate)
		if err != nil {
			return false
		}
		return ipnet.Contains(ip)
	case ClassLiteral, ClassWildcard:
		return utils.GlobMatch(pattern, candidate)
	default:
		return false
	}
}
