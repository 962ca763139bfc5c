// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package bans

import (
	"testing"
)

func assertClass(host string, expected MaskClass, t *testing.T) {
	class, _ := ClassifyHost(host)
	if class != expected {
		t.Errorf("expected %s to classify as %d, got %d", host, expected, class)
	}
}

func TestClassifyHost(t *testing.T) {
	assertClass("example.com", ClassLiteral, t)
	assertClass("tor-network.onion", ClassLiteral, t)
	assertClass("*.bad.example", ClassWildcard, t)
	assertClass("host?.example.com", ClassWildcard, t)
	assertClass("1.2.3.4", ClassCIDR, t)
	assertClass("10.0.0.0/24", ClassCIDR, t)
	assertClass("2001:db8::/32", ClassCIDR, t)
	assertClass("2001:db8::1", ClassCIDR, t)
	assertClass("", ClassInvalid, t)
	assertClass("not a hostname", ClassInvalid, t)
	assertClass("nick!user@host", ClassInvalid, t)
}

func assertHostMatch(pattern, candidate string, match bool, t *testing.T) {
	if MatchHost(pattern, candidate) != match {
		t.Errorf("should %s match %s? %t, but got %t instead", pattern, candidate, match, !match)
	}
}

func TestMatchHost(t *testing.T) {
	// glob patterns
	assertHostMatch("*.bad.example", "host1.bad.example", true, t)
	assertHostMatch("*.bad.example", "bad.example", false, t)
	assertHostMatch("HOST?.example.com", "host1.example.com", true, t)
	assertHostMatch("example.com", "example.com", true, t)
	assertHostMatch("example.com", "www.example.com", false, t)

	// numeric containment
	assertHostMatch("10.0.0.0/24", "10.0.0.55", true, t)
	assertHostMatch("10.0.0.0/24", "10.0.1.55", false, t)
	assertHostMatch("1.2.3.4", "1.2.3.4", true, t)
	assertHostMatch("1.2.3.4", "1.2.3.5", false, t)
	assertHostMatch("2001:db8::/32", "2001:db8::dead:beef", true, t)

	// a hostname candidate never matches a numeric pattern
	assertHostMatch("10.0.0.0/24", "host1.bad.example", false, t)
}
