// Copyright (c) 2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

// Package caps holds the capability tokens a peer server may advertise
// during link negotiation.
package caps

// Capability represents an optional protocol extension a linked server
// has advertised support for.
type Capability string

const (
	// Kln means the peer accepts propagated KLINE messages.
	Kln Capability = "KLN"
	// Unkln means the peer accepts propagated UNKLINE messages.
	Unkln Capability = "UNKLN"
)

// Name returns the name of the given capability.
func (capability Capability) Name() string {
	return string(capability)
}
