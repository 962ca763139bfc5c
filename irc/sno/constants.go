// Copyright (c) 2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

// Package sno holds Server Notice masks for easy reference.
package sno

import "strings"

// Mask is a type of server notice mask.
type Mask rune

// Masks is a slice of masks.
type Masks []Mask

// Notice mask types
const (
	LocalConnects Mask = 'c'
	LocalKills    Mask = 'k'
	LocalOpers    Mask = 'o'
	LocalQuits    Mask = 'q'
	LocalServers  Mask = 's'
	Stats         Mask = 't'
	LocalXline    Mask = 'x'
)

var (
	// NoticeMaskNames has readable names for our snomask types.
	NoticeMaskNames = map[Mask]string{
		LocalConnects: "CONNECT",
		LocalKills:    "KILL",
		LocalOpers:    "OPER",
		LocalQuits:    "QUIT",
		LocalServers:  "SERVER",
		Stats:         "STATS",
		LocalXline:    "XLINE",
	}

	// ValidMasks contains the snomasks that we support.
	ValidMasks = Masks{
		LocalConnects,
		LocalKills,
		LocalOpers,
		LocalQuits,
		LocalServers,
		Stats,
		LocalXline,
	}
)

func (masks Masks) String() string {
	var buf strings.Builder
	buf.Grow(len(masks))
	for _, m := range masks {
		buf.WriteRune(rune(m))
	}
	return buf.String()
}

func (masks Masks) Contains(mask Mask) bool {
	for _, m := range masks {
		if mask == m {
			return true
		}
	}
	return false
}
