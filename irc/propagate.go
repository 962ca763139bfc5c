// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"github.com/banshee-irc/banshee/irc/caps"
	"github.com/banshee-irc/banshee/irc/utils"
)

// matchServerName tests a server name against a target glob pattern.
func matchServerName(pattern, name string) bool {
	return utils.GlobMatch(pattern, name)
}

// PropagateToMatchingPeers floods a message to every directly connected
// peer whose name matches the target pattern and which has advertised the
// required capability, except `exclude` (the link the message came in on).
// Transmission is fire-and-forget: enqueue and move on, no acknowledgment.
func (server *Server) PropagateToMatchingPeers(source, targetPattern string, capab caps.Capability, exclude *Peer, command string, params ...string) {
	for _, peer := range server.peers {
		if peer == exclude || !peer.registered {
			continue
		}
		if !matchServerName(targetPattern, peer.name) {
			continue
		}
		if !peer.caps.Has(capab) {
			continue
		}
		peer.Send(source, command, params...)
	}
}

// ClusterDistribute forwards a message to every configured cluster link,
// with no capability or pattern filtering: cluster peers are assumed
// homogeneous and fully trusted.
func (server *Server) ClusterDistribute(source, command string, params ...string) {
	for _, peer := range server.peers {
		if !peer.cluster || !peer.registered {
			continue
		}
		peer.Send(source, command, params...)
	}
}
