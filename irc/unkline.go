// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"fmt"
	"strings"

	"github.com/ergochat/irc-go/ircfmt"
	"github.com/ergochat/irc-go/ircmsg"

	"github.com/banshee-irc/banshee/irc/bans"
	"github.com/banshee-irc/banshee/irc/caps"
	"github.com/banshee-irc/banshee/irc/sno"
)

// parseBanTarget parses `<user>@<host> [ON <server-mask>]` from an
// oper-issued KLINE/UNKLINE, returning the remaining params.
func parseBanTarget(params []string) (userPattern, hostPattern, targetServer string, rest []string, err error) {
	userPattern, hostPattern, err = splitBanMask(params[0])
	if err != nil {
		return
	}
	rest = params[1:]
	if len(rest) >= 2 && strings.ToUpper(rest[0]) == "ON" {
		targetServer = rest[1]
		rest = rest[2:]
	}
	return
}

// removeKLineAndNotify applies a revocation to the registry and reports
// the outcome: a confirmation to the requesting operator (when there is
// one), an oper-broadcast notice, and an audit log entry. Peer-originated
// failures are silent; the server protocol has no negative acknowledgment
// for this message.
func (server *Server) removeKLineAndNotify(client *Client, actor, userPattern, hostPattern string) {
	switch server.klines.Remove(userPattern, hostPattern) {
	case bans.NotFound:
		if client != nil {
			client.Notice(fmt.Sprintf("No K-Line for [%s@%s] found", userPattern, hostPattern))
		}
		return
	case bans.Protected:
		if client != nil {
			client.Notice(fmt.Sprintf("The K-Line for [%s@%s] is in the config file and must be removed by hand", userPattern, hostPattern))
		}
		return
	}

	server.deleteStoredKLine(userPattern, hostPattern)

	if client != nil {
		client.Notice(fmt.Sprintf("K-Line for [%s@%s] is removed", userPattern, hostPattern))
	}
	server.snomasks.Send(sno.LocalXline, fmt.Sprintf(ircfmt.Unescape("%s$r has removed the K-Line for: [%s@%s]"), actor, userPattern, hostPattern))
	server.logger.Info("bans", fmt.Sprintf("%s removed K-Line for [%s@%s]", actor, userPattern, hostPattern))
}

// UNKLINE <user>@<host> [ON <server-mask>]
func unklineHandler(server *Server, client *Client, msg ircmsg.Message) {
	if !client.HasOperCapab("unkline") {
		client.SendNumeric(ERR_NOPRIVS, "unkline", "Insufficient oper privileges")
		return
	}

	userPattern, hostPattern, targetServer, _, err := parseBanTarget(msg.Params)
	if err != nil {
		client.SendNumeric(ERR_NEEDMOREPARAMS, msg.Command, "Not enough parameters")
		return
	}

	if targetServer != "" {
		server.PropagateToMatchingPeers(client.NickMask(), targetServer, caps.Unkln, nil,
			"UNKLINE", targetServer, userPattern, hostPattern)

		// allow ON to apply the removal here as well if it matches us
		if !matchServerName(targetServer, server.name) {
			return
		}
	} else {
		server.ClusterDistribute(client.NickMask(), "UNKLINE", "*", userPattern, hostPattern)
	}

	server.removeKLineAndNotify(client, client.OperName(), userPattern, hostPattern)
}

// UNKLINE <target-server-mask> <user> <host>  (from a peer server)
func serverUnklineHandler(server *Server, peer *Peer, msg ircmsg.Message) {
	if len(msg.Params) != 3 {
		return
	}
	targetServer, userPattern, hostPattern := msg.Params[0], msg.Params[1], msg.Params[2]
	if targetServer == "" || userPattern == "" || hostPattern == "" {
		return
	}

	// re-flood before the local authorization decision is taken
	server.PropagateToMatchingPeers(msg.Source, targetServer, caps.Unkln, peer,
		"UNKLINE", targetServer, userPattern, hostPattern)

	if !matchServerName(targetServer, server.name) {
		return
	}

	originServer, originUser, originHost, isService := originOf(server, peer, msg)
	if isService || server.trust.Find(ActionUnkline, originServer, originUser, originHost) != nil {
		actor := fmt.Sprintf("%s (on %s)", msg.Source, originServer)
		server.removeKLineAndNotify(nil, actor, userPattern, hostPattern)
	}
}
