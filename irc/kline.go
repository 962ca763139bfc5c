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

// addKLineAndNotify inserts a runtime ban, persists it, and reports the
// outcome the same way removal does.
func (server *Server) addKLineAndNotify(client *Client, actor, userPattern, hostPattern, reason string) {
	record := server.klines.Add(userPattern, hostPattern, reason, actor, bans.OriginRuntime)
	if err := server.storeKLine(record); err != nil {
		server.logger.Error("bans", "could not persist K-Line", err.Error())
		if client != nil {
			client.Notice(fmt.Sprintf("Could not successfully save new K-Line: %s", err.Error()))
		}
		return
	}

	if client != nil {
		client.Notice(fmt.Sprintf("Added K-Line [%s@%s]", userPattern, hostPattern))
	}
	server.snomasks.Send(sno.LocalXline, fmt.Sprintf(ircfmt.Unescape("%s$r added K-Line for [%s@%s] (%s)"), actor, userPattern, hostPattern, reason))
	server.logger.Info("bans", fmt.Sprintf("%s added K-Line for [%s@%s] (%s)", actor, userPattern, hostPattern, reason))
}

// KLINE <user>@<host> [ON <server-mask>] [<reason>]
func klineHandler(server *Server, client *Client, msg ircmsg.Message) {
	if !client.HasOperCapab("kline") {
		client.SendNumeric(ERR_NOPRIVS, "kline", "Insufficient oper privileges")
		return
	}

	userPattern, hostPattern, targetServer, rest, err := parseBanTarget(msg.Params)
	if err != nil {
		client.SendNumeric(ERR_NEEDMOREPARAMS, msg.Command, "Not enough parameters")
		return
	}

	reason := "No reason given"
	if len(rest) > 0 {
		reason = strings.Join(rest, " ")
	}

	if targetServer != "" {
		server.PropagateToMatchingPeers(client.NickMask(), targetServer, caps.Kln, nil,
			"KLINE", targetServer, userPattern, hostPattern, reason)

		if !matchServerName(targetServer, server.name) {
			return
		}
	} else {
		server.ClusterDistribute(client.NickMask(), "KLINE", "*", userPattern, hostPattern, reason)
	}

	server.addKLineAndNotify(client, client.OperName(), userPattern, hostPattern, reason)
}

// KLINE <target-server-mask> <user> <host> <reason>  (from a peer server)
func serverKlineHandler(server *Server, peer *Peer, msg ircmsg.Message) {
	if len(msg.Params) != 4 {
		return
	}
	targetServer, userPattern, hostPattern, reason := msg.Params[0], msg.Params[1], msg.Params[2], msg.Params[3]
	if targetServer == "" || userPattern == "" || hostPattern == "" || reason == "" {
		return
	}

	server.PropagateToMatchingPeers(msg.Source, targetServer, caps.Kln, peer,
		"KLINE", targetServer, userPattern, hostPattern, reason)

	if !matchServerName(targetServer, server.name) {
		return
	}

	originServer, originUser, originHost, isService := originOf(server, peer, msg)
	if isService || server.trust.Find(ActionKline, originServer, originUser, originHost) != nil {
		actor := fmt.Sprintf("%s (on %s)", msg.Source, originServer)
		server.addKLineAndNotify(nil, actor, userPattern, hostPattern, reason)
	}
}

// loadStaticBans reloads config-file bans into the registry; they are
// flagged so runtime removal can refuse to touch them.
func (server *Server) loadStaticBans(config *Config) {
	server.klines.ClearStatic()
	for _, ban := range config.Bans {
		userPattern, hostPattern, err := splitBanMask(ban.Mask)
		if err != nil {
			continue
		}
		reason := ban.Reason
		if reason == "" {
			reason = "No reason given"
		}
		server.klines.Add(userPattern, hostPattern, reason, "<config>", bans.OriginStatic)
	}
}
