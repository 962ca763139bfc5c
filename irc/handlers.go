// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
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
	"github.com/banshee-irc/banshee/irc/flatip"
	"github.com/banshee-irc/banshee/irc/passwd"
	"github.com/banshee-irc/banshee/irc/sno"
)

// NICK <nickname>
func nickHandler(server *Server, client *Client, msg ircmsg.Message) {
	nick := msg.Params[0]
	if strings.ContainsAny(nick, " !@*?") || len(nick) == 0 {
		client.SendNumeric(ERR_ERRONEUSNICKNAME, nick, "Erroneous nickname")
		return
	}
	client.nick = nick
	if !client.registered {
		server.tryRegister(client)
	}
}

// USER <username> <hostname> <servername> <realname>
func userHandler(server *Server, client *Client, msg ircmsg.Message) {
	if client.username != "" {
		client.SendNumeric(ERR_ALREADYREGISTRED, "You may not reregister")
		return
	}
	client.username = msg.Params[0]
	client.realname = msg.Params[3]
	server.tryRegister(client)
}

func (server *Server) tryRegister(client *Client) {
	if client.nick == "*" || client.username == "" {
		return
	}

	// enforce active bans before the welcome
	ip := flatip.FromNetIP(client.socket.IP())
	if record := server.klines.Match(client.username, client.hostname, ip); record != nil {
		client.SendNumeric(ERR_YOUREBANNEDCREEP, fmt.Sprintf("You are banned from this server (%s)", record.Reason))
		server.snomasks.Send(sno.LocalConnects, fmt.Sprintf("Rejected connection from banned client %s", client.NickMask()))
		client.Quit("You are banned from this server")
		return
	}

	client.registered = true
	client.SendNumeric(RPL_WELCOME, fmt.Sprintf("Welcome to the %s IRC Network %s", server.networkName, client.NickMask()))
	client.SendNumeric(RPL_YOURHOST, fmt.Sprintf("Your host is %s, running banshee", server.name))
	server.snomasks.Send(sno.LocalConnects, fmt.Sprintf("Client connected [%s]", client.NickMask()))
}

// PASS <password>
func passHandler(server *Server, peer *Peer, msg ircmsg.Message) {
	peer.password = msg.Params[0]
}

// CAPAB :<token>{ <token>}
func capabHandler(server *Server, peer *Peer, msg ircmsg.Message) {
	for _, token := range strings.Fields(msg.Params[0]) {
		peer.caps.Enable(caps.Capability(strings.ToUpper(token)))
	}
}

// SERVER <name>
func serverHandler(server *Server, peer *Peer, msg ircmsg.Message) {
	name := strings.ToLower(msg.Params[0])

	linkConfig := server.config.Links[name]
	if linkConfig == nil {
		server.logger.Warning("server", "connection attempt from unconfigured server", name)
		peer.Close()
		return
	}
	if passwd.CompareHashAndPassword([]byte(linkConfig.Password), []byte(peer.password)) != nil {
		server.logger.Warning("server", "bad link password from", name)
		peer.Close()
		return
	}
	if server.peers[name] != nil {
		server.logger.Warning("server", errPeerNameConflict.Error(), name)
		peer.Close()
		return
	}

	peer.name = name
	peer.cluster = linkConfig.Cluster
	peer.registered = true
	server.peers[name] = peer

	// complete our half of the handshake
	peer.Send("", "CAPAB", caps.NewSet(caps.Kln, caps.Unkln).String())
	peer.Send("", "SERVER", server.name)

	server.logger.Info("server", "linked to server", name)
	server.snomasks.Send(sno.LocalServers, fmt.Sprintf("Server %s linked (capabs: %s)", name, peer.caps.String()))
}

// PING <token>
func pingHandler(server *Server, client *Client, msg ircmsg.Message) {
	client.Send(server.name, "PONG", server.name, msg.Params[0])
}

func peerPingHandler(server *Server, peer *Peer, msg ircmsg.Message) {
	peer.Send(server.name, "PONG", server.name, msg.Params[0])
}

// QUIT [<message>]
func quitHandler(server *Server, client *Client, msg ircmsg.Message) {
	reason := "Quit"
	if len(msg.Params) > 0 {
		reason = "Quit: " + msg.Params[0]
	}
	client.Quit(reason)
}

// OPER <name> <password>
func operHandler(server *Server, client *Client, msg ircmsg.Message) {
	name := strings.ToLower(msg.Params[0])
	oper := server.operators[name]
	if oper == nil {
		client.SendNumeric(ERR_NOOPERHOST, "No O-lines for your host")
		return
	}
	if passwd.CompareHashAndPassword(oper.Pass, []byte(msg.Params[1])) != nil {
		client.SendNumeric(ERR_PASSWDMISMATCH, "Password incorrect")
		return
	}

	client.oper = oper
	server.snomasks.AddMasks(client, sno.ValidMasks...)
	client.SendNumeric(RPL_YOUREOPER, "You are now an IRC operator")
	client.Notice(fmt.Sprintf("Server notice masks enabled: +%s", server.snomasks.MasksEnabled(client).String()))
	server.snomasks.Send(sno.LocalOpers, fmt.Sprintf(ircfmt.Unescape("Client opered up $c[grey][$r%s$c[grey], $r%s$c[grey]]"), client.NickMask(), oper.Name))
	server.logger.Info("opers", fmt.Sprintf("%s opered up as %s", client.NickMask(), oper.Name))
}

// STATS <query>
func statsHandler(server *Server, client *Client, msg ircmsg.Message) {
	query := msg.Params[0]
	switch query {
	case "k", "K":
		for _, record := range server.klines.AllBans() {
			flag := "k"
			if record.Origin == bans.OriginStatic {
				flag = "K"
			}
			client.SendNumeric(RPL_STATSKLINE, flag, record.HostPattern, "*", record.UserPattern, record.Reason)
		}
	}
	client.SendNumeric(RPL_ENDOFSTATS, query, "End of STATS report")
}

// splitSourceMask splits a nick!user@host message source into its user
// and host parts; either may come back empty for a bare or partial
// prefix.
func splitSourceMask(source string) (username, hostname string) {
	if i := strings.IndexByte(source, '!'); i != -1 {
		source = source[i+1:]
	}
	if i := strings.IndexByte(source, '@'); i != -1 {
		username = source[:i]
		hostname = source[i+1:]
	}
	return
}

// originOf reconstructs the claimed origin of a peer-propagated request:
// the username and hostname come from the message source prefix, and the
// directly connected peer vouches for them, so its name is the origin
// server matched against trust grants.
func originOf(server *Server, peer *Peer, msg ircmsg.Message) (serverName, username, hostname string, isService bool) {
	serverName = peer.name
	username, hostname = splitSourceMask(msg.Source)
	for _, pattern := range server.services {
		if matchServerName(pattern, serverName) {
			isService = true
			return
		}
	}
	return
}
