// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"strings"

	"github.com/ergochat/irc-go/ircmsg"
)

type clientHandler func(server *Server, client *Client, msg ircmsg.Message)
type peerHandler func(server *Server, peer *Peer, msg ircmsg.Message)

// Command routes one verb to a handler per connection role, like the
// original per-role message tables: an arm left nil falls back to a
// role-appropriate default (a numeric for clients, silence for servers).
type Command struct {
	minParams int
	// handlers by role
	unregClient clientHandler
	unregServer peerHandler
	client      clientHandler
	oper        clientHandler
	server      peerHandler
}

// Run dispatches msg on the given connection; exactly one of client and
// peer is non-nil.
func (cmd *Command) Run(server *Server, client *Client, peer *Peer, msg ircmsg.Message) {
	if peer != nil {
		if len(msg.Params) < cmd.minParams {
			// no error replies across server links
			return
		}
		if !peer.registered {
			if cmd.unregServer != nil {
				cmd.unregServer(server, peer, msg)
			}
			return
		}
		if cmd.server != nil {
			cmd.server(server, peer, msg)
		}
		return
	}

	if !client.registered {
		if cmd.unregClient == nil {
			client.SendNumeric(ERR_NOTREGISTERED, "You need to register before you can use that command")
			return
		}
		if len(msg.Params) < cmd.minParams {
			client.SendNumeric(ERR_NEEDMOREPARAMS, msg.Command, "Not enough parameters")
			return
		}
		cmd.unregClient(server, client, msg)
		return
	}

	if len(msg.Params) < cmd.minParams {
		client.SendNumeric(ERR_NEEDMOREPARAMS, msg.Command, "Not enough parameters")
		return
	}

	handler := cmd.client
	if client.oper != nil && cmd.oper != nil {
		handler = cmd.oper
	}
	if handler == nil {
		if cmd.oper != nil {
			// the command exists, but only for operators
			client.SendNumeric(ERR_NOPRIVILEGES, "Permission Denied - You're not an IRC operator")
		} else {
			client.SendNumeric(ERR_UNKNOWNCOMMAND, msg.Command, "Unknown command")
		}
		return
	}
	handler(server, client, msg)
}

// Commands holds all commands executable on this server.
var Commands map[string]Command

func init() {
	Commands = map[string]Command{
		"NICK": {
			minParams:   1,
			unregClient: nickHandler,
			client:      nickHandler,
		},
		"USER": {
			minParams:   4,
			unregClient: userHandler,
		},
		"PASS": {
			minParams:   1,
			unregServer: passHandler,
		},
		"CAPAB": {
			minParams:   1,
			unregServer: capabHandler,
		},
		"SERVER": {
			minParams:   1,
			unregServer: serverHandler,
		},
		"PING": {
			minParams: 1,
			client:    pingHandler,
			server:    peerPingHandler,
		},
		"QUIT": {
			client: quitHandler,
		},
		"OPER": {
			minParams: 2,
			client:    operHandler,
		},
		"STATS": {
			minParams: 1,
			oper:      statsHandler,
		},
		"KLINE": {
			minParams: 1,
			oper:      klineHandler,
			server:    serverKlineHandler,
		},
		"UNKLINE": {
			minParams: 1,
			oper:      unklineHandler,
			server:    serverUnklineHandler,
		},
	}
}

// runCommand looks up and runs the handler for one inbound message.
func (server *Server) runCommand(client *Client, peer *Peer, msg ircmsg.Message) {
	cmd, exists := Commands[strings.ToUpper(msg.Command)]
	if !exists {
		if client != nil && client.registered {
			client.SendNumeric(ERR_UNKNOWNCOMMAND, msg.Command, "Unknown command")
		}
		return
	}
	cmd.Run(server, client, peer, msg)
}
