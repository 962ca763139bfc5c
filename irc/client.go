// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"fmt"

	"github.com/ergochat/irc-go/ircmsg"
)

// Client is a connection from an IRC user.
type Client struct {
	server     *Server
	socket     *Socket
	nick       string
	username   string
	hostname   string
	realname   string
	registered bool
	oper       *Oper
}

// NewClient returns a Client wrapping the given connection.
func NewClient(server *Server, socket *Socket) *Client {
	client := &Client{
		server:   server,
		socket:   socket,
		nick:     "*",
		hostname: socket.IP().String(),
	}
	return client
}

// Nick returns the client's current nick.
func (client *Client) Nick() string {
	return client.nick
}

// NickMask returns the nick!user@host form of the client.
func (client *Client) NickMask() string {
	return fmt.Sprintf("%s!%s@%s", client.nick, client.username, client.hostname)
}

// OperName returns the traditional ircd oper identification of the client,
// nick!user@host{opername}, for notices and the audit log.
func (client *Client) OperName() string {
	if client.oper == nil {
		return client.NickMask()
	}
	return fmt.Sprintf("%s{%s}", client.NickMask(), client.oper.Name)
}

// HasOperCapab returns whether the client is an operator holding the
// given privilege.
func (client *Client) HasOperCapab(capab string) bool {
	return client.oper.HasCapab(capab)
}

// Send sends an IRC line to the client.
func (client *Client) Send(source string, command string, params ...string) (err error) {
	msg := ircmsg.MakeMessage(nil, source, command, params...)
	line, err := msg.LineBytes()
	if err != nil {
		return err
	}
	return client.socket.Write(line)
}

// SendNumeric sends a numeric reply from this server to the client.
func (client *Client) SendNumeric(numeric string, params ...string) error {
	fullParams := append([]string{client.nick}, params...)
	return client.Send(client.server.name, numeric, fullParams...)
}

// Notice sends the client a server NOTICE.
func (client *Client) Notice(text string) {
	client.Send(client.server.name, "NOTICE", client.nick, text)
}

// Quit closes the client's connection.
func (client *Client) Quit(message string) {
	client.Send(client.server.name, "ERROR", message)
	client.socket.Close()
}
