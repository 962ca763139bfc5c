// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"sync/atomic"

	"github.com/ergochat/irc-go/ircmsg"

	"github.com/banshee-irc/banshee/irc/caps"
)

// Peer is a directly connected server link. Messages to a peer go through
// a bounded outbound queue drained by the peer's own write goroutine, so
// enqueuing never blocks command handling.
type Peer struct {
	server *Server
	socket *Socket

	name       string
	caps       *caps.Set
	cluster    bool
	registered bool
	// password presented in PASS, checked against the link config
	password string

	sendQ      chan []byte
	sendQBytes int64
	maxSendQ   int64
	// only touched from the server's main goroutine
	closed bool
}

// NewPeer returns a Peer wrapping the given connection.
func NewPeer(server *Server, socket *Socket) *Peer {
	peer := &Peer{
		server:   server,
		socket:   socket,
		caps:     caps.NewSet(),
		sendQ:    make(chan []byte, 1024),
		maxSendQ: int64(server.MaxSendQBytes()),
	}
	go peer.writeLoop()
	return peer
}

// Name returns the peer's server name (empty before registration).
func (peer *Peer) Name() string {
	return peer.name
}

// Caps returns the capability set the peer advertised during link setup.
func (peer *Peer) Caps() *caps.Set {
	return peer.caps
}

// IsClusterLink returns whether the link is configured as a cluster peer.
func (peer *Peer) IsClusterLink() bool {
	return peer.cluster
}

// Send enqueues an IRC message for asynchronous transmission to the peer.
// It never blocks; a peer that cannot drain its queue is disconnected.
func (peer *Peer) Send(source string, command string, params ...string) {
	if peer.closed {
		return
	}
	msg := ircmsg.MakeMessage(nil, source, command, params...)
	line, err := msg.LineBytes()
	if err != nil {
		return
	}
	if atomic.AddInt64(&peer.sendQBytes, int64(len(line))) > peer.maxSendQ {
		peer.server.logger.Info("server", "disconnecting peer", peer.name, errSendQExceeded.Error())
		peer.Close()
		return
	}
	select {
	case peer.sendQ <- line:
	default:
		peer.server.logger.Info("server", "disconnecting peer", peer.name, errSendQExceeded.Error())
		peer.Close()
	}
}

func (peer *Peer) writeLoop() {
	for line := range peer.sendQ {
		atomic.AddInt64(&peer.sendQBytes, -int64(len(line)))
		if err := peer.socket.Write(line); err != nil {
			peer.socket.Close()
			return
		}
	}
}

// Close tears down the link.
func (peer *Peer) Close() {
	if peer.closed {
		return
	}
	peer.closed = true
	close(peer.sendQ)
	peer.socket.Close()
}
