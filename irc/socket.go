// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"bufio"
	"net"
	"sync"
)

// Socket is a wrapper of a network connection with buffered, serialized
// line writes.
type Socket struct {
	conn   net.Conn
	writer *bufio.Writer

	writeLock sync.Mutex
	closed    bool
}

// NewSocket returns a new Socket.
func NewSocket(conn net.Conn) *Socket {
	return &Socket{
		conn:   conn,
		writer: bufio.NewWriter(conn),
	}
}

func (socket *Socket) String() string {
	return socket.conn.RemoteAddr().String()
}

// IP returns the remote address of the connection.
func (socket *Socket) IP() net.IP {
	if addr, ok := socket.conn.RemoteAddr().(*net.TCPAddr); ok {
		return addr.IP
	}
	return nil
}

// Write sends the given line (already terminated with CRLF) out of Socket.
func (socket *Socket) Write(line []byte) (err error) {
	socket.writeLock.Lock()
	defer socket.writeLock.Unlock()

	if socket.closed {
		return net.ErrClosed
	}
	if _, err = socket.writer.Write(line); err != nil {
		return
	}
	return socket.writer.Flush()
}

// Close shuts down the connection; read loops blocked on the connection
// get unstuck with an error.
func (socket *Socket) Close() {
	socket.writeLock.Lock()
	defer socket.writeLock.Unlock()

	if socket.closed {
		return
	}
	socket.closed = true
	socket.conn.Close()
}
