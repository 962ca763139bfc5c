// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/ergochat/irc-go/ircmsg"
	"github.com/okzk/sdnotify"
	"github.com/tidwall/buntdb"

	"github.com/banshee-irc/banshee/irc/bans"
	"github.com/banshee-irc/banshee/irc/flock"
	"github.com/banshee-irc/banshee/irc/logger"
	"github.com/banshee-irc/banshee/irc/sno"
)

var (
	// ServerExitSignals are the signals the server will exit on.
	ServerExitSignals = []os.Signal{
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	}
)

// envelope carries one inbound line (or a connection teardown) from a
// connection's read goroutine to the server's main goroutine.
type envelope struct {
	client    *Client
	peer      *Peer
	msg       ircmsg.Message
	connected bool
	closed    bool
}

// Server is the main structure holding all of our state. Mutable state
// hanging off it (clients, peers, the ban registry, the trust store, the
// snomask lists) is only ever touched from the main goroutine in Run;
// handlers never need locks.
type Server struct {
	name           string
	networkName    string
	configFilename string
	config         *Config
	logger         *logger.Manager
	commands       chan envelope
	signals        chan os.Signal
	rehashSignal   chan os.Signal
	listeners      []net.Listener
	clients        map[*Client]bool
	peers          map[string]*Peer
	snomasks       SnoManager
	klines         *bans.Registry
	trust          *TrustStore
	operators      map[string]*Oper
	services       []string
	store          *buntdb.DB
	dbFlock        flock.Flocker
	maxSendQBytes  uint64 // atomic; read by accept goroutines
}

// NewServer returns a new Server instance from the given config.
func NewServer(config *Config, logger *logger.Manager) (*Server, error) {
	server := &Server{
		name:           config.Server.Name,
		networkName:    config.Network.Name,
		configFilename: config.Filename,
		logger:         logger,
		commands:       make(chan envelope, 64),
		signals:        make(chan os.Signal, len(ServerExitSignals)),
		rehashSignal:   make(chan os.Signal, 1),
		clients:        make(map[*Client]bool),
		peers:          make(map[string]*Peer),
		klines:         bans.NewRegistry(),
	}
	server.snomasks.Initialize()

	if err := server.applyConfig(config); err != nil {
		return nil, err
	}

	signal.Notify(server.signals, ServerExitSignals...)
	signal.Notify(server.rehashSignal, syscall.SIGHUP)

	return server, nil
}

// MaxSendQBytes is the current bound on a peer's outbound queue.
func (server *Server) MaxSendQBytes() uint64 {
	return atomic.LoadUint64(&server.maxSendQBytes)
}

// applyConfig applies the config to the server, on startup and on rehash.
func (server *Server) applyConfig(config *Config) error {
	if server.name != config.Server.Name {
		return fmt.Errorf("Server name cannot be changed after starting up!")
	}

	if err := server.logger.ApplyConfig(config.Logging); err != nil {
		return err
	}

	server.operators = config.Operators()
	server.trust = NewTrustStore(config.TrustGrants())
	server.services = config.Services
	server.loadStaticBans(config)
	atomic.StoreUint64(&server.maxSendQBytes, config.Server.MaxSendQBytes)

	server.config = config
	return nil
}

// Run starts the server, listening and serving until shutdown.
func (server *Server) Run() error {
	config := server.config

	dbFlock, err := lockDatastore(config)
	if err != nil {
		return err
	}
	server.dbFlock = dbFlock

	store, err := OpenDatabase(config)
	if err != nil {
		return fmt.Errorf("Failed to open datastore: %s", err.Error())
	}
	server.store = store

	if err := server.loadKLines(); err != nil {
		return fmt.Errorf("Failed to load stored K-Lines: %s", err.Error())
	}
	server.logger.Debug("server", fmt.Sprintf("Loaded %d K-Line(s) from the datastore", server.klines.Count()))

	for _, addr := range config.Server.Listen {
		if err := server.createListener(addr, false); err != nil {
			return fmt.Errorf("Could not listen on %s: %s", addr, err.Error())
		}
	}
	for _, addr := range config.Server.ServerListen {
		if err := server.createListener(addr, true); err != nil {
			return fmt.Errorf("Could not listen on %s: %s", addr, err.Error())
		}
	}

	sdnotify.Ready()
	server.logger.Info("server", fmt.Sprintf("Server running as %s on network %s", server.name, server.networkName))

	for {
		select {
		case <-server.signals:
			server.shutdown()
			return nil

		case <-server.rehashSignal:
			server.logger.Info("server", "Rehashing due to SIGHUP")
			if err := server.rehash(); err != nil {
				server.logger.Error("server", "Rehash failed", err.Error())
			}

		case env := <-server.commands:
			server.dispatch(env)
		}
	}
}

// dispatch processes one envelope on the main goroutine.
func (server *Server) dispatch(env envelope) {
	if env.connected {
		server.clients[env.client] = true
		return
	}
	if env.closed {
		if env.client != nil {
			server.disconnectClient(env.client)
		} else if env.peer != nil {
			server.disconnectPeer(env.peer)
		}
		return
	}

	if env.client != nil {
		server.runCommand(env.client, nil, env.msg)
	} else {
		server.runCommand(nil, env.peer, env.msg)
	}
}

func (server *Server) disconnectClient(client *Client) {
	if !server.clients[client] {
		return
	}
	delete(server.clients, client)
	server.snomasks.RemoveClient(client)
	if client.registered {
		server.snomasks.Send(sno.LocalQuits, fmt.Sprintf("Client disconnected [%s]", client.NickMask()))
	}
}

func (server *Server) disconnectPeer(peer *Peer) {
	peer.Close()
	if peer.registered && server.peers[peer.name] == peer {
		delete(server.peers, peer.name)
		server.snomasks.Send(sno.LocalServers, fmt.Sprintf("Server %s delinked", peer.name))
		server.logger.Info("server", "peer delinked", peer.name)
	}
}

// rehash reloads the config file and reapplies it.
func (server *Server) rehash() error {
	config, err := LoadConfig(server.configFilename)
	if err != nil {
		return fmt.Errorf("Error loading config file [%s]: %s", server.configFilename, err.Error())
	}
	return server.applyConfig(config)
}

// createListener opens a listening socket and starts accepting on it.
func (server *Server) createListener(addr string, forServers bool) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	server.listeners = append(server.listeners, listener)

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				if strings.Contains(err.Error(), "use of closed network connection") {
					return
				}
				server.logger.Error("server", "accept error", err.Error())
				continue
			}
			if forServers {
				go server.servePeer(conn)
			} else {
				go server.serveClient(conn)
			}
		}
	}()

	return nil
}

// serveClient owns a client connection's read side, handing parsed lines
// to the main goroutine.
func (server *Server) serveClient(conn net.Conn) {
	socket := NewSocket(conn)
	client := NewClient(server, socket)
	server.commands <- envelope{client: client, connected: true}

	server.readLines(socket, func(msg ircmsg.Message) {
		server.commands <- envelope{client: client, msg: msg}
	})

	server.commands <- envelope{client: client, closed: true}
}

// servePeer owns a server link's read side.
func (server *Server) servePeer(conn net.Conn) {
	socket := NewSocket(conn)
	peer := NewPeer(server, socket)

	server.readLines(socket, func(msg ircmsg.Message) {
		server.commands <- envelope{peer: peer, msg: msg}
	})

	server.commands <- envelope{peer: peer, closed: true}
}

// readLines reads IRC lines from the socket until it closes, calling
// handle for each parseable one.
func (server *Server) readLines(socket *Socket, handle func(msg ircmsg.Message)) {
	scanner := bufio.NewScanner(socket.conn)
	scanner.Buffer(make([]byte, 512), ircmsg.MaxlenTagsFromClient+512)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		msg, err := ircmsg.ParseLine(line)
		if err != nil {
			continue
		}
		handle(msg)
	}
}

// shutdown closes all connections and releases the datastore.
func (server *Server) shutdown() {
	sdnotify.Stopping()
	server.logger.Info("server", "Stopping server")

	for _, listener := range server.listeners {
		listener.Close()
	}
	for client := range server.clients {
		client.Quit("Server shutting down")
	}
	for _, peer := range server.peers {
		peer.Close()
	}

	if server.store != nil {
		if err := server.store.Close(); err != nil {
			server.logger.Error("server", "Could not close datastore", err.Error())
		}
	}
	if server.dbFlock != nil {
		server.dbFlock.Unlock()
	}
}
