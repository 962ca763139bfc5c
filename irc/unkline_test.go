// Copyright (c) 2021 Shivaram Lingamneni
// released under the MIT license

package irc

import (
	"io"
	"net"
	"strings"
	"testing"

	"github.com/ergochat/irc-go/ircmsg"
	"github.com/tidwall/buntdb"

	"github.com/banshee-irc/banshee/irc/bans"
	"github.com/banshee-irc/banshee/irc/caps"
	"github.com/banshee-irc/banshee/irc/logger"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logman, err := logger.NewManager(nil)
	if err != nil {
		t.Fatal(err)
	}
	store, err := buntdb.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	server := &Server{
		name:        "banshee.test",
		networkName: "TestNet",
		logger:      logman,
		clients:     make(map[*Client]bool),
		peers:       make(map[string]*Peer),
		klines:      bans.NewRegistry(),
		trust:       NewTrustStore(nil),
		store:       store,
	}
	server.snomasks.Initialize()
	return server
}

// newTestPeer registers a linked server without a write goroutine; tests
// read what was sent straight off the queue.
func newTestPeer(server *Server, name string, cluster bool, capabs ...caps.Capability) *Peer {
	peer := &Peer{
		server:     server,
		name:       name,
		caps:       caps.NewSet(capabs...),
		cluster:    cluster,
		registered: true,
		sendQ:      make(chan []byte, 64),
		maxSendQ:   1 << 20,
	}
	server.peers[name] = peer
	return peer
}

func sentLines(peer *Peer) (lines []string) {
	for {
		select {
		case line := <-peer.sendQ:
			lines = append(lines, strings.TrimRight(string(line), "\r\n"))
		default:
			return
		}
	}
}

func newTestOper(t *testing.T, server *Server, capabs ...string) *Client {
	t.Helper()

	conn, far := net.Pipe()
	go io.Copy(io.Discard, far)
	t.Cleanup(func() { conn.Close() })

	client := NewClient(server, NewSocket(conn))
	client.nick = "dan"
	client.username = "dan"
	client.hostname = "client.test"
	client.registered = true
	client.oper = &Oper{Name: "dan", Capabilities: make(map[string]bool)}
	for _, capab := range capabs {
		client.oper.Capabilities[capab] = true
	}
	server.clients[client] = true
	return client
}

func banMessage(source, command string, params ...string) ircmsg.Message {
	return ircmsg.MakeMessage(nil, source, command, params...)
}

func TestUnklineRemovesRuntimeBan(t *testing.T) {
	server := newTestServer(t)
	oper := newTestOper(t, server, "unkline")
	cluster := newTestPeer(server, "hub.test", true, caps.Kln, caps.Unkln)
	leaf := newTestPeer(server, "leaf.test", false, caps.Kln, caps.Unkln)

	server.klines.Add("*", "10.0.0.0/8", "spam", "dan", bans.OriginRuntime)

	unklineHandler(server, oper, banMessage("", "UNKLINE", "*@10.0.0.0/8"))

	if server.klines.Find("*", "10.0.0.0/8") != nil {
		t.Errorf("runtime ban should have been removed")
	}

	clusterSent := sentLines(cluster)
	if len(clusterSent) != 1 || !strings.Contains(clusterSent[0], "UNKLINE * * 10.0.0.0/8") {
		t.Errorf("cluster peer should receive the revocation, got %v", clusterSent)
	}
	if sent := sentLines(leaf); len(sent) != 0 {
		t.Errorf("non-cluster peer should not receive a cluster revocation, got %v", sent)
	}
}

func TestUnklineIdempotent(t *testing.T) {
	server := newTestServer(t)
	oper := newTestOper(t, server, "unkline")

	server.klines.Add("spammer", "*.example.net", "spam", "dan", bans.OriginRuntime)

	msg := banMessage("", "UNKLINE", "spammer@*.example.net")
	unklineHandler(server, oper, msg)
	if server.klines.Count() != 0 {
		t.Errorf("first removal should empty the registry")
	}
	// a second removal of the same mask finds nothing and changes nothing
	unklineHandler(server, oper, msg)
	if server.klines.Count() != 0 {
		t.Errorf("second removal should be a no-op")
	}
}

func TestUnklineProtectsStaticBans(t *testing.T) {
	server := newTestServer(t)
	oper := newTestOper(t, server, "unkline")

	server.klines.Add("*", "badhost.example.com", "config ban", "<config>", bans.OriginStatic)

	unklineHandler(server, oper, banMessage("", "UNKLINE", "*@badhost.example.com"))

	if server.klines.Find("*", "badhost.example.com") == nil {
		t.Errorf("static ban must survive a runtime removal attempt")
	}
}

func TestUnklineRequiresCapability(t *testing.T) {
	server := newTestServer(t)
	oper := newTestOper(t, server) // opered up, but no ban capabilities
	cluster := newTestPeer(server, "hub.test", true, caps.Kln, caps.Unkln)

	server.klines.Add("*", "badhost.example.com", "spam", "dan", bans.OriginRuntime)

	unklineHandler(server, oper, banMessage("", "UNKLINE", "*@badhost.example.com"))

	if server.klines.Find("*", "badhost.example.com") == nil {
		t.Errorf("removal should be refused without the unkline capability")
	}
	if sent := sentLines(cluster); len(sent) != 0 {
		t.Errorf("refused removal should not propagate, got %v", sent)
	}
}

func TestUnklineOnTargetedServer(t *testing.T) {
	server := newTestServer(t)
	oper := newTestOper(t, server, "unkline")
	capable := newTestPeer(server, "leaf.test", false, caps.Unkln)
	incapable := newTestPeer(server, "old.test", false)

	server.klines.Add("*", "badhost.example.com", "spam", "dan", bans.OriginRuntime)

	// targets only leaf.test; we are not covered by the mask
	unklineHandler(server, oper, banMessage("", "UNKLINE", "*@badhost.example.com", "ON", "leaf.*"))

	if server.klines.Find("*", "badhost.example.com") == nil {
		t.Errorf("ban should remain when the target mask names another server")
	}
	if sent := sentLines(capable); len(sent) != 1 {
		t.Errorf("name-matching capable peer should receive the request, got %v", sent)
	}
	if sent := sentLines(incapable); len(sent) != 0 {
		t.Errorf("peer without the capability should be skipped, got %v", sent)
	}
}

func TestUnklineOnMatchingLocalServer(t *testing.T) {
	server := newTestServer(t)
	oper := newTestOper(t, server, "unkline")

	server.klines.Add("*", "badhost.example.com", "spam", "dan", bans.OriginRuntime)

	// a mask covering us applies the removal locally as well
	unklineHandler(server, oper, banMessage("", "UNKLINE", "*@badhost.example.com", "ON", "banshee.*"))

	if server.klines.Find("*", "badhost.example.com") != nil {
		t.Errorf("ban should be removed when the target mask covers this server")
	}
}

func TestServerUnklineTrustedOrigin(t *testing.T) {
	server := newTestServer(t)
	server.trust = NewTrustStore([]TrustGrant{
		{
			ServerPattern: "*.test",
			UserPattern:   "dan",
			HostPattern:   "*",
			actions:       map[string]bool{ActionUnkline: true},
		},
	})
	inbound := newTestPeer(server, "hub.test", true, caps.Kln, caps.Unkln)

	server.klines.Add("*", "badhost.example.com", "spam", "dan", bans.OriginRuntime)

	msg := banMessage("dan!dan@somewhere.test", "UNKLINE", "*", "*", "badhost.example.com")
	serverUnklineHandler(server, inbound, msg)

	if server.klines.Find("*", "badhost.example.com") != nil {
		t.Errorf("trusted origin's removal should be applied")
	}
}

func TestServerUnklineUntrustedOrigin(t *testing.T) {
	server := newTestServer(t)
	inbound := newTestPeer(server, "hub.test", true, caps.Kln, caps.Unkln)
	onward := newTestPeer(server, "leaf.test", false, caps.Unkln)

	server.klines.Add("*", "badhost.example.com", "spam", "dan", bans.OriginRuntime)

	msg := banMessage("mallory!mal@evil.test", "UNKLINE", "*", "*", "badhost.example.com")
	serverUnklineHandler(server, inbound, msg)

	if server.klines.Find("*", "badhost.example.com") == nil {
		t.Errorf("untrusted origin must not remove bans")
	}
	// the request is still re-flooded onward before the local decision
	if sent := sentLines(onward); len(sent) != 1 {
		t.Errorf("request should be re-flooded regardless of local authorization, got %v", sent)
	}
	// never back to the link it came in on
	if sent := sentLines(inbound); len(sent) != 0 {
		t.Errorf("request must not return to its inbound link, got %v", sent)
	}
}

func TestServerUnklineServiceOrigin(t *testing.T) {
	server := newTestServer(t)
	server.services = []string{"services.test"}
	inbound := newTestPeer(server, "services.test", false, caps.Unkln)

	server.klines.Add("*", "badhost.example.com", "spam", "dan", bans.OriginRuntime)

	msg := banMessage("OperServ", "UNKLINE", "*", "*", "badhost.example.com")
	serverUnklineHandler(server, inbound, msg)

	if server.klines.Find("*", "badhost.example.com") != nil {
		t.Errorf("service-originated removal should bypass the trust store")
	}
}

func TestServerUnklineBadFraming(t *testing.T) {
	server := newTestServer(t)
	inbound := newTestPeer(server, "hub.test", true, caps.Unkln)
	onward := newTestPeer(server, "leaf.test", false, caps.Unkln)

	server.klines.Add("*", "badhost.example.com", "spam", "dan", bans.OriginRuntime)

	for _, params := range [][]string{
		{"*", "badhost.example.com"},
		{"*", "", "badhost.example.com"},
		{"", "*", "badhost.example.com"},
	} {
		serverUnklineHandler(server, inbound, banMessage("dan!dan@somewhere.test", "UNKLINE", params...))
	}

	if server.klines.Find("*", "badhost.example.com") == nil {
		t.Errorf("malformed requests must not remove bans")
	}
	if sent := sentLines(onward); len(sent) != 0 {
		t.Errorf("malformed requests must not be forwarded, got %v", sent)
	}
}

func TestServerUnklineTargetMismatch(t *testing.T) {
	server := newTestServer(t)
	server.services = []string{"services.test"}
	inbound := newTestPeer(server, "services.test", false, caps.Unkln)
	onward := newTestPeer(server, "leaf.test", false, caps.Unkln)

	server.klines.Add("*", "badhost.example.com", "spam", "dan", bans.OriginRuntime)

	// targeted at leaf.test only: forward, but do not apply here
	msg := banMessage("OperServ", "UNKLINE", "leaf.*", "*", "badhost.example.com")
	serverUnklineHandler(server, inbound, msg)

	if server.klines.Find("*", "badhost.example.com") == nil {
		t.Errorf("removal targeted elsewhere must not apply locally")
	}
	if sent := sentLines(onward); len(sent) != 1 {
		t.Errorf("removal should still flood to the targeted server, got %v", sent)
	}
}

func TestParseBanTarget(t *testing.T) {
	user, host, target, rest, err := parseBanTarget([]string{"spammer@*.example.net"})
	if err != nil || user != "spammer" || host != "*.example.net" || target != "" || len(rest) != 0 {
		t.Errorf("plain mask parse failed: %s %s %s %v %v", user, host, target, rest, err)
	}

	user, host, target, rest, err = parseBanTarget([]string{"badhost.example.com", "ON", "leaf.*", "flooding"})
	if err != nil || user != "*" || host != "badhost.example.com" || target != "leaf.*" {
		t.Errorf("ON parse failed: %s %s %s %v", user, host, target, err)
	}
	if len(rest) != 1 || rest[0] != "flooding" {
		t.Errorf("trailing params should survive ON parsing, got %v", rest)
	}

	// "on" is matched case-insensitively, like any other IRC keyword
	_, _, target, _, err = parseBanTarget([]string{"*@badhost.example.com", "on", "leaf.*"})
	if err != nil || target != "leaf.*" {
		t.Errorf("lowercase on parse failed: %s %v", target, err)
	}

	if _, _, _, _, err = parseBanTarget([]string{"@"}); err == nil {
		t.Errorf("empty mask should not parse")
	}
}
