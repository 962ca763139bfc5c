// Copyright (c) 2021 Shivaram Lingamneni
// released under the MIT license

package irc

import (
	"testing"

	"github.com/banshee-irc/banshee/irc/sno"
)

func TestSnoManagerSubscriptions(t *testing.T) {
	server := newTestServer(t)
	client := newTestOper(t, server)

	server.snomasks.AddMasks(client, sno.LocalXline, sno.LocalServers)

	enabled := server.snomasks.MasksEnabled(client)
	if enabled.String() != "sx" {
		t.Errorf("expected masks +sx sorted, got +%s", enabled.String())
	}
	if !enabled.Contains(sno.LocalXline) || enabled.Contains(sno.LocalOpers) {
		t.Errorf("subscription set is wrong: +%s", enabled.String())
	}

	// re-adding an already held mask is a no-op
	server.snomasks.AddMasks(client, sno.LocalXline)
	if got := server.snomasks.MasksEnabled(client).String(); got != "sx" {
		t.Errorf("duplicate subscription should not change the set, got +%s", got)
	}

	server.snomasks.RemoveClient(client)
	if got := server.snomasks.MasksEnabled(client); len(got) != 0 {
		t.Errorf("removed client should hold no masks, got +%s", got.String())
	}
}
