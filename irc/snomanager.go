// Copyright (c) 2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"fmt"
	"sort"

	"github.com/ergochat/irc-go/ircfmt"

	"github.com/banshee-irc/banshee/irc/sno"
)

// SnoManager keeps track of which clients to send server notices to.
// It is owned by the server's main goroutine.
type SnoManager struct {
	sendLists map[sno.Mask]map[*Client]bool
}

func (m *SnoManager) Initialize() {
	m.sendLists = make(map[sno.Mask]map[*Client]bool)
}

// AddMasks subscribes the client to the given snomasks.
func (m *SnoManager) AddMasks(client *Client, masks ...sno.Mask) {
	for _, mask := range masks {
		currentClientList := m.sendLists[mask]

		if currentClientList == nil {
			currentClientList = map[*Client]bool{}
		}

		currentClientList[client] = true

		m.sendLists[mask] = currentClientList
	}
}

// RemoveClient removes the given client from all of our lists.
func (m *SnoManager) RemoveClient(client *Client) {
	for mask := range m.sendLists {
		delete(m.sendLists[mask], client)
	}
}

// Send sends the given snomask to all users signed up for it.
func (m *SnoManager) Send(mask sno.Mask, content string) {
	currentClientList := m.sendLists[mask]

	if len(currentClientList) == 0 {
		return
	}

	// make the message
	name := sno.NoticeMaskNames[mask]
	if name == "" {
		name = string(mask)
	}
	message := fmt.Sprintf(ircfmt.Unescape("$c[grey]-$r%s$c[grey]-$c %s"), name, content)

	// send it out
	for client := range currentClientList {
		client.Notice(message)
	}
}

// MasksEnabled returns the snomasks the client is subscribed to.
func (m *SnoManager) MasksEnabled(client *Client) (result sno.Masks) {
	for mask, clients := range m.sendLists {
		if clients[client] {
			result = append(result, mask)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return
}
