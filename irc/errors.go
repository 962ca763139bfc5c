// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import "errors"

// Runtime Errors
var (
	errInvalidBanMask   = errors.New("Invalid user@host mask")
	errSendQExceeded    = errors.New("SendQ exceeded")
	errPeerNameConflict = errors.New("A server with that name is already linked")
)

// Config Errors
var (
	ErrDatastorePathMissing  = errors.New("Datastore path missing")
	ErrLoggerExcludeEmpty    = errors.New("Encountered logging type '-' with no type to exclude")
	ErrLoggerFilenameMissing = errors.New("Logging configuration specifies 'file' method but 'filename' is empty")
	ErrLoggerHasNoTypes      = errors.New("Logger has no types to log")
	ErrNetworkNameMissing    = errors.New("Network name missing")
	ErrNoListenersDefined    = errors.New("Server listening addresses missing")
	ErrServerNameMissing     = errors.New("Server name missing")
	ErrServerNameNotHostname = errors.New("Server name must match the format of a hostname")
)
