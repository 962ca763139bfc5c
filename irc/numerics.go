// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

// Numeric codes we send to clients.
const (
	RPL_WELCOME          = "001"
	RPL_YOURHOST         = "002"
	RPL_STATSKLINE       = "216"
	RPL_ENDOFSTATS       = "219"
	RPL_YOUREOPER        = "381"
	ERR_UNKNOWNCOMMAND   = "421"
	ERR_ERRONEUSNICKNAME = "432"
	ERR_NOTREGISTERED    = "451"
	ERR_NEEDMOREPARAMS   = "461"
	ERR_ALREADYREGISTRED = "462"
	ERR_PASSWDMISMATCH   = "464"
	ERR_YOUREBANNEDCREEP = "465"
	ERR_NOPRIVILEGES     = "481"
	ERR_NOOPERHOST       = "491"
	ERR_NOPRIVS          = "723"
)
