// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"fmt"
	"io/ioutil"
	"strings"

	"code.cloudfoundry.org/bytefmt"
	"github.com/ergochat/irc-go/ircutils"
	"gopkg.in/yaml.v2"

	"github.com/banshee-irc/banshee/irc/bans"
	"github.com/banshee-irc/banshee/irc/logger"
)

// OperConfig defines a single operator account.
type OperConfig struct {
	// Password is a hash produced by `banshee genpasswd`.
	Password     string
	Capabilities []string
}

// LinkConfig defines an authorized peer server.
type LinkConfig struct {
	// Password the peer must present in its PASS command.
	Password string
	// Cluster marks the link as a fully trusted cluster peer; cluster
	// peers receive all ban changes without capability gating.
	Cluster bool
}

// SharedConfig is a trust grant: it authorizes a remote principal,
// identified by server/user/host patterns, to perform ban actions here.
type SharedConfig struct {
	Server  string
	User    string
	Host    string
	Actions []string
}

// StaticBanConfig is a ban loaded from the config file. Static bans
// cannot be removed at runtime, only by a rehash with the entry deleted.
type StaticBanConfig struct {
	Mask   string
	Reason string
}

// Config defines the overall configuration.
type Config struct {
	Network struct {
		Name string
	}

	Server struct {
		Name string
		// Listen addresses accepting client connections.
		Listen []string
		// ServerListen addresses accepting peer server connections.
		ServerListen []string `yaml:"server-listen"`
		// MaxSendQString bounds each peer's outbound queue ("512k").
		MaxSendQString string `yaml:"max-sendq"`
		MaxSendQBytes  uint64 `yaml:"-"`
	}

	Datastore struct {
		Path string
	}

	Opers map[string]*OperConfig

	Links map[string]*LinkConfig

	// Services are server name patterns whose requests are implicitly
	// trusted, bypassing the shared grants.
	Services []string

	Shared []SharedConfig

	Bans []StaticBanConfig

	Logging []logger.LoggingConfig

	Filename string `yaml:"-"`
}

// Oper represents a server operator.
type Oper struct {
	Name         string
	Pass         []byte
	Capabilities map[string]bool
}

// HasCapab returns true if this operator was granted the named capability.
func (oper *Oper) HasCapab(capab string) bool {
	return oper != nil && oper.Capabilities[capab]
}

// Operators returns a map of operator configs from the given config.
func (conf *Config) Operators() map[string]*Oper {
	operators := make(map[string]*Oper)
	for name, opConf := range conf.Opers {
		oper := Oper{
			Name:         strings.ToLower(name),
			Pass:         []byte(opConf.Password),
			Capabilities: make(map[string]bool),
		}
		for _, capab := range opConf.Capabilities {
			oper.Capabilities[strings.ToLower(capab)] = true
		}
		operators[oper.Name] = &oper
	}
	return operators
}

// TrustGrants assembles the trust store contents from the shared blocks.
func (conf *Config) TrustGrants() []TrustGrant {
	grants := make([]TrustGrant, 0, len(conf.Shared))
	for _, shared := range conf.Shared {
		grant := TrustGrant{
			ServerPattern: shared.Server,
			UserPattern:   shared.User,
			HostPattern:   shared.Host,
			actions:       make(map[string]bool),
		}
		if grant.ServerPattern == "" {
			grant.ServerPattern = "*"
		}
		if grant.UserPattern == "" {
			grant.UserPattern = "*"
		}
		if grant.HostPattern == "" {
			grant.HostPattern = "*"
		}
		for _, action := range shared.Actions {
			grant.actions[strings.ToLower(action)] = true
		}
		grants = append(grants, grant)
	}
	return grants
}

// splitBanMask splits a user@host mask into its components; a mask with
// no @ is a bare host pattern.
func splitBanMask(mask string) (userPattern, hostPattern string, err error) {
	if mask == "" {
		return "", "", errInvalidBanMask
	}
	if idx := strings.IndexByte(mask, '@'); idx != -1 {
		userPattern = mask[:idx]
		hostPattern = mask[idx+1:]
	} else {
		userPattern = "*"
		hostPattern = mask
	}
	if userPattern == "" || hostPattern == "" {
		return "", "", errInvalidBanMask
	}
	if class, _ := bans.ClassifyHost(hostPattern); class == bans.ClassInvalid {
		return "", "", errInvalidBanMask
	}
	return
}

// LoadConfig loads the given YAML configuration file.
func LoadConfig(filename string) (config *Config, err error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}

	config.Filename = filename

	if config.Network.Name == "" {
		return nil, ErrNetworkNameMissing
	}
	if config.Server.Name == "" {
		return nil, ErrServerNameMissing
	}
	if !ircutils.HostnameIsValid(config.Server.Name) {
		return nil, ErrServerNameNotHostname
	}
	if config.Datastore.Path == "" {
		return nil, ErrDatastorePathMissing
	}
	if len(config.Server.Listen) == 0 {
		return nil, ErrNoListenersDefined
	}

	if config.Server.MaxSendQString == "" {
		config.Server.MaxSendQString = "512k"
	}
	config.Server.MaxSendQBytes, err = bytefmt.ToBytes(config.Server.MaxSendQString)
	if err != nil {
		return nil, fmt.Errorf("Could not parse maximum SendQ size (make sure it only contains whole numbers): %s", err.Error())
	}

	for name, link := range config.Links {
		if link == nil || link.Password == "" {
			return nil, fmt.Errorf("Missing password for linked server [%s]", name)
		}
	}

	for _, ban := range config.Bans {
		if _, _, err := splitBanMask(ban.Mask); err != nil {
			return nil, fmt.Errorf("Could not parse static ban mask [%s]", ban.Mask)
		}
	}

	var newLogConfigs []logger.LoggingConfig
	for _, logConfig := range config.Logging {
		// methods
		methods := make(map[string]bool)
		for _, method := range strings.Split(logConfig.Method, " ") {
			if len(method) > 0 {
				methods[strings.ToLower(method)] = true
			}
		}
		if methods["file"] && logConfig.Filename == "" {
			return nil, ErrLoggerFilenameMissing
		}
		logConfig.MethodFile = methods["file"]
		logConfig.MethodStdout = methods["stdout"]
		logConfig.MethodStderr = methods["stderr"]

		// levels
		level, exists := logger.LogLevelNames[strings.ToLower(logConfig.LevelString)]
		if !exists {
			return nil, fmt.Errorf("Could not translate log level [%s]", logConfig.LevelString)
		}
		logConfig.Level = level

		// types
		for _, typeStr := range strings.Split(logConfig.TypeString, " ") {
			if len(typeStr) == 0 {
				continue
			}
			if typeStr == "-" {
				return nil, ErrLoggerExcludeEmpty
			}
			if typeStr[0] == '-' {
				typeStr = typeStr[1:]
				logConfig.ExcludedTypes = append(logConfig.ExcludedTypes, typeStr)
			} else {
				logConfig.Types = append(logConfig.Types, typeStr)
			}
		}
		if len(logConfig.Types) < 1 {
			return nil, ErrLoggerHasNoTypes
		}

		newLogConfigs = append(newLogConfigs, logConfig)
	}
	config.Logging = newLogConfigs

	return config, nil
}
