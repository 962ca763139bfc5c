// Copyright (c) 2017 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package irc

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/buntdb"

	"github.com/banshee-irc/banshee/irc/bans"
	"github.com/banshee-irc/banshee/irc/flock"
)

const (
	// 'version' of the database schema
	keySchemaVersion = "db.version"
	// latest schema of the db
	latestDbSchema = 1

	keyKlineEntry = "bans.kline %s"
)

type storedBan struct {
	Reason   string    `json:"reason"`
	OperName string    `json:"oper_name"`
	TimeSet  time.Time `json:"time_set"`
}

// klineKey builds the datastore key for a ban. Case is folded the same
// way the registry folds it, so removal finds the stored entry whatever
// casing the revocation arrived with.
func klineKey(userPattern, hostPattern string) string {
	return fmt.Sprintf(keyKlineEntry, strings.ToLower(userPattern)+"@"+strings.ToLower(hostPattern))
}

// OpenDatabase returns an existing database, performing a schema version check.
func OpenDatabase(config *Config) (db *buntdb.DB, err error) {
	db, err = buntdb.Open(config.Datastore.Path)
	if err != nil {
		return
	}

	defer func() {
		if err != nil && db != nil {
			db.Close()
			db = nil
		}
	}()

	// read the db version and check if we can use it
	var version int
	err = db.View(func(tx *buntdb.Tx) error {
		vStr, dbErr := tx.Get(keySchemaVersion)
		if dbErr != nil {
			return dbErr
		}
		version, dbErr = strconv.Atoi(vStr)
		return dbErr
	})
	if err != nil {
		return
	}

	if version != latestDbSchema {
		err = fmt.Errorf("database schema version %d is unsupported (expected %d)", version, latestDbSchema)
	}
	return
}

// InitDB creates the database, implementing the `banshee initdb` subcommand.
func InitDB(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return fmt.Errorf("Datastore already exists (delete it manually to continue): %s", path)
	}

	return initializeDB(path)
}

// internal database initialization code
func initializeDB(path string) error {
	store, err := buntdb.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	err = store.Update(func(tx *buntdb.Tx) error {
		tx.Set(keySchemaVersion, strconv.Itoa(latestDbSchema), nil)
		return nil
	})

	return err
}

// obtain an exclusive lock on the database file, if the platform supports it
func lockDatastore(config *Config) (flock.Flocker, error) {
	lock, err := flock.TryAcquireFlock(config.Datastore.Path + ".lock")
	if err != nil {
		return nil, fmt.Errorf("%s, or remove the stale lock file: %s.lock", err.Error(), config.Datastore.Path)
	}
	return lock, nil
}

// loadKLines populates the registry from the datastore at startup.
func (server *Server) loadKLines() error {
	return server.store.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(fmt.Sprintf(keyKlineEntry, "*"), func(key, value string) bool {
			mask := strings.TrimPrefix(key, fmt.Sprintf(keyKlineEntry, ""))
			userPattern, hostPattern, err := splitBanMask(mask)
			if err != nil {
				server.logger.Warning("bans", "invalid stored K-Line mask", mask)
				return true
			}

			var info storedBan
			if err := json.Unmarshal([]byte(value), &info); err != nil {
				server.logger.Warning("bans", "corrupt stored K-Line", mask, err.Error())
				return true
			}

			record := server.klines.Add(userPattern, hostPattern, info.Reason, info.OperName, bans.OriginRuntime)
			record.TimeSet = info.TimeSet
			return true
		})
	})
}

func (server *Server) storeKLine(record *bans.BanRecord) error {
	info := storedBan{
		Reason:   record.Reason,
		OperName: record.OperName,
		TimeSet:  record.TimeSet,
	}
	value, err := json.Marshal(info)
	if err != nil {
		return err
	}

	key := klineKey(record.UserPattern, record.HostPattern)
	return server.store.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key, string(value), nil)
		return err
	})
}

func (server *Server) deleteStoredKLine(userPattern, hostPattern string) {
	key := klineKey(userPattern, hostPattern)
	err := server.store.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(key)
		return err
	})
	if err != nil && err != buntdb.ErrNotFound {
		server.logger.Error("bans", "could not delete stored K-Line", err.Error())
	}
}
