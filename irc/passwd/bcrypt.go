// Copyright (c) 2018 Shivaram Lingamneni
// released under the MIT license

package passwd

import "golang.org/x/crypto/bcrypt"
import "golang.org/x/crypto/sha3"

const (
	MinCost     = bcrypt.MinCost
	DefaultCost = 12 // ballpark: 250 msec on a modern Intel CPU
)

// Operator and link passwords are hashed by `banshee genpasswd` and then
// pasted into the config file by the server admins.

// We apply an initial pass of a "normal" (i.e., fast) cryptographically
// secure hash with 512 bits of output before applying bcrypt, so that
// Diceware/XKCD-style passphrases longer than the 80-character bcrypt
// limit still work.

func GenerateFromPassword(password []byte, cost int) (result []byte, err error) {
	sum := sha3.Sum512(password)
	return bcrypt.GenerateFromPassword(sum[:], cost)
}

func CompareHashAndPassword(hashedPassword, password []byte) error {
	sum := sha3.Sum512(password)
	return bcrypt.CompareHashAndPassword(hashedPassword, sum[:])
}
