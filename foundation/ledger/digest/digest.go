// Package digest provides the hashing support for the ledger. Every hash in
// the system is a sha256 digest encoded as 64 lowercase hex digits.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// ZeroHash represents a hash code of zeros. It is used as the previous hash
// sentinel for the genesis block.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// Hash returns a unique string for the specified value. The value is
// serialized with the standard JSON encoder, which preserves slice order and
// struct field order, so two logically identical values always produce the
// same digest.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of leading zero hex digits.
func IsHashSolved(difficulty uint, hash string) bool {
	const match = "00000000000000000"

	if len(hash) != 64 || difficulty >= uint(len(match)) {
		return false
	}

	return hash[:difficulty] == match[:difficulty]
}
