// Package signature provides the hashing support for the blockchain. Every
// hash in the ledger is produced here so blocks can be re-verified later from
// their stored fields alone.
package signature

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

// ZeroHash represents a hash code of zeros. It is the previous block hash
// recorded in the genesis block.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// HashLength is the number of hex symbols in a hash produced by this package.
const HashLength = 2 * sha256.Size

// =============================================================================

// Canonicalize produces the byte exact encoding of the value that is used as
// input to the digest. The encoding is JSON: struct fields are written in
// declaration order, slices keep their order and numbers are formatted
// without any locale. Values must not contain maps or floating point fields.
func Canonicalize(value any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, err
	}

	// Encode appends a newline which is not part of the canonical form.
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Digest returns the SHA-256 digest of the data as 64 lower case hex symbols.
func Digest(data []byte) string {
	hash := sha256.Sum256(data)
	return common.Bytes2Hex(hash[:])
}

// Hash returns a unique string for the value. If the value can't be
// canonicalized an empty string is returned, which is never a valid hash.
func Hash(value any) string {
	data, err := Canonicalize(value)
	if err != nil {
		return ""
	}

	return Digest(data)
}

// IsHash checks the string is formatted like a hash produced by this package.
func IsHash(hash string) bool {
	if len(hash) != HashLength {
		return false
	}

	return len(common.FromHex(hash)) == sha256.Size
}
