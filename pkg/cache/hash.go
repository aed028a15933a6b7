package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// keyVersion is bumped whenever the bytes behind a logo or artifact key
// change shape (a new normalization step, a different PNG layout), so that
// entries written by older builds are never read back.
const keyVersion = "v1"

// hashKey builds "kind:version:sha256(parts)". The parts are JSON encoded,
// so struct options hash by field value.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return kind + ":" + keyVersion + ":" + hex.EncodeToString(sum[:])
}

// Hash returns the hex SHA-256 of data. Catalogs use it as their content
// hash, which feeds artifact keys.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
