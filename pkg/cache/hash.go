package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey returns prefix:sha256(json(parts)).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// RootScope returns the key prefix for an asset root: "root:" followed by
// the first 12 hex digits of the root's hash.
func RootScope(root string) string {
	return "root:" + Hash([]byte(root))[:12] + ":"
}
