package gateway

import (
	"crypto/sha256"
	"encoding/hex"
)

// checksum implements the gateway's request signature:
// sha256(payload + endpoint + saltKey) followed by "###" and the salt index.
func checksum(message, saltKey, saltIndex string) string {
	sum := sha256.Sum256([]byte(message + saltKey))
	return hex.EncodeToString(sum[:]) + "###" + saltIndex
}
