package sysmem

import "crypto/sha256"

func hashBytes(data []byte) [32]byte {
	return sha256.Sum256(data)
}
