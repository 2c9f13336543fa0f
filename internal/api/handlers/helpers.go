package handlers

import (
	"crypto/rand"
	"math/big"
)

// normalizePhone strips everything but digits. Returns "" when fewer than 9
// digits remain, which callers treat as an invalid number.
func normalizePhone(phone string) string {
	digits := ""
	for _, char := range phone {
		if char >= '0' && char <= '9' {
			digits += string(char)
		}
	}
	if len(digits) < 9 {
		return ""
	}
	return digits
}

// generateID generates a random alphanumeric ID
func generateID(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result[i] = charset[n.Int64()]
	}
	return string(result)
}
