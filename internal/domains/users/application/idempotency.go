package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/Apurer/go-gin-user-api/internal/domains/users/ports"
)

type normalizedCreateUserInput struct {
	Login     string `json:"login"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// FingerprintCreateUser builds a deterministic hash of the create-user
// payload (excluding the idempotency key).
func FingerprintCreateUser(input ports.CreateUserInput) (string, error) {
	normalized := normalizedCreateUserInput{
		Login:     strings.TrimSpace(input.Login),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func normalizedKey(key string) string {
	return strings.TrimSpace(key)
}
