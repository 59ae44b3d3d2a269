package testutil

import (
	"tripplan/internal/encryption"
	"tripplan/internal/planner"
)

// NewTestEncryptor creates a new test encryptor for testing.
func NewTestEncryptor() planner.Encryptor {
	return encryption.NewTestEncryptor()
}
