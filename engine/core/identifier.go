package core

import "github.com/google/uuid"

// IdentifierAquireNewID returns a fresh identifier for a loaded resource.
func IdentifierAquireNewID() string {
	return uuid.NewString()
}

// IdentifierIsValid reports whether id was produced by IdentifierAquireNewID.
func IdentifierIsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
