package main

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
)

// Generates the secrets the server needs: a hex ENCRYPTION_KEY for
// provider API keys at rest and a base64 JWT_SECRET.
//
// Usage: go run scripts/gen-keys.go
func main() {
	encKey := make([]byte, 32)
	if _, err := rand.Read(encKey); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	jwtSecret := make([]byte, 48)
	if _, err := rand.Read(jwtSecret); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("ENCRYPTION_KEY=%s\n", hex.EncodeToString(encKey))
	fmt.Printf("JWT_SECRET=%s\n", base64.StdEncoding.EncodeToString(jwtSecret))
}
