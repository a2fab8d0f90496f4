// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"

	"github.com/samber/oops"
)

// Tokens draw from the printable ASCII range '!'..'~'. TokenLength characters
// of a 94 symbol alphabet carry just over 131 bits.
const (
	TokenLength = 20
	tokenFirst  = '!'
	tokenLast   = '~'
)

var alphabetSize = big.NewInt(tokenLast - tokenFirst + 1)

// GenerateToken returns a random bearer token. Generated passwords use the
// same generator.
func GenerateToken() (string, error) {
	buf := make([]byte, TokenLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", oops.Code("AUTH_TOKEN_GENERATE_FAILED").
				With("operation", "crypto/rand.Int").
				Wrap(err)
		}
		buf[i] = byte(tokenFirst + n.Int64())
	}
	return string(buf), nil
}

// HashSessionToken returns the hex SHA-256 digest stored in place of token.
func HashSessionToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
