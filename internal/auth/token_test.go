// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deiadventures/guildhall/internal/auth"
)

func TestGenerateToken(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		token, err := auth.GenerateToken()
		require.NoError(t, err)
		require.Len(t, token, auth.TokenLength)
		for _, c := range token {
			assert.True(t, c >= '!' && c <= '~', "character %q outside printable range", c)
		}
		assert.False(t, seen[token], "duplicate token")
		seen[token] = true
	}
}

func TestHashSessionToken(t *testing.T) {
	a := auth.HashSessionToken("token-a")
	assert.Len(t, a, 64)
	assert.Equal(t, a, auth.HashSessionToken("token-a"))
	assert.NotEqual(t, a, auth.HashSessionToken("token-b"))
}
