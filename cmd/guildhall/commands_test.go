// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deiadventures/guildhall/internal/auth"
	"github.com/deiadventures/guildhall/internal/seed"
	"github.com/deiadventures/guildhall/pkg/errutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommand_Help(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)

	for _, want := range []string{
		"serve", "migrate", "add-admin", "hash-password", "insert-demo", "validate-seed",
		"--database.url", "--http.enforce_permissions", "--config",
	} {
		assert.Contains(t, out, want)
	}
}

func TestServeCommand_RunServerAlias(t *testing.T) {
	cmd, _, err := NewRootCmd().Find([]string{"run-server"})
	require.NoError(t, err)
	assert.Equal(t, "serve", cmd.Name())
}

func TestServe_RejectsInvalidConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	_, err := execute(t, "serve", "--database.url", "")
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}

func TestParseForceVersion(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantVersion int
		wantErr     bool
	}{
		{name: "valid integer", input: "3", wantVersion: 3},
		{name: "zero is valid", input: "0", wantVersion: 0},
		{name: "leading whitespace is handled", input: "  42", wantVersion: 42},
		{name: "trailing chars are ignored", input: "3abc", wantVersion: 3},
		{name: "non-numeric", input: "abc", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "negative", input: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, err := parseForceVersion(tt.input)
			if tt.wantErr {
				errutil.AssertErrorCode(t, err, "INVALID_VERSION")
				assert.Equal(t, 0, version)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, version)
		})
	}
}

func TestMigrateForce_RequiresVersion(t *testing.T) {
	_, err := execute(t, "migrate", "force")
	require.Error(t, err)
}

func TestDescribeVersion_Empty(t *testing.T) {
	assert.Equal(t, "0 (empty)", describeVersion(0))
}

func TestPromptAdmin(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		preset  adminInput
		want    adminInput
		wantErr bool
	}{
		{
			name:  "all prompted",
			input: "ada@example.org\nAda Lovelace\nengine\n",
			want:  adminInput{email: "ada@example.org", name: "Ada Lovelace", password: "engine"},
		},
		{
			name:   "flags skip prompts",
			input:  "engine\n",
			preset: adminInput{email: "ada@example.org", name: "Ada"},
			want:   adminInput{email: "ada@example.org", name: "Ada", password: "engine"},
		},
		{
			name:  "last line without newline",
			input: "ada@example.org\nAda\nengine",
			want:  adminInput{email: "ada@example.org", name: "Ada", password: "engine"},
		},
		{
			name:    "blank name",
			input:   "ada@example.org\n  \nengine\n",
			wantErr: true,
		},
		{
			name:    "input ends early",
			input:   "ada@example.org\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var prompts bytes.Buffer
			got, err := promptAdmin(strings.NewReader(tt.input), &prompts, tt.preset)
			if tt.wantErr {
				errutil.AssertErrorCode(t, err, "ADMIN_INPUT_FAILED")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func cheapHasher() auth.PasswordHasher {
	return auth.NewArgon2idHasherWithParams(auth.Params{Time: 1, Memory: 1024, Threads: 1, SaltLen: 16, KeyLen: 32})
}

func parseHashOutput(t *testing.T, out string) (hash, salt string) {
	t.Helper()
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if v, ok := strings.CutPrefix(line, "Hash: "); ok {
			hash = v
		}
		if v, ok := strings.CutPrefix(line, "Salt: "); ok {
			salt = v
		}
	}
	require.NotEmpty(t, hash, "no hash in %q", out)
	require.NotEmpty(t, salt, "no salt in %q", out)
	return hash, salt
}

func TestHashPassword(t *testing.T) {
	hasher := cheapHasher()

	t.Run("fresh salt", func(t *testing.T) {
		cmd := &cobra.Command{}
		var out bytes.Buffer
		cmd.SetOut(&out)

		require.NoError(t, runHashPassword(cmd, hasher, "hunter2", ""))

		hash, salt := parseHashOutput(t, out.String())
		ok, err := hasher.Verify("hunter2", hash, salt)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("given salt is reused", func(t *testing.T) {
		salt, err := hasher.NewSalt()
		require.NoError(t, err)

		cmd := &cobra.Command{}
		var out bytes.Buffer
		cmd.SetOut(&out)

		require.NoError(t, runHashPassword(cmd, hasher, "hunter2", salt))

		hash, gotSalt := parseHashOutput(t, out.String())
		assert.Equal(t, salt, gotSalt)
		ok, err := hasher.Verify("hunter2", hash, salt)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("empty password", func(t *testing.T) {
		err := runHashPassword(&cobra.Command{}, hasher, "", "")
		errutil.AssertErrorCode(t, err, auth.CodeInvalidAccount)
	})
}

func TestValidateSeed(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "demo.yaml")
	require.NoError(t, os.WriteFile(valid, seed.Demo, 0o600))

	out, err := execute(t, "validate-seed", valid)
	require.NoError(t, err)
	assert.Contains(t, out, "valid (3 adventurers, 2 guilds)")

	invalid := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("guilds:\n  - name: ''\n    surprise: true\n"), 0o600))

	_, err = execute(t, "validate-seed", invalid)
	errutil.AssertErrorCode(t, err, seed.CodeInvalid)
}

func TestInsertDemo_UnreadableFileFailsBeforeConnecting(t *testing.T) {
	_, err := execute(t, "insert-demo", "--file", filepath.Join(t.TempDir(), "missing.yaml"),
		"--database.url", "postgres://127.0.0.1:1/never")
	errutil.AssertErrorCode(t, err, "SEED_READ_FAILED")
}

func TestReadSeed_DefaultsToDemo(t *testing.T) {
	doc, err := readSeed("")
	require.NoError(t, err)
	assert.Len(t, doc.Adventurers, 3)
}
