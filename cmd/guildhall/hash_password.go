// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/deiadventures/guildhall/internal/auth"
)

// NewHashPasswordCmd creates the hash-password subcommand.
func NewHashPasswordCmd() *cobra.Command {
	var salt string

	cmd := &cobra.Command{
		Use:   "hash-password PASSWORD",
		Short: "Print the stored hash and salt of a password",
		Long: `Hash PASSWORD the way account creation does and print the hash and
salt columns. A fresh salt is generated unless --salt is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHashPassword(cmd, auth.NewArgon2idHasher(), args[0], salt)
		},
	}

	cmd.Flags().StringVar(&salt, "salt", "", "salt to hash under, as stored")

	return cmd
}

func runHashPassword(cmd *cobra.Command, hasher auth.PasswordHasher, password, salt string) error {
	if salt == "" {
		secret, err := auth.NewSecret(hasher, password)
		if err != nil {
			return err
		}
		cmd.Printf("Hash: %s\nSalt: %s\n", secret.Hash, secret.Salt)
		return nil
	}

	hash, err := hasher.Hash(password, salt)
	if err != nil {
		return err
	}
	cmd.Printf("Hash: %s\nSalt: %s\n", hash, salt)
	return nil
}
