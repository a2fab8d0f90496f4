// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/deiadventures/guildhall/internal/auth"
	"github.com/deiadventures/guildhall/internal/domain"
	"github.com/deiadventures/guildhall/internal/permission"
	"github.com/deiadventures/guildhall/internal/store"
)

const defaultAdminTimeout = 30 * time.Second

// adminInput is the account created by add-admin.
type adminInput struct {
	email    string
	name     string
	password string
}

// NewAddAdminCmd creates the add-admin subcommand.
func NewAddAdminCmd() *cobra.Command {
	preset := adminInput{}
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "add-admin",
		Short: "Create an approved superuser account",
		Long: `Create an adventurer holding the SuperUser and Approved permissions.
Values not given as flags are prompted for on standard input.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := promptAdmin(cmd.InOrStdin(), cmd.OutOrStdout(), preset)
			if err != nil {
				return err
			}
			return runAddAdmin(cmd, in, timeout)
		},
	}

	cmd.Flags().StringVar(&preset.email, "email", "", "email of the new account")
	cmd.Flags().StringVar(&preset.name, "name", "", "display name of the new account")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultAdminTimeout, "timeout for database operations")

	return cmd
}

// promptAdmin fills the fields preset leaves empty from r, one line each.
func promptAdmin(r io.Reader, w io.Writer, preset adminInput) (adminInput, error) {
	in := preset
	reader := bufio.NewReader(r)

	ask := func(label string, dst *string) error {
		if *dst != "" {
			return nil
		}
		fmt.Fprintf(w, "%s: ", label)
		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return oops.Code("ADMIN_INPUT_FAILED").With("field", label).Wrap(err)
		}
		*dst = strings.TrimSpace(line)
		if *dst == "" {
			return oops.Code("ADMIN_INPUT_FAILED").Errorf("%s is required", strings.ToLower(label))
		}
		return nil
	}

	if err := ask("Email", &in.email); err != nil {
		return adminInput{}, err
	}
	if err := ask("Name", &in.name); err != nil {
		return adminInput{}, err
	}
	if err := ask("Password", &in.password); err != nil {
		return adminInput{}, err
	}
	return in, nil
}

func runAddAdmin(cmd *cobra.Command, in adminInput, timeout time.Duration) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	secret, err := auth.NewSecret(auth.NewArgon2idHasher(), in.password)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close(context.Background()) }() //nolint:errcheck // exiting anyway

	id, err := createAdmin(ctx, st, in, secret)
	if err != nil {
		return err
	}
	cmd.Printf("Created superuser %s (id %d)\n", in.email, id)
	return nil
}

// createAdmin inserts the account and grants it SuperUser and Approved in
// one transaction.
func createAdmin(ctx context.Context, st *store.Store, in adminInput, secret auth.Secret) (domain.AdventurerID, error) {
	return store.WriteValue(ctx, st, func(ctx context.Context, tx store.Tx) (domain.AdventurerID, error) {
		id, err := auth.CreateAccount(ctx, tx, in.name, in.email, secret)
		if err != nil {
			return 0, err
		}
		for _, p := range []domain.PermissionType{domain.PermissionApproved, domain.PermissionSuperUser} {
			if err := permission.Set(ctx, tx, id, p, true); err != nil {
				return 0, err
			}
		}
		return id, nil
	})
}
