// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

// Package seed loads guilds, quest actions and adventurers from a YAML
// document. The document is checked against a JSON Schema generated from the
// types below before it is decoded.
package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"io"
	"strings"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/deiadventures/guildhall/internal/domain"
)

// CodeInvalid is returned for documents that fail schema or reference checks.
const CodeInvalid = "SEED_INVALID"

// Demo is the built-in demo data set.
//
//go:embed demo.yaml
var Demo []byte

// Document is a seed file.
type Document struct {
	Adventurers []Adventurer `yaml:"adventurers,omitempty" jsonschema:"description=Accounts to create. Existing emails are skipped."`
	Guilds      []Guild      `yaml:"guilds,omitempty" jsonschema:"description=Guilds to create. Existing guild names are skipped."`
}

// Adventurer is an account to create.
type Adventurer struct {
	Name        string   `yaml:"name" jsonschema:"minLength=1"`
	Email       string   `yaml:"email" jsonschema:"minLength=3,pattern=@"`
	Password    string   `yaml:"password" jsonschema:"minLength=1"`
	Permissions []string `yaml:"permissions,omitempty" jsonschema:"enum=superuser,enum=approved,enum=guild_leader_eligible,enum=rejected"`
}

// Guild is a guild with its published quest actions.
type Guild struct {
	Name string `yaml:"name" jsonschema:"minLength=1"`
	// Leader is the email of an adventurer in this document or already
	// registered.
	Leader  string   `yaml:"leader,omitempty" jsonschema:"description=Email of the guild leader"`
	Actions []Action `yaml:"actions,omitempty"`
}

// Action is a quest action template.
type Action struct {
	Name           string   `yaml:"name" jsonschema:"minLength=1"`
	Description    string   `yaml:"description,omitempty"`
	AdventurerNote string   `yaml:"adventurer_note,omitempty"`
	XP             int32    `yaml:"xp" jsonschema:"minimum=0"`
	Repeatable     bool     `yaml:"repeatable,omitempty"`
	Details        []string `yaml:"details,omitempty"`
}

// Parse validates data against the schema, decodes it and checks the
// references between its entries.
func Parse(data []byte) (*Document, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, oops.Code(CodeInvalid).Wrap(err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks what the schema cannot: unique emails and guild names and
// parseable permission names. Leader emails not defined in the document are
// resolved against the database at load time.
func (d *Document) Validate() error {
	emails := make(map[string]bool, len(d.Adventurers))
	for _, a := range d.Adventurers {
		key := strings.ToLower(a.Email)
		if emails[key] {
			return oops.Code(CodeInvalid).With("email", a.Email).Errorf("adventurer %s listed twice", a.Email)
		}
		emails[key] = true
		for _, name := range a.Permissions {
			if _, err := domain.ParsePermissionType(name); err != nil {
				return oops.Code(CodeInvalid).With("email", a.Email).Wrap(err)
			}
		}
	}

	names := make(map[string]bool, len(d.Guilds))
	for _, g := range d.Guilds {
		if names[g.Name] {
			return oops.Code(CodeInvalid).With("guild", g.Name).Errorf("guild %q listed twice", g.Name)
		}
		names[g.Name] = true
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
