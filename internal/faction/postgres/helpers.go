// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

// Package postgres implements the faction repositories using PostgreSQL.
// Semantics mirror the memory package; compound operations run inside a
// transaction. Insertion order is materialized as a per-table sequence
// column so pagination stays deterministic across processes.
package postgres

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/loreforge/loreforge/internal/faction"
)

// insertErr wraps an INSERT failure. Primary key collisions get their own
// code so callers can distinguish a duplicate ID from infrastructure
// failures.
func insertErr(operation, id string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return oops.Code("DUPLICATE_ID").With("operation", operation).With("id", id).Wrap(err)
	}
	return oops.With("operation", operation).With("id", id).Wrap(err)
}

// limitArg converts a page limit to a LIMIT argument. PostgreSQL treats
// LIMIT NULL as unbounded, which matches Limit <= 0.
func limitArg(p faction.Page) any {
	if p.Limit <= 0 {
		return nil
	}
	return p.Limit
}

// offsetArg clamps a page offset to a non-negative OFFSET argument.
func offsetArg(p faction.Page) int {
	if p.Offset < 0 {
		return 0
	}
	return p.Offset
}

// ulidToStringPtr converts an optional ULID to a nullable string.
func ulidToStringPtr(p *ulid.ULID) *string {
	if p == nil {
		return nil
	}
	s := p.String()
	return &s
}

// ulidFromStringPtr parses a nullable string into an optional ULID.
func ulidFromStringPtr(p *string) (*ulid.ULID, error) {
	if p == nil {
		return nil, nil
	}
	id, err := ulid.Parse(*p)
	if err != nil {
		return nil, oops.With("value", *p).Wrapf(err, "corrupt ULID in database")
	}
	return &id, nil
}

// parseULID parses a required ULID column.
func parseULID(s string) (ulid.ULID, error) {
	id, err := ulid.Parse(s)
	if err != nil {
		return ulid.ULID{}, oops.With("value", s).Wrapf(err, "corrupt ULID in database")
	}
	return id, nil
}
