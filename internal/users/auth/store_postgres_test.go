// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/campusconnect/internal/platform/apperr"
	"github.com/taibuivan/campusconnect/internal/platform/database/schema"
	"github.com/taibuivan/campusconnect/internal/platform/sec"
)

// # Fakes

// scriptedTx is a pgx.Tx whose QueryRow answers from a per-statement script.
// Only QueryRow is implemented; any other call panics on the nil embed.
type scriptedTx struct {
	pgx.Tx
	emailTaken bool
	insertErr  error
	statements []string
}

func (tx *scriptedTx) QueryRow(_ context.Context, query string, _ ...any) pgx.Row {
	tx.statements = append(tx.statements, query)

	switch {
	case strings.Contains(query, "INSERT INTO "+person.Table):
		if tx.insertErr != nil {
			return scriptedRow{err: tx.insertErr}
		}
		return scriptedRow{values: []any{int64(41)}}
	case strings.Contains(query, person.Table):
		return scriptedRow{values: []any{tx.emailTaken}}
	default:
		return scriptedRow{values: []any{true}}
	}
}

type scriptedRow struct {
	values []any
	err    error
}

func (row scriptedRow) Scan(dest ...any) error {
	if row.err != nil {
		return row.err
	}
	for i, target := range dest {
		switch pointer := target.(type) {
		case *bool:
			*pointer = row.values[i].(bool)
		case *int64:
			*pointer = row.values[i].(int64)
		default:
			return errors.New("scriptedRow: unsupported scan target")
		}
	}
	return nil
}

// txRepository runs registrations against a scriptedTx through the real
// postgresRegistrationTx.
type txRepository struct {
	tx *scriptedTx
}

func (repository *txRepository) FindByEmail(context.Context, string) (*User, error) {
	return nil, apperr.NotFound("User")
}

func (repository *txRepository) ResolveIdentity(context.Context, int64) (*sec.Identity, error) {
	return nil, sec.ErrIdentityNotFound
}

func (repository *txRepository) WithinRegistration(_ context.Context, fn func(tx RegistrationTx) error) error {
	return fn(&postgresRegistrationTx{tx: repository.tx})
}

func emailViolation() error {
	return &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: schema.PersonEmailConstraint,
	}
}

// # Tests

/*
TestRegistrationTx_InsertErrorMapping verifies how insert failures surface.
*/
func TestRegistrationTx_InsertErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"email unique violation", emailViolation(), "CONFLICT"},
		{"role foreign key violation", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, "VALIDATION_ERROR"},
		{"other failure", errors.New("connection reset"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registration := &postgresRegistrationTx{tx: &scriptedTx{insertErr: tt.err}}

			err := registration.Insert(context.Background(), &User{Email: "x@campus.edu", RoleID: 2})
			require.Error(t, err)

			if tt.code == "" {
				assert.False(t, apperr.IsAppError(err))
				assert.ErrorContains(t, err, "postgres_user_repo_insert_failed")
				return
			}
			assert.True(t, apperr.HasCode(err, tt.code))
		})
	}
}

/*
TestRegister_LostRaceSurfacesConflict verifies a registration that passes the
email pre-check but loses the insert to a concurrent one reports CONFLICT.
*/
func TestRegister_LostRaceSurfacesConflict(t *testing.T) {
	tx := &scriptedTx{emailTaken: false, insertErr: emailViolation()}
	service := NewService(&txRepository{tx: tx}, newCountingThrottle(3), nil)

	user, err := service.Register(context.Background(), validRegistration("race@campus.edu"))

	assert.Nil(t, user)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Equal(t, msgEmailTaken, appErr.Message)

	require.Len(t, tx.statements, 2)
	assert.Contains(t, tx.statements[0], "SELECT EXISTS")
	assert.Contains(t, tx.statements[1], "INSERT INTO")
}

/*
TestRegister_InsertSetsID verifies the RETURNING id lands on the created user.
*/
func TestRegister_InsertSetsID(t *testing.T) {
	tx := &scriptedTx{}
	service := NewService(&txRepository{tx: tx}, newCountingThrottle(3), nil)

	user, err := service.Register(context.Background(), validRegistration("fresh@campus.edu"))

	require.NoError(t, err)
	assert.Equal(t, int64(41), user.ID)
	assert.Equal(t, sec.DefaultRoleID, user.RoleID)
}
