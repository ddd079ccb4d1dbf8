package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/iho/partledger/internal/domain"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	mockPool := newMockPool(t)
	mockPool.ExpectExec("INSERT INTO users").
		WithArgs("admin", "hash", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec("INSERT INTO users").
		WithArgs("admin", "hash", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})
	mockPool.ExpectQuery("FROM users WHERE username").
		WithArgs("admin").
		WillReturnRows(pgxmock.NewRows([]string{"username", "hashed_password", "created_at"}).
			AddRow("admin", "hash", pgtype.Timestamptz{Time: now, Valid: true}))
	mockPool.ExpectQuery("FROM users WHERE username").
		WithArgs("nobody").
		WillReturnError(pgx.ErrNoRows)

	repo := NewUserRepository(mockPool)
	user := &domain.User{Username: "admin", HashedPassword: "hash", CreatedAt: now}

	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, user); !errors.Is(err, domain.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}

	got, err := repo.GetByUsername(ctx, "admin")
	if err != nil || got.HashedPassword != "hash" {
		t.Fatalf("unexpected user %+v (%v)", got, err)
	}
	if _, err := repo.GetByUsername(ctx, "nobody"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	assertExpectations(t, mockPool)
}

func TestULIDGeneratorIsMonotonic(t *testing.T) {
	gen := NewULIDGenerator()
	prev := gen.Generate()
	for i := 0; i < 1000; i++ {
		next := gen.Generate()
		if next <= prev {
			t.Fatalf("expected increasing IDs, got %s after %s", next, prev)
		}
		prev = next
	}
}
