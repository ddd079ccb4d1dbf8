package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iho/partledger/internal/domain"
	"github.com/iho/partledger/internal/usecase"
)

const partColumns = "name, category, quantity, opening_quantity, unit_price, created_at, updated_at"

// PartRepository implements usecase.PartRepository.
type PartRepository struct {
	db querier
}

// NewPartRepository creates a new PartRepository.
func NewPartRepository(db *sql.DB) *PartRepository {
	return &PartRepository{db: db}
}

// Create inserts a new part.
func (r *PartRepository) Create(ctx context.Context, part *domain.Part) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO spare_parts ("+partColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		part.Name, part.Category, part.Quantity, part.OpeningQuantity, part.UnitPrice, part.CreatedAt, part.UpdatedAt,
	)
	if mysqlErrorNumber(err) == errDuplicateEntry {
		return domain.ErrDuplicatePart
	}

	return err
}

// GetByName retrieves a part by name.
func (r *PartRepository) GetByName(ctx context.Context, name string) (*domain.Part, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+partColumns+" FROM spare_parts WHERE name = ?", name)
	return scanPart(row)
}

// GetByNameForUpdate retrieves a part with a FOR UPDATE lock held until tx ends.
func (r *PartRepository) GetByNameForUpdate(ctx context.Context, tx usecase.Transaction, name string) (*domain.Part, error) {
	stx, err := sqlTx(tx)
	if err != nil {
		return nil, err
	}

	row := stx.QueryRowContext(ctx, "SELECT "+partColumns+" FROM spare_parts WHERE name = ? FOR UPDATE", name)
	return scanPart(row)
}

// UpdateQuantity writes the quantity of a locked part.
func (r *PartRepository) UpdateQuantity(ctx context.Context, tx usecase.Transaction, name string, quantity int64, updatedAt time.Time) error {
	stx, err := sqlTx(tx)
	if err != nil {
		return err
	}

	res, err := stx.ExecContext(ctx, "UPDATE spare_parts SET quantity = ?, updated_at = ? WHERE name = ?", quantity, updatedAt, name)
	if err != nil {
		return err
	}

	return requireRow(res)
}

// Update overwrites category, quantity and unit price.
func (r *PartRepository) Update(ctx context.Context, part *domain.Part) error {
	// MySQL reports changed rows, not matched rows, so existence is checked separately.
	res, err := r.db.ExecContext(ctx,
		"UPDATE spare_parts SET category = ?, quantity = ?, unit_price = ?, updated_at = ? WHERE name = ?",
		part.Category, part.Quantity, part.UnitPrice, part.UpdatedAt, part.Name,
	)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	_, err = r.GetByName(ctx, part.Name)
	return err
}

// Delete removes a part. Stock history makes the foreign keys reject the delete.
func (r *PartRepository) Delete(ctx context.Context, tx usecase.Transaction, name string) error {
	stx, err := sqlTx(tx)
	if err != nil {
		return err
	}

	res, err := stx.ExecContext(ctx, "DELETE FROM spare_parts WHERE name = ?", name)
	if err != nil {
		switch mysqlErrorNumber(err) {
		case errRowIsReferenced, errRowIsReferenced2:
			return domain.ErrHasHistory
		}
		return err
	}

	return requireRow(res)
}

// List returns all parts ordered by name.
func (r *PartRepository) List(ctx context.Context) ([]*domain.Part, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+partColumns+" FROM spare_parts ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parts := []*domain.Part{}
	for rows.Next() {
		part, err := scanPart(rows)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}

	return parts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPart(s scanner) (*domain.Part, error) {
	var p domain.Part
	err := s.Scan(&p.Name, &p.Category, &p.Quantity, &p.OpeningQuantity, &p.UnitPrice, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPartNotFound
		}
		return nil, err
	}
	return &p, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrPartNotFound
	}
	return nil
}
