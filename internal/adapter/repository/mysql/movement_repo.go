package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iho/partledger/internal/domain"
	"github.com/iho/partledger/internal/usecase"
)

// MovementRepository implements usecase.MovementRepository.
type MovementRepository struct {
	db querier
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(db *sql.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

func movementTable(d domain.Direction) (string, error) {
	switch d {
	case domain.DirectionIn:
		return "stock_in", nil
	case domain.DirectionOut:
		return "stock_out", nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidDirection, d)
	}
}

// Create appends a movement to the table of its direction.
func (r *MovementRepository) Create(ctx context.Context, tx usecase.Transaction, m *domain.Movement) error {
	stx, err := sqlTx(tx)
	if err != nil {
		return err
	}

	table, err := movementTable(m.Direction)
	if err != nil {
		return err
	}

	_, err = stx.ExecContext(ctx,
		"INSERT INTO "+table+" (id, part_name, movement_date, quantity, previous_quantity, current_quantity, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		m.ID, m.PartName, m.Date.Format("2006-01-02"), m.Quantity, m.PreviousQuantity, m.CurrentQuantity, m.CreatedAt,
	)
	if mysqlErrorNumber(err) == errNoReferencedRow {
		return domain.ErrPartNotFound
	}

	return err
}

// CountByPart counts stock-in and stock-out rows referencing partName.
func (r *MovementRepository) CountByPart(ctx context.Context, tx usecase.Transaction, partName string) (int64, error) {
	stx, err := sqlTx(tx)
	if err != nil {
		return 0, err
	}

	var count int64
	err = stx.QueryRowContext(ctx,
		"SELECT (SELECT COUNT(*) FROM stock_in WHERE part_name = ?) + (SELECT COUNT(*) FROM stock_out WHERE part_name = ?)",
		partName, partName,
	).Scan(&count)

	return count, err
}

// ListByPart returns movements of a part, newest first.
func (r *MovementRepository) ListByPart(ctx context.Context, partName string, limit, offset int) ([]*domain.Movement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, 'in' AS direction, part_name, movement_date, quantity, previous_quantity, current_quantity, created_at
		FROM stock_in WHERE part_name = ?
		UNION ALL
		SELECT id, 'out' AS direction, part_name, movement_date, quantity, previous_quantity, current_quantity, created_at
		FROM stock_out WHERE part_name = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		partName, partName, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movements := []*domain.Movement{}
	for rows.Next() {
		var (
			m         domain.Movement
			direction string
		)
		if err := rows.Scan(&m.ID, &direction, &m.PartName, &m.Date, &m.Quantity, &m.PreviousQuantity, &m.CurrentQuantity, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Direction = domain.Direction(direction)
		movements = append(movements, &m)
	}

	return movements, rows.Err()
}
