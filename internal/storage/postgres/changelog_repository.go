package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smartworking/order-processing/internal/domain"
)

type changelogRepository struct {
	db *sql.DB
}

// NewChangelogRepository создаёт PostgreSQL-реализацию ChangelogRepository.
func NewChangelogRepository(store *Store) domain.ChangelogRepository {
	return &changelogRepository{db: store.DB()}
}

func (r *changelogRepository) Append(ctx context.Context, change domain.StatusChange) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if change.ID == "" {
		change.ID = uuid.NewString()
	}
	if change.CreatedAt.IsZero() {
		change.CreatedAt = time.Now().UTC()
	}

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO status_changelog (id, order_id, old_status, new_status, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, change.ID, change.OrderID, string(change.OldStatus), string(change.NewStatus), change.CreatedAt); err != nil {
		return fmt.Errorf("append status change: %w", err)
	}

	return nil
}

func (r *changelogRepository) ListByOrder(ctx context.Context, orderID string) ([]domain.StatusChange, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, old_status, new_status, created_at
		FROM status_changelog
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list status changes: %w", err)
	}
	defer rows.Close()

	changes := make([]domain.StatusChange, 0)
	for rows.Next() {
		var (
			change    domain.StatusChange
			oldStatus string
			newStatus string
		)
		if err := rows.Scan(&change.ID, &change.OrderID, &oldStatus, &newStatus, &change.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan status change: %w", err)
		}
		change.OldStatus = domain.OrderStatus(oldStatus)
		change.NewStatus = domain.OrderStatus(newStatus)
		changes = append(changes, change)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status changes: %w", err)
	}

	return changes, nil
}

var _ domain.ChangelogRepository = (*changelogRepository)(nil)
