package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/flowdesk/flowdesk/pkg/models"
	"github.com/flowdesk/flowdesk/pkg/persistence"
)

// OrderRepository handles order instance database operations.
type OrderRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *sql.DB, logger *slog.Logger) *OrderRepository {
	return &OrderRepository{db: db, logger: logger}
}

const orderColumns = `
	id
  , template_id
  , template_version
  , target_module
  , current_node_id
  , status
  , dynamic_data
  , assigned_to
  , created_by
  , version
  , created_at
  , updated_at
`

// List returns orders matching the filter, newest first.
func (or *OrderRepository) List(ctx context.Context, filter persistence.OrderFilter) ([]*models.OrderInstance, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := make([]any, 0, 4)
	where := ""

	appendClause := func(column string, value string) {
		args = append(args, value)

		clause := column + " = $" + strconv.Itoa(len(args))
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}

	if filter.TargetModule != "" {
		appendClause("target_module", string(filter.TargetModule))
	}

	if filter.Status != "" {
		appendClause("status", filter.Status)
	}

	if filter.AssignedTo != "" {
		appendClause("assigned_to", filter.AssignedTo)
	}

	if filter.TemplateID != "" {
		appendClause("template_id", filter.TemplateID)
	}

	query += where + " ORDER BY created_at DESC"

	rows, err := or.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			or.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	orders := make([]*models.OrderInstance, 0)

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		orders = append(orders, order)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// GetByID retrieves an order by its ID.
func (or *OrderRepository) GetByID(ctx context.Context, id string) (*models.OrderInstance, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(or.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrOrderNotFound
		}

		return nil, persistence.NewOrderError("GetByID", id, err)
	}

	return order, nil
}

// Create stores a new order, seeding version 1.
func (or *OrderRepository) Create(ctx context.Context, order *models.OrderInstance) error {
	dynamicData, err := json.Marshal(order.DynamicData)
	if err != nil {
		return persistence.NewOrderError("Create", order.ID, err)
	}

	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	order.Version = 1

	query := `
		INSERT INTO orders (id, template_id, template_version, target_module, current_node_id, status, dynamic_data, assigned_to, created_by, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = or.db.ExecContext(ctx, query,
		order.ID,
		order.TemplateID,
		order.TemplateVersion,
		string(order.TargetModule),
		order.CurrentNodeID,
		order.Status,
		dynamicData,
		order.AssignedTo,
		order.CreatedBy,
		order.Version,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return persistence.NewOrderError("Create", order.ID, err)
	}

	return nil
}

// Update applies a partial whole-field update guarded by the optimistic
// version check: the row only moves when the stored version still matches.
func (or *OrderRepository) Update(ctx context.Context, id string, expectedVersion int, update persistence.OrderUpdate) (*models.OrderInstance, error) {
	existing, err := or.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.CurrentNodeID != nil {
		existing.CurrentNodeID = *update.CurrentNodeID
	}

	if update.Status != nil {
		existing.Status = *update.Status
	}

	if update.DynamicData != nil {
		existing.DynamicData = update.DynamicData
	}

	if update.AssignedTo != nil {
		existing.AssignedTo = *update.AssignedTo
	}

	dynamicData, err := json.Marshal(existing.DynamicData)
	if err != nil {
		return nil, persistence.NewOrderError("Update", id, err)
	}

	now := time.Now().UTC()

	query := `
		UPDATE orders SET
			current_node_id = $1,
			status = $2,
			dynamic_data = $3,
			assigned_to = $4,
			version = version + 1,
			updated_at = $5
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	err = or.db.QueryRowContext(ctx, query,
		existing.CurrentNodeID,
		existing.Status,
		dynamicData,
		existing.AssignedTo,
		now,
		id,
		expectedVersion,
	).Scan(&existing.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewOrderError("Update", id, persistence.ErrConcurrentModification)
		}

		return nil, persistence.NewOrderError("Update", id, err)
	}

	existing.UpdatedAt = now

	return existing, nil
}

func scanOrder(row rowScanner) (*models.OrderInstance, error) {
	var (
		order            models.OrderInstance
		dynamicDataJSON  []byte
		targetModuleText string
	)

	err := row.Scan(
		&order.ID,
		&order.TemplateID,
		&order.TemplateVersion,
		&targetModuleText,
		&order.CurrentNodeID,
		&order.Status,
		&dynamicDataJSON,
		&order.AssignedTo,
		&order.CreatedBy,
		&order.Version,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.TargetModule = models.TargetModule(targetModuleText)

	err = json.Unmarshal(dynamicDataJSON, &order.DynamicData)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal dynamic data: %w", err)
	}

	return &order, nil
}
