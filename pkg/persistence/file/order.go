package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/flowdesk/flowdesk/pkg/models"
	"github.com/flowdesk/flowdesk/pkg/persistence"
)

// OrderRepository stores order instances as one JSON file per order. A
// process-wide mutex serializes read-modify-write cycles; the version check
// in Update still guards against stale callers.
type OrderRepository struct {
	root string
	mu   sync.Mutex
}

// NewOrderRepository creates a new order repository under root.
func NewOrderRepository(root string) *OrderRepository {
	return &OrderRepository{root: root}
}

func (or *OrderRepository) dir() string {
	return path.Join(or.root, "orders")
}

// List returns orders matching the filter, newest first.
func (or *OrderRepository) List(ctx context.Context, filter persistence.OrderFilter) ([]*models.OrderInstance, error) {
	root := os.DirFS(or.dir())

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list order files: %w", err)
	}

	orders := make([]*models.OrderInstance, 0, len(jsonFiles))

	for _, name := range jsonFiles {
		id := strings.TrimSuffix(name, ".json")

		order, err := or.GetByID(ctx, id)
		if err != nil {
			if persistence.IsOrderNotFound(err) {
				continue
			}

			return nil, err
		}

		if !matchesFilter(order, filter) {
			continue
		}

		orders = append(orders, order)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return orders, nil
}

func matchesFilter(order *models.OrderInstance, filter persistence.OrderFilter) bool {
	if filter.TargetModule != "" && order.TargetModule != filter.TargetModule {
		return false
	}

	if filter.Status != "" && order.Status != filter.Status {
		return false
	}

	if filter.AssignedTo != "" && order.AssignedTo != filter.AssignedTo {
		return false
	}

	if filter.TemplateID != "" && order.TemplateID != filter.TemplateID {
		return false
	}

	return true
}

// GetByID retrieves an order by its ID.
func (or *OrderRepository) GetByID(_ context.Context, id string) (*models.OrderInstance, error) {
	filePath := filepath.Clean(path.Join(or.dir(), id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrOrderNotFound
		}

		return nil, persistence.NewOrderError("GetByID", id, err)
	}

	var order models.OrderInstance

	err = json.Unmarshal(body, &order)
	if err != nil {
		return nil, persistence.NewOrderError("GetByID", id, err)
	}

	return &order, nil
}

// Create stores a new order. The store owns timestamps and seeds version 1.
func (or *OrderRepository) Create(_ context.Context, order *models.OrderInstance) error {
	or.mu.Lock()
	defer or.mu.Unlock()

	err := os.MkdirAll(or.dir(), 0750)
	if err != nil {
		return persistence.NewOrderError("Create", order.ID, err)
	}

	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	order.Version = 1

	return or.write(order)
}

// Update applies a partial whole-field update after the optimistic version
// check. The stored record is replaced atomically as a whole.
func (or *OrderRepository) Update(ctx context.Context, id string, expectedVersion int, update persistence.OrderUpdate) (*models.OrderInstance, error) {
	or.mu.Lock()
	defer or.mu.Unlock()

	order, err := or.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Version != expectedVersion {
		return nil, persistence.NewOrderError("Update", id, persistence.ErrConcurrentModification)
	}

	if update.CurrentNodeID != nil {
		order.CurrentNodeID = *update.CurrentNodeID
	}

	if update.Status != nil {
		order.Status = *update.Status
	}

	if update.DynamicData != nil {
		order.DynamicData = update.DynamicData
	}

	if update.AssignedTo != nil {
		order.AssignedTo = *update.AssignedTo
	}

	order.Version++
	order.UpdatedAt = time.Now().UTC()

	err = or.write(order)
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (or *OrderRepository) write(order *models.OrderInstance) error {
	data, err := json.MarshalIndent(order, "", "  ")
	if err != nil {
		return persistence.NewOrderError("write", order.ID, err)
	}

	filePath := path.Join(or.dir(), order.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}
