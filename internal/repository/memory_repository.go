package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mvargascr/fondo-server/internal/models"
)

// MemoryRepository is an in-memory implementation of Repository. It backs the
// test suites and local runs without postgres, with the same compare-and-swap
// semantics on documents.
type MemoryRepository struct {
	mu        sync.Mutex
	users     map[string]models.User // by id
	documents map[docKey]docEntry
	providers map[provKey]models.Provider
	employees []models.Employee
	orders    map[string]models.PurchaseOrder
}

type docKey struct{ company, key string }
type provKey struct{ company, code string }

type docEntry struct {
	value   []byte
	version int64
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:     make(map[string]models.User),
		documents: make(map[docKey]docEntry),
		providers: make(map[provKey]models.Provider),
		orders:    make(map[string]models.PurchaseOrder),
	}
}

func (r *MemoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = models.RoleOperador
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.users[user.ID] = *user
	return nil
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		user := u
		return &user, nil
	}
	return nil, nil
}

func (r *MemoryRepository) GetDocument(ctx context.Context, company, key string) ([]byte, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.documents[docKey{company, key}]
	if !ok {
		return nil, 0, nil
	}
	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, entry.version, nil
}

func (r *MemoryRepository) PutDocument(ctx context.Context, company, key string, value []byte, expectedVersion int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := docKey{company, key}
	entry, exists := r.documents[k]

	if expectedVersion == 0 && exists {
		return 0, ErrVersionConflict
	}
	if expectedVersion != 0 && (!exists || entry.version != expectedVersion) {
		return 0, ErrVersionConflict
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	r.documents[k] = docEntry{value: stored, version: expectedVersion + 1}
	return expectedVersion + 1, nil
}

func (r *MemoryRepository) DeleteDocument(ctx context.Context, company, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.documents, docKey{company, key})
	return nil
}

func (r *MemoryRepository) ListProviders(ctx context.Context, company string) ([]models.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var providers []models.Provider
	for _, p := range r.providers {
		if p.Company == company {
			providers = append(providers, p)
		}
	}
	sort.Slice(providers, func(i, j int) bool { return providers[i].Code < providers[j].Code })
	return providers, nil
}

func (r *MemoryRepository) GetProvider(ctx context.Context, company, code string) (*models.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.providers[provKey{company, code}]; ok {
		provider := p
		return &provider, nil
	}
	return nil, nil
}

func (r *MemoryRepository) UpsertProvider(ctx context.Context, provider *models.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.providers[provKey{provider.Company, provider.Code}] = *provider
	return nil
}

func (r *MemoryRepository) ListEmployees(ctx context.Context, company string) ([]models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var employees []models.Employee
	for _, e := range r.employees {
		if e.Company == company {
			employees = append(employees, e)
		}
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].Name < employees[j].Name })
	return employees, nil
}

func (r *MemoryRepository) AddEmployee(ctx context.Context, employee *models.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if employee.ID == "" {
		employee.ID = uuid.New().String()
	}
	r.employees = append(r.employees, *employee)
	return nil
}

func (r *MemoryRepository) CreatePurchaseOrder(ctx context.Context, order *models.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.Status == "" {
		order.Status = models.OrderPending
	}
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	r.orders[order.ID] = *order
	return nil
}

func (r *MemoryRepository) GetPurchaseOrder(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o, ok := r.orders[id]; ok {
		order := o
		return &order, nil
	}
	return nil, nil
}

func (r *MemoryRepository) ListPurchaseOrders(ctx context.Context, company string) ([]models.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var orders []models.PurchaseOrder
	for _, o := range r.orders {
		if o.Company == company {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (r *MemoryRepository) UpdatePurchaseOrderStatus(ctx context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	r.orders[id] = order
	return nil
}
