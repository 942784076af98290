package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mvargascr/fondo-server/internal/models"
)

// ErrVersionConflict is returned when a conditional document write loses the
// race against a concurrent writer. Callers reload and retry instead of
// silently overwriting.
var ErrVersionConflict = errors.New("document version conflict")

// Storage keys for the per-company fund documents. Opening balances and the
// legacy flat movement lists live under their own keys next to the main
// document.
func MovementsKey(company string) string {
	return fmt.Sprintf("movements_%s", company)
}

func OpeningBalanceKey(account string, currency models.Currency) string {
	if currency == models.CurrencyUSD {
		return fmt.Sprintf("%s_fondo_initial_usd_v1", account)
	}
	return fmt.Sprintf("%s_fondo_initial_v1", account)
}

func LegacyMovementsKey(account string) string {
	return fmt.Sprintf("%s_fondos_v1", account)
}

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Versioned key-value documents (fund documents, opening balances,
	// legacy movement lists). GetDocument returns (nil, 0, nil) when the key
	// is absent. PutDocument performs a compare-and-swap on the version:
	// expectedVersion 0 means "create", and a mismatch returns
	// ErrVersionConflict. The new version is returned on success.
	GetDocument(ctx context.Context, company, key string) ([]byte, int64, error)
	PutDocument(ctx context.Context, company, key string, value []byte, expectedVersion int64) (int64, error)
	DeleteDocument(ctx context.Context, company, key string) error

	// Provider directory
	ListProviders(ctx context.Context, company string) ([]models.Provider, error)
	GetProvider(ctx context.Context, company, code string) (*models.Provider, error)
	UpsertProvider(ctx context.Context, provider *models.Provider) error

	// Employee roster
	ListEmployees(ctx context.Context, company string) ([]models.Employee, error)
	AddEmployee(ctx context.Context, employee *models.Employee) error

	// Purchase orders
	CreatePurchaseOrder(ctx context.Context, order *models.PurchaseOrder) error
	GetPurchaseOrder(ctx context.Context, id string) (*models.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, company string) ([]models.PurchaseOrder, error)
	UpdatePurchaseOrderStatus(ctx context.Context, id, status string) error
}
