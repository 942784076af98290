package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mvargascr/fondo-server/internal/models"
)

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

// User repository methods
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, password, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = models.RoleOperador
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.Password, user.Role, user.CreatedAt, user.UpdatedAt)

	return err
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT * FROM users WHERE email = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT * FROM users WHERE id = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

// Document repository methods
func (r *PostgresRepository) GetDocument(ctx context.Context, company, key string) ([]byte, int64, error) {
	query := `SELECT value, version FROM fund_documents WHERE company = $1 AND key = $2`

	var row struct {
		Value   []byte `db:"value"`
		Version int64  `db:"version"`
	}
	err := r.db.GetContext(ctx, &row, query, company, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, nil // Document not found
		}
		return nil, 0, err
	}

	return row.Value, row.Version, nil
}

func (r *PostgresRepository) PutDocument(ctx context.Context, company, key string, value []byte, expectedVersion int64) (int64, error) {
	now := time.Now().UTC()

	if expectedVersion == 0 {
		query := `
			INSERT INTO fund_documents (company, key, value, version, updated_at)
			VALUES ($1, $2, $3, 1, $4)
			ON CONFLICT (company, key) DO NOTHING
		`
		res, err := r.db.ExecContext(ctx, query, company, key, value, now)
		if err != nil {
			return 0, err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		if rows == 0 {
			return 0, ErrVersionConflict
		}
		return 1, nil
	}

	query := `
		UPDATE fund_documents
		SET value = $1, version = version + 1, updated_at = $2
		WHERE company = $3 AND key = $4 AND version = $5
	`
	res, err := r.db.ExecContext(ctx, query, value, now, company, key, expectedVersion)
	if err != nil {
		return 0, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return 0, ErrVersionConflict
	}
	return expectedVersion + 1, nil
}

func (r *PostgresRepository) DeleteDocument(ctx context.Context, company, key string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM fund_documents WHERE company = $1 AND key = $2`, company, key)
	return err
}

// Provider directory methods
func (r *PostgresRepository) ListProviders(ctx context.Context, company string) ([]models.Provider, error) {
	query := `SELECT * FROM providers WHERE company = $1 ORDER BY code`

	var providers []models.Provider
	err := r.db.SelectContext(ctx, &providers, query, company)
	if err != nil {
		return nil, err
	}

	return providers, nil
}

func (r *PostgresRepository) GetProvider(ctx context.Context, company, code string) (*models.Provider, error) {
	query := `SELECT * FROM providers WHERE company = $1 AND code = $2`

	var provider models.Provider
	err := r.db.GetContext(ctx, &provider, query, company, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Provider not found
		}
		return nil, err
	}

	return &provider, nil
}

func (r *PostgresRepository) UpsertProvider(ctx context.Context, provider *models.Provider) error {
	query := `
		INSERT INTO providers (code, company, name, type)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company, code) DO UPDATE SET name = $3, type = $4
	`

	_, err := r.db.ExecContext(ctx, query,
		provider.Code, provider.Company, provider.Name, provider.Type)
	return err
}

// Employee roster methods
func (r *PostgresRepository) ListEmployees(ctx context.Context, company string) ([]models.Employee, error) {
	query := `SELECT * FROM employees WHERE company = $1 ORDER BY name`

	var employees []models.Employee
	err := r.db.SelectContext(ctx, &employees, query, company)
	if err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *PostgresRepository) AddEmployee(ctx context.Context, employee *models.Employee) error {
	if employee.ID == "" {
		employee.ID = uuid.New().String()
	}

	query := `INSERT INTO employees (id, company, name) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, employee.ID, employee.Company, employee.Name)
	return err
}

// Purchase order methods
func (r *PostgresRepository) CreatePurchaseOrder(ctx context.Context, order *models.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, company, provider_code, description, amount, currency, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.Status == "" {
		order.Status = models.OrderPending
	}

	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		order.ID, order.Company, order.ProviderCode, order.Description,
		order.Amount, order.Currency, order.Status, order.CreatedBy,
		order.CreatedAt, order.UpdatedAt)
	return err
}

func (r *PostgresRepository) GetPurchaseOrder(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	query := `SELECT * FROM purchase_orders WHERE id = $1`

	var order models.PurchaseOrder
	err := r.db.GetContext(ctx, &order, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Order not found
		}
		return nil, err
	}

	return &order, nil
}

func (r *PostgresRepository) ListPurchaseOrders(ctx context.Context, company string) ([]models.PurchaseOrder, error) {
	query := `SELECT * FROM purchase_orders WHERE company = $1 ORDER BY created_at DESC`

	var orders []models.PurchaseOrder
	err := r.db.SelectContext(ctx, &orders, query, company)
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *PostgresRepository) UpdatePurchaseOrderStatus(ctx context.Context, id, status string) error {
	query := `UPDATE purchase_orders SET status = $1, updated_at = $2 WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
