package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mvargascr/fondo-server/internal/events"
	"github.com/mvargascr/fondo-server/internal/ledger"
	"github.com/mvargascr/fondo-server/internal/models"
	"github.com/mvargascr/fondo-server/internal/repository"
	"github.com/mvargascr/fondo-server/internal/utils"
)

// Sentinel errors mapped to HTTP status codes by the API layer.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

var invoicePattern = regexp.MustCompile(`^[0-9]{1,4}$`)

// saveAttempts bounds the reload-and-retry loop around document writes.
const saveAttempts = 3

// Service defines all the business logic operations
type Service interface {
	// Authentication
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)

	// Fund operations
	GetFund(ctx context.Context, company, account string) (*models.FundResponse, error)
	CreateMovement(ctx context.Context, company, account string, req models.CreateMovementRequest) (*models.MovementResponse, error)
	EditMovement(ctx context.Context, company, account, movementID string, req models.EditMovementRequest) (*models.MovementResponse, error)
	DeleteMovement(ctx context.Context, company, account, movementID string) error
	SetOpeningBalance(ctx context.Context, company, account string, req models.SetOpeningBalanceRequest) (*models.OpeningBalanceResponse, error)

	// Provider directory and employee roster
	ListProviders(ctx context.Context, company string) (*models.ProviderListResponse, error)
	UpsertProvider(ctx context.Context, company string, req models.UpsertProviderRequest) (*models.ProviderResponse, error)
	ListEmployees(ctx context.Context, company string) (*models.EmployeeListResponse, error)
	AddEmployee(ctx context.Context, company string, req models.AddEmployeeRequest) (*models.EmployeeResponse, error)

	// Purchase orders
	CreateOrder(ctx context.Context, company, userID string, req models.CreateOrderRequest) (*models.OrderResponse, error)
	ListOrders(ctx context.Context, company string) (*models.OrderListResponse, error)
	UpdateOrderStatus(ctx context.Context, company, orderID string, req models.UpdateOrderStatusRequest) (*models.OrderResponse, error)
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo          repository.Repository
	publisher     events.Publisher
	logger        *utils.Logger
	jwtSecret     []byte
	tokenDuration time.Duration
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(repo repository.Repository, publisher events.Publisher, logger *utils.Logger, jwtSecret string) Service {
	return &DefaultService{
		repo:          repo,
		publisher:     publisher,
		logger:        logger,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: 24 * time.Hour, // 24 hours token validity
	}
}

// Authentication methods
func (s *DefaultService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error) {
	// Check if user already exists
	existingUser, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking user existence: %w", err)
	}

	if existingUser != nil {
		return nil, ErrDuplicateEmail
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleOperador
	}

	// Create the user
	user := &models.User{
		ID:       uuid.New().String(),
		Email:    req.Email,
		Name:     req.Name,
		Password: string(hashedPassword),
		Role:     role,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return &models.AuthResponse{
		Status: "success",
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	}, nil
}

func (s *DefaultService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	// Get the user
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Generate JWT token
	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.AuthResponse{
		Status:    "success",
		UserID:    user.ID,
		Role:      user.Role,
		Token:     token,
		ExpiresIn: int(s.tokenDuration.Seconds()),
	}, nil
}

// Raw document shapes read back from storage. Movements go through the
// normalizer before anything trusts them.
type rawBucket struct {
	Movements []ledger.RawMovement `json:"movements"`
}

type rawAccountBucket struct {
	CRC rawBucket `json:"CRC"`
	USD rawBucket `json:"USD"`
}

type rawFundDocument struct {
	Company  string                      `json:"company"`
	Accounts map[string]rawAccountBucket `json:"accounts"`
}

// loadFund reads the company's fund document, migrates the legacy flat lists
// when the structured document is absent, and normalizes every movement
// bucket. The normalized document is written back when it differs from what
// was stored. Malformed stored data degrades to an empty document; it is
// logged, never fatal.
func (s *DefaultService) loadFund(ctx context.Context, company string) (models.FundDocument, int64, int, error) {
	key := repository.MovementsKey(company)
	stored, version, err := s.repo.GetDocument(ctx, company, key)
	if err != nil {
		return models.FundDocument{}, 0, 0, fmt.Errorf("error reading fund document: %w", err)
	}

	if stored == nil {
		doc, migrated, err := s.migrateLegacyLists(ctx, company)
		if err != nil {
			return models.FundDocument{}, 0, 0, err
		}
		if !migrated {
			return models.FundDocument{Company: company}, 0, 0, nil
		}
		version, err := s.saveFund(ctx, company, doc, 0)
		if err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				// Another writer migrated first; reread theirs.
				return s.loadFund(ctx, company)
			}
			return models.FundDocument{}, 0, 0, err
		}
		return doc, version, 0, nil
	}

	var raw rawFundDocument
	if err := json.Unmarshal(stored, &raw); err != nil {
		s.logger.Error("malformed fund document for %s, treating as empty: %v", company, err)
		return models.FundDocument{Company: company}, version, 0, nil
	}

	doc := models.FundDocument{Company: company, Accounts: make(map[string]models.AccountBucket)}
	skipped := 0
	for account, buckets := range raw.Accounts {
		crc, crcSkipped := ledger.Normalize(buckets.CRC.Movements)
		usd, usdSkipped := ledger.Normalize(buckets.USD.Movements)
		for _, sk := range append(crcSkipped, usdSkipped...) {
			s.logger.Info("dropped invalid movement %q in %s/%s: %s", sk.ID, company, account, sk.Reason)
		}
		skipped += len(crcSkipped) + len(usdSkipped)
		doc.Accounts[account] = models.AccountBucket{
			CRC: models.CurrencyBucket{Movements: crc},
			USD: models.CurrencyBucket{Movements: usd},
		}
	}

	// Re-persist only when normalization changed the stored bytes.
	normalized, err := json.Marshal(doc)
	if err != nil {
		return models.FundDocument{}, 0, 0, fmt.Errorf("error encoding fund document: %w", err)
	}
	if !bytes.Equal(normalized, stored) {
		newVersion, err := s.repo.PutDocument(ctx, company, key, normalized, version)
		if err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				s.logger.Info("fund document for %s changed underneath normalization, keeping in-memory copy", company)
				return doc, version, skipped, nil
			}
			return models.FundDocument{}, 0, 0, fmt.Errorf("error writing normalized fund document: %w", err)
		}
		version = newVersion
	}

	return doc, version, skipped, nil
}

// migrateLegacyLists reads the pre-document flat movement lists (one key per
// account, no currency split) and assembles them into a fund document. The
// legacy keys are deleted once the document is in place.
func (s *DefaultService) migrateLegacyLists(ctx context.Context, company string) (models.FundDocument, bool, error) {
	doc := models.FundDocument{Company: company, Accounts: make(map[string]models.AccountBucket)}
	migrated := false

	for _, account := range models.AccountNames {
		stored, _, err := s.repo.GetDocument(ctx, company, repository.LegacyMovementsKey(account))
		if err != nil {
			return models.FundDocument{}, false, fmt.Errorf("error reading legacy movements: %w", err)
		}
		if stored == nil {
			continue
		}

		var raws []ledger.RawMovement
		if err := json.Unmarshal(stored, &raws); err != nil {
			s.logger.Error("malformed legacy movement list %s/%s, skipping: %v", company, account, err)
			continue
		}

		movements, skippedRecords := ledger.Normalize(raws)
		for _, sk := range skippedRecords {
			s.logger.Info("dropped invalid legacy movement %q in %s/%s: %s", sk.ID, company, account, sk.Reason)
		}

		// The legacy format carried no currency split; place each movement in
		// the bucket its normalized currency selects.
		bucket := models.AccountBucket{}
		for _, m := range movements {
			if m.Currency == models.CurrencyUSD {
				bucket.USD.Movements = append(bucket.USD.Movements, m)
			} else {
				bucket.CRC.Movements = append(bucket.CRC.Movements, m)
			}
		}
		doc.Accounts[account] = bucket
		migrated = true
	}

	if migrated {
		for _, account := range models.AccountNames {
			if err := s.repo.DeleteDocument(ctx, company, repository.LegacyMovementsKey(account)); err != nil {
				s.logger.Error("failed to delete legacy movement list %s/%s: %v", company, account, err)
			}
		}
	}

	return doc, migrated, nil
}

func (s *DefaultService) saveFund(ctx context.Context, company string, doc models.FundDocument, version int64) (int64, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("error encoding fund document: %w", err)
	}
	return s.repo.PutDocument(ctx, company, repository.MovementsKey(company), data, version)
}

// openingBalances reads the per-account opening balance keys. Absent or
// unreadable values count as zero.
func (s *DefaultService) openingBalances(ctx context.Context, company, account string) (map[models.Currency]int64, error) {
	opening := make(map[models.Currency]int64, len(models.Currencies))
	for _, currency := range models.Currencies {
		stored, _, err := s.repo.GetDocument(ctx, company, repository.OpeningBalanceKey(account, currency))
		if err != nil {
			return nil, fmt.Errorf("error reading opening balance: %w", err)
		}
		if stored == nil {
			continue
		}
		value := strings.Trim(strings.TrimSpace(string(stored)), `"`)
		amount, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			s.logger.Error("unreadable opening balance %s/%s %s: %v", company, account, currency, err)
			continue
		}
		opening[currency] = amount
	}
	return opening, nil
}

// Fund operations
func (s *DefaultService) GetFund(ctx context.Context, company, account string) (*models.FundResponse, error) {
	if !models.IsValidAccount(account) {
		return nil, fmt.Errorf("%w: unknown account %q", ErrNotFound, account)
	}

	doc, version, skipped, err := s.loadFund(ctx, company)
	if err != nil {
		return nil, err
	}

	opening, err := s.openingBalances(ctx, company, account)
	if err != nil {
		return nil, err
	}

	crc := doc.Bucket(account, models.CurrencyCRC).Movements
	usd := doc.Bucket(account, models.CurrencyUSD).Movements
	movements := make([]models.Movement, 0, len(crc)+len(usd))
	movements = append(movements, crc...)
	movements = append(movements, usd...)

	report := ledger.ComputeBalances(movements, opening)

	return &models.FundResponse{
		Status:    "success",
		Company:   company,
		Account:   account,
		Version:   version,
		Movements: movements,
		BalanceBy: report.AfterBy,
		Totals:    report.Totals,
		Skipped:   skipped,
	}, nil
}

// validateMovementFields runs the shared checks for create and edit. It
// returns the resolved category and the zero-padded invoice number.
func (s *DefaultService) validateMovementFields(ctx context.Context, company, providerCode, rawCategory, rawInvoice, manager string) (string, string, error) {
	category := strings.ToUpper(strings.TrimSpace(rawCategory))
	if !ledger.IsKnownCategory(category) {
		return "", "", fmt.Errorf("%w: unknown category %q", ErrValidation, rawCategory)
	}

	invoice := strings.TrimSpace(rawInvoice)
	if !invoicePattern.MatchString(invoice) {
		return "", "", fmt.Errorf("%w: invoice number must be 1 to 4 digits", ErrValidation)
	}
	n, _ := strconv.Atoi(invoice)
	invoice = fmt.Sprintf("%04d", n)

	provider, err := s.repo.GetProvider(ctx, company, providerCode)
	if err != nil {
		return "", "", fmt.Errorf("error getting provider: %w", err)
	}
	if provider == nil {
		return "", "", fmt.Errorf("%w: unknown provider %q", ErrValidation, providerCode)
	}

	employees, err := s.repo.ListEmployees(ctx, company)
	if err != nil {
		return "", "", fmt.Errorf("error listing employees: %w", err)
	}
	known := false
	for _, e := range employees {
		if e.Name == manager {
			known = true
			break
		}
	}
	if !known {
		return "", "", fmt.Errorf("%w: manager %q is not on the roster", ErrValidation, manager)
	}

	return category, invoice, nil
}

func (s *DefaultService) CreateMovement(ctx context.Context, company, account string, req models.CreateMovementRequest) (*models.MovementResponse, error) {
	if !models.IsValidAccount(account) {
		return nil, fmt.Errorf("%w: unknown account %q", ErrNotFound, account)
	}

	category, invoice, err := s.validateMovementFields(ctx, company, req.ProviderCode, req.Category, req.InvoiceNumber, req.Manager)
	if err != nil {
		return nil, err
	}
	currency := models.Currency(req.Currency)

	var lastErr error
	for attempt := 0; attempt < saveAttempts; attempt++ {
		doc, version, _, err := s.loadFund(ctx, company)
		if err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		// IDs derive from the creation timestamp; bump on the rare collision.
		id := now.UnixMilli()
		for {
			if _, _, found := findMovement(&doc, account, strconv.FormatInt(id, 10)); !found {
				break
			}
			id++
		}

		snapshot := ledger.NewSnapshot(req.ProviderCode, invoice, category, req.Amount, currency, req.Manager, req.Notes)
		movement := models.Movement{
			ID:            strconv.FormatInt(id, 10),
			ProviderCode:  snapshot.ProviderCode,
			InvoiceNumber: snapshot.InvoiceNumber,
			Category:      snapshot.Category,
			AmountOutflow: snapshot.AmountOutflow,
			AmountInflow:  snapshot.AmountInflow,
			Currency:      currency,
			Manager:       snapshot.Manager,
			Notes:         snapshot.Notes,
			CreatedAt:     now.Format(time.RFC3339),
		}

		bucket := doc.Bucket(account, currency)
		bucket.Movements = append([]models.Movement{movement}, bucket.Movements...) // newest first
		doc.SetBucket(account, currency, bucket)

		if _, err := s.saveFund(ctx, company, doc, version); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("error saving fund document: %w", err)
		}

		s.publish(ctx, events.MovementEvent{
			Type: events.MovementCreated, Company: company, Account: account,
			Movement: movement, At: now,
		})
		return &models.MovementResponse{Status: "success", Movement: movement}, nil
	}
	return nil, fmt.Errorf("error saving fund document: %w", lastErr)
}

func (s *DefaultService) EditMovement(ctx context.Context, company, account, movementID string, req models.EditMovementRequest) (*models.MovementResponse, error) {
	if !models.IsValidAccount(account) {
		return nil, fmt.Errorf("%w: unknown account %q", ErrNotFound, account)
	}

	category, invoice, err := s.validateMovementFields(ctx, company, req.ProviderCode, req.Category, req.InvoiceNumber, req.Manager)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < saveAttempts; attempt++ {
		doc, version, _, err := s.loadFund(ctx, company)
		if err != nil {
			return nil, err
		}

		currency, index, found := findMovement(&doc, account, movementID)
		if !found {
			return nil, fmt.Errorf("%w: movement %q", ErrNotFound, movementID)
		}
		bucket := doc.Bucket(account, currency)
		existing := bucket.Movements[index]

		proposed := ledger.NewSnapshot(req.ProviderCode, invoice, category, req.Amount, models.Currency(req.Currency), req.Manager, req.Notes)
		now := time.Now().UTC()
		updated, err := ledger.ApplyEdit(existing, proposed, now)
		if err != nil {
			return nil, err
		}

		bucket.Movements[index] = updated
		doc.SetBucket(account, currency, bucket)

		if _, err := s.saveFund(ctx, company, doc, version); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("error saving fund document: %w", err)
		}

		s.publish(ctx, events.MovementEvent{
			Type: events.MovementEdited, Company: company, Account: account,
			Movement: updated, At: now,
		})
		return &models.MovementResponse{Status: "success", Movement: updated}, nil
	}
	return nil, fmt.Errorf("error saving fund document: %w", lastErr)
}

func (s *DefaultService) DeleteMovement(ctx context.Context, company, account, movementID string) error {
	if !models.IsValidAccount(account) {
		return fmt.Errorf("%w: unknown account %q", ErrNotFound, account)
	}

	var lastErr error
	for attempt := 0; attempt < saveAttempts; attempt++ {
		doc, version, _, err := s.loadFund(ctx, company)
		if err != nil {
			return err
		}

		currency, index, found := findMovement(&doc, account, movementID)
		if !found {
			return fmt.Errorf("%w: movement %q", ErrNotFound, movementID)
		}
		bucket := doc.Bucket(account, currency)
		removed := bucket.Movements[index]
		bucket.Movements = append(bucket.Movements[:index], bucket.Movements[index+1:]...)
		doc.SetBucket(account, currency, bucket)

		if _, err := s.saveFund(ctx, company, doc, version); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				lastErr = err
				continue
			}
			return fmt.Errorf("error saving fund document: %w", err)
		}

		s.publish(ctx, events.MovementEvent{
			Type: events.MovementDeleted, Company: company, Account: account,
			Movement: removed, At: time.Now().UTC(),
		})
		return nil
	}
	return fmt.Errorf("error saving fund document: %w", lastErr)
}

func (s *DefaultService) SetOpeningBalance(ctx context.Context, company, account string, req models.SetOpeningBalanceRequest) (*models.OpeningBalanceResponse, error) {
	if !models.IsValidAccount(account) {
		return nil, fmt.Errorf("%w: unknown account %q", ErrNotFound, account)
	}

	currency := models.Currency(req.Currency)
	key := repository.OpeningBalanceKey(account, currency)
	value := []byte(strconv.FormatInt(req.Amount, 10))

	var lastErr error
	for attempt := 0; attempt < saveAttempts; attempt++ {
		_, version, err := s.repo.GetDocument(ctx, company, key)
		if err != nil {
			return nil, fmt.Errorf("error reading opening balance: %w", err)
		}
		if _, err := s.repo.PutDocument(ctx, company, key, value, version); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("error writing opening balance: %w", err)
		}
		return &models.OpeningBalanceResponse{
			Status:   "success",
			Account:  account,
			Currency: currency,
			Amount:   req.Amount,
		}, nil
	}
	return nil, fmt.Errorf("error writing opening balance: %w", lastErr)
}

// Provider directory and employee roster
func (s *DefaultService) ListProviders(ctx context.Context, company string) (*models.ProviderListResponse, error) {
	providers, err := s.repo.ListProviders(ctx, company)
	if err != nil {
		return nil, fmt.Errorf("error listing providers: %w", err)
	}
	return &models.ProviderListResponse{Status: "success", Providers: providers}, nil
}

func (s *DefaultService) UpsertProvider(ctx context.Context, company string, req models.UpsertProviderRequest) (*models.ProviderResponse, error) {
	provider := &models.Provider{
		Code:    req.Code,
		Company: company,
		Name:    req.Name,
		Type:    req.Type,
	}
	if err := s.repo.UpsertProvider(ctx, provider); err != nil {
		return nil, fmt.Errorf("error upserting provider: %w", err)
	}
	return &models.ProviderResponse{Status: "success", Provider: *provider}, nil
}

func (s *DefaultService) ListEmployees(ctx context.Context, company string) (*models.EmployeeListResponse, error) {
	employees, err := s.repo.ListEmployees(ctx, company)
	if err != nil {
		return nil, fmt.Errorf("error listing employees: %w", err)
	}
	return &models.EmployeeListResponse{Status: "success", Employees: employees}, nil
}

func (s *DefaultService) AddEmployee(ctx context.Context, company string, req models.AddEmployeeRequest) (*models.EmployeeResponse, error) {
	employee := &models.Employee{Company: company, Name: req.Name}
	if err := s.repo.AddEmployee(ctx, employee); err != nil {
		return nil, fmt.Errorf("error adding employee: %w", err)
	}
	return &models.EmployeeResponse{Status: "success", Employee: *employee}, nil
}

// Purchase orders
func (s *DefaultService) CreateOrder(ctx context.Context, company, userID string, req models.CreateOrderRequest) (*models.OrderResponse, error) {
	provider, err := s.repo.GetProvider(ctx, company, req.ProviderCode)
	if err != nil {
		return nil, fmt.Errorf("error getting provider: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("%w: unknown provider %q", ErrValidation, req.ProviderCode)
	}

	order := &models.PurchaseOrder{
		Company:      company,
		ProviderCode: req.ProviderCode,
		Description:  req.Description,
		Amount:       req.Amount,
		Currency:     models.Currency(req.Currency),
		Status:       models.OrderPending,
		CreatedBy:    userID,
	}
	if err := s.repo.CreatePurchaseOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("error creating purchase order: %w", err)
	}
	return &models.OrderResponse{Status: "success", Order: *order}, nil
}

func (s *DefaultService) ListOrders(ctx context.Context, company string) (*models.OrderListResponse, error) {
	orders, err := s.repo.ListPurchaseOrders(ctx, company)
	if err != nil {
		return nil, fmt.Errorf("error listing purchase orders: %w", err)
	}
	return &models.OrderListResponse{Status: "success", Orders: orders}, nil
}

// orderTransitions lists the allowed status changes.
var orderTransitions = map[string][]string{
	models.OrderPending: {models.OrderOrdered, models.OrderVoided},
	models.OrderOrdered: {models.OrderReceived, models.OrderVoided},
}

func (s *DefaultService) UpdateOrderStatus(ctx context.Context, company, orderID string, req models.UpdateOrderStatusRequest) (*models.OrderResponse, error) {
	order, err := s.repo.GetPurchaseOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("error getting purchase order: %w", err)
	}
	if order == nil || order.Company != company {
		return nil, fmt.Errorf("%w: purchase order %q", ErrNotFound, orderID)
	}

	allowed := false
	for _, next := range orderTransitions[order.Status] {
		if next == req.Status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: cannot move order from %s to %s", ErrValidation, order.Status, req.Status)
	}

	if err := s.repo.UpdatePurchaseOrderStatus(ctx, orderID, req.Status); err != nil {
		return nil, fmt.Errorf("error updating purchase order: %w", err)
	}
	order.Status = req.Status
	return &models.OrderResponse{Status: "success", Order: *order}, nil
}

// Helper methods
func findMovement(doc *models.FundDocument, account, movementID string) (models.Currency, int, bool) {
	for _, currency := range models.Currencies {
		bucket := doc.Bucket(account, currency)
		for i, m := range bucket.Movements {
			if m.ID == movementID {
				return currency, i, true
			}
		}
	}
	return models.CurrencyCRC, 0, false
}

// publish sends a movement event; failures are logged, never surfaced, so
// the ledger write itself always wins.
func (s *DefaultService) publish(ctx context.Context, event events.MovementEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish %s event for %s/%s: %v", event.Type, event.Company, event.Account, err)
	}
}

func (s *DefaultService) generateJWT(user *models.User) (string, error) {
	expirationTime := time.Now().Add(s.tokenDuration)

	claims := jwt.MapClaims{
		"sub":  user.ID, // subject
		"role": user.Role,
		"exp":  expirationTime.Unix(),
		"iat":  time.Now().Unix(), // issued at
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
