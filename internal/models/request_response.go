package models

// Request models
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=admin operador"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateMovementRequest struct {
	ProviderCode  string `json:"providerCode" binding:"required"`
	InvoiceNumber string `json:"invoiceNumber" binding:"required"`
	Category      string `json:"category" binding:"required"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	Currency      string `json:"currency" binding:"required,oneof=CRC USD"`
	Manager       string `json:"manager" binding:"required"`
	Notes         string `json:"notes" binding:"max=200"`
}

type EditMovementRequest struct {
	ProviderCode  string `json:"providerCode" binding:"required"`
	InvoiceNumber string `json:"invoiceNumber" binding:"required"`
	Category      string `json:"category" binding:"required"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	Currency      string `json:"currency" binding:"required,oneof=CRC USD"`
	Manager       string `json:"manager" binding:"required"`
	Notes         string `json:"notes" binding:"max=200"`
}

type SetOpeningBalanceRequest struct {
	Currency string `json:"currency" binding:"required,oneof=CRC USD"`
	Amount   int64  `json:"amount"`
}

type UpsertProviderRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
	Type string `json:"type"`
}

type AddEmployeeRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateOrderRequest struct {
	ProviderCode string `json:"providerCode" binding:"required"`
	Description  string `json:"description" binding:"required"`
	Amount       int64  `json:"amount" binding:"required,gt=0"`
	Currency     string `json:"currency" binding:"required,oneof=CRC USD"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDIENTE ORDENADO RECIBIDO ANULADO"`
}

// Response models
type AuthResponse struct {
	Status    string `json:"status"`
	UserID    string `json:"userId,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role,omitempty"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

// CurrencyTotals are the aggregate figures for one currency of one account.
type CurrencyTotals struct {
	Opening int64 `json:"opening"`
	Inflow  int64 `json:"inflow"`
	Outflow int64 `json:"outflow"`
	Final   int64 `json:"final"`
}

type FundResponse struct {
	Status    string                      `json:"status"`
	Company   string                      `json:"company"`
	Account   string                      `json:"account"`
	Version   int64                       `json:"version"`
	Movements []Movement                  `json:"movements"`
	BalanceBy map[string]int64            `json:"balanceByEntry"` // entry id -> balance after
	Totals    map[Currency]CurrencyTotals `json:"totals"`
	Skipped   int                         `json:"skipped,omitempty"` // records dropped by normalization
}

type MovementResponse struct {
	Status   string   `json:"status"`
	Movement Movement `json:"movement"`
}

type OpeningBalanceResponse struct {
	Status   string   `json:"status"`
	Account  string   `json:"account"`
	Currency Currency `json:"currency"`
	Amount   int64    `json:"amount"`
}

type ProviderResponse struct {
	Status   string   `json:"status"`
	Provider Provider `json:"provider"`
}

type EmployeeResponse struct {
	Status   string   `json:"status"`
	Employee Employee `json:"employee"`
}

type ProviderListResponse struct {
	Status    string     `json:"status"`
	Providers []Provider `json:"providers"`
}

type EmployeeListResponse struct {
	Status    string     `json:"status"`
	Employees []Employee `json:"employees"`
}

type OrderResponse struct {
	Status string        `json:"status"`
	Order  PurchaseOrder `json:"order"`
}

type OrderListResponse struct {
	Status string          `json:"status"`
	Orders []PurchaseOrder `json:"orders"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
