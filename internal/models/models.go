package models

import (
	"time"
)

// Currency identifies one of the two ledgers every account keeps.
type Currency string

const (
	CurrencyCRC Currency = "CRC" // primary
	CurrencyUSD Currency = "USD" // secondary
)

// Currencies lists the supported currencies in replay order.
var Currencies = []Currency{CurrencyCRC, CurrencyUSD}

// Account namespaces. Movements never move between namespaces.
const (
	AccountFondoGeneral = "fondo_general"
	AccountCajaChica    = "caja_chica"
	AccountBancoCRC     = "banco_crc"
	AccountBancoUSD     = "banco_usd"
)

// AccountNames lists the four fixed account namespaces.
var AccountNames = []string{
	AccountFondoGeneral,
	AccountCajaChica,
	AccountBancoCRC,
	AccountBancoUSD,
}

// IsValidAccount reports whether name is one of the fixed namespaces.
func IsValidAccount(name string) bool {
	for _, n := range AccountNames {
		if n == name {
			return true
		}
	}
	return false
}

// User represents a user in the system
type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Password  string    `db:"password" json:"-"` // Password hash, not returned in JSON
	Role      string    `db:"role" json:"role"`  // "admin" or "operador"
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

const (
	RoleAdmin    = "admin"
	RoleOperador = "operador"
)

// MovementSnapshot captures the editable fields of a movement at a point in
// time. Audit records hold one snapshot from before the edit and one after.
type MovementSnapshot struct {
	ProviderCode  string   `json:"providerCode"`
	InvoiceNumber string   `json:"invoiceNumber"`
	Category      string   `json:"category"`
	AmountOutflow int64    `json:"amountOutflow"`
	AmountInflow  int64    `json:"amountInflow"`
	Currency      Currency `json:"currency"`
	Manager       string   `json:"manager"`
	Notes         string   `json:"notes"`
}

// AuditRecord is one entry in a movement's edit history.
type AuditRecord struct {
	At      string           `json:"at"` // ISO-8601
	Before  MovementSnapshot `json:"before"`
	After   MovementSnapshot `json:"after"`
	Changes []string         `json:"changes,omitempty"`
}

// Movement is a single ledger entry within one account namespace and one
// currency. Exactly one of AmountOutflow/AmountInflow is positive, determined
// by the category's group. CreatedAt is set once and survives edits; edits are
// recorded in AuditHistory instead.
type Movement struct {
	ID              string        `json:"id"`
	ProviderCode    string        `json:"providerCode"`
	InvoiceNumber   string        `json:"invoiceNumber"` // zero-padded to 4 digits
	Category        string        `json:"category"`
	AmountOutflow   int64         `json:"amountOutflow"`
	AmountInflow    int64         `json:"amountInflow"`
	Currency        Currency      `json:"currency"`
	Manager         string        `json:"manager"`
	Notes           string        `json:"notes"`
	CreatedAt       string        `json:"createdAt"` // ISO-8601, immutable
	IsAudited       bool          `json:"isAudited"`
	OriginalEntryID string        `json:"originalEntryId,omitempty"`
	AuditHistory    []AuditRecord `json:"auditHistory,omitempty"`
}

// Snapshot returns the movement's editable fields.
func (m Movement) Snapshot() MovementSnapshot {
	return MovementSnapshot{
		ProviderCode:  m.ProviderCode,
		InvoiceNumber: m.InvoiceNumber,
		Category:      m.Category,
		AmountOutflow: m.AmountOutflow,
		AmountInflow:  m.AmountInflow,
		Currency:      m.Currency,
		Manager:       m.Manager,
		Notes:         m.Notes,
	}
}

// Amount returns the movement's single active amount.
func (m Movement) Amount() int64 {
	if m.AmountInflow > 0 {
		return m.AmountInflow
	}
	return m.AmountOutflow
}

// CurrencyBucket holds the movement list for one currency of one account,
// newest first.
type CurrencyBucket struct {
	Movements []Movement `json:"movements"`
}

// AccountBucket holds the two currency ledgers of one account namespace.
type AccountBucket struct {
	CRC CurrencyBucket `json:"CRC"`
	USD CurrencyBucket `json:"USD"`
}

// FundDocument is the full per-company ledger document stored under the
// movements_<company> key.
type FundDocument struct {
	Company  string                   `json:"company"`
	Accounts map[string]AccountBucket `json:"accounts"`
}

// Bucket returns the currency bucket for an account namespace.
func (d *FundDocument) Bucket(account string, currency Currency) CurrencyBucket {
	if d.Accounts == nil {
		return CurrencyBucket{}
	}
	acc := d.Accounts[account]
	if currency == CurrencyUSD {
		return acc.USD
	}
	return acc.CRC
}

// SetBucket replaces the currency bucket for an account namespace.
func (d *FundDocument) SetBucket(account string, currency Currency, bucket CurrencyBucket) {
	if d.Accounts == nil {
		d.Accounts = make(map[string]AccountBucket)
	}
	acc := d.Accounts[account]
	if currency == CurrencyUSD {
		acc.USD = bucket
	} else {
		acc.CRC = bucket
	}
	d.Accounts[account] = acc
}

// Provider is a supplier directory entry. Movements reference providers by
// code only; there is no foreign-key enforcement.
type Provider struct {
	Code    string `db:"code" json:"code"`
	Company string `db:"company" json:"company"`
	Name    string `db:"name" json:"name"`
	Type    string `db:"type" json:"type,omitempty"`
}

// Employee is a roster entry used to validate the manager field.
type Employee struct {
	ID      string `db:"id" json:"id"`
	Company string `db:"company" json:"company"`
	Name    string `db:"name" json:"name"`
}

// Purchase order states.
const (
	OrderPending  = "PENDIENTE"
	OrderOrdered  = "ORDENADO"
	OrderReceived = "RECIBIDO"
	OrderVoided   = "ANULADO"
)

// PurchaseOrder is a supplier order tracked alongside the ledger.
type PurchaseOrder struct {
	ID           string    `db:"id" json:"id"`
	Company      string    `db:"company" json:"company"`
	ProviderCode string    `db:"provider_code" json:"providerCode"`
	Description  string    `db:"description" json:"description"`
	Amount       int64     `db:"amount" json:"amount"`
	Currency     Currency  `db:"currency" json:"currency"`
	Status       string    `db:"status" json:"status"`
	CreatedBy    string    `db:"created_by" json:"createdBy"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}
