package ledger

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mvargascr/fondo-server/internal/models"
)

// RawMovement is the untyped shape read back from storage. Field names cover
// both the current schema and the legacy one (paymentType, amountEgreso,
// amountIngreso); amounts may have been stored as numbers or strings.
type RawMovement struct {
	ID              string          `json:"id"`
	ProviderCode    string          `json:"providerCode"`
	InvoiceNumber   string          `json:"invoiceNumber"`
	Category        string          `json:"category"`
	PaymentType     string          `json:"paymentType"`
	AmountOutflow   any             `json:"amountOutflow"`
	AmountInflow    any             `json:"amountInflow"`
	AmountEgreso    any             `json:"amountEgreso"`
	AmountIngreso   any             `json:"amountIngreso"`
	Currency        string          `json:"currency"`
	Manager         string          `json:"manager"`
	Notes           string          `json:"notes"`
	CreatedAt       string          `json:"createdAt"`
	IsAudited       bool            `json:"isAudited"`
	OriginalEntryID string          `json:"originalEntryId"`
	AuditHistory    json.RawMessage `json:"auditHistory"`
}

// SkipReason tags why a raw record was dropped during normalization.
type SkipReason string

const (
	SkipMissingID        SkipReason = "missing id"
	SkipMissingProvider  SkipReason = "missing providerCode"
	SkipMissingManager   SkipReason = "missing manager"
	SkipMissingCreatedAt SkipReason = "missing createdAt"
)

// SkippedRecord reports one dropped record and its position in the input.
type SkippedRecord struct {
	Index  int
	ID     string
	Reason SkipReason
}

// legacyAuditShape is the pre-list audit history: a single before/after pair.
type legacyAuditShape struct {
	At     string                  `json:"at"`
	Before models.MovementSnapshot `json:"before"`
	After  models.MovementSnapshot `json:"after"`
}

// NormalizeRecord migrates one raw record to the current schema. A non-empty
// SkipReason means the record is invalid and must be dropped.
func NormalizeRecord(raw RawMovement) (models.Movement, SkipReason) {
	switch {
	case strings.TrimSpace(raw.ID) == "":
		return models.Movement{}, SkipMissingID
	case strings.TrimSpace(raw.ProviderCode) == "":
		return models.Movement{}, SkipMissingProvider
	case strings.TrimSpace(raw.Manager) == "":
		return models.Movement{}, SkipMissingManager
	case strings.TrimSpace(raw.CreatedAt) == "":
		return models.Movement{}, SkipMissingCreatedAt
	}

	storedCategory := raw.Category
	if strings.TrimSpace(storedCategory) == "" {
		storedCategory = raw.PaymentType
	}
	category := ResolveCategory(storedCategory)

	outflow := coerceAmount(raw.AmountOutflow)
	if outflow == 0 {
		outflow = coerceAmount(raw.AmountEgreso)
	}
	inflow := coerceAmount(raw.AmountInflow)
	if inflow == 0 {
		inflow = coerceAmount(raw.AmountIngreso)
	}

	// The side not matching the category group is zeroed, whatever was stored.
	if IsInflow(category) {
		outflow = 0
	} else {
		inflow = 0
	}

	currency := models.CurrencyCRC
	if models.Currency(strings.ToUpper(strings.TrimSpace(raw.Currency))) == models.CurrencyUSD {
		currency = models.CurrencyUSD
	}

	return models.Movement{
		ID:              raw.ID,
		ProviderCode:    raw.ProviderCode,
		InvoiceNumber:   raw.InvoiceNumber,
		Category:        category,
		AmountOutflow:   outflow,
		AmountInflow:    inflow,
		Currency:        currency,
		Manager:         raw.Manager,
		Notes:           raw.Notes,
		CreatedAt:       raw.CreatedAt,
		IsAudited:       raw.IsAudited,
		OriginalEntryID: raw.OriginalEntryID,
		AuditHistory:    normalizeAuditHistory(raw.AuditHistory),
	}, ""
}

// Normalize migrates a stored movement list, preserving input order. Invalid
// records are dropped and reported, never silently lost.
func Normalize(raws []RawMovement) ([]models.Movement, []SkippedRecord) {
	movements := make([]models.Movement, 0, len(raws))
	var skipped []SkippedRecord
	for i, raw := range raws {
		m, reason := NormalizeRecord(raw)
		if reason != "" {
			skipped = append(skipped, SkippedRecord{Index: i, ID: raw.ID, Reason: reason})
			continue
		}
		movements = append(movements, m)
	}
	return movements, skipped
}

// normalizeAuditHistory upgrades the legacy single before/after shape to a
// one-element list. Unreadable history is dropped rather than failing the
// whole record.
func normalizeAuditHistory(raw json.RawMessage) []models.AuditRecord {
	if len(raw) == 0 {
		return nil
	}
	var list []models.AuditRecord
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return nil
		}
		return list
	}
	var single legacyAuditShape
	if err := json.Unmarshal(raw, &single); err == nil {
		return []models.AuditRecord{{At: single.At, Before: single.Before, After: single.After}}
	}
	return nil
}

// coerceAmount parses a stored amount of unknown type. Whole currency units
// only: fractional parts are truncated, unparseable and negative values
// become zero.
func coerceAmount(v any) int64 {
	var d decimal.Decimal
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		d = decimal.NewFromFloat(n)
	case int64:
		d = decimal.NewFromInt(n)
	case int:
		d = decimal.NewFromInt(int64(n))
	case json.Number:
		parsed, err := decimal.NewFromString(n.String())
		if err != nil {
			return 0
		}
		d = parsed
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return 0
		}
		d = parsed
	default:
		return 0
	}
	units := d.IntPart()
	if units < 0 {
		return 0
	}
	return units
}
