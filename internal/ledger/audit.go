package ledger

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mvargascr/fondo-server/internal/models"
)

// ErrCurrencyImmutable rejects edits that change a movement's currency. The
// running balances are replayed per currency, so a currency change would move
// value between the two ledgers without a compensating entry.
var ErrCurrencyImmutable = errors.New("movement currency cannot be changed; record a compensating pair instead")

// NewSnapshot builds the editable field set for a category and a single
// amount, zeroing the direction the category does not use.
func NewSnapshot(providerCode, invoiceNumber, category string, amount int64, currency models.Currency, manager, notes string) models.MovementSnapshot {
	s := models.MovementSnapshot{
		ProviderCode:  providerCode,
		InvoiceNumber: invoiceNumber,
		Category:      category,
		Currency:      currency,
		Manager:       manager,
		Notes:         notes,
	}
	if IsInflow(category) {
		s.AmountInflow = amount
	} else {
		s.AmountOutflow = amount
	}
	return s
}

// DiffLines lists the fields that differ between two snapshots, one line per
// field, in the form "Campo: viejo → nuevo".
func DiffLines(before, after models.MovementSnapshot) []string {
	var lines []string
	add := func(label, old, new string) {
		if old != new {
			lines = append(lines, fmt.Sprintf("%s: %s → %s", label, old, new))
		}
	}
	add("Proveedor", before.ProviderCode, after.ProviderCode)
	add("Factura", before.InvoiceNumber, after.InvoiceNumber)
	add("Categoría", before.Category, after.Category)
	add("Monto", strconv.FormatInt(activeAmount(before), 10), strconv.FormatInt(activeAmount(after), 10))
	add("Encargado", before.Manager, after.Manager)
	add("Notas", before.Notes, after.Notes)
	return lines
}

// ApplyEdit replaces a movement's editable fields and appends one audit
// record. CreatedAt is carried over unchanged so the movement keeps its place
// in chronological replay, and OriginalEntryID always points at the very
// first version.
func ApplyEdit(existing models.Movement, proposed models.MovementSnapshot, now time.Time) (models.Movement, error) {
	if proposed.Currency != existing.Currency {
		return models.Movement{}, ErrCurrencyImmutable
	}

	before := existing.Snapshot()
	record := models.AuditRecord{
		At:      now.UTC().Format(time.RFC3339),
		Before:  before,
		After:   proposed,
		Changes: DiffLines(before, proposed),
	}

	updated := existing
	updated.ProviderCode = proposed.ProviderCode
	updated.InvoiceNumber = proposed.InvoiceNumber
	updated.Category = proposed.Category
	updated.AmountOutflow = proposed.AmountOutflow
	updated.AmountInflow = proposed.AmountInflow
	updated.Manager = proposed.Manager
	updated.Notes = proposed.Notes
	updated.IsAudited = true
	if updated.OriginalEntryID == "" {
		updated.OriginalEntryID = existing.ID
	}
	updated.AuditHistory = append(append([]models.AuditRecord{}, existing.AuditHistory...), record)
	return updated, nil
}

func activeAmount(s models.MovementSnapshot) int64 {
	if IsInflow(s.Category) {
		return s.AmountInflow
	}
	return s.AmountOutflow
}
