package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mvargascr/fondo-server/internal/models"
)

func existingMovement() models.Movement {
	return models.Movement{
		ID:            "1700000000001",
		ProviderCode:  "P-001",
		InvoiceNumber: "0042",
		Category:      CategorySalarios,
		AmountOutflow: 400,
		Currency:      models.CurrencyCRC,
		Manager:       "Ana",
		Notes:         "pago quincena",
		CreatedAt:     "2024-03-01T10:00:00Z",
	}
}

func TestApplyEditAppendsHistory(t *testing.T) {
	existing := existingMovement()
	proposed := existing.Snapshot()
	proposed.Manager = "Luis"

	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	updated, err := ApplyEdit(existing, proposed, now)

	assert.NoError(t, err)
	assert.True(t, updated.IsAudited)
	assert.Equal(t, existing.ID, updated.OriginalEntryID)
	assert.Equal(t, existing.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Luis", updated.Manager)

	assert.Len(t, updated.AuditHistory, 1)
	record := updated.AuditHistory[0]
	assert.Equal(t, "2024-03-10T15:00:00Z", record.At)
	assert.Equal(t, "Ana", record.Before.Manager)
	assert.Equal(t, "Luis", record.After.Manager)
	assert.Contains(t, record.Changes, "Encargado: Ana → Luis")
}

func TestApplyEditChain(t *testing.T) {
	existing := existingMovement()
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

	first := existing.Snapshot()
	first.AmountOutflow = 450
	afterFirst, err := ApplyEdit(existing, first, now)
	assert.NoError(t, err)

	second := afterFirst.Snapshot()
	second.Notes = "ajuste"
	afterSecond, err := ApplyEdit(afterFirst, second, now.Add(time.Hour))
	assert.NoError(t, err)

	// History is append-only; createdAt and the original id never move.
	assert.Len(t, afterSecond.AuditHistory, 2)
	assert.Equal(t, existing.CreatedAt, afterSecond.CreatedAt)
	assert.Equal(t, existing.ID, afterSecond.OriginalEntryID)
	assert.Contains(t, afterSecond.AuditHistory[0].Changes, "Monto: 400 → 450")
	assert.Contains(t, afterSecond.AuditHistory[1].Changes, "Notas: pago quincena → ajuste")
}

func TestApplyEditRejectsCurrencyChange(t *testing.T) {
	existing := existingMovement()
	proposed := existing.Snapshot()
	proposed.Currency = models.CurrencyUSD

	_, err := ApplyEdit(existing, proposed, time.Now())
	assert.ErrorIs(t, err, ErrCurrencyImmutable)
}

func TestApplyEditUnchangedFieldsProduceNoDiff(t *testing.T) {
	existing := existingMovement()
	proposed := existing.Snapshot()

	updated, err := ApplyEdit(existing, proposed, time.Now())
	assert.NoError(t, err)
	assert.Len(t, updated.AuditHistory, 1)
	assert.Empty(t, updated.AuditHistory[0].Changes)
}

func TestNewSnapshotZeroesInactiveSide(t *testing.T) {
	in := NewSnapshot("P-001", "0001", CategoryVentas, 800, models.CurrencyCRC, "Ana", "")
	assert.Equal(t, int64(800), in.AmountInflow)
	assert.Zero(t, in.AmountOutflow)

	out := NewSnapshot("P-001", "0002", CategoryProveedores, 300, models.CurrencyCRC, "Ana", "")
	assert.Equal(t, int64(300), out.AmountOutflow)
	assert.Zero(t, out.AmountInflow)
}

func TestDiffLinesTracksAllFields(t *testing.T) {
	before := existingMovement().Snapshot()
	after := before
	after.ProviderCode = "P-002"
	after.InvoiceNumber = "0043"
	after.Category = CategoryAlquiler
	after.AmountOutflow = 500
	after.Manager = "Luis"
	after.Notes = "alquiler marzo"

	lines := DiffLines(before, after)
	assert.Equal(t, []string{
		"Proveedor: P-001 → P-002",
		"Factura: 0042 → 0043",
		"Categoría: SALARIOS → ALQUILER",
		"Monto: 400 → 500",
		"Encargado: Ana → Luis",
		"Notas: pago quincena → alquiler marzo",
	}, lines)
}
