package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mvargascr/fondo-server/internal/models"
)

func TestPutDocumentVersioning(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	// Create requires expected version 0
	v, err := repo.PutDocument(ctx, "acme", "movements_acme", []byte(`{}`), 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), v)

	// Creating again conflicts
	_, err = repo.PutDocument(ctx, "acme", "movements_acme", []byte(`{}`), 0)
	assert.ErrorIs(t, err, ErrVersionConflict)

	// Update with the current version succeeds and bumps it
	v, err = repo.PutDocument(ctx, "acme", "movements_acme", []byte(`{"a":1}`), 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), v)

	// A stale writer loses instead of silently overwriting
	_, err = repo.PutDocument(ctx, "acme", "movements_acme", []byte(`{"b":2}`), 1)
	assert.ErrorIs(t, err, ErrVersionConflict)

	value, version, err := repo.GetDocument(ctx, "acme", "movements_acme")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), version)
	assert.JSONEq(t, `{"a":1}`, string(value))
}

func TestGetDocumentAbsent(t *testing.T) {
	repo := NewMemoryRepository()

	value, version, err := repo.GetDocument(context.Background(), "acme", "missing")
	assert.NoError(t, err)
	assert.Nil(t, value)
	assert.Zero(t, version)
}

func TestDocumentKeysScopedByCompany(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	_, err := repo.PutDocument(ctx, "acme", "fondo_general_fondo_initial_v1", []byte(`5000`), 0)
	assert.NoError(t, err)

	value, _, err := repo.GetDocument(ctx, "otra", "fondo_general_fondo_initial_v1")
	assert.NoError(t, err)
	assert.Nil(t, value)
}

func TestStorageKeyHelpers(t *testing.T) {
	assert.Equal(t, "movements_acme", MovementsKey("acme"))
	assert.Equal(t, "caja_chica_fondo_initial_v1", OpeningBalanceKey(models.AccountCajaChica, models.CurrencyCRC))
	assert.Equal(t, "caja_chica_fondo_initial_usd_v1", OpeningBalanceKey(models.AccountCajaChica, models.CurrencyUSD))
	assert.Equal(t, "banco_crc_fondos_v1", LegacyMovementsKey(models.AccountBancoCRC))
}
