package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mvargascr/fondo-server/internal/api/testutils"
	"github.com/mvargascr/fondo-server/internal/models"
)

func TestProviderDirectory(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	path := "/api/companies/" + testCompany + "/providers"

	// Upsert a provider, then list it back
	w := testutils.PerformRequest(testCtx.Router, http.MethodPut, path,
		models.UpsertProviderRequest{Code: "P-010", Name: "Transportes Mora", Type: "servicios"},
		testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	// Upsert again with a new name replaces, not duplicates
	w = testutils.PerformRequest(testCtx.Router, http.MethodPut, path,
		models.UpsertProviderRequest{Code: "P-010", Name: "Transportes Mora S.A."},
		testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, path, nil,
		testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.ProviderListResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Providers, 1)
	assert.Equal(t, "Transportes Mora S.A.", resp.Providers[0].Name)
}

func TestEmployeeRoster(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	path := "/api/companies/" + testCompany + "/employees"

	// Adding employees is admin-only
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, path,
		models.AddEmployeeRequest{Name: "Ana"},
		testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, path,
		models.AddEmployeeRequest{Name: "Ana"},
		testutils.AuthHeaders(testCtx.AdminJWT))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, path, nil,
		testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.EmployeeListResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Employees, 1)
	assert.Equal(t, "Ana", resp.Employees[0].Name)
}

func TestPurchaseOrderLifecycle(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	testutils.SeedCompany(t, testCtx, testCompany)

	path := "/api/companies/" + testCompany + "/orders"

	// Unknown provider is rejected
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, path,
		models.CreateOrderRequest{ProviderCode: "P-999", Description: "tornillos", Amount: 1500, Currency: "CRC"},
		testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Create a valid order
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, path,
		models.CreateOrderRequest{ProviderCode: "P-001", Description: "tornillos y clavos", Amount: 1500, Currency: "CRC"},
		testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.OrderResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.OrderPending, created.Order.Status)
	assert.Equal(t, testCtx.TestUserID, created.Order.CreatedBy)

	statusPath := path + "/" + created.Order.ID + "/status"

	// PENDIENTE cannot jump straight to RECIBIDO
	w = testutils.PerformRequest(testCtx.Router, http.MethodPut, statusPath,
		models.UpdateOrderStatusRequest{Status: models.OrderReceived},
		testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// PENDIENTE -> ORDENADO -> RECIBIDO
	w = testutils.PerformRequest(testCtx.Router, http.MethodPut, statusPath,
		models.UpdateOrderStatusRequest{Status: models.OrderOrdered},
		testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodPut, statusPath,
		models.UpdateOrderStatusRequest{Status: models.OrderReceived},
		testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	// RECIBIDO is terminal
	w = testutils.PerformRequest(testCtx.Router, http.MethodPut, statusPath,
		models.UpdateOrderStatusRequest{Status: models.OrderVoided},
		testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// List shows the order
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, path, nil,
		testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusOK, w.Code)

	var list models.OrderListResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Orders, 1)
	assert.Equal(t, models.OrderReceived, list.Orders[0].Status)

	// Unknown order id
	w = testutils.PerformRequest(testCtx.Router, http.MethodPut, path+"/no-such-order/status",
		models.UpdateOrderStatusRequest{Status: models.OrderOrdered},
		testutils.AuthHeaders(testCtx.TestUserJWT))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
