package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/mvargascr/fondo-server/internal/api"
	"github.com/mvargascr/fondo-server/internal/events"
	"github.com/mvargascr/fondo-server/internal/models"
	"github.com/mvargascr/fondo-server/internal/repository"
	"github.com/mvargascr/fondo-server/internal/service"
	"github.com/mvargascr/fondo-server/internal/utils"
)

const testJWTSecret = "test-secret-key"

// CapturePublisher records published movement events for assertions.
type CapturePublisher struct {
	mu     sync.Mutex
	events []events.MovementEvent
}

func (p *CapturePublisher) Publish(ctx context.Context, event events.MovementEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *CapturePublisher) Close() error { return nil }

// Events returns a copy of everything published so far.
func (p *CapturePublisher) Events() []events.MovementEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.MovementEvent, len(p.events))
	copy(out, p.events)
	return out
}

// TestContext holds all dependencies for tests
type TestContext struct {
	Router      *gin.Engine
	Repository  *repository.MemoryRepository
	Service     service.Service
	Publisher   *CapturePublisher
	JWTSecret   []byte
	TestUserID  string
	TestUserJWT string
	AdminUserID string
	AdminJWT    string
}

// SetupTestContext creates a new test context with initialized dependencies.
// Everything runs against the in-memory repository.
func SetupTestContext(t *testing.T) *TestContext {
	repo := repository.NewMemoryRepository()
	publisher := &CapturePublisher{}
	svc := service.NewDefaultService(repo, publisher, utils.NewLogger(), testJWTSecret)

	// Create API handler
	handler := api.NewHandler(svc)

	// Set up Gin router
	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Add middleware for JWT secret
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(testJWTSecret))
		c.Next()
	})

	// Set up routes
	handler.SetupRoutes(router)

	userID, userToken := createTestUser(t, repo, "testuser@example.com", models.RoleOperador)
	adminID, adminToken := createTestUser(t, repo, "admin@example.com", models.RoleAdmin)

	return &TestContext{
		Router:      router,
		Repository:  repo,
		Service:     svc,
		Publisher:   publisher,
		JWTSecret:   []byte(testJWTSecret),
		TestUserID:  userID,
		TestUserJWT: userToken,
		AdminUserID: adminID,
		AdminJWT:    adminToken,
	}
}

// SeedCompany installs the provider directory and employee roster fixtures
// that movement validation depends on.
func SeedCompany(t *testing.T, testCtx *TestContext, company string) {
	ctx := context.Background()

	providers := []models.Provider{
		{Code: "P-001", Company: company, Name: "Ferretería Central", Type: "materiales"},
		{Code: "P-002", Company: company, Name: "Distribuidora del Este"},
	}
	for i := range providers {
		assert.NoError(t, testCtx.Repository.UpsertProvider(ctx, &providers[i]))
	}

	for _, name := range []string{"Ana", "Luis"} {
		err := testCtx.Repository.AddEmployee(ctx, &models.Employee{Company: company, Name: name})
		assert.NoError(t, err)
	}
}

// Helper functions
func createTestUser(t *testing.T, repo repository.Repository, email, role string) (string, string) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("testpassword"), bcrypt.DefaultCost)

	user := &models.User{
		ID:       uuid.New().String(),
		Email:    email,
		Name:     "Test User",
		Password: string(hashedPassword),
		Role:     role,
	}

	err := repo.CreateUser(context.Background(), user)
	assert.NoError(t, err, "Failed to create test user")

	// Generate JWT token with the test secret key
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	})

	tokenString, err := token.SignedString([]byte(testJWTSecret))
	assert.NoError(t, err, "Failed to generate JWT token")

	return user.ID, tokenString
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}
