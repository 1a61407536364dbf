package middleware_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-holdings-reconciler/internal/api/middleware"
	"github.com/feral-file/ff-holdings-reconciler/internal/config"
	"github.com/feral-file/ff-holdings-reconciler/internal/logger"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}
	gin.SetMode(gin.TestMode)

	code := m.Run()
	os.Exit(code)
}

func generateKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return key, string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, logger.RunID(c.Request.Context()))
	})

	// Generated when absent
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(middleware.REQUEST_ID_HEADER)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	// Reused when sent
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.REQUEST_ID_HEADER, "abc-123")
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(middleware.REQUEST_ID_HEADER))
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(middleware.Recovery(), middleware.Logger())
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal_error", body["error"]["code"])
}

func TestAuthenticator_Authenticate(t *testing.T) {
	key, publicPEM := generateKey(t)
	otherKey, _ := generateKey(t)

	auth, err := middleware.NewAuthenticator(config.AuthConfig{
		JWTPublicKey: publicPEM,
		APIKeys:      []string{"", "key-1"},
	})
	require.NoError(t, err)

	valid := signToken(t, key, jwt.RegisteredClaims{
		Subject:   "ops",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	expired := signToken(t, key, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	foreign := signToken(t, otherKey, jwt.RegisteredClaims{})

	tests := []struct {
		name     string
		header   string
		authType string
		subject  string
		wantErr  bool
	}{
		{"jwt", "Bearer " + valid, middleware.AUTH_TYPE_JWT, "ops", false},
		{"jwt lower-case scheme", "bearer " + valid, middleware.AUTH_TYPE_JWT, "ops", false},
		{"api key", "ApiKey key-1", middleware.AUTH_TYPE_APIKEY, "", false},
		{"missing", "", "", "", true},
		{"no credentials", "Bearer", "", "", true},
		{"expired jwt", "Bearer " + expired, "", "", true},
		{"foreign signer", "Bearer " + foreign, "", "", true},
		{"wrong api key", "ApiKey nope", "", "", true},
		{"empty api key", "ApiKey ", "", "", true},
		{"unsupported scheme", "Basic dXNlcg==", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := auth.Authenticate(tt.header)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.authType, result.AuthType)
			assert.Equal(t, tt.subject, result.Subject)
		})
	}
}

func TestAuthenticator_Unconfigured(t *testing.T) {
	auth, err := middleware.NewAuthenticator(config.AuthConfig{})
	require.NoError(t, err)

	_, err = auth.Authenticate("Bearer token")
	assert.Error(t, err)
	_, err = auth.Authenticate("ApiKey key")
	assert.Error(t, err)

	_, err = middleware.NewAuthenticator(config.AuthConfig{JWTPublicKey: "not a pem"})
	assert.Error(t, err)
}

func TestAuth_Middleware(t *testing.T) {
	auth, err := middleware.NewAuthenticator(config.AuthConfig{APIKeys: []string{"key-1"}})
	require.NoError(t, err)

	router := gin.New()
	router.POST("/protected", middleware.Auth(auth), func(c *gin.Context) {
		authType, _ := c.Get(middleware.AUTH_TYPE_KEY)
		c.String(http.StatusOK, authType.(string))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unauthorized", body["error"]["code"])

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set("Authorization", "ApiKey key-1")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, middleware.AUTH_TYPE_APIKEY, w.Body.String())
}
