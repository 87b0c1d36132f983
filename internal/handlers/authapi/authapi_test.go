package authapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/stretchr/testify/require"
	gormlog "gorm.io/gorm/logger"

	"github.com/launchcopy/accessgate/internal/gormw"
	"github.com/launchcopy/accessgate/internal/idp"
)

const testJWTSecret = "test-jwt-secret"

func setupTestHandlers(t *testing.T) (*Handlers, *gormw.DB, *gin.Engine) {
	t.Helper()
	// Unroutable provider: tests that should never reach it fail loudly if
	// they do.
	return setupTestHandlersForProvider(t, "http://127.0.0.1:1")
}

func setupTestHandlersForProvider(t *testing.T, providerURL string) (*Handlers, *gormw.DB, *gin.Engine) {
	t.Helper()
	database, err := gormw.Open(&gormw.Config{
		LogLevel: gormlog.Silent,
	})
	require.NoError(t, err)

	err = database.Migrate()
	require.NoError(t, err)

	idpClient := idp.New(&idp.Config{
		BaseURL:    providerURL,
		ServiceKey: "test-service-key",
		JWTSecret:  testJWTSecret,
		SiteURL:    "https://app.launchcopy.io",
	})

	handlers := New(&Config{}, database, idpClient)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers.RegisterHandlers(router.Group("/"))

	return handlers, database, router
}

func postJSON(router *gin.Engine, path, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// sessionTokenFor mints a provider-style HS256 session token accepted by
// the test handlers.
func sessionTokenFor(t *testing.T, sub, email string) string {
	t.Helper()

	token, err := jwt.NewBuilder().
		Subject(sub).
		IssuedAt(time.Now()).
		Expiration(time.Now().Add(time.Hour)).
		Claim("email", email).
		Claim("user_metadata", map[string]any{
			"full_name":  "Test User",
			"avatar_url": "https://cdn.example.com/avatar.png",
		}).
		Build()
	require.NoError(t, err)

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), []byte(testJWTSecret)))
	require.NoError(t, err)
	return string(signed)
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": {"Bearer " + token}}
}
