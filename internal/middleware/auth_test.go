package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"projectzen/internal/models"
)

func signToken(t *testing.T, key []byte, userID string, role models.UserRole, ttl time.Duration) string {
	t.Helper()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id"), "role": c.GetString("role")})
	})
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestAuthMiddleware_UsesConfiguredKey(t *testing.T) {
	prev := JWTKey
	defer SetJWTKey(string(prev))
	SetJWTKey("configured-secret")

	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, []byte("configured-secret"), "user-1", models.RoleAdmin, 15*time.Minute))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("token signed with the configured key rejected: %d %s", w.Code, w.Body.String())
	}

	// токен на другом ключе не проходит
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, []byte("some-other-key"), "user-1", models.RoleAdmin, 15*time.Minute))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("token signed with a foreign key accepted: %d", w.Code)
	}
}

func TestSetJWTKey_IgnoresEmptySecret(t *testing.T) {
	prev := JWTKey
	defer SetJWTKey(string(prev))

	SetJWTKey("real-secret")
	SetJWTKey("")
	if string(JWTKey) != "real-secret" {
		t.Fatalf("empty secret must not reset the key, got %q", JWTKey)
	}
}

func TestAuthMiddleware_PublicPaths(t *testing.T) {
	r := newAuthRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("/login must not require a token: %d", w.Code)
	}

	// все остальные маршруты закрыты
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("/healthz must require a token: %d", w.Code)
	}
}

func TestAuthMiddleware_ExpiredTokenWithinLeeway(t *testing.T) {
	r := newAuthRouter()

	// истёк минуту назад — пропускаем за счёт leeway
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, JWTKey, "user-1", models.RoleTeamMember, -time.Minute))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("token expired within leeway rejected: %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, JWTKey, "user-1", models.RoleTeamMember, -10*time.Minute))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("long-expired token accepted: %d", w.Code)
	}
}
