package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testSecret is the HS256 key used by these tests.
const testSecret = "test-secret-key-for-unit-tests"

// identityRouter returns a router whose /me route echoes the resolved identity.
func identityRouter(secret string) *gin.Engine {
	router := gin.New()
	router.Use(Authenticate(secret))
	router.GET("/me", func(c *gin.Context) {
		id, ok := GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok, "email": id.Email, "name": id.Name})
	})
	return router
}

func serve(router http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGenerateJWT(t *testing.T) {
	t.Parallel()

	t.Run("token carries the account claims", func(t *testing.T) {
		t.Parallel()

		tokenStr, err := GenerateJWT(testSecret, "a@x.com", "alice")
		if err != nil {
			t.Fatalf("GenerateJWT() error: %v", err)
		}

		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(_ *jwt.Token) (any, error) {
			return []byte(testSecret), nil
		})
		if err != nil || !token.Valid {
			t.Fatalf("failed to parse token: %v", err)
		}
		if claims.Email != "a@x.com" {
			t.Errorf("Email = %q, want %q", claims.Email, "a@x.com")
		}
		if claims.Name != "alice" {
			t.Errorf("Name = %q, want %q", claims.Name, "alice")
		}
		if claims.Subject != "a@x.com" {
			t.Errorf("Subject = %q, want %q", claims.Subject, "a@x.com")
		}
		if claims.Issuer != tokenIssuer {
			t.Errorf("Issuer = %q, want %q", claims.Issuer, tokenIssuer)
		}
	})

	t.Run("token expires after 24 hours", func(t *testing.T) {
		t.Parallel()

		before := time.Now()
		tokenStr, err := GenerateJWT(testSecret, "a@x.com", "alice")
		if err != nil {
			t.Fatalf("GenerateJWT() error: %v", err)
		}

		claims := &JWTClaims{}
		if _, err := jwt.ParseWithClaims(tokenStr, claims, func(_ *jwt.Token) (any, error) {
			return []byte(testSecret), nil
		}); err != nil {
			t.Fatalf("failed to parse token: %v", err)
		}

		want := before.Add(24 * time.Hour)
		if d := claims.ExpiresAt.Sub(want); d < -time.Minute || d > time.Minute {
			t.Errorf("ExpiresAt = %v, want about %v", claims.ExpiresAt.Time, want)
		}
	})

	t.Run("different secret fails verification", func(t *testing.T) {
		t.Parallel()

		tokenStr, err := GenerateJWT(testSecret, "a@x.com", "alice")
		if err != nil {
			t.Fatalf("GenerateJWT() error: %v", err)
		}
		_, err = jwt.ParseWithClaims(tokenStr, &JWTClaims{}, func(_ *jwt.Token) (any, error) {
			return []byte("another-secret"), nil
		})
		if err == nil {
			t.Error("expected verification to fail with a different secret")
		}
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	t.Run("valid token resolves the identity", func(t *testing.T) {
		t.Parallel()

		token, err := GenerateJWT(testSecret, "a@x.com", "alice")
		if err != nil {
			t.Fatalf("GenerateJWT() error: %v", err)
		}
		w := serve(identityRouter(testSecret), "Bearer "+token)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		want := `{"authenticated":true,"email":"a@x.com","name":"alice"}`
		if w.Body.String() != want {
			t.Errorf("body = %s, want %s", w.Body.String(), want)
		}
	})

	t.Run("missing header passes through anonymously", func(t *testing.T) {
		t.Parallel()

		w := serve(identityRouter(testSecret), "")

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		want := `{"authenticated":false,"email":"","name":""}`
		if w.Body.String() != want {
			t.Errorf("body = %s, want %s", w.Body.String(), want)
		}
	})

	t.Run("rejected tokens", func(t *testing.T) {
		t.Parallel()

		otherSecret, err := GenerateJWT("another-secret", "a@x.com", "alice")
		if err != nil {
			t.Fatalf("GenerateJWT() error: %v", err)
		}

		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
			Email: "a@x.com",
		})
		expiredStr, err := expired.SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("failed to sign expired token: %v", err)
		}

		noEmail := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			Name: "nobody",
		})
		noEmailStr, err := noEmail.SignedString([]byte(testSecret))
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}

		none := jwt.NewWithClaims(jwt.SigningMethodNone, JWTClaims{Email: "a@x.com"})
		noneStr, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("failed to sign none token: %v", err)
		}

		tests := map[string]string{
			"without bearer prefix": "Token abc",
			"garbage token":         "Bearer not-a-jwt",
			"other secret":          "Bearer " + otherSecret,
			"expired":               "Bearer " + expiredStr,
			"missing email claim":   "Bearer " + noEmailStr,
			"alg none":              "Bearer " + noneStr,
		}
		router := identityRouter(testSecret)
		for name, header := range tests {
			w := serve(router, header)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("%s: status = %d, want %d", name, w.Code, http.StatusUnauthorized)
			}
		}
	})
}

func TestGetIdentity(t *testing.T) {
	t.Parallel()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if _, ok := GetIdentity(c); ok {
		t.Fatal("fresh context should have no identity")
	}
}
