package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"scriptgo/domain/dto"
	"scriptgo/infrastructure/utils"
	"scriptgo/interfaces/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", middleware.Auth(secret), func(c *gin.Context) {
		p := middleware.PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"user_id": p.UserID, "email": p.Email})
	})
	return r
}

func call(r *gin.Engine, authorization string) (*httptest.ResponseRecorder, dto.Res) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(w, req)
	var res dto.Res
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	return w, res
}

func TestAuth_AcceptsGeneratedToken(t *testing.T) {
	token, err := utils.GenerateUserToken("user-a", "alice@example.com", secret, time.Hour)
	require.NoError(t, err)

	w, _ := call(newRouter(), "Bearer "+token)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user-a", body["user_id"])
	assert.Equal(t, "alice@example.com", body["email"])
}

func TestAuth_IssuerFallback(t *testing.T) {
	token, err := utils.GenerateToken(map[string]interface{}{"iss": "legacy-user"}, secret)
	require.NoError(t, err)

	w, _ := call(newRouter(), "Bearer "+token)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "legacy-user")
}

func TestAuth_Rejects(t *testing.T) {
	expired, err := utils.GenerateUserToken("user-a", "", secret, -time.Minute)
	require.NoError(t, err)
	otherKey, err := utils.GenerateUserToken("user-a", "", "another-secret", time.Hour)
	require.NoError(t, err)
	noSubject, err := utils.GenerateToken(map[string]interface{}{"email": "x@y.z"}, secret)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user-a"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		msg    string
	}{
		{"missing header", "", "Unauthorized"},
		{"wrong scheme", "Basic abc", "Unauthorized"},
		{"empty bearer", "Bearer ", "Unauthorized"},
		{"garbage", "Bearer not.a.jwt", "That's not even a token"},
		{"expired", "Bearer " + expired, "Timing is everything"},
		{"wrong key", "Bearer " + otherKey, "Couldn't handle this token:signature is invalid"},
		{"no subject", "Bearer " + noSubject, "Unauthorized"},
		{"alg none", "Bearer " + none, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, res := call(newRouter(), tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "401", res.ResponseCode)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, res.ResponseMessage)
			}
		})
	}
}

func TestAuth_MissingSecretRejectsEverything(t *testing.T) {
	token, err := utils.GenerateUserToken("user-a", "", secret, time.Hour)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", middleware.Auth(""), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
