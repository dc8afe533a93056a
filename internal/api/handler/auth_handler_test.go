package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"customer-api/internal/api/handler"
	"customer-api/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthHandler() *handler.AuthHandler {
	cfg := config.Config{}
	cfg.Server.Auth.JWTSecret = "test-secret"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return handler.NewAuthHandler(cfg, logger)
}

func TestGenerateBearerToken(t *testing.T) {
	t.Run("Success returns a parseable bearer token", func(t *testing.T) {
		h := setupAuthHandler()

		body := bytes.NewBufferString(`{"username":"tester"}`)
		req := httptest.NewRequest(http.MethodPost, "/auth/token", body)
		rec := httptest.NewRecorder()

		h.GenerateBearerToken(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.True(t, strings.HasPrefix(resp["token"], "Bearer "))

		tokenString := strings.TrimPrefix(resp["token"], "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		})
		require.NoError(t, err)
		assert.True(t, token.Valid)

		claims, ok := token.Claims.(jwt.MapClaims)
		require.True(t, ok)
		assert.Equal(t, "tester", claims["username"])
	})

	t.Run("Missing username returns 400", func(t *testing.T) {
		h := setupAuthHandler()

		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewBufferString(`{}`))
		rec := httptest.NewRecorder()

		h.GenerateBearerToken(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Malformed body returns 400", func(t *testing.T) {
		h := setupAuthHandler()

		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewBufferString(`{nope`))
		rec := httptest.NewRecorder()

		h.GenerateBearerToken(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
