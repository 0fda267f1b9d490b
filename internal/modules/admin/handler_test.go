package admin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localstay/internal/domain"
	"localstay/internal/middleware"
	"localstay/internal/pkg/jwt"
	"localstay/internal/repository"
	"localstay/internal/testutil"
)

func TestHandler_AdminRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	tokens := jwt.New("admin-handler-secret", time.Hour)
	svc := NewService(repository.NewOwnerRepository(db), repository.NewUserRepository(db), nil)

	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1", middleware.JWTAuth(tokens)))

	owner := testutil.CreateOwner(t, db, false)

	call := func(as domain.Identity, method, path string) (int, map[string]any) {
		t.Helper()
		token, err := tokens.GenerateToken(as)
		require.NoError(t, err)
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return w.Code, body
	}

	code, body := call(adminID, http.MethodGet, "/api/v1/admin/unverified-owners")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 1)

	code, body = call(adminID, http.MethodPost, fmt.Sprintf("/api/v1/admin/verify-owner/%d", owner.ID))
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Owner Test Host is now verified", data["message"])

	code, body = call(adminID, http.MethodGet, "/api/v1/admin/unverified-owners")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 0)

	code, body = call(adminID, http.MethodPost, fmt.Sprintf("/api/v1/admin/toggle-status/%d", owner.ID))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Owner is now Banned/Inactive", body["data"].(map[string]any)["message"])

	code, _ = call(adminID, http.MethodPost, "/api/v1/admin/verify-owner/999")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = call(adminID, http.MethodPost, "/api/v1/admin/verify-owner/x")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = call(domain.Identity{ID: owner.ID, Role: domain.RoleOwner}, http.MethodGet, "/api/v1/admin/all-users")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", body["error"].(map[string]any)["code"])
}
