package booking

import (
	"bytes"
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
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type api struct {
	*fixture
	router *gin.Engine
	tokens *jwt.Service
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := newFixture(t)
	tokens := jwt.New("handler-test-secret", time.Hour)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.Use(middleware.JWTAuth(tokens))
	NewHandler(f.svc).RegisterRoutes(v1)

	return &api{fixture: f, router: router, tokens: tokens}
}

func (a *api) do(t *testing.T, as domain.Identity, method, path string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	token, err := a.tokens.GenerateToken(as)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestHandler_CreateAndDecide(t *testing.T) {
	a := newAPI(t)

	code, env := a.do(t, a.user, http.MethodPost, "/api/v1/bookings", gin.H{
		"stay_id": a.stay.ID, "check_in": "2026-01-01", "check_out": "2026-01-10", "guests": 2,
	})
	require.Equal(t, http.StatusCreated, code)
	require.True(t, env.Success)

	var created BookingResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "2026-01-01", created.CheckIn)
	assert.Equal(t, "2026-01-10", created.CheckOut)
	assert.Equal(t, domain.BookingRequested, created.Status)
	assert.Equal(t, a.stay.Name, created.Stay.Name)

	code, env = a.do(t, a.owner, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/action", created.ID), gin.H{"action": "Accept"})
	require.Equal(t, http.StatusOK, code)
	var decided BookingResponse
	require.NoError(t, json.Unmarshal(env.Data, &decided))
	assert.Equal(t, domain.BookingAccepted, decided.Status)

	code, env = a.do(t, a.user, http.MethodPost, "/api/v1/bookings", gin.H{
		"stay_id": a.stay.ID, "check_in": "2026-01-05", "check_out": "2026-01-07", "guests": 1,
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "DATES_UNAVAILABLE", env.Error.Code)

	code, env = a.do(t, a.user, http.MethodGet, "/api/v1/bookings/my-bookings", nil)
	require.Equal(t, http.StatusOK, code)
	var mine []BookingResponse
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	assert.Len(t, mine, 1)

	code, env = a.do(t, a.owner, http.MethodGet, "/api/v1/bookings/owner-requests", nil)
	require.Equal(t, http.StatusOK, code)
	var incoming []BookingResponse
	require.NoError(t, json.Unmarshal(env.Data, &incoming))
	require.Len(t, incoming, 1)
	assert.NotEmpty(t, incoming[0].User.Email)
}

func TestHandler_ErrorMapping(t *testing.T) {
	a := newAPI(t)
	b := a.mustRequest(t, "2026-03-01", "2026-03-03")
	actionPath := fmt.Sprintf("/api/v1/bookings/%d/action", b.ID)

	tests := []struct {
		name   string
		as     domain.Identity
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"inverted range", a.user, http.MethodPost, "/api/v1/bookings",
			gin.H{"stay_id": a.stay.ID, "check_in": "2026-01-10", "check_out": "2026-01-01", "guests": 1},
			http.StatusBadRequest, "INVALID_DATE_RANGE"},
		{"bad date format", a.user, http.MethodPost, "/api/v1/bookings",
			gin.H{"stay_id": a.stay.ID, "check_in": "01/10/2026", "check_out": "2026-01-11", "guests": 1},
			http.StatusBadRequest, "VALIDATION_ERROR"},
		{"zero guests", a.user, http.MethodPost, "/api/v1/bookings",
			gin.H{"stay_id": a.stay.ID, "check_in": "2026-01-10", "check_out": "2026-01-11", "guests": 0},
			http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown stay", a.user, http.MethodPost, "/api/v1/bookings",
			gin.H{"stay_id": 999, "check_in": "2026-01-10", "check_out": "2026-01-11", "guests": 1},
			http.StatusNotFound, "NOT_FOUND"},
		{"owner cannot request", a.owner, http.MethodPost, "/api/v1/bookings",
			gin.H{"stay_id": a.stay.ID, "check_in": "2026-01-10", "check_out": "2026-01-11", "guests": 1},
			http.StatusForbidden, "FORBIDDEN"},
		{"traveler cannot decide", a.user, http.MethodPost, actionPath,
			gin.H{"action": "accept"}, http.StatusForbidden, "FORBIDDEN"},
		{"unknown action", a.owner, http.MethodPost, actionPath,
			gin.H{"action": "cancel"}, http.StatusBadRequest, "INVALID_ACTION"},
		{"unknown booking", a.owner, http.MethodPost, "/api/v1/bookings/999/action",
			gin.H{"action": "accept"}, http.StatusNotFound, "NOT_FOUND"},
		{"bad booking id", a.owner, http.MethodPost, "/api/v1/bookings/abc/action",
			gin.H{"action": "accept"}, http.StatusBadRequest, "INVALID_ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := a.do(t, tt.as, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, code)
			require.NotNil(t, env.Error)
			assert.False(t, env.Success)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}
