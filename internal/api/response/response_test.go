package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewatch/nodewatch/internal/api/middleware"
	"github.com/nodewatch/nodewatch/internal/api/models"
	"github.com/nodewatch/nodewatch/internal/api/response"
)

// requestWithContext returns a request whose context carries a request ID.
func requestWithContext(t *testing.T, method, path string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, path, http.NoBody)

	var processedReq *http.Request
	handler := middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		processedReq = r
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	return processedReq, httptest.NewRecorder()
}

func TestJSON_IncludesRequestID(t *testing.T) {
	req, rec := requestWithContext(t, http.MethodGet, "/test")

	response.JSON(rec, req, http.StatusOK, map[string]string{"message": "hello"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, middleware.GetRequestID(req.Context()), rec.Header().Get("X-Request-Id"))
	assert.JSONEq(t, `{"message":"hello"}`, rec.Body.String())
}

func TestJSON_NilBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	rec := httptest.NewRecorder()

	response.JSON(rec, req, http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Request-Id"))
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		write   func(w http.ResponseWriter, r *http.Request)
		status  int
		message string
	}{
		{
			name:    "not found",
			write:   func(w http.ResponseWriter, r *http.Request) { response.NotFound(w, r, models.MessageNoData) },
			status:  http.StatusNotFound,
			message: "No data available",
		},
		{
			name:    "internal error",
			write:   func(w http.ResponseWriter, r *http.Request) { response.InternalError(w, r, models.MessageLoadFailed) },
			status:  http.StatusInternalServerError,
			message: "Failed to load data",
		},
		{
			name:    "custom status",
			write:   func(w http.ResponseWriter, r *http.Request) { response.Error(w, r, http.StatusMethodNotAllowed, "nope") },
			status:  http.StatusMethodNotAllowed,
			message: "nope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := requestWithContext(t, http.MethodGet, "/api/data/1/key")

			tt.write(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body models.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.Error)
		})
	}
}
