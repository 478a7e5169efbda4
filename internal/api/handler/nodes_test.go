package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nodewatch/nodewatch/internal/api/handler"
	"github.com/nodewatch/nodewatch/internal/node"
)

func TestNodesHandler_ListNodes(t *testing.T) {
	h := handler.NewNodesHandler(node.NewRegistry(node.DefaultNodes()))

	rec := httptest.NewRecorder()
	h.ListNodes(rec, httptest.NewRequest(http.MethodGet, "/api/nodes", http.NoBody))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{
		"name": "Pump House 3",
		"coordinates": [17.4435, 78.3489],
		"channel_id": "2611172",
		"api_key": "OEORJPRA3IXMCARG"
	}]`, rec.Body.String())
}
