package handler

import (
	"net/http"

	"github.com/nodewatch/nodewatch/internal/api/response"
	"github.com/nodewatch/nodewatch/internal/node"
)

// NodesHandler exposes the node registry.
type NodesHandler struct {
	registry *node.Registry
}

// NewNodesHandler creates a new NodesHandler.
func NewNodesHandler(registry *node.Registry) *NodesHandler {
	return &NodesHandler{registry: registry}
}

// ListNodes handles GET /api/nodes.
func (h *NodesHandler) ListNodes(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.registry.Nodes())
}
