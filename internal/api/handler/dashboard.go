package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/nodewatch/nodewatch/internal/api/models"
	"github.com/nodewatch/nodewatch/internal/api/response"
	"github.com/nodewatch/nodewatch/internal/node"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// DefaultRefreshSeconds is how often the page reloads node data.
const DefaultRefreshSeconds = 60

// dashboardData is the template input.
type dashboardData struct {
	Title          string
	Nodes          []node.Node
	RefreshSeconds int
}

// DashboardHandler renders the browser dashboard.
type DashboardHandler struct {
	registry *node.Registry
	title    string
	logger   zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(registry *node.Registry, title string, logger zerolog.Logger) *DashboardHandler {
	if title == "" {
		title = "Node Dashboard"
	}
	return &DashboardHandler{
		registry: registry,
		title:    title,
		logger:   logger,
	}
}

// Index handles GET /.
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	nodes := h.registry.Nodes()
	if nodes == nil {
		nodes = []node.Node{}
	}

	var buf bytes.Buffer
	err := dashboardTemplate.Execute(&buf, dashboardData{
		Title:          h.title,
		Nodes:          nodes,
		RefreshSeconds: DefaultRefreshSeconds,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("rendering dashboard")
		response.InternalError(w, r, models.MessageUnexpected)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
