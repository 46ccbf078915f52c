package handlers

import (
	"net/http"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/response"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Source   string `json:"source"`
	Degraded bool   `json:"degraded"`
	Error    string `json:"error,omitempty"`
}

// Health checks the health of the system and data source connectivity.
//
// Endpoint: GET /api/system/health
// Response: 200 OK with HealthResponse
// Error: 503 Service Unavailable if the data source does not answer
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	health, err := h.systemService.CheckHealth(r.Context())
	resp := HealthResponse{
		Status:   health.Status,
		Source:   health.Source,
		Degraded: health.Degraded,
	}
	if err != nil {
		resp.Error = err.Error()
		response.RespondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	response.RespondJSON(w, http.StatusOK, resp)
}

// VersionInfoResponse represents the version check response
type VersionInfoResponse struct {
	AppVersion string `json:"app_version"`
}

// Version handles GET requests to retrieve version information.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with VersionInfoResponse
func (h *SystemHandler) Version(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, VersionInfoResponse{AppVersion: h.systemService.CheckVersion()})
}
