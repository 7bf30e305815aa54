package api

import (
	"net/http"

	"github.com/heiportal/heidash/internal/chart"
	"github.com/heiportal/heidash/internal/config"
)

// ConfigResponse is the JSON envelope returned by GET /api/v1/config.
type ConfigResponse struct {
	Config     *config.Config         `json:"config"`
	ConfigFile string                 `json:"config_file"` // path to the active config file, empty when defaults only
	Categories []chart.CategoryConfig `json:"categories"`
}

// handleGetConfig returns the running configuration and the categories
// rendered when a request names none.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ConfigResponse{
			Config:     s.cfg,
			ConfigFile: s.cfg.ConfigFile,
			Categories: s.cfg.ChartOptions().Categories,
		},
	})
}
