package handlers

import (
	"net/http"
	"time"

	"github.com/upb/travel-gateway/app"
	"github.com/upb/travel-gateway/models"
	"github.com/upb/travel-gateway/services/providers"
	"github.com/upb/travel-gateway/utils"
)

// StatusResponse is the body of GET /api/v1/status
type StatusResponse struct {
	Service     string                                      `json:"service"`
	Version     string                                      `json:"version"`
	Environment string                                      `json:"environment"`
	Uptime      string                                      `json:"uptime"`
	Chains      map[models.Operation][]string               `json:"chains"`
	Providers   map[models.Operation][]providers.Descriptor `json:"providers"`
	Metrics     interface{}                                 `json:"metrics"`
	Audit       interface{}                                 `json:"audit,omitempty"`
}

// RootHandler returns the service banner
func RootHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteOK(w, map[string]interface{}{
			"status":     "ok",
			"service":    "travel-gateway",
			"version":    deps.Config.Version,
			"operations": models.Operations(),
		})
	}
}

// StatusHandler returns the configured chains and per-provider counters
func StatusHandler(deps *app.Dependencies) http.HandlerFunc {
	started := time.Now()

	return func(w http.ResponseWriter, r *http.Request) {
		response := StatusResponse{
			Service:     "travel-gateway",
			Version:     deps.Config.Version,
			Environment: deps.Config.Environment,
			Uptime:      time.Since(started).Round(time.Second).String(),
			Chains:      map[models.Operation][]string{},
			Providers:   map[models.Operation][]providers.Descriptor{},
			Metrics:     []interface{}{},
		}

		if deps.Gateway != nil {
			response.Chains = deps.Gateway.Providers()
		}
		if deps.Registry != nil {
			for _, op := range models.Operations() {
				if descs := deps.Registry.ListForOperation(op); len(descs) > 0 {
					response.Providers[op] = descs
				}
			}
		}
		if deps.Metrics != nil {
			response.Metrics = deps.Metrics.Snapshot()
		}
		if deps.Audit != nil {
			response.Audit = deps.Audit.GetStats()
		}

		_ = utils.WriteOK(w, response)
	}
}
