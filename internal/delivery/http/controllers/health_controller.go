package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"devevent/internal/delivery/http/helpers"
)

// HealthCheck reports whether the backing store can be reached.
type HealthCheck func(ctx context.Context) error

// HealthStatus is the body of a successful health check.
type HealthStatus struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

type HealthController struct {
	Logger *slog.Logger
	Store  string
	Check  HealthCheck
}

func NewHealthController(logger *slog.Logger, store string, check HealthCheck) *HealthController {
	return &HealthController{Logger: logger, Store: store, Check: check}
}

// Health godoc
// @Summary Health check
// @Description Reports whether the database connection can be acquired.
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains status and store"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /healthz [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if c.Check != nil {
		if err := c.Check(r.Context()); err != nil {
			c.Logger.WarnContext(r.Context(), "health check failed", "store", c.Store, "err", err)
			helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeServiceUnavailable, helpers.MsgStoreUnavailable)
			return
		}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, HealthStatus{Status: "ok", Store: c.Store})
}
