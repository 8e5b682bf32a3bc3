package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if h.Health != nil {
		if err := h.Health.HealthCheck(); err != nil {
			logrus.WithError(err).Warn("health check failed")
			writeSuccess(w, map[string]string{"status": "unavailable"}, http.StatusServiceUnavailable)
			return
		}
	}
	writeSuccess(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (h *Handlers) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.StatsService.Counts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w, stats, http.StatusOK)
}
