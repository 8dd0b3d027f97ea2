package controllers

import (
	"net/http"

	json "github.com/goccy/go-json"

	"stravaboard/internal/providers"
	"stravaboard/internal/services"
)

type ApiController struct {
	logger providers.Logger
	cache  services.SnapshotCacheInterface
}

func NewApiController(logger providers.Logger, cache services.SnapshotCacheInterface) *ApiController {
	return &ApiController{
		logger: logger,
		cache:  cache,
	}
}

// GetActivities serves the leaderboard snapshot, recomputing it through the
// cache when stale. Total aggregation failure is a bare 500.
func (ac *ApiController) GetActivities(w http.ResponseWriter, r *http.Request) {
	snap, err := ac.cache.Get(r.Context())
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Leaderboard unavailable: %s", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(snap)
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Snapshot marshal failed: %s", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}
