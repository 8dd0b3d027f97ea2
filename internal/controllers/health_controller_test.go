package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stravaboard/internal/models"
)

func TestHealth_ReportsSnapshotState(t *testing.T) {
	cache := &mockCache{snap: &models.LeaderboardSnapshot{
		Athletes:  []models.AthleteDisplay{{Username: "a"}, {Username: "b"}},
		FetchedAt: time.Now().Add(-10 * time.Second),
	}}
	hc := NewHealthController(cache)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(2), body["athletes"])
	assert.GreaterOrEqual(t, body["snapshot_age_seconds"].(float64), float64(10))
}

func TestHealth_ColdCache(t *testing.T) {
	hc := NewHealthController(&mockCache{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, float64(0), body["athletes"])
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	hc := NewHealthController(&mockCache{})

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
