package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stravaboard/internal/models"
	"stravaboard/internal/providers"
	"stravaboard/internal/scoring"
	"stravaboard/internal/strava"
	"stravaboard/internal/structures"
	"stravaboard/internal/testutil"
)

// --- local fakes for the provider client ---

type fakeRefresher struct {
	mu      sync.Mutex
	triples map[string]*strava.TokenTriple // keyed by refresh token
	calls   int
}

func (f *fakeRefresher) RefreshToken(_ context.Context, refreshToken string) (*strava.TokenTriple, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	t, ok := f.triples[refreshToken]
	if !ok {
		return nil, &strava.AuthError{Err: fmt.Errorf("unknown refresh token %q", refreshToken)}
	}
	return t, nil
}

type fakeFetcher struct {
	mu          sync.Mutex
	byToken     map[string][]models.RawActivity // keyed by access token
	failByToken map[string]error
	calls       []int64
}

func (f *fakeFetcher) FetchActivities(_ context.Context, accessToken string, athleteID int64, _ time.Time) ([]models.RawActivity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, athleteID)
	if err, ok := f.failByToken[accessToken]; ok {
		return nil, err
	}
	acts, ok := f.byToken[accessToken]
	if !ok {
		return nil, &strava.FetchError{Err: fmt.Errorf("no fixture for token %q", accessToken)}
	}
	return acts, nil
}

// --- helpers ---

var testNow = time.Date(2025, 4, 20, 12, 0, 0, 0, time.UTC)

func serviceConfig() *structures.Config {
	return &structures.Config{
		Strava: structures.StravaConfig{
			AfterDate: "2025-04-01T00:00:00Z",
		},
	}
}

func validCred(id int64, accessToken string) *models.Credential {
	return &models.Credential{
		ID:          id,
		Firstname:   fmt.Sprintf("First%d", id),
		Lastname:    fmt.Sprintf("Last%d", id),
		Username:    fmt.Sprintf("user%d", id),
		AccessToken: accessToken,
		// Valid for another hour relative to testNow.
		ExpiresAt:      testNow.Unix() + 3600,
		RefreshToken:   fmt.Sprintf("refresh-%d", id),
		ProfileImgLink: fmt.Sprintf("https://img.example/%d.jpg", id),
	}
}

func expiredCred(id int64, accessToken string) *models.Credential {
	c := validCred(id, accessToken)
	c.ExpiresAt = testNow.Unix() - 60
	return c
}

func run(t *testing.T, start string, km float64) models.RawActivity {
	t.Helper()
	return models.RawActivity{Type: "Run", Distance: km * 1000, StartDateLocal: start}
}

func newService(t *testing.T, store models.CredentialStoreInterface, refresher strava.TokenRefresher, fetcher strava.ActivityFetcher) *LeaderboardService {
	t.Helper()
	svc, err := NewLeaderboardService(serviceConfig(), store, refresher, fetcher,
		scoring.DefaultRuleset(nil), &testutil.MockLogger{}, providers.NewNoopMetrics())
	require.NoError(t, err)
	ls := svc.(*LeaderboardService)
	ls.now = func() time.Time { return testNow }
	return ls
}

// --- tests ---

func TestBuildSnapshot_TotalsMatchAthleteSums(t *testing.T) {
	store := models.NewMemoryCredentialStore(
		validCred(1, "tok-1"),
		validCred(2, "tok-2"),
	)
	fetcher := &fakeFetcher{byToken: map[string][]models.RawActivity{
		"tok-1": {
			run(t, "2025-04-05T08:00:00Z", 10),
			{Type: "Swim", Distance: 2000, StartDateLocal: "2025-04-06T08:00:00Z"},
		},
		"tok-2": {
			{Type: "Ride", Distance: 30000, StartDateLocal: "2025-04-07T08:00:00Z"},
		},
	}}

	ls := newService(t, store, &fakeRefresher{}, fetcher)
	snap, err := ls.BuildSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Athletes, 2)

	var sumScore, sumKm float64
	byUsername := map[string]models.AthleteDisplay{}
	for _, a := range snap.Athletes {
		sumScore += a.Score
		byUsername[a.Username] = a
	}
	sumKm = 10 + 2 + 30

	assert.InDelta(t, 18, byUsername["user1"].Score, 1e-9) // 10 + 4*2
	assert.Equal(t, 2, byUsername["user1"].NumberOfActivities)
	assert.InDelta(t, 10, byUsername["user2"].Score, 1e-9) // 30/3
	assert.Equal(t, 1, byUsername["user2"].NumberOfActivities)

	assert.InDelta(t, sumScore, snap.Details.TotalScore, 1e-9)
	assert.InDelta(t, sumKm, snap.Details.TotalKm, 1e-9)
	assert.Equal(t, testNow, snap.FetchedAt)
}

func TestBuildSnapshot_PartialAuthFailureOmitsAthlete(t *testing.T) {
	store := models.NewMemoryCredentialStore(
		expiredCred(1, "stale-1"), // refresh for this one will fail
		validCred(2, "tok-2"),
	)
	refresher := &fakeRefresher{triples: map[string]*strava.TokenTriple{}}
	fetcher := &fakeFetcher{byToken: map[string][]models.RawActivity{
		"tok-2": {run(t, "2025-04-05T08:00:00Z", 5)},
	}}

	ls := newService(t, store, refresher, fetcher)
	snap, err := ls.BuildSnapshot(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Athletes, 1)
	assert.Equal(t, "user2", snap.Athletes[0].Username)
	assert.InDelta(t, 5, snap.Details.TotalScore, 1e-9)
	assert.InDelta(t, 5, snap.Details.TotalKm, 1e-9)
}

func TestBuildSnapshot_FetchFailureOmitsAthlete(t *testing.T) {
	store := models.NewMemoryCredentialStore(
		validCred(1, "tok-1"),
		validCred(2, "tok-2"),
	)
	fetcher := &fakeFetcher{
		byToken:     map[string][]models.RawActivity{"tok-2": {run(t, "2025-04-05T08:00:00Z", 5)}},
		failByToken: map[string]error{"tok-1": &strava.FetchError{Err: errors.New("boom")}},
	}

	ls := newService(t, store, &fakeRefresher{}, fetcher)
	snap, err := ls.BuildSnapshot(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Athletes, 1)
	assert.Equal(t, "user2", snap.Athletes[0].Username)
}

func TestBuildSnapshot_AllFail_AggregationError(t *testing.T) {
	store := models.NewMemoryCredentialStore(
		validCred(1, "tok-1"),
		validCred(2, "tok-2"),
	)
	fetcher := &fakeFetcher{failByToken: map[string]error{
		"tok-1": &strava.FetchError{Err: errors.New("down")},
		"tok-2": &strava.FetchError{Err: errors.New("down")},
	}}

	ls := newService(t, store, &fakeRefresher{}, fetcher)
	_, err := ls.BuildSnapshot(context.Background())

	var aggErr *AggregationError
	require.ErrorAs(t, err, &aggErr)
	assert.Equal(t, 2, aggErr.Attempted)
}

func TestBuildSnapshot_NoUsersYieldsEmptySnapshot(t *testing.T) {
	ls := newService(t, models.NewMemoryCredentialStore(), &fakeRefresher{}, &fakeFetcher{})

	snap, err := ls.BuildSnapshot(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, snap.Athletes)
	assert.Empty(t, snap.Athletes)
	assert.Zero(t, snap.Details.TotalScore)
}

func TestBuildSnapshot_ExpiredTokenRefreshedAndPersisted(t *testing.T) {
	store := models.NewMemoryCredentialStore(expiredCred(7, "stale-7"))
	refresher := &fakeRefresher{triples: map[string]*strava.TokenTriple{
		"refresh-7": {AccessToken: "fresh-7", RefreshToken: "refresh-7b", ExpiresAt: testNow.Unix() + 21600},
	}}
	fetcher := &fakeFetcher{byToken: map[string][]models.RawActivity{
		"fresh-7": {run(t, "2025-04-05T08:00:00Z", 3)},
	}}

	ls := newService(t, store, refresher, fetcher)
	snap, err := ls.BuildSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Athletes, 1)

	cred, ok := store.Get(7)
	require.True(t, ok)
	assert.Equal(t, "fresh-7", cred.AccessToken)
	assert.Equal(t, "refresh-7b", cred.RefreshToken)
	assert.Equal(t, testNow.Unix()+21600, cred.ExpiresAt)
}

func TestBuildSnapshot_RefreshFailureLeavesStoreUntouched(t *testing.T) {
	store := models.NewMemoryCredentialStore(expiredCred(7, "stale-7"))
	refresher := &fakeRefresher{} // no triples: every refresh fails

	ls := newService(t, store, refresher, &fakeFetcher{})
	_, err := ls.BuildSnapshot(context.Background())
	var aggErr *AggregationError
	require.ErrorAs(t, err, &aggErr)

	cred, ok := store.Get(7)
	require.True(t, ok)
	assert.Equal(t, "stale-7", cred.AccessToken)
	assert.Equal(t, "refresh-7", cred.RefreshToken)
}

func TestBuildSnapshot_FreshTokenSkipsRefresh(t *testing.T) {
	store := models.NewMemoryCredentialStore(validCred(1, "tok-1"))
	refresher := &fakeRefresher{}
	fetcher := &fakeFetcher{byToken: map[string][]models.RawActivity{
		"tok-1": {run(t, "2025-04-05T08:00:00Z", 1)},
	}}

	ls := newService(t, store, refresher, fetcher)
	_, err := ls.BuildSnapshot(context.Background())
	require.NoError(t, err)
	assert.Zero(t, refresher.calls)
}

func TestBuildSnapshot_IdempotentTotals(t *testing.T) {
	store := models.NewMemoryCredentialStore(validCred(1, "tok-1"), validCred(2, "tok-2"))
	fetcher := &fakeFetcher{byToken: map[string][]models.RawActivity{
		"tok-1": {run(t, "2025-04-05T08:00:00Z", 12.3), {Type: "Rowing", Distance: 5400, StartDateLocal: "2025-04-08T07:00:00Z"}},
		"tok-2": {{Type: "Hike", Distance: 7000, TotalElevationGain: 800, StartDateLocal: "2025-04-09T09:00:00Z"}},
	}}

	ls := newService(t, store, &fakeRefresher{}, fetcher)

	first, err := ls.BuildSnapshot(context.Background())
	require.NoError(t, err)
	second, err := ls.BuildSnapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Details, second.Details)
}
