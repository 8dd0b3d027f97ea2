package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"stravaboard/internal/models"
	"stravaboard/internal/providers"
	"stravaboard/internal/scoring"
	"stravaboard/internal/strava"
	"stravaboard/internal/structures"
)

// maxConcurrentPipelines bounds the per-athlete fan-out so a large roster
// does not burst-call the provider.
const maxConcurrentPipelines = 8

// AggregationError means no athlete produced usable data for a pass.
type AggregationError struct {
	Attempted int
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation produced no data (%d athletes attempted)", e.Attempted)
}

type LeaderboardServiceInterface interface {
	BuildSnapshot(ctx context.Context) (*models.LeaderboardSnapshot, error)
}

// LeaderboardService runs the full aggregation pass: for every stored
// credential, ensure a valid token, fetch the competition-window activities
// and fold their scores into one snapshot. Athlete pipelines run
// concurrently and fail independently; a failing athlete is omitted from
// the snapshot.
type LeaderboardService struct {
	store     models.CredentialStoreInterface
	refresher strava.TokenRefresher
	fetcher   strava.ActivityFetcher
	ruleset   *scoring.Ruleset
	after     time.Time
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface

	now func() time.Time
}

func NewLeaderboardService(conf *structures.Config, store models.CredentialStoreInterface, refresher strava.TokenRefresher, fetcher strava.ActivityFetcher, ruleset *scoring.Ruleset, logger providers.Logger, metrics providers.MetricsProviderInterface) (LeaderboardServiceInterface, error) {
	after, err := time.Parse(time.RFC3339, conf.Strava.AfterDate)
	if err != nil {
		return nil, fmt.Errorf("invalid competition start date %q: %w", conf.Strava.AfterDate, err)
	}
	return &LeaderboardService{
		store:     store,
		refresher: refresher,
		fetcher:   fetcher,
		ruleset:   ruleset,
		after:     after,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}, nil
}

func (ls *LeaderboardService) BuildSnapshot(ctx context.Context) (*models.LeaderboardSnapshot, error) {
	start := ls.now()

	users, err := ls.store.SelectAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("credential store: %w", err)
	}

	var (
		mu       sync.Mutex
		athletes []models.AthleteDisplay
		details  models.CompetitionDetails
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPipelines)
	for _, user := range users {
		g.Go(func() error {
			ad, km, ok := ls.runPipeline(gctx, user)
			if !ok {
				return nil
			}
			mu.Lock()
			athletes = append(athletes, ad)
			details.TotalScore += ad.Score
			details.TotalKm += km
			mu.Unlock()
			return nil
		})
	}
	// Pipeline errors never propagate through the group; Wait only fires on
	// context cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(athletes) == 0 && len(users) > 0 {
		return nil, &AggregationError{Attempted: len(users)}
	}
	if athletes == nil {
		athletes = []models.AthleteDisplay{}
	}

	ls.metrics.ObserveSnapshotBuild(ls.now().Sub(start))
	return &models.LeaderboardSnapshot{
		Athletes:  athletes,
		Details:   details,
		FetchedAt: ls.now(),
	}, nil
}

// runPipeline runs one athlete end to end. ok is false when the athlete
// must be skipped for this pass.
func (ls *LeaderboardService) runPipeline(ctx context.Context, user *models.Credential) (ad models.AthleteDisplay, km float64, ok bool) {
	accessToken, err := ls.ensureValidToken(ctx, user)
	if err != nil {
		ls.metrics.IncPipelineFailures("auth")
		ls.logger.Warnf(providers.TypeStrava, "Skipping athlete %d: %s", user.ID, err)
		return ad, 0, false
	}

	activities, err := ls.fetcher.FetchActivities(ctx, accessToken, user.ID, ls.after)
	if err != nil {
		ls.metrics.IncPipelineFailures("fetch")
		ls.logger.Warnf(providers.TypeStrava, "Skipping athlete %d: %s", user.ID, err)
		return ad, 0, false
	}

	var score float64
	for _, a := range activities {
		score += ls.ruleset.Score(&a)
		km += a.Distance / 1000
	}

	return models.AthleteDisplay{
		Firstname:          user.Firstname,
		Lastname:           user.Lastname,
		Username:           user.Username,
		Img:                user.ProfileImgLink,
		Score:              score,
		NumberOfActivities: len(activities),
	}, km, true
}

// ensureValidToken returns a usable access token for the athlete,
// refreshing and persisting it first when the stored one is stale. Stored
// state is never mutated on failure.
func (ls *LeaderboardService) ensureValidToken(ctx context.Context, user *models.Credential) (string, error) {
	if !user.Expired(ls.now()) {
		return user.AccessToken, nil
	}

	triple, err := ls.refresher.RefreshToken(ctx, user.RefreshToken)
	if err != nil {
		return "", err
	}
	if err := ls.store.UpdateTokens(ctx, user.ID, triple.AccessToken, triple.RefreshToken, triple.ExpiresAt); err != nil {
		return "", &strava.AuthError{Err: fmt.Errorf("persisting refreshed token: %w", err)}
	}
	return triple.AccessToken, nil
}
