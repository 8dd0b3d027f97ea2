package controllers

import (
	"net/http"

	"stravaboard/internal/models"
	"stravaboard/internal/providers"
	"stravaboard/internal/services"
	"stravaboard/internal/strava"
)

// AuthController handles the Strava authorization handshake: redirect to
// the provider, then exchange the returned code and store the athlete's
// credential.
type AuthController struct {
	logger    providers.Logger
	exchanger strava.CodeExchanger
	store     models.CredentialStoreInterface
	cache     services.SnapshotCacheInterface
}

func NewAuthController(logger providers.Logger, exchanger strava.CodeExchanger, store models.CredentialStoreInterface, cache services.SnapshotCacheInterface) *AuthController {
	return &AuthController{
		logger:    logger,
		exchanger: exchanger,
		store:     store,
		cache:     cache,
	}
}

func (auth *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, auth.exchanger.AuthorizeURL(), http.StatusFound)
}

func (auth *AuthController) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		auth.logger.Warnf(providers.TypeGet, "Authorization callback without code")
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	result, err := auth.exchanger.ExchangeCode(r.Context(), code)
	if err != nil {
		auth.logger.Errorf(providers.TypeStrava, "Code exchange failed: %s", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	cred := &models.Credential{
		ID:             result.Athlete.ID,
		Username:       result.Athlete.Username,
		Firstname:      result.Athlete.Firstname,
		Lastname:       result.Athlete.Lastname,
		AccessToken:    result.AccessToken,
		RefreshToken:   result.RefreshToken,
		ExpiresAt:      result.ExpiresAt,
		ProfileImgLink: result.Athlete.ProfileMedium,
	}
	if err := auth.store.Upsert(r.Context(), cred); err != nil {
		auth.logger.Errorf(providers.TypeStrava, "Storing credential for athlete %d failed: %s", cred.ID, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// The next leaderboard read must include the new athlete.
	auth.cache.Invalidate()
	auth.logger.Infof(providers.TypeStrava, "Athlete %d authorized", cred.ID)
	http.Redirect(w, r, "/", http.StatusFound)
}
