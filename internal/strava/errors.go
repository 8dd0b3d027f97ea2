package strava

// AuthError marks a failed token refresh or code exchange. The affected
// athlete is dropped from the current aggregation pass; stored credentials
// are left untouched.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return "strava auth: " + e.Err.Error() }
func (e *AuthError) Unwrap() error { return e.Err }

// FetchError marks a failed or malformed activity retrieval after a valid
// token. Handled like AuthError: skip the athlete for this pass.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return "strava fetch: " + e.Err.Error() }
func (e *FetchError) Unwrap() error { return e.Err }
