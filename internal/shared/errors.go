package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken   = fmt.Errorf("no refresh token available")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrTrackNotFound      = fmt.Errorf("track not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")

	// Catalog adapter and pipeline errors. Adapters and the orchestrator
	// wrap these with fmt.Errorf("...: %w", ErrXxx); callers use errors.Is.
	ErrAuthMissing       = fmt.Errorf("credentials absent for provider")
	ErrAuthInvalid       = fmt.Errorf("adapter auth rejected after refresh")
	ErrSourceNotFound    = fmt.Errorf("source playlist not found")
	ErrSourceTransient   = fmt.Errorf("source catalog temporarily unavailable")
	ErrSearchEmpty       = fmt.Errorf("all searches failed, verify credentials")
	ErrTargetConflict    = fmt.Errorf("target catalog rejected insert as a conflict")
	ErrTargetTransient   = fmt.Errorf("target catalog temporarily unavailable")
	ErrTargetQuota       = fmt.Errorf("target catalog quota exceeded")
	ErrInternalInvariant = fmt.Errorf("internal state machine invariant violated")
	ErrBadRequest        = fmt.Errorf("bad request")
)
