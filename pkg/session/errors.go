package session

import "errors"

var (
	// ErrCreationFailed indicates the session could not be created or persisted
	ErrCreationFailed = errors.New("session.creation_failed")

	// ErrInvalidationFailed indicates the session state could not be cleared
	ErrInvalidationFailed = errors.New("session.invalidation_failed")

	// ErrRotationFailed indicates the rotated session could not be persisted
	ErrRotationFailed = errors.New("session.rotation_failed")

	// ErrNoActiveSession indicates rotation was requested without an active session
	ErrNoActiveSession = errors.New("session.no_active_session")

	// ErrIDGeneration indicates session ID generation failed
	ErrIDGeneration = errors.New("session.id_generation_failed")

	// ErrActivityUpdate indicates the activity timestamp could not be persisted
	ErrActivityUpdate = errors.New("session.activity_update_failed")
)
