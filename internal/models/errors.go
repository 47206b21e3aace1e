package models

import (
	"errors"
	"fmt"
)

// Errors surfaced by the registration workflow. Handlers translate these into
// client-visible JSON; anything else becomes a generic 500 with the detail
// logged server-side only.
var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrAlreadyConfirmed     = errors.New("email already confirmed")
)

// DuplicateDocumentError reports an identity document whose content digest
// matches a document attached to a prior registration.
type DuplicateDocumentError struct {
	Document string // "Aadhar card" or "college ID"
}

func (e *DuplicateDocumentError) Error() string {
	return fmt.Sprintf("%s has already been used for another registration", e.Document)
}

// DuplicateTeamError reports an (event, team name) pair that is already taken.
type DuplicateTeamError struct {
	Event    string
	TeamName string
}

func (e *DuplicateTeamError) Error() string {
	return fmt.Sprintf("team '%s' is already registered for event '%s'", e.TeamName, e.Event)
}

// DuplicateFieldError reports a unique-field collision by field name, so the
// client sees which field conflicted rather than a storage-engine message.
type DuplicateFieldError struct {
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// UploadError reports a rejected document upload: missing, oversized or of an
// unsupported media type.
type UploadError struct {
	Slot   string
	Reason string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("invalid upload for '%s': %s", e.Slot, e.Reason)
}
