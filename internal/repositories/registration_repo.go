package repositories

import (
	"festreg/internal/models"
)

// RegistrationRepository defines the interface for registration data access.
// Lookups that find nothing return models.ErrRegistrationNotFound so callers
// can tell "no collision" apart from a storage failure.
type RegistrationRepository interface {
	Create(reg *models.Registration) error
	GetAll() ([]models.Registration, error)
	GetByID(id string) (*models.Registration, error)
	GetByDocumentHash(hash string) (*models.Registration, error)
	GetByEventAndTeam(event, teamName string) (*models.Registration, error)
	MarkConfirmed(id string) error
}
