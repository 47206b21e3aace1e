package repositories

import (
	"sync"
	"time"

	"festreg/internal/models"

	"github.com/google/uuid"
)

// MockRegistrationRepository is an in-memory implementation of
// RegistrationRepository. It enforces the same uniqueness rules as the GORM
// implementation so services can be exercised without a database.
type MockRegistrationRepository struct {
	registrations map[string]models.Registration
	mu            sync.RWMutex
}

// NewMockRegistrationRepository creates a new instance of MockRegistrationRepository.
func NewMockRegistrationRepository() *MockRegistrationRepository {
	return &MockRegistrationRepository{
		registrations: make(map[string]models.Registration),
	}
}

// Create adds a new registration, rejecting unique-field collisions.
func (r *MockRegistrationRepository) Create(reg *models.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if reg.RegistrationID == "" {
		reg.RegistrationID = uuid.New().String()
	}
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now()
	}
	if _, ok := r.registrations[reg.RegistrationID]; ok {
		return &models.DuplicateFieldError{Field: "registrationId"}
	}
	for _, existing := range r.registrations {
		switch {
		case existing.TeamName == reg.TeamName:
			return &models.DuplicateFieldError{Field: "teamName"}
		case existing.Email == reg.Email:
			return &models.DuplicateFieldError{Field: "email"}
		case existing.Mobile == reg.Mobile:
			return &models.DuplicateFieldError{Field: "mobile"}
		case existing.Aadhar == reg.Aadhar:
			return &models.DuplicateFieldError{Field: "aadhar"}
		}
	}
	r.registrations[reg.RegistrationID] = *reg
	return nil
}

// GetAll returns all registrations.
func (r *MockRegistrationRepository) GetAll() ([]models.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	regs := make([]models.Registration, 0, len(r.registrations))
	for _, reg := range r.registrations {
		regs = append(regs, reg)
	}
	return regs, nil
}

// GetByID returns a registration by its ID.
func (r *MockRegistrationRepository) GetByID(id string) (*models.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.registrations[id]
	if !ok {
		return nil, models.ErrRegistrationNotFound
	}
	return &reg, nil
}

// GetByDocumentHash returns a registration holding the digest in either
// document column.
func (r *MockRegistrationRepository) GetByDocumentHash(hash string) (*models.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, reg := range r.registrations {
		if reg.AadharImageHash == hash || reg.CollegeIDHash == hash {
			match := reg
			return &match, nil
		}
	}
	return nil, models.ErrRegistrationNotFound
}

// GetByEventAndTeam returns a registration for the given event and team name.
func (r *MockRegistrationRepository) GetByEventAndTeam(event, teamName string) (*models.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, reg := range r.registrations {
		if reg.Event == event && reg.TeamName == teamName {
			match := reg
			return &match, nil
		}
	}
	return nil, models.ErrRegistrationNotFound
}

// MarkConfirmed flips the confirmed flag once.
func (r *MockRegistrationRepository) MarkConfirmed(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, ok := r.registrations[id]
	if !ok {
		return models.ErrRegistrationNotFound
	}
	if reg.IsConfirmed {
		return models.ErrAlreadyConfirmed
	}
	reg.IsConfirmed = true
	r.registrations[id] = reg
	return nil
}
