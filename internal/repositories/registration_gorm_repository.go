package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"festreg/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMRegistrationRepository is a GORM implementation of RegistrationRepository.
type GORMRegistrationRepository struct {
	db *gorm.DB
}

// NewGORMRegistrationRepository creates a new instance of GORMRegistrationRepository.
func NewGORMRegistrationRepository(db *gorm.DB) *GORMRegistrationRepository {
	return &GORMRegistrationRepository{
		db: db,
	}
}

// uniqueColumns maps constraint violation text back to the client-facing field
// name. Both the Postgres ("duplicate key value violates unique constraint
// \"uni_registrations_email\"") and SQLite ("UNIQUE constraint failed:
// registrations.email") messages embed the column name.
var uniqueColumns = []struct{ column, field string }{
	{"event_team", "teamName"},
	{"registration_id", "registrationId"},
	{"team_name", "teamName"},
	{"email", "email"},
	{"mobile", "mobile"},
	{"aadhar", "aadhar"},
}

// Create inserts a registration. A unique-constraint violation is returned as a
// DuplicateFieldError naming the conflicting field; the constraint is the final
// arbiter when two requests race past the pre-checks.
func (r *GORMRegistrationRepository) Create(reg *models.Registration) error {
	if reg.RegistrationID == "" {
		reg.RegistrationID = uuid.New().String()
	}
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now()
	}
	if err := r.db.Create(reg).Error; err != nil {
		if field, ok := uniqueViolation(err); ok {
			return &models.DuplicateFieldError{Field: field}
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

func uniqueViolation(err error) (string, bool) {
	msg := err.Error()
	isUnique := errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
	if !isUnique {
		return "", false
	}
	for _, c := range uniqueColumns {
		if strings.Contains(msg, c.column) {
			return c.field, true
		}
	}
	return "registration", true
}

// GetAll retrieves all registrations in insertion order.
func (r *GORMRegistrationRepository) GetAll() ([]models.Registration, error) {
	var regs []models.Registration
	if err := r.db.Order("created_at").Find(&regs).Error; err != nil {
		return nil, fmt.Errorf("failed to get all registrations: %w", err)
	}
	return regs, nil
}

// GetByID retrieves a single registration by its ID.
func (r *GORMRegistrationRepository) GetByID(id string) (*models.Registration, error) {
	var reg models.Registration
	if err := r.db.First(&reg, "registration_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration %s: %w", id, err)
	}
	return &reg, nil
}

// GetByDocumentHash finds a registration holding the given digest in either
// document column, so one physical document cannot be reused in the other slot.
func (r *GORMRegistrationRepository) GetByDocumentHash(hash string) (*models.Registration, error) {
	var reg models.Registration
	if err := r.db.First(&reg, "aadhar_image_hash = ? OR college_id_hash = ?", hash, hash).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to look up document hash: %w", err)
	}
	return &reg, nil
}

// GetByEventAndTeam finds a registration for the given event and team name.
func (r *GORMRegistrationRepository) GetByEventAndTeam(event, teamName string) (*models.Registration, error) {
	var reg models.Registration
	if err := r.db.First(&reg, "event = ? AND team_name = ?", event, teamName).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to look up team %s for event %s: %w", teamName, event, err)
	}
	return &reg, nil
}

// MarkConfirmed flips is_confirmed exactly once. The WHERE clause guards the
// false-to-true transition so a concurrent second click cannot double-fire.
func (r *GORMRegistrationRepository) MarkConfirmed(id string) error {
	res := r.db.Model(&models.Registration{}).
		Where("registration_id = ? AND is_confirmed = ?", id, false).
		Update("is_confirmed", true)
	if res.Error != nil {
		return fmt.Errorf("failed to confirm registration %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(id); err != nil {
			return err
		}
		return models.ErrAlreadyConfirmed
	}
	return nil
}
