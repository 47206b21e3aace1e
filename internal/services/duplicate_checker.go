package services

import (
	"errors"
	"fmt"

	"festreg/internal/models"
	"festreg/internal/repositories"
)

// DuplicateChecker decides whether a candidate submission collides with a
// stored registration. The store's unique constraints remain the final arbiter
// under races; these lookups exist to give the client a specific error before
// anything is written.
type DuplicateChecker struct {
	repo repositories.RegistrationRepository
}

// NewDuplicateChecker creates a new DuplicateChecker.
func NewDuplicateChecker(repo repositories.RegistrationRepository) *DuplicateChecker {
	return &DuplicateChecker{
		repo: repo,
	}
}

// Check runs the collision lookups in order of error specificity: the Aadhar
// document digest, the college ID digest (each against both hash columns),
// then the (event, teamName) pair. The remaining unique fields are enforced by
// the store on insert.
func (c *DuplicateChecker) Check(reg *models.Registration) error {
	if err := c.checkHash(reg.AadharImageHash, "Aadhar card"); err != nil {
		return err
	}
	if err := c.checkHash(reg.CollegeIDHash, "college ID"); err != nil {
		return err
	}

	existing, err := c.repo.GetByEventAndTeam(reg.Event, reg.TeamName)
	if err == nil && existing != nil {
		return &models.DuplicateTeamError{Event: reg.Event, TeamName: reg.TeamName}
	}
	if err != nil && !errors.Is(err, models.ErrRegistrationNotFound) {
		return fmt.Errorf("failed to check team registration: %w", err)
	}
	return nil
}

func (c *DuplicateChecker) checkHash(hash, document string) error {
	existing, err := c.repo.GetByDocumentHash(hash)
	if err == nil && existing != nil {
		return &models.DuplicateDocumentError{Document: document}
	}
	if err != nil && !errors.Is(err, models.ErrRegistrationNotFound) {
		return fmt.Errorf("failed to check document hash: %w", err)
	}
	return nil
}
