package services

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"festreg/internal/models"
	"festreg/internal/repositories"
	"festreg/pkg/hasher"
	"festreg/pkg/rabbitmq"
)

// MaxDocumentSize is the per-file cap for uploaded identity documents, in bytes.
const MaxDocumentSize = 300000

// allowedDocumentTypes are the declared media types accepted for uploads.
var allowedDocumentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"application/pdf": true,
}

// DocumentUpload is one identity document captured from the multipart form.
// The content is hashed and discarded; nothing is written to disk.
type DocumentUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// EmailQueue publishes confirmation-email jobs for asynchronous delivery.
type EmailQueue interface {
	PublishEmailJob(body []byte) error
}

// SnapshotWriter refreshes an on-disk export of all registrations.
type SnapshotWriter interface {
	Refresh(regs []models.Registration) error
}

// RegistrationService orchestrates the registration workflow: upload checks,
// document hashing, duplicate detection, persistence, confirmation-email
// queueing and the export snapshot refresh.
type RegistrationService struct {
	repo     repositories.RegistrationRepository
	checker  *DuplicateChecker
	queue    EmailQueue
	snapshot SnapshotWriter
}

// NewRegistrationService creates a new RegistrationService. queue and snapshot
// may be nil, in which case the corresponding step is skipped.
func NewRegistrationService(repo repositories.RegistrationRepository, checker *DuplicateChecker, queue EmailQueue, snapshot SnapshotWriter) *RegistrationService {
	return &RegistrationService{
		repo:     repo,
		checker:  checker,
		queue:    queue,
		snapshot: snapshot,
	}
}

// CreateRegistration runs the full workflow for one submission. On success it
// returns the persisted record and whether the confirmation email was queued.
// A queue or snapshot failure never rolls back a persisted registration.
func (s *RegistrationService) CreateRegistration(reg *models.Registration, aadharImage, collegeID *DocumentUpload) (*models.Registration, bool, error) {
	if err := checkDocument("aadharImage", aadharImage); err != nil {
		return nil, false, err
	}
	if err := checkDocument("collegeId", collegeID); err != nil {
		return nil, false, err
	}

	aadharHash, err := hasher.SHA256Hex(aadharImage.Content)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash aadharImage: %w", err)
	}
	collegeHash, err := hasher.SHA256Hex(collegeID.Content)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash collegeId: %w", err)
	}
	reg.AadharImageHash = aadharHash
	reg.CollegeIDHash = collegeHash

	if err := s.checker.Check(reg); err != nil {
		return nil, false, err
	}

	reg.IsConfirmed = false
	reg.CreatedAt = time.Now()
	if err := s.repo.Create(reg); err != nil {
		return nil, false, err
	}

	emailQueued := s.queueConfirmationEmail(reg)
	s.refreshSnapshot()

	return reg, emailQueued, nil
}

// ConfirmRegistration flips the record's confirmed flag exactly once. A second
// attempt returns models.ErrAlreadyConfirmed; an unknown id returns
// models.ErrRegistrationNotFound.
func (s *RegistrationService) ConfirmRegistration(id string) error {
	reg, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if reg.IsConfirmed {
		return models.ErrAlreadyConfirmed
	}
	return s.repo.MarkConfirmed(id)
}

// GetAllRegistrations retrieves all registrations for export.
func (s *RegistrationService) GetAllRegistrations() ([]models.Registration, error) {
	return s.repo.GetAll()
}

func (s *RegistrationService) queueConfirmationEmail(reg *models.Registration) bool {
	if s.queue == nil {
		log.Println("Email queue is not initialized. Skipping confirmation email.")
		return false
	}

	job := rabbitmq.EmailJob{
		RegistrationID: reg.RegistrationID,
		Email:          reg.Email,
		TeamName:       reg.TeamName,
		Event:          reg.Event,
	}
	body, err := json.Marshal(job)
	if err != nil {
		log.Printf("Failed to marshal email job for registration %s: %v", reg.RegistrationID, err)
		return false
	}
	if err := s.queue.PublishEmailJob(body); err != nil {
		log.Printf("Warning: failed to queue confirmation email for registration %s: %v", reg.RegistrationID, err)
		return false
	}
	return true
}

func (s *RegistrationService) refreshSnapshot() {
	if s.snapshot == nil {
		return
	}
	regs, err := s.repo.GetAll()
	if err != nil {
		log.Printf("Warning: failed to load registrations for export snapshot: %v", err)
		return
	}
	if err := s.snapshot.Refresh(regs); err != nil {
		log.Printf("Warning: failed to refresh export snapshot: %v", err)
	}
}

func checkDocument(slot string, doc *DocumentUpload) error {
	if doc == nil || doc.Content == nil {
		return &models.UploadError{Slot: slot, Reason: "file is required"}
	}
	if doc.Size > MaxDocumentSize {
		return &models.UploadError{Slot: slot, Reason: fmt.Sprintf("file exceeds the %d byte limit", MaxDocumentSize)}
	}
	if !allowedDocumentTypes[doc.ContentType] {
		return &models.UploadError{Slot: slot, Reason: "file type must be jpeg, png or pdf"}
	}
	return nil
}
