package services_test

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"testing"

	"festreg/internal/models"
	"festreg/internal/repositories"
	"festreg/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmailQueue records published email jobs.
type fakeEmailQueue struct {
	published [][]byte
	err       error
}

func (q *fakeEmailQueue) PublishEmailJob(body []byte) error {
	if q.err != nil {
		return q.err
	}
	q.published = append(q.published, body)
	return nil
}

// fakeSnapshot records refresh calls.
type fakeSnapshot struct {
	refreshed int
	err       error
}

func (s *fakeSnapshot) Refresh(regs []models.Registration) error {
	s.refreshed++
	return s.err
}

func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newDoc(content, contentType string) *services.DocumentUpload {
	return &services.DocumentUpload{
		Filename:    "doc.png",
		ContentType: contentType,
		Size:        int64(len(content)),
		Content:     strings.NewReader(content),
	}
}

func validRegistration(n int) *models.Registration {
	return &models.Registration{
		RegistrationID: uuid.New().String(),
		Event:          "robo-race",
		TeamName:       fmt.Sprintf("Team-%d", n),
		TeamLeaderName: "Asha Rao",
		Email:          fmt.Sprintf("team%d@example.com", n),
		Mobile:         fmt.Sprintf("98765432%02d", n),
		Gender:         "female",
		College:        "NIT Test",
		Course:         "CSE",
		Year:           "3",
		RollNo:         fmt.Sprintf("CS-%03d", n),
		Aadhar:         fmt.Sprintf("1234567890%02d", n),
		TeamSize:       3,
	}
}

func newService(queue services.EmailQueue, snapshot services.SnapshotWriter) (*services.RegistrationService, *repositories.MockRegistrationRepository) {
	repo := repositories.NewMockRegistrationRepository()
	checker := services.NewDuplicateChecker(repo)
	return services.NewRegistrationService(repo, checker, queue, snapshot), repo
}

func TestCreateRegistration_Success(t *testing.T) {
	queue := &fakeEmailQueue{}
	snapshot := &fakeSnapshot{}
	service, repo := newService(queue, snapshot)

	reg := validRegistration(1)
	created, emailQueued, err := service.CreateRegistration(reg, newDoc("aadhar-doc-1", "image/png"), newDoc("college-doc-1", "application/pdf"))

	require.NoError(t, err)
	assert.True(t, emailQueued)
	assert.Len(t, queue.published, 1)
	assert.Equal(t, 1, snapshot.refreshed)
	assert.Len(t, created.AadharImageHash, 64)
	assert.Len(t, created.CollegeIDHash, 64)
	assert.NotEqual(t, created.AadharImageHash, created.CollegeIDHash)
	assert.False(t, created.CreatedAt.IsZero())

	stored, err := repo.GetByID(reg.RegistrationID)
	require.NoError(t, err)
	assert.False(t, stored.IsConfirmed)
	assert.Equal(t, reg.TeamName, stored.TeamName)
}

func TestCreateRegistration_DuplicateDocument(t *testing.T) {
	service, repo := newService(nil, nil)

	_, _, err := service.CreateRegistration(validRegistration(1), newDoc("shared-aadhar", "image/png"), newDoc("college-1", "application/pdf"))
	require.NoError(t, err)

	// Same Aadhar document bytes under a different filename, everything else distinct
	second := newDoc("shared-aadhar", "image/jpeg")
	second.Filename = "renamed.jpg"
	_, _, err = service.CreateRegistration(validRegistration(2), second, newDoc("college-2", "application/pdf"))

	var dupDoc *models.DuplicateDocumentError
	require.ErrorAs(t, err, &dupDoc)
	assert.Equal(t, "Aadhar card", dupDoc.Document)

	regs, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, regs, 1)
}

func TestCreateRegistration_DocumentReusedInOtherSlot(t *testing.T) {
	service, _ := newService(nil, nil)

	_, _, err := service.CreateRegistration(validRegistration(1), newDoc("aadhar-1", "image/png"), newDoc("college-1", "application/pdf"))
	require.NoError(t, err)

	// A previously seen college ID submitted as an Aadhar card must still collide
	_, _, err = service.CreateRegistration(validRegistration(2), newDoc("college-1", "image/png"), newDoc("college-2", "application/pdf"))

	var dupDoc *models.DuplicateDocumentError
	require.ErrorAs(t, err, &dupDoc)
	assert.Equal(t, "Aadhar card", dupDoc.Document)
}

func TestCreateRegistration_DuplicateTeam(t *testing.T) {
	service, repo := newService(nil, nil)

	first := validRegistration(1)
	_, _, err := service.CreateRegistration(first, newDoc("aadhar-1", "image/png"), newDoc("college-1", "application/pdf"))
	require.NoError(t, err)

	second := validRegistration(2)
	second.Event = first.Event
	second.TeamName = first.TeamName
	_, _, err = service.CreateRegistration(second, newDoc("aadhar-2", "image/png"), newDoc("college-2", "application/pdf"))

	var dupTeam *models.DuplicateTeamError
	require.ErrorAs(t, err, &dupTeam)
	assert.Equal(t, first.TeamName, dupTeam.TeamName)

	regs, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, regs, 1)
}

func TestCreateRegistration_DuplicateField(t *testing.T) {
	service, _ := newService(nil, nil)

	first := validRegistration(1)
	_, _, err := service.CreateRegistration(first, newDoc("aadhar-1", "image/png"), newDoc("college-1", "application/pdf"))
	require.NoError(t, err)

	// Distinct documents and team, but the same email: the store-level
	// uniqueness check names the conflicting field.
	second := validRegistration(2)
	second.Email = first.Email
	_, _, err = service.CreateRegistration(second, newDoc("aadhar-2", "image/png"), newDoc("college-2", "application/pdf"))

	var dupField *models.DuplicateFieldError
	require.ErrorAs(t, err, &dupField)
	assert.Equal(t, "email", dupField.Field)
}

func TestCreateRegistration_UploadRules(t *testing.T) {
	service, repo := newService(nil, nil)

	t.Run("oversized", func(t *testing.T) {
		doc := newDoc("small content", "image/png")
		doc.Size = services.MaxDocumentSize + 1
		_, _, err := service.CreateRegistration(validRegistration(10), doc, newDoc("college-10", "application/pdf"))

		var upload *models.UploadError
		require.ErrorAs(t, err, &upload)
		assert.Equal(t, "aadharImage", upload.Slot)
		assert.Contains(t, upload.Reason, "300000")
	})

	t.Run("at the cap", func(t *testing.T) {
		doc := newDoc("exactly at cap", "image/png")
		doc.Size = services.MaxDocumentSize
		_, _, err := service.CreateRegistration(validRegistration(11), doc, newDoc("college-11", "application/pdf"))
		assert.NoError(t, err)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, _, err := service.CreateRegistration(validRegistration(12), newDoc("aadhar-12", "image/png"), newDoc("college-12", "text/plain"))

		var upload *models.UploadError
		require.ErrorAs(t, err, &upload)
		assert.Equal(t, "collegeId", upload.Slot)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := service.CreateRegistration(validRegistration(13), nil, newDoc("college-13", "application/pdf"))

		var upload *models.UploadError
		require.ErrorAs(t, err, &upload)
		assert.Equal(t, "aadharImage", upload.Slot)
	})

	// None of the rejected submissions may have been persisted
	regs, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, regs, 1)
}

func TestCreateRegistration_QueueFailureIsDegradedSuccess(t *testing.T) {
	queue := &fakeEmailQueue{err: errors.New("broker down")}
	service, repo := newService(queue, nil)

	reg := validRegistration(1)
	created, emailQueued, err := service.CreateRegistration(reg, newDoc("aadhar-1", "image/png"), newDoc("college-1", "application/pdf"))

	require.NoError(t, err)
	assert.False(t, emailQueued)
	assert.NotNil(t, created)

	// Persistence is never undone by a notification failure
	stored, err := repo.GetByID(reg.RegistrationID)
	require.NoError(t, err)
	assert.False(t, stored.IsConfirmed)
}

func TestCreateRegistration_SnapshotFailureIsIgnored(t *testing.T) {
	snapshot := &fakeSnapshot{err: errors.New("disk full")}
	service, _ := newService(nil, snapshot)

	_, _, err := service.CreateRegistration(validRegistration(1), newDoc("aadhar-1", "image/png"), newDoc("college-1", "application/pdf"))
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.refreshed)
}

func TestConfirmRegistration(t *testing.T) {
	service, repo := newService(nil, nil)

	reg := validRegistration(1)
	_, _, err := service.CreateRegistration(reg, newDoc("aadhar-1", "image/png"), newDoc("college-1", "application/pdf"))
	require.NoError(t, err)

	// First confirmation flips the flag
	require.NoError(t, service.ConfirmRegistration(reg.RegistrationID))
	stored, err := repo.GetByID(reg.RegistrationID)
	require.NoError(t, err)
	assert.True(t, stored.IsConfirmed)

	// Second confirmation is rejected and the flag stays set
	err = service.ConfirmRegistration(reg.RegistrationID)
	assert.ErrorIs(t, err, models.ErrAlreadyConfirmed)
	stored, err = repo.GetByID(reg.RegistrationID)
	require.NoError(t, err)
	assert.True(t, stored.IsConfirmed)
}

func TestConfirmRegistration_NotFound(t *testing.T) {
	service, _ := newService(nil, nil)

	err := service.ConfirmRegistration(uuid.New().String())
	assert.ErrorIs(t, err, models.ErrRegistrationNotFound)
}
