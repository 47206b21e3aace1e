package services_test

import (
	"testing"

	"festreg/internal/models"
	"festreg/internal/repositories"
	"festreg/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededChecker(t *testing.T) (*services.DuplicateChecker, *models.Registration) {
	repo := repositories.NewMockRegistrationRepository()
	existing := validRegistration(1)
	existing.AadharImageHash = "aaaa1111"
	existing.CollegeIDHash = "cccc2222"
	require.NoError(t, repo.Create(existing))
	return services.NewDuplicateChecker(repo), existing
}

func TestCheck_CleanCandidatePasses(t *testing.T) {
	checker, _ := seededChecker(t)

	candidate := validRegistration(2)
	candidate.AadharImageHash = "bbbb3333"
	candidate.CollegeIDHash = "dddd4444"
	assert.NoError(t, checker.Check(candidate))
}

func TestCheck_AadharHashCollision(t *testing.T) {
	checker, existing := seededChecker(t)

	candidate := validRegistration(2)
	candidate.AadharImageHash = existing.AadharImageHash
	candidate.CollegeIDHash = "dddd4444"

	var dupDoc *models.DuplicateDocumentError
	require.ErrorAs(t, checker.Check(candidate), &dupDoc)
	assert.Equal(t, "Aadhar card", dupDoc.Document)
}

func TestCheck_CollegeIDHashCollision(t *testing.T) {
	checker, existing := seededChecker(t)

	candidate := validRegistration(2)
	candidate.AadharImageHash = "bbbb3333"
	candidate.CollegeIDHash = existing.CollegeIDHash

	var dupDoc *models.DuplicateDocumentError
	require.ErrorAs(t, checker.Check(candidate), &dupDoc)
	assert.Equal(t, "college ID", dupDoc.Document)
}

func TestCheck_CrossColumnHashCollision(t *testing.T) {
	checker, existing := seededChecker(t)

	// The candidate's Aadhar document matches a stored college ID: both hash
	// columns are consulted for each digest.
	candidate := validRegistration(2)
	candidate.AadharImageHash = existing.CollegeIDHash
	candidate.CollegeIDHash = "dddd4444"

	var dupDoc *models.DuplicateDocumentError
	require.ErrorAs(t, checker.Check(candidate), &dupDoc)
	assert.Equal(t, "Aadhar card", dupDoc.Document)
}

func TestCheck_EventTeamCollision(t *testing.T) {
	checker, existing := seededChecker(t)

	candidate := validRegistration(2)
	candidate.Event = existing.Event
	candidate.TeamName = existing.TeamName
	candidate.AadharImageHash = "bbbb3333"
	candidate.CollegeIDHash = "dddd4444"

	var dupTeam *models.DuplicateTeamError
	require.ErrorAs(t, checker.Check(candidate), &dupTeam)
	assert.Equal(t, existing.Event, dupTeam.Event)
	assert.Equal(t, existing.TeamName, dupTeam.TeamName)
}

func TestCheck_SameTeamDifferentEventStillPassesPreCheck(t *testing.T) {
	checker, existing := seededChecker(t)

	// The (event, teamName) pre-check only fires for the same event; the
	// global team_name unique index still rejects this at insert time.
	candidate := validRegistration(2)
	candidate.Event = "hackathon"
	candidate.TeamName = existing.TeamName
	candidate.AadharImageHash = "bbbb3333"
	candidate.CollegeIDHash = "dddd4444"

	assert.NoError(t, checker.Check(candidate))
}
