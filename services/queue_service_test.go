package services_test

import (
	"testing"
	"time"

	"inkpress/mocks"
	"inkpress/models"
	"inkpress/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingVerificationQueueFIFO(t *testing.T) {
	profiles := mocks.NewMockAuthorProfileRepository()
	queues := services.NewQueueService(mocks.NewMockManuscriptRepository(), profiles)

	base := time.Now()
	for i, authorID := range []uint{3, 1, 2} {
		at := base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, profiles.Create(&models.AuthorProfile{
			AuthorID:                authorID,
			VerificationRequested:   true,
			VerificationRequestedAt: &at,
		}))
	}
	// verified and suspended profiles stay out of the queue
	require.NoError(t, profiles.Create(&models.AuthorProfile{AuthorID: 4, IsVerified: true}))
	require.NoError(t, profiles.Create(&models.AuthorProfile{AuthorID: 5, Suspended: true}))
	profiles.BookCounts[3] = 7

	page, total, err := queues.PendingVerifications(models.VerificationListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 3)
	// oldest request first
	assert.Equal(t, uint(3), page[0].AuthorID)
	assert.Equal(t, uint(1), page[1].AuthorID)
	assert.Equal(t, uint(2), page[2].AuthorID)
	assert.Equal(t, int64(7), page[0].BookCount)
	assert.Equal(t, models.VerificationPending, page[0].Status)
}

func TestPendingVerificationQueuePagination(t *testing.T) {
	profiles := mocks.NewMockAuthorProfileRepository()
	queues := services.NewQueueService(mocks.NewMockManuscriptRepository(), profiles)

	base := time.Now()
	for i := uint(1); i <= 5; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, profiles.Create(&models.AuthorProfile{
			AuthorID:                i,
			VerificationRequested:   true,
			VerificationRequestedAt: &at,
		}))
	}

	page, total, err := queues.PendingVerifications(models.VerificationListParams{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.Equal(t, uint(3), page[0].AuthorID)
}

func TestManuscriptQueueNormalizesLegacyFilter(t *testing.T) {
	manuscripts := mocks.NewMockManuscriptRepository()
	queues := services.NewQueueService(manuscripts, mocks.NewMockAuthorProfileRepository())

	now := time.Now()
	seed := []struct {
		authorID uint
		status   models.ManuscriptStatus
	}{
		{1, models.StatusInReview},
		{1, models.StatusDraft},
		{2, models.StatusInReview},
	}
	for i, s := range seed {
		at := now.Add(time.Duration(i) * time.Minute)
		require.NoError(t, manuscripts.Create(&models.Manuscript{
			AuthorID:    s.authorID,
			Title:       "m",
			Status:      s.status,
			SubmittedAt: &at,
		}, models.NewAuditEntry(admin, "create", models.TargetManuscript, 0, "", string(s.status), "")))
	}

	// legacy alias REVIEW resolves to in_review
	page, total, err := queues.Manuscripts(admin, models.ManuscriptListParams{Status: "REVIEW", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, page, 2)
	for _, m := range page {
		assert.Equal(t, models.StatusInReview, m.Status)
	}

	_, _, err = queues.Manuscripts(admin, models.ManuscriptListParams{Status: "bogus", Page: 1, Limit: 10})
	var validation models.ErrorValidation
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "status", validation.Field)
}

func TestManuscriptQueueScopesNonAdmins(t *testing.T) {
	manuscripts := mocks.NewMockManuscriptRepository()
	queues := services.NewQueueService(manuscripts, mocks.NewMockAuthorProfileRepository())

	for _, authorID := range []uint{1, 1, 2} {
		require.NoError(t, manuscripts.Create(&models.Manuscript{
			AuthorID: authorID,
			Title:    "m",
			Status:   models.StatusDraft,
		}, models.NewAuditEntry(admin, "create", models.TargetManuscript, 0, "", "draft", "")))
	}

	page, total, err := queues.Manuscripts(author, models.ManuscriptListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, m := range page {
		assert.Equal(t, author.ID, m.AuthorID)
	}

	// an author asking for someone else's queue still only sees their own
	page, _, err = queues.Manuscripts(author, models.ManuscriptListParams{AuthorID: 2, Page: 1, Limit: 10})
	require.NoError(t, err)
	for _, m := range page {
		assert.Equal(t, author.ID, m.AuthorID)
	}

	_, adminTotal, err := queues.Manuscripts(admin, models.ManuscriptListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), adminTotal)
}
