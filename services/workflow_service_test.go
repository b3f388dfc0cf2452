package services_test

import (
	"sync"
	"testing"
	"time"

	"inkpress/mocks"
	"inkpress/models"
	"inkpress/services"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type workflowFixture struct {
	manuscripts *mocks.MockManuscriptRepository
	profiles    *mocks.MockAuthorProfileRepository
	cache       *services.ManuscriptCache
	events      *services.EventBus
	published   []models.Event
	workflow    services.WorkflowService
}

func newWorkflowFixture() *workflowFixture {
	f := &workflowFixture{
		manuscripts: mocks.NewMockManuscriptRepository(),
		profiles:    mocks.NewMockAuthorProfileRepository(),
		cache:       services.NewManuscriptCache(),
		events:      services.NewEventBus(),
	}
	var mu sync.Mutex
	f.events.Subscribe(func(e models.Event) {
		mu.Lock()
		f.published = append(f.published, e)
		mu.Unlock()
	})
	f.workflow = services.NewWorkflowService(f.manuscripts, f.profiles, f.cache, f.events, zerolog.Nop())
	return f
}

var (
	author      = models.Actor{ID: 1, Role: models.RoleAuthor}
	otherAuthor = models.Actor{ID: 2, Role: models.RoleAuthor}
	admin       = models.Actor{ID: 9, Role: models.RoleAdmin}
)

func (f *workflowFixture) createDraft(t *testing.T) *models.Manuscript {
	t.Helper()
	manuscript, err := f.workflow.Create(author, models.CreateManuscriptRequest{Title: "The Silent Press"})
	require.NoError(t, err)
	require.Equal(t, models.StatusDraft, manuscript.Status)
	return manuscript
}

func TestManuscriptLifecycle(t *testing.T) {
	f := newWorkflowFixture()
	manuscript := f.createDraft(t)

	manuscript, err := f.workflow.Submit(author, manuscript.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, manuscript.Status)
	assert.NotNil(t, manuscript.SubmittedAt)

	manuscript, err = f.workflow.StartReview(admin, manuscript.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInReview, manuscript.Status)
	require.NotNil(t, manuscript.ReviewerID)
	assert.Equal(t, admin.ID, *manuscript.ReviewerID)

	manuscript, err = f.workflow.Approve(admin, manuscript.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, manuscript.Status)

	manuscript, err = f.workflow.Publish(admin, manuscript.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, manuscript.Status)

	manuscript, err = f.workflow.Unpublish(admin, manuscript.ID, "quality issue")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, manuscript.Status)
	assert.Nil(t, manuscript.RejectionReason)

	assert.Equal(t, []string{"create", "submit", "start_review", "approve", "publish", "unpublish"},
		f.manuscripts.AuditActions())

	last := f.manuscripts.Audits[len(f.manuscripts.Audits)-1]
	require.NotNil(t, last.Reason)
	assert.Equal(t, "quality issue", *last.Reason)
	assert.Equal(t, string(models.StatusPublished), last.PrevState)
	assert.Equal(t, string(models.StatusDraft), last.NewState)
}

func TestApproveOnlyFromInReview(t *testing.T) {
	f := newWorkflowFixture()
	manuscript := f.createDraft(t)

	_, err := f.workflow.Approve(admin, manuscript.ID)
	require.Error(t, err)
	var invalid models.ErrorInvalidTransition
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, string(models.StatusDraft), invalid.Current)

	// status unchanged after the failed attempt
	stored, err := f.manuscripts.GetByID(manuscript.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, stored.Status)
}

func TestReasonRequired(t *testing.T) {
	f := newWorkflowFixture()
	manuscript := f.createDraft(t)
	_, err := f.workflow.Submit(author, manuscript.ID)
	require.NoError(t, err)
	_, err = f.workflow.StartReview(admin, manuscript.ID)
	require.NoError(t, err)

	_, err = f.workflow.Reject(admin, manuscript.ID, "   ")
	var validation models.ErrorValidation
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "reason", validation.Field)

	stored, err := f.manuscripts.GetByID(manuscript.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInReview, stored.Status)
}

func TestRejectSetsReasonAndResubmitClearsIt(t *testing.T) {
	f := newWorkflowFixture()
	manuscript := f.createDraft(t)
	_, err := f.workflow.Submit(author, manuscript.ID)
	require.NoError(t, err)
	_, err = f.workflow.StartReview(admin, manuscript.ID)
	require.NoError(t, err)

	manuscript, err = f.workflow.Reject(admin, manuscript.ID, "needs a stronger opening")
	require.NoError(t, err)
	require.NotNil(t, manuscript.RejectionReason)
	assert.Equal(t, "needs a stronger opening", *manuscript.RejectionReason)

	manuscript, err = f.workflow.Resubmit(author, manuscript.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, manuscript.Status)
	assert.Nil(t, manuscript.RejectionReason)
}

func TestSubmitByNonOwner(t *testing.T) {
	f := newWorkflowFixture()
	manuscript := f.createDraft(t)

	_, err := f.workflow.Submit(otherAuthor, manuscript.ID)
	var unauthorized models.ErrorUnauthorized
	require.ErrorAs(t, err, &unauthorized)

	stored, err := f.manuscripts.GetByID(manuscript.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, stored.Status)
}

func TestAdminCannotSubmitForAuthor(t *testing.T) {
	f := newWorkflowFixture()
	manuscript := f.createDraft(t)

	_, err := f.workflow.Submit(admin, manuscript.ID)
	var unauthorized models.ErrorUnauthorized
	require.ErrorAs(t, err, &unauthorized)
}

func TestSuspendedAuthorBlocked(t *testing.T) {
	f := newWorkflowFixture()
	manuscript := f.createDraft(t)
	require.NoError(t, f.profiles.Create(&models.AuthorProfile{AuthorID: author.ID, Suspended: true}))

	_, err := f.workflow.Submit(author, manuscript.ID)
	var unauthorized models.ErrorUnauthorized
	require.ErrorAs(t, err, &unauthorized)

	// admins are blocked too
	_, err = f.workflow.StartReview(admin, manuscript.ID)
	require.ErrorAs(t, err, &unauthorized)
}

func TestUnknownManuscript(t *testing.T) {
	f := newWorkflowFixture()
	_, err := f.workflow.Submit(author, 404)
	var notFound models.ErrorNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestConcurrentApprove(t *testing.T) {
	f := newWorkflowFixture()
	manuscript := f.createDraft(t)
	_, err := f.workflow.Submit(author, manuscript.ID)
	require.NoError(t, err)
	_, err = f.workflow.StartReview(admin, manuscript.ID)
	require.NoError(t, err)

	// Both admins must read the same lock version before either writes.
	var barrier sync.WaitGroup
	barrier.Add(2)
	f.manuscripts.ReadGate = func() {
		barrier.Done()
		barrier.Wait()
	}

	secondAdmin := models.Actor{ID: 10, Role: models.RoleAdmin}
	results := make(chan error, 2)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for _, actor := range []models.Actor{admin, secondAdmin} {
		wg.Add(1)
		go func(a models.Actor) {
			defer wg.Done()
			<-start
			_, err := f.workflow.Approve(a, manuscript.ID)
			results <- err
		}(actor)
	}
	close(start)
	wg.Wait()
	close(results)
	f.manuscripts.ReadGate = nil

	var successes, conflicts int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var conflict models.ErrorConflict
		require.ErrorAs(t, err, &conflict)
		conflicts++
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	stored, err := f.manuscripts.GetByID(manuscript.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, stored.Status)

	approveEntries := 0
	for _, action := range f.manuscripts.AuditActions() {
		if action == "approve" {
			approveEntries++
		}
	}
	assert.Equal(t, 1, approveEntries, "audit trail must not be doubled")
}

func TestGetReadThroughCache(t *testing.T) {
	f := newWorkflowFixture()
	manuscript := f.createDraft(t)

	// miss fills the cache
	got, err := f.workflow.Get(author, manuscript.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, got.Status)
	_, cached := f.cache.Get(manuscript.ID)
	assert.True(t, cached)

	// a successful transition invalidates the entry
	_, err = f.workflow.Submit(author, manuscript.ID)
	require.NoError(t, err)
	_, cached = f.cache.Get(manuscript.ID)
	assert.False(t, cached)

	got, err = f.workflow.Get(author, manuscript.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, got.Status)
}

func TestGetHidesUnpublishedFromStrangers(t *testing.T) {
	f := newWorkflowFixture()
	manuscript := f.createDraft(t)

	_, err := f.workflow.Get(models.Actor{ID: 42, Role: models.RoleReader}, manuscript.ID)
	var unauthorized models.ErrorUnauthorized
	require.ErrorAs(t, err, &unauthorized)

	// admins and the owner can always read
	_, err = f.workflow.Get(admin, manuscript.ID)
	require.NoError(t, err)
	_, err = f.workflow.Get(author, manuscript.ID)
	require.NoError(t, err)
}

func TestTransitionEventsPublished(t *testing.T) {
	f := newWorkflowFixture()
	manuscript := f.createDraft(t)
	_, err := f.workflow.Submit(author, manuscript.ID)
	require.NoError(t, err)
	_, err = f.workflow.StartReview(admin, manuscript.ID)
	require.NoError(t, err)
	_, err = f.workflow.Reject(admin, manuscript.ID, "too short")
	require.NoError(t, err)

	require.Len(t, f.published, 3)
	last := f.published[2]
	assert.Equal(t, models.EventManuscriptRejected, last.Type)
	assert.Equal(t, "too short", last.Reason)
	assert.Equal(t, manuscript.ID, last.TargetID)
	assert.WithinDuration(t, time.Now(), last.At, time.Minute)
}
