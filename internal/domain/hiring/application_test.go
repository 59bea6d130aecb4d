package hiring

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/internal/repository"
	"github.com/honeycarbs/plugplayers/internal/storage/memory"
)

func TestApplyForJobIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.ApplyForJob(ctx, "cand-4", "job-1")
	require.NoError(t, err)
	second, err := f.svc.ApplyForJob(ctx, "cand-4", "job-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	apps, err := f.repos.Applications.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, apps, 1)

	job, err := f.repos.Jobs.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, 1, job.ApplicationsCount)

	alice := f.notifications(t, clientID)
	require.Len(t, alice, 1)
	assert.Equal(t, domain.NotificationNewApplication, alice[0].Type)
	assert.Equal(t, "Charlie Davis applied for Senior Frontend Engineer.", alice[0].Message)
	assert.Equal(t, "/client/jobs/job-1", alice[0].Link)

	assert.Empty(t, f.notifications(t, memberID), "only client admins are told about new applications")
}

func TestApplyForJobConcurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const callers = 10
	var wg sync.WaitGroup
	ids := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			app, err := f.svc.ApplyForJob(ctx, "cand-6", "job-1")
			assert.NoError(t, err)
			ids[i] = app.ID
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	job, err := f.repos.Jobs.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, 1, job.ApplicationsCount)
}

func TestApplyForJobUnknownEntities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ApplyForJob(ctx, "cand-missing", "job-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.ApplyForJob(ctx, "cand-4", "job-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyForJobRequiresOpenJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, jobID := range []string{"job-3", "job-4"} {
		t.Run(jobID, func(t *testing.T) {
			_, err := f.svc.ApplyForJob(ctx, "cand-4", jobID)
			assert.ErrorIs(t, err, domain.ErrInvalidState)

			apps, err := f.repos.Applications.List(ctx, func(a domain.Application) bool { return a.JobID == jobID })
			require.NoError(t, err)
			assert.Empty(t, apps)

			job, err := f.repos.Jobs.Get(ctx, jobID)
			require.NoError(t, err)
			assert.Zero(t, job.ApplicationsCount)
		})
	}
	assert.Empty(t, f.notifications(t, clientID))
}

// jobUpdateFailure fails the next job update after it is armed
type jobUpdateFailure struct {
	repository.Store
	armed atomic.Bool
}

func (s *jobUpdateFailure) Update(ctx context.Context, rec repository.Record, expected int64) (repository.Record, error) {
	if rec.Kind == repository.KindJob && s.armed.CompareAndSwap(true, false) {
		return repository.Record{}, errors.New("job store unavailable")
	}
	return s.Store.Update(ctx, rec, expected)
}

func TestApplyForJobRetryRepairsCount(t *testing.T) {
	store := &jobUpdateFailure{Store: memory.NewStore()}
	f := newFixtureOnStore(t, store)
	ctx := context.Background()

	store.armed.Store(true)
	_, err := f.svc.ApplyForJob(ctx, "cand-4", "job-1")
	require.Error(t, err)

	apps, err := f.repos.Applications.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	job, err := f.repos.Jobs.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Zero(t, job.ApplicationsCount)

	app, err := f.svc.ApplyForJob(ctx, "cand-4", "job-1")
	require.NoError(t, err)
	assert.Equal(t, apps[0].ID, app.ID)

	job, err = f.repos.Jobs.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, 1, job.ApplicationsCount)

	// a second application for the same job keeps counting from the repaired value
	_, err = f.svc.ApplyForJob(ctx, "cand-6", "job-1")
	require.NoError(t, err)
	job, err = f.repos.Jobs.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, 2, job.ApplicationsCount)
}

func TestUpdateApplicationStatusNotifiesCandidate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	app, err := f.svc.ApplyForJob(ctx, "cand-4", "job-1")
	require.NoError(t, err)

	updated, err := f.svc.UpdateApplicationStatus(ctx, memberID, app.ID, domain.ApplicationShortlisted)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationShortlisted, updated.Status)

	charlie := f.notifications(t, charlieUserID)
	require.Len(t, charlie, 1)
	assert.Equal(t, domain.NotificationContractAction, charlie[0].Type)
	assert.Equal(t, "Your application status for Senior Frontend Engineer was updated to Shortlisted.", charlie[0].Message)
	assert.Equal(t, "/candidate/applications", charlie[0].Link)

	// same status again changes nothing
	_, err = f.svc.UpdateApplicationStatus(ctx, memberID, app.ID, domain.ApplicationShortlisted)
	require.NoError(t, err)
	assert.Len(t, f.notifications(t, charlieUserID), 1)
}

func TestUpdateApplicationStatusRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	app, err := f.svc.ApplyForJob(ctx, "cand-4", "job-1")
	require.NoError(t, err)

	_, err = f.svc.UpdateApplicationStatus(ctx, otherClientID, app.ID, domain.ApplicationOffer)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	_, err = f.svc.UpdateApplicationStatus(ctx, charlieUserID, app.ID, domain.ApplicationOffer)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	_, err = f.svc.UpdateApplicationStatus(ctx, clientID, app.ID, "Maybe")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.UpdateApplicationStatus(ctx, clientID, "app-missing", domain.ApplicationOffer)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// movement among open statuses is free, including back out of Rejected
	for _, s := range []domain.ApplicationStatus{
		domain.ApplicationOffer,
		domain.ApplicationSubmitted,
		domain.ApplicationRejected,
		domain.ApplicationInterview,
		domain.ApplicationRejected,
	} {
		_, err = f.svc.UpdateApplicationStatus(ctx, adminID, app.ID, s)
		require.NoError(t, err, s)
	}

	_, err = f.svc.UpdateApplicationStatus(ctx, clientID, app.ID, domain.ApplicationHired)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Empty(t, f.contractsFor(t, app.ID))
}

func TestHireProducesExactlyOneContract(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	app, contract := f.hire(t)
	assert.Equal(t, domain.ApplicationHired, app.Status)
	assert.Equal(t, domain.ContractPendingClient, contract.Status)
	assert.Equal(t, "Innovate Inc.", contract.ClientName)
	assert.Equal(t, "Charlie Davis", contract.CandidateName)
	assert.Equal(t, charlieUserID, contract.CandidateUserID)
	assert.Equal(t, "Senior Frontend Engineer", contract.JobTitle)
	assert.Contains(t, contract.Content, "between Innovate Inc. (\"Company\") and Charlie Davis (\"Contractor\")")
	assert.Contains(t, contract.Content, "pay the Contractor $80/hr.")

	var hired []domain.Notification
	for _, n := range f.notifications(t, charlieUserID) {
		if n.Type == domain.NotificationContractAction && strings.Contains(n.Message, "Hired") {
			hired = append(hired, n)
		}
	}
	assert.Len(t, hired, 1)

	// Hired is final
	_, err := f.svc.UpdateApplicationStatus(ctx, clientID, app.ID, domain.ApplicationOffer)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.svc.GenerateContract(ctx, clientID, app.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Len(t, f.contractsFor(t, app.ID), 1)
}

func TestHireSequenceRetriesContractGeneration(t *testing.T) {
	var (
		mu   sync.Mutex
		fail = true
	)
	writer := func(job domain.Job, cand domain.Candidate, org domain.Organization) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return "", errors.New("template store unavailable")
		}
		return ContractText(job, cand, org), nil
	}
	f := newFixture(t, WithContractWriter(writer))
	ctx := context.Background()

	app, err := f.svc.ApplyForJob(ctx, "cand-4", "job-1")
	require.NoError(t, err)

	hired, err := f.svc.UpdateApplicationStatus(ctx, clientID, app.ID, domain.ApplicationHired)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrContractGeneration)
	assert.Equal(t, domain.ApplicationHired, hired.Status)

	stored, err := f.svc.Application(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationHired, stored.Status)
	assert.Empty(t, f.contractsFor(t, app.ID))

	mu.Lock()
	fail = false
	mu.Unlock()

	contract, err := f.svc.GenerateContract(ctx, clientID, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ContractPendingClient, contract.Status)
	assert.Len(t, f.contractsFor(t, app.ID), 1)
}

func TestGenerateContractRequiresHired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	app, err := f.svc.ApplyForJob(ctx, "cand-4", "job-1")
	require.NoError(t, err)

	_, err = f.svc.GenerateContract(ctx, clientID, app.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.svc.GenerateContract(ctx, clientID, "app-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGenerateContractRequiresOrgAccess(t *testing.T) {
	writer := func(domain.Job, domain.Candidate, domain.Organization) (string, error) {
		return "", errors.New("template store unavailable")
	}
	f := newFixture(t, WithContractWriter(writer))
	ctx := context.Background()

	app, err := f.svc.ApplyForJob(ctx, "cand-4", "job-1")
	require.NoError(t, err)
	_, err = f.svc.UpdateApplicationStatus(ctx, clientID, app.ID, domain.ApplicationHired)
	require.ErrorIs(t, err, ErrContractGeneration)

	for _, actor := range []string{otherClientID, charlieUserID} {
		_, err = f.svc.GenerateContract(ctx, actor, app.ID)
		assert.ErrorIs(t, err, domain.ErrAuthorization, actor)
	}
	_, err = f.svc.GenerateContract(ctx, "user-missing", app.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.contractsFor(t, app.ID))
}
