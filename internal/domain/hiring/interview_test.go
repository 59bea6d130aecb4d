package hiring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/plugplayers/internal/domain"
)

func meeting(day int) domain.InterviewDetails {
	return domain.InterviewDetails{
		DateTime:    time.Date(2024, 3, day, 14, 0, 0, 0, time.UTC),
		Platform:    domain.PlatformGoogleMeet,
		MeetingLink: "https://meet.google.com/xyz-abc-def",
	}
}

func scheduled(t *testing.T, f *fixture) domain.Interview {
	t.Helper()
	ctx := context.Background()
	app, err := f.svc.ApplyForJob(ctx, "cand-4", "job-1")
	require.NoError(t, err)
	iv, err := f.svc.ScheduleInterview(ctx, clientID, app.ID, meeting(10))
	require.NoError(t, err)
	return iv
}

func TestScheduleInterview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	iv := scheduled(t, f)
	assert.Equal(t, domain.InterviewScheduled, iv.Status)
	assert.Equal(t, domain.PlatformGoogleMeet, iv.Platform)

	charlie := f.notifications(t, charlieUserID)
	require.Len(t, charlie, 1)
	assert.Equal(t, domain.NotificationInterviewScheduled, charlie[0].Type)
	assert.Equal(t, "You have a new interview for Senior Frontend Engineer with Innovate Inc..", charlie[0].Message)
	assert.Equal(t, "/candidate/interviews", charlie[0].Link)

	_, err := f.svc.ScheduleInterview(ctx, clientID, iv.ApplicationID, meeting(12))
	assert.ErrorIs(t, err, domain.ErrInvalidState, "an open interview blocks another")

	_, err = f.svc.CancelInterview(ctx, clientID, iv.ID)
	require.NoError(t, err)
	_, err = f.svc.ScheduleInterview(ctx, clientID, iv.ApplicationID, meeting(12))
	assert.NoError(t, err)

	latest, err := f.svc.LatestInterview(ctx, iv.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, meeting(12).DateTime, latest.DateTime)
}

func TestScheduleInterviewValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	app, err := f.svc.ApplyForJob(ctx, "cand-4", "job-1")
	require.NoError(t, err)

	bad := meeting(10)
	bad.Platform = "Carrier Pigeon"
	_, err = f.svc.ScheduleInterview(ctx, clientID, app.ID, bad)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.ScheduleInterview(ctx, clientID, app.ID, domain.InterviewDetails{Platform: domain.PlatformZoom, MeetingLink: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.ScheduleInterview(ctx, otherClientID, app.ID, meeting(10))
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	_, err = f.svc.ScheduleInterview(ctx, clientID, "app-missing", meeting(10))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCandidateRequestsRescheduleAndClientReschedules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	iv := scheduled(t, f)

	_, err := f.svc.UpdateInterview(ctx, eveUserID, iv.ID, domain.InterviewRescheduleRequested, nil)
	assert.ErrorIs(t, err, domain.ErrAuthorization, "only the interview's candidate may ask")

	iv, err = f.svc.UpdateInterview(ctx, charlieUserID, iv.ID, domain.InterviewRescheduleRequested, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.InterviewRescheduleRequested, iv.Status)

	alice := f.notifications(t, clientID)
	require.NotEmpty(t, alice)
	assert.Equal(t, domain.NotificationInterviewScheduled, alice[0].Type)
	assert.Equal(t, "Charlie Davis requested to reschedule an interview for Senior Frontend Engineer.", alice[0].Message)
	assert.Equal(t, "/client/jobs/job-1", alice[0].Link)

	same := iv.InterviewDetails
	_, err = f.svc.UpdateInterview(ctx, clientID, iv.ID, domain.InterviewScheduled, &same)
	assert.ErrorIs(t, err, domain.ErrValidation, "reschedule must change something")

	_, err = f.svc.UpdateInterview(ctx, clientID, iv.ID, domain.InterviewScheduled, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	next := meeting(15)
	next.Platform = domain.PlatformZoom
	next.MeetingLink = "https://zoom.us/j/123"
	iv, err = f.svc.UpdateInterview(ctx, clientID, iv.ID, domain.InterviewScheduled, &next)
	require.NoError(t, err)
	assert.Equal(t, domain.InterviewScheduled, iv.Status)
	assert.Equal(t, next.DateTime, iv.DateTime)
	assert.Equal(t, domain.PlatformZoom, iv.Platform)

	charlie := f.notifications(t, charlieUserID)
	assert.Equal(t, "Your interview for Senior Frontend Engineer has been rescheduled. Please check the new details.", charlie[0].Message)
}

func TestCandidateDeclines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	iv := scheduled(t, f)

	iv, err := f.svc.UpdateInterview(ctx, charlieUserID, iv.ID, domain.InterviewDeclinedByCandidate, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.InterviewDeclinedByCandidate, iv.Status)

	alice := f.notifications(t, clientID)
	assert.Equal(t, "Charlie Davis declined an interview for Senior Frontend Engineer.", alice[0].Message)

	_, err = f.svc.UpdateInterview(ctx, charlieUserID, iv.ID, domain.InterviewRescheduleRequested, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCancelledInterviewIsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	iv := scheduled(t, f)

	_, err := f.svc.CancelInterview(ctx, charlieUserID, iv.ID)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	iv, err = f.svc.CancelInterview(ctx, memberID, iv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InterviewCancelledByClient, iv.Status)

	charlie := f.notifications(t, charlieUserID)
	assert.Equal(t, "Your interview for Senior Frontend Engineer has been cancelled by Innovate Inc..", charlie[0].Message)

	next := meeting(20)
	for _, to := range []domain.InterviewStatus{
		domain.InterviewScheduled,
		domain.InterviewCompleted,
		domain.InterviewCancelledByClient,
	} {
		_, err = f.svc.UpdateInterview(ctx, clientID, iv.ID, to, &next)
		assert.ErrorIs(t, err, domain.ErrInvalidState, to)
	}
	_, err = f.svc.UpdateInterview(ctx, charlieUserID, iv.ID, domain.InterviewDeclinedByCandidate, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCompleteInterview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	iv := scheduled(t, f)
	before := len(f.notifications(t, charlieUserID))

	_, err := f.svc.UpdateInterview(ctx, charlieUserID, iv.ID, domain.InterviewCompleted, nil)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	iv, err = f.svc.UpdateInterview(ctx, clientID, iv.ID, domain.InterviewCompleted, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.InterviewCompleted, iv.Status)
	assert.Len(t, f.notifications(t, charlieUserID), before)

	_, err = f.svc.UpdateInterview(ctx, clientID, "iv-missing", domain.InterviewCompleted, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInterviewsForCandidate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	iv := scheduled(t, f)

	items, err := f.svc.InterviewsForCandidate(ctx, "cand-4")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, iv.ID, items[0].ID)

	items, err = f.svc.InterviewsForCandidate(ctx, "cand-6")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = f.svc.LatestInterview(ctx, "app-none")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
