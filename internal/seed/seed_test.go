package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/internal/repository"
	"github.com/honeycarbs/plugplayers/internal/storage/memory"
)

func TestDemoDataset(t *testing.T) {
	ds, err := Demo()
	require.NoError(t, err)

	assert.Len(t, ds.Users, 6)
	assert.Len(t, ds.Organizations, 4)
	assert.Len(t, ds.Candidates, 4)
	assert.Len(t, ds.Jobs, 4)
	assert.Len(t, ds.Applications, 3)
	require.Len(t, ds.Interviews, 1)

	assert.Equal(t, domain.RoleClientAdmin, ds.Users[1].Role)
	assert.Equal(t, "org-1", ds.Users[1].OrganizationID)
	assert.Equal(t, "user-4", ds.Candidates[0].UserID)
	assert.Empty(t, ds.Candidates[3].UserID, "Grace has no account")
	assert.Equal(t, domain.JobClosed, ds.Jobs[2].Status)
	assert.Equal(t, time.Date(2023, 10, 26, 0, 0, 0, 0, time.UTC), ds.Applications[0].AppliedDate)

	iv := ds.Interviews[0]
	assert.Equal(t, domain.PlatformGoogleMeet, iv.Platform)
	assert.Equal(t, domain.InterviewScheduled, iv.Status)
	assert.Equal(t, 5, iv.InDays)
}

func TestLoadIsRepeatable(t *testing.T) {
	ctx := context.Background()
	repos := repository.New(memory.NewStore())
	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	ld := NewLoader(repos, WithClock(func() time.Time { return now }))

	ds, err := Demo()
	require.NoError(t, err)

	first, err := ld.Load(ctx, ds)
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 22}, first)

	second, err := ld.Load(ctx, ds)
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 22}, second)

	iv, err := repos.Interviews.Get(ctx, "int-1")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC), iv.DateTime)
	assert.Equal(t, "https://meet.google.com/xyz-abc-def", iv.MeetingLink)

	job, err := repos.Jobs.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, 2, job.ApplicationsCount)
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := Parse([]byte("users: {"))
	assert.Error(t, err)
}
