package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	attendanceerrors "go-otta/internal/attendance/errors"
	"go-otta/internal/domain"
	"go-otta/internal/ledger"
	ledgermock "go-otta/internal/ledger/mock"
	"go-otta/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	saved []domain.TimeLog
}

func (n *recordingNotifier) NotifySaved(l domain.TimeLog) { n.saved = append(n.saved, l) }

type recordingReplicator struct {
	logs   []domain.TimeLog
	emails []string
}

func (r *recordingReplicator) EnqueueLog(l domain.TimeLog, email string) {
	r.logs = append(r.logs, l)
	r.emails = append(r.emails, email)
}

type serviceFixture struct {
	svc        Service
	repo       ledger.Repository
	clock      *fakeClock
	notifier   *recordingNotifier
	replicator *recordingReplicator
}

func newServiceFixture(t *testing.T) serviceFixture {
	t.Helper()
	clock := newFakeClock(time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC))
	repo := ledger.NewRepository(storage.NewMemoryStore(), ledger.DefaultKeys, zap.NewNop())
	notifier := &recordingNotifier{}
	replicator := &recordingReplicator{}
	engine := NewEngine(time.UTC, WithClock(clock.now))
	return serviceFixture{
		svc:        NewService(repo, engine, notifier, replicator, zap.NewNop()),
		repo:       repo,
		clock:      clock,
		notifier:   notifier,
		replicator: replicator,
	}
}

func TestService_CheckInCheckOut(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	in, err := f.svc.CheckIn(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "active", in.Status)
	assert.Equal(t, "Alex Rivera", in.UserName)

	active, err := f.svc.GetActive(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, in.ID, active.ID)

	f.clock.advance(3661 * time.Second)
	out, err := f.svc.CheckOut(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	require.NotNil(t, out.DurationMinutes)
	assert.Equal(t, 61, *out.DurationMinutes)

	logs, err := f.repo.GetLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1, "check-out replaces the entry in place")
	assert.Equal(t, domain.LogStatusCompleted, logs[0].Status)

	active, err = f.svc.GetActive(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, active)

	require.Len(t, f.notifier.saved, 2)
	assert.Equal(t, domain.LogStatusActive, f.notifier.saved[0].Status)
	assert.Equal(t, domain.LogStatusCompleted, f.notifier.saved[1].Status)
	assert.Equal(t, []string{"alex.rivera@otta.com", "alex.rivera@otta.com"}, f.replicator.emails)
}

func TestService_CheckIn_Twice(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, "u1")
	require.NoError(t, err)

	_, err = f.svc.CheckIn(ctx, "u1")
	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedIn)

	logs, _ := f.repo.GetLogs(ctx)
	assert.Len(t, logs, 1)
	assert.Len(t, f.notifier.saved, 1, "rejected check-in is not announced")
}

func TestService_CheckOut_NothingOpen(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.CheckOut(context.Background(), "u1")
	assert.ErrorIs(t, err, attendanceerrors.ErrNoActiveEntry)
	assert.Empty(t, f.notifier.saved)
	assert.Empty(t, f.replicator.logs)
}

func TestService_CheckOut_AfterUserRemoved(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	in, err := f.svc.CheckIn(ctx, "u1")
	require.NoError(t, err)
	require.NoError(t, f.repo.RemoveUser(ctx, "u1"))

	f.clock.advance(30 * time.Minute)
	out, err := f.svc.CheckOut(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, "completed", out.Status)
	assert.Equal(t, "Alex Rivera", out.UserName, "entry keeps its name snapshot")

	active, err := f.svc.GetActive(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, active)

	require.Len(t, f.replicator.emails, 2)
	assert.Equal(t, "", f.replicator.emails[1], "sink substitutes its placeholder address")
}

func TestService_UnknownUser(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.CheckIn(context.Background(), "ghost")
	assert.ErrorIs(t, err, attendanceerrors.ErrUserNotFound)
}

func TestService_ManualEntry(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	resp, err := f.svc.ManualEntry(ctx, "u3", ManualEntryRequest{
		Date: "2024-03-01", Type: "OFFICE_WORK", StartTime: "09:00", EndTime: "17:00", Notes: "forgot badge",
	})
	require.NoError(t, err)
	assert.Equal(t, 480, *resp.DurationMinutes)
	assert.Equal(t, "forgot badge", resp.Remarks)

	_, err = f.svc.ManualEntry(ctx, "u3", ManualEntryRequest{
		Date: "2024-03-01", Type: "OFFICE_WORK", StartTime: "17:00", EndTime: "09:00",
	})
	assert.ErrorIs(t, err, attendanceerrors.ErrInvalidTimeRange)

	_, err = f.svc.ManualEntry(ctx, "u3", ManualEntryRequest{Date: "2024-03-01", Type: "CASUAL_LEAVE"})
	require.NoError(t, err)

	list, err := f.svc.ListByUser(ctx, "u3")
	require.NoError(t, err)
	assert.Len(t, list, 2, "several entries on one day are allowed")
	assert.Len(t, f.replicator.logs, 2)
}

func TestService_Today(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, "u1")
	require.NoError(t, err)
	f.clock.advance(90 * time.Second)

	today, err := f.svc.Today(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", today.Date)
	assert.Equal(t, int64(90), today.ElapsedSeconds)
	assert.Equal(t, 1, today.TotalMinutes)
	require.NotNil(t, today.Active)
	require.NotNil(t, today.FirstCheckIn)
	assert.Nil(t, today.LastCheckOut)
}

func TestService_SaveFailureSkipsSideEffects(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := ledgermock.NewMockRepository(ctrl)
	notifier := &recordingNotifier{}
	replicator := &recordingReplicator{}
	svc := NewService(repo, NewEngine(time.UTC), notifier, replicator, zap.NewNop())
	boom := errors.New("disk full")

	repo.EXPECT().GetUsers(gomock.Any()).Return([]domain.User{alex}, nil)
	repo.EXPECT().GetLogs(gomock.Any()).Return(nil, nil)
	repo.EXPECT().SaveLog(gomock.Any(), gomock.Any()).Return(boom)

	_, err := svc.CheckIn(context.Background(), alex.ID)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, notifier.saved)
	assert.Empty(t, replicator.logs)
}

func TestService_NilCollaborators(t *testing.T) {
	repo := ledger.NewRepository(storage.NewMemoryStore(), ledger.DefaultKeys, zap.NewNop())
	svc := NewService(repo, NewEngine(time.UTC), nil, nil, zap.NewNop())

	_, err := svc.CheckIn(context.Background(), "u2")
	assert.NoError(t, err)
}
