package worker

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/d9705996/ideaportal/internal/dbtest"
	"github.com/d9705996/ideaportal/internal/model"
	"github.com/d9705996/ideaportal/internal/notify"
	"github.com/d9705996/ideaportal/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/riverqueue/river"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	got time.Duration
	n   int64
	err error
}

func (f *fakePurger) PurgeRead(_ context.Context, retention time.Duration) (int64, error) {
	f.got = retention
	return f.n, f.err
}

func newNullLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestPurgeWorker(t *testing.T) {
	p := &fakePurger{n: 3}
	w := &purgeWorker{purger: p}

	err := w.Work(context.Background(), &river.Job[PurgeReadNotificationsArgs]{Args: PurgeReadNotificationsArgs{Retention: 48 * time.Hour}})
	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, p.got)

	p.err = errors.New("db down")
	err = w.Work(context.Background(), &river.Job[PurgeReadNotificationsArgs]{Args: PurgeReadNotificationsArgs{Retention: time.Hour}})
	assert.ErrorIs(t, err, p.err)
}

func purgedTotal(t *testing.T) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "ideaportal_notifications_purged_total" {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

func TestPurgeWorker_CountsEachRowOnce(t *testing.T) {
	ctx := context.Background()
	st := store.New(dbtest.Open(t))
	old := &model.Notification{UserID: "alice", Type: model.NotificationStatusChange, Message: "old", Read: true, CreatedAt: time.Now().Add(-48 * time.Hour)}
	require.NoError(t, st.CreateNotification(ctx, old))

	w := &purgeWorker{purger: notify.New(st, 0, newNullLogger())}
	before := purgedTotal(t)
	err := w.Work(ctx, &river.Job[PurgeReadNotificationsArgs]{Args: PurgeReadNotificationsArgs{Retention: time.Hour}})
	require.NoError(t, err)
	assert.Equal(t, before+1, purgedTotal(t))
}

func TestPeriodicJobs(t *testing.T) {
	jobs := periodicJobs(time.Hour)
	assert.Len(t, jobs, 1)
	assert.Equal(t, "purge_read_notifications", PurgeReadNotificationsArgs{}.Kind())
}

func TestNew_SqliteIsNoop(t *testing.T) {
	q, err := New(nil, Options{Driver: "sqlite"}, newNullLogger())
	require.NoError(t, err)
	require.NoError(t, q.Start(context.Background()))
	require.NoError(t, q.Stop(context.Background()))
}
