package suite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/spboyer/sampledrive/internal/catalog"
	"github.com/spboyer/sampledrive/internal/models"
	"github.com/spboyer/sampledrive/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	summarizer = catalog.Entry{Key: "summarizer", Label: "Document Summarizer"}
	rag        = catalog.Entry{Key: "rag", Label: "RAG Pipeline"}
	refine     = catalog.Entry{Key: "refine-loop", Label: "Refine Loop"}
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func finished(sample catalog.Entry, state models.State) *models.RunSession {
	s := models.NewRunSession("id-"+sample.Key, sample, epoch)
	s.Finish(state, epoch.Add(time.Second))
	return s
}

type nopCheckpoint struct{}

func (nopCheckpoint) Checkpoint(context.Context, runner.Phase, catalog.Entry) error { return nil }

func TestRun_EmptyCatalog(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := NewMocksampleRunner(ctrl) // no calls expected

	report, err := New(r, catalog.MustNew(), nopCheckpoint{}).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Results)
	assert.Equal(t, Counts{}, report.Counts())
}

func TestRun_DeclaredOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := NewMocksampleRunner(ctrl)
	cp := nopCheckpoint{}

	gomock.InOrder(
		r.EXPECT().Load(gomock.Any()),
		r.EXPECT().Run(gomock.Any(), summarizer, cp).Return(finished(summarizer, models.StateDone), nil),
		r.EXPECT().Reset(gomock.Any()),
		r.EXPECT().Run(gomock.Any(), rag, cp).Return(finished(rag, models.StateTimedOut), nil),
		r.EXPECT().Reset(gomock.Any()),
		r.EXPECT().Run(gomock.Any(), refine, cp).Return(finished(refine, models.StateErrored), nil),
		r.EXPECT().Reset(gomock.Any()),
	)

	var seen []string
	o := New(r, catalog.MustNew(summarizer, rag, refine), cp, WithResultHandler(func(res Result) {
		seen = append(seen, res.Sample.Key)
	}))

	report, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"summarizer", "rag", "refine-loop"}, seen)
	assert.Equal(t, Counts{Planned: 3, Done: 1, TimedOut: 1, Errored: 1}, report.Counts())
	assert.False(t, report.Stopped)
}

func TestRun_FailedSampleDoesNotStopSuite(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := NewMocksampleRunner(ctrl)

	failure := errors.New("element not found")
	failed := models.NewRunSession("id", summarizer, epoch)

	gomock.InOrder(
		r.EXPECT().Load(gomock.Any()),
		r.EXPECT().Run(gomock.Any(), summarizer, gomock.Any()).Return(failed, failure),
		r.EXPECT().Reset(gomock.Any()),
		r.EXPECT().Run(gomock.Any(), rag, gomock.Any()).Return(finished(rag, models.StateDone), nil),
		r.EXPECT().Reset(gomock.Any()),
	)

	report, err := New(r, catalog.MustNew(summarizer, rag), nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	assert.ErrorIs(t, report.Results[0].Err, failure)
	assert.True(t, report.Results[0].Failed())
	assert.Equal(t, Counts{Planned: 2, Done: 1, Failed: 1}, report.Counts())
}

func TestRun_ResetFailureReloads(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := NewMocksampleRunner(ctrl)
	resetErr := errors.New("clear button missing")

	gomock.InOrder(
		r.EXPECT().Load(gomock.Any()),
		r.EXPECT().Run(gomock.Any(), summarizer, gomock.Any()).Return(finished(summarizer, models.StateDone), nil),
		r.EXPECT().Reset(gomock.Any()).Return(resetErr),
		r.EXPECT().Load(gomock.Any()),
		r.EXPECT().Run(gomock.Any(), rag, gomock.Any()).Return(finished(rag, models.StateDone), nil),
		r.EXPECT().Reset(gomock.Any()).Return(resetErr),
	)

	report, err := New(r, catalog.MustNew(summarizer, rag), nil).Run(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, report.Results[0].ResetErr, resetErr)
	assert.ErrorIs(t, report.Results[1].ResetErr, resetErr, "no reload after the last sample")
}

func TestRun_ReloadFailureEndsSuite(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := NewMocksampleRunner(ctrl)

	gomock.InOrder(
		r.EXPECT().Load(gomock.Any()),
		r.EXPECT().Run(gomock.Any(), summarizer, gomock.Any()).Return(finished(summarizer, models.StateDone), nil),
		r.EXPECT().Reset(gomock.Any()).Return(errors.New("reset")),
		r.EXPECT().Load(gomock.Any()).Return(errors.New("net::ERR_CONNECTION_REFUSED")),
	)

	report, err := New(r, catalog.MustNew(summarizer, rag), nil).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reloading after")
	assert.Equal(t, 1, report.Counts().Skipped)
}

func TestRun_LoadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := NewMocksampleRunner(ctrl)
	r.EXPECT().Load(gomock.Any()).Return(errors.New("refused"))

	report, err := New(r, catalog.MustNew(summarizer), nil).Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, report.Results)
}

func TestRun_StoppedAtCheckpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := NewMocksampleRunner(ctrl)

	gomock.InOrder(
		r.EXPECT().Load(gomock.Any()),
		r.EXPECT().Run(gomock.Any(), summarizer, gomock.Any()).
			Return(models.NewRunSession("id", summarizer, epoch), runner.ErrStopped),
	)

	report, err := New(r, catalog.MustNew(summarizer, rag, refine), nopCheckpoint{}).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Stopped)
	assert.Equal(t, Counts{Planned: 3, Skipped: 3}, report.Counts())
}

func TestResult_Stopped(t *testing.T) {
	pending := models.NewRunSession("id", summarizer, epoch)
	done := models.NewRunSession("id", summarizer, epoch)
	done.Finish(models.StateDone, epoch)

	tests := []struct {
		name    string
		res     Result
		stopped bool
		failed  bool
	}{
		{"stopped before result", Result{Session: pending, Err: fmt.Errorf("checkpoint loaded: %w", runner.ErrStopped)}, true, false},
		{"stopped after result", Result{Session: done, Err: fmt.Errorf("checkpoint result: %w", runner.ErrStopped)}, false, false},
		{"ui failure", Result{Session: pending, Err: errors.New("element not found")}, false, true},
		{"finished", Result{Session: done}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.stopped, tt.res.Stopped())
			assert.Equal(t, tt.failed, tt.res.Failed())
		})
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := NewMocksampleRunner(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	gomock.InOrder(
		r.EXPECT().Load(gomock.Any()),
		r.EXPECT().Run(gomock.Any(), summarizer, gomock.Any()).DoAndReturn(
			func(context.Context, catalog.Entry, runner.Checkpoint) (*models.RunSession, error) {
				cancel()
				return models.NewRunSession("id", summarizer, epoch), context.Canceled
			}),
	)

	report, err := New(r, catalog.MustNew(summarizer, rag), nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, report.Results, 1)
}

func TestReport_Duration(t *testing.T) {
	ticks := 0
	clock := func() time.Time {
		ticks++
		return epoch.Add(time.Duration(ticks) * time.Minute)
	}

	ctrl := gomock.NewController(t)
	report, err := New(NewMocksampleRunner(ctrl), catalog.MustNew(), nil, WithClock(clock)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Minute, report.Duration())
}
