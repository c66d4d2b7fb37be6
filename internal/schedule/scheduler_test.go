package schedule

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alexanderramin/timereport/internal/app"
	"github.com/alexanderramin/timereport/internal/domain"
	"github.com/alexanderramin/timereport/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDailySpec(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "07:30", want: "0 30 7 * * *"},
		{in: "0:00", want: "0 0 0 * * *"},
		{in: "23:59", want: "0 59 23 * * *"},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "1:2:3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := buildDailySpec(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Error(t, ValidateTime(tt.in))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScheduler_NextActivationInLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	var logs bytes.Buffer
	s := NewScheduler(loc, slog.New(slog.NewTextHandler(&logs, nil)))
	id, err := s.ScheduleDaily("06:15", func() {})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return !s.Next(id).IsZero() }, time.Second, 10*time.Millisecond)
	next := s.Next(id).In(loc)
	assert.Equal(t, 6, next.Hour())
	assert.Equal(t, 15, next.Minute())
	assert.True(t, next.After(time.Now()))

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Contains(t, logs.String(), "msg=\"next run\" entry=1 at="+next.Format(time.RFC3339))
}

type stubSync struct {
	calls []app.SyncRequest
	err   error
}

func (s *stubSync) Sync(_ context.Context, req app.SyncRequest) (*app.SyncResult, error) {
	s.calls = append(s.calls, req)
	if s.err != nil {
		return nil, s.err
	}
	return &app.SyncResult{Mode: req.Mode}, nil
}

type stubReport struct {
	calls []app.ReportRequest
}

func (s *stubReport) Generate(_ context.Context, req app.ReportRequest) (*app.ReportResult, error) {
	s.calls = append(s.calls, req)
	return &app.ReportResult{Document: report.Document{Title: "20150202"}, Location: "vault/Diary/20150202.md"}, nil
}

func TestDailyJob_SyncsThenReportsYesterday(t *testing.T) {
	var logs bytes.Buffer
	sync := &stubSync{}
	rep := &stubReport{}
	job := DailyJob{Sync: sync, Report: rep, Logger: slog.New(slog.NewTextHandler(&logs, nil))}

	require.NoError(t, job.Run(context.Background()))

	require.Len(t, sync.calls, 1)
	assert.Equal(t, app.SyncIncremental, sync.calls[0].Mode)
	require.Len(t, rep.calls, 1)
	assert.Equal(t, domain.LevelDay, rep.calls[0].Level)
	assert.Empty(t, rep.calls[0].Date)
	assert.False(t, rep.calls[0].DryRun)
	assert.Contains(t, logs.String(), "vault/Diary/20150202.md")
}

func TestDailyJob_SyncFailureSkipsReport(t *testing.T) {
	var logs bytes.Buffer
	sync := &stubSync{err: errors.New("tracker down")}
	rep := &stubReport{}
	job := DailyJob{Sync: sync, Report: rep, Logger: slog.New(slog.NewTextHandler(&logs, nil))}

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daily sync")
	assert.Empty(t, rep.calls)

	job.Func(context.Background())()
	assert.Contains(t, logs.String(), "daily job failed")
	assert.Contains(t, logs.String(), "tracker down")
}
