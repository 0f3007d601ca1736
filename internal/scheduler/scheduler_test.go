package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/KotFed0t/networth_dashboard/utils"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalJobStartsImmediately(t *testing.T) {
	s, err := New(clockwork.NewFakeClock())
	require.NoError(t, err)

	ran := make(chan string, 1)
	err = s.NewIntervalJob("warm quotes", func(ctx context.Context) error {
		select {
		case ran <- utils.GetRequestIDFromCtx(ctx):
		default:
		}
		return nil
	}, time.Hour, true)
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	select {
	case rqID := <-ran:
		assert.NotEmpty(t, rqID)
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestPanickingJobIsRecovered(t *testing.T) {
	s, err := New(clockwork.NewFakeClock())
	require.NoError(t, err)

	ran := make(chan struct{}, 1)
	require.NoError(t, s.NewIntervalJob("panics", func(context.Context) error {
		panic("boom")
	}, time.Hour, true))
	require.NoError(t, s.NewIntervalJob("survives", func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}, time.Hour, true))

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestInvalidCrontab(t *testing.T) {
	s, err := New(clockwork.NewFakeClock())
	require.NoError(t, err)

	err = s.NewCrontabJob("news", func(context.Context) error { return nil }, "not a crontab", false)
	assert.Error(t, err)

	err = s.NewCrontabJob("news", func(context.Context) error { return nil }, "CRON_TZ=America/New_York 0 0 9 * * *", false)
	assert.NoError(t, err)
}
