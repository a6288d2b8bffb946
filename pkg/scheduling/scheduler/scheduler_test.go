package scheduler

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"

	"github.com/vnykmshr/goprim/internal/testutil"
	gperrors "github.com/vnykmshr/goprim/pkg/common/errors"
	"github.com/vnykmshr/goprim/pkg/messaging/mpsc"
	"github.com/vnykmshr/goprim/pkg/metrics"
)

// every fires at a fixed interval, below the one second resolution of
// cron expressions.
type every time.Duration

func (e every) Next(t time.Time) time.Time {
	return t.Add(time.Duration(e))
}

func testConfig() Config {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	config := DefaultConfig()
	config.Logger = logger
	return config
}

func newScheduler(t *testing.T, config Config) (*Scheduler[int], *mpsc.Receiver[int]) {
	t.Helper()
	tx, rx := mpsc.New[int]()
	s, err := NewWithConfig(tx, config)
	testutil.AssertNoError(t, err)
	t.Cleanup(func() {
		s.Stop(context.Background())
		rx.Close()
	})
	return s, rx
}

func counter() ProduceFunc[int] {
	n := 0
	return func(time.Time) (int, bool) {
		n++
		return n, true
	}
}

func recvValue(t *testing.T, rx *mpsc.Receiver[int]) int {
	t.Helper()
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	v, err := rx.RecvContext(ctx)
	testutil.AssertNoError(t, err)
	return v
}

func TestScheduleSendsValues(t *testing.T) {
	s, rx := newScheduler(t, testConfig())

	testutil.AssertNoError(t, s.ScheduleFunc("tick", every(10*time.Millisecond), counter()))
	testutil.AssertNoError(t, s.Start())

	for want := 1; want <= 3; want++ {
		testutil.AssertEqual(t, recvValue(t, rx), want)
	}
}

func TestStopClosesChannel(t *testing.T) {
	tx, rx := mpsc.New[int]()
	defer rx.Close()

	s, err := NewWithConfig(tx, testConfig())
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, s.ScheduleFunc("a", every(5*time.Millisecond), counter()))
	testutil.AssertNoError(t, s.ScheduleFunc("b", every(5*time.Millisecond), counter()))
	testutil.AssertNoError(t, s.Start())

	recvValue(t, rx)

	testutil.AssertNoError(t, s.Stop(context.Background()))
	testutil.AssertEqual(t, rx.Stats().Senders, 0)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range rx.All() {
		}
	}()
	testutil.AssertCompletes(t, done)

	// Stopping again is a no-op.
	testutil.AssertNoError(t, s.Stop(context.Background()))
}

func TestStopHonorsContextWithRunInProgress(t *testing.T) {
	tx, rx := mpsc.New[int]()
	defer rx.Close()

	s, err := NewWithConfig(tx, testConfig())
	testutil.AssertNoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	slow := func(time.Time) (int, bool) {
		once.Do(func() { close(started) })
		<-release
		return 1, true
	}
	testutil.AssertNoError(t, s.ScheduleFunc("slow", every(5*time.Millisecond), slow))
	testutil.AssertNoError(t, s.Start())
	testutil.AssertCompletes(t, started)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	begin := time.Now()
	err = s.Stop(ctx)
	testutil.AssertEqual(t, err, context.DeadlineExceeded)
	testutil.AssertEqual(t, time.Since(begin) < time.Second, true)

	// The run in progress keeps its job Sender open until it returns.
	testutil.AssertEqual(t, rx.Stats().Senders, 1)

	close(release)
	var got []int
	done := make(chan struct{})
	go func() {
		defer close(done)
		for v := range rx.All() {
			got = append(got, v)
		}
	}()
	testutil.AssertCompletes(t, done)
	testutil.AssertEqual(t, len(got), 0)
}

func TestStepExpressions(t *testing.T) {
	s, _ := newScheduler(t, testConfig())

	testutil.AssertNoError(t, s.Schedule("tens", "0/10 * * * * *", counter()))
	next, err := s.Next("tens")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, next.Second()%10, 0)
	testutil.AssertEqual(t, time.Until(next) <= 10*time.Second, true)
}

func TestUnscheduleClosesJobSender(t *testing.T) {
	s, rx := newScheduler(t, testConfig())

	testutil.AssertNoError(t, s.Schedule("hourly", "0 0 * * * *", counter()))
	testutil.AssertNoError(t, s.Schedule("daily", "@daily", counter()))
	testutil.AssertEqual(t, rx.Stats().Senders, 3)

	testutil.AssertNoError(t, s.Unschedule("hourly"))
	testutil.AssertEqual(t, rx.Stats().Senders, 2)
	testutil.AssertEqual(t, len(s.Jobs()), 1)

	err := s.Unschedule("hourly")
	testutil.AssertEqual(t, errors.Is(err, ErrJobNotFound), true)
}

func TestScheduleValidation(t *testing.T) {
	s, _ := newScheduler(t, testConfig())

	err := s.Schedule("", "* * * * * *", counter())
	testutil.AssertEqual(t, gperrors.IsValidationError(err), true)

	err = s.Schedule("job", "", counter())
	testutil.AssertEqual(t, gperrors.IsValidationError(err), true)

	err = s.Schedule("job", "not a cron expression", counter())
	testutil.AssertError(t, err)

	// Five-field expressions are rejected; the seconds field is required.
	err = s.Schedule("job", "*/5 * * * *", counter())
	testutil.AssertError(t, err)

	err = s.Schedule("job", "* * * * * *", nil)
	testutil.AssertEqual(t, gperrors.IsValidationError(err), true)

	err = s.ScheduleFunc("job", nil, counter())
	testutil.AssertEqual(t, gperrors.IsValidationError(err), true)

	testutil.AssertNoError(t, s.Schedule("job", "* * * * * *", counter()))
	err = s.Schedule("job", "* * * * * *", counter())
	testutil.AssertEqual(t, errors.Is(err, ErrJobExists), true)
}

func TestNewRequiresSender(t *testing.T) {
	_, err := NewWithConfig[int](nil, testConfig())
	testutil.AssertEqual(t, gperrors.IsValidationError(err), true)
}

func TestNextAndJobs(t *testing.T) {
	config := testConfig()
	config.Location = time.UTC
	s, _ := newScheduler(t, config)

	testutil.AssertNoError(t, s.Schedule("morning", "0 30 9 * * *", counter()))
	testutil.AssertNoError(t, s.ScheduleFunc("fast", every(time.Hour), counter()))

	next, err := s.Next("morning")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, next.UTC().Hour(), 9)
	testutil.AssertEqual(t, next.UTC().Minute(), 30)
	testutil.AssertEqual(t, next.After(time.Now()), true)

	_, err = s.Next("missing")
	testutil.AssertEqual(t, errors.Is(err, ErrJobNotFound), true)

	jobs := s.Jobs()
	testutil.AssertEqual(t, len(jobs), 2)
	testutil.AssertEqual(t, jobs[0].ID, "fast")
	testutil.AssertEqual(t, jobs[0].Expression, "")
	testutil.AssertEqual(t, jobs[1].ID, "morning")
	testutil.AssertEqual(t, jobs[1].Expression, "0 30 9 * * *")
	testutil.AssertEqual(t, jobs[1].Runs, int64(0))
}

func TestSkippedRunsDoNotSend(t *testing.T) {
	s, rx := newScheduler(t, testConfig())

	var calls atomic.Int64
	skip := func(time.Time) (int, bool) {
		calls.Add(1)
		return 0, false
	}
	testutil.AssertNoError(t, s.ScheduleFunc("skip", every(5*time.Millisecond), skip))
	testutil.AssertNoError(t, s.Start())

	testutil.AssertEventually(t, func() bool { return s.Jobs()[0].Runs >= 3 })
	testutil.AssertEqual(t, rx.Len(), 0)
	testutil.AssertEqual(t, calls.Load() >= 3, true)
}

func TestPanickingJobKeepsRunning(t *testing.T) {
	s, rx := newScheduler(t, testConfig())

	n := 0
	produce := func(time.Time) (int, bool) {
		n++
		if n == 1 {
			panic("first run fails")
		}
		return n, true
	}
	testutil.AssertNoError(t, s.ScheduleFunc("flaky", every(5*time.Millisecond), produce))
	testutil.AssertNoError(t, s.Start())

	testutil.AssertEqual(t, recvValue(t, rx), 2)
}

func TestStoppedScheduler(t *testing.T) {
	s, _ := newScheduler(t, testConfig())
	testutil.AssertNoError(t, s.Stop(context.Background()))

	err := s.Schedule("job", "* * * * * *", counter())
	testutil.AssertEqual(t, err, ErrStopped)
	testutil.AssertEqual(t, s.Start(), ErrStopped)
	testutil.AssertEqual(t, gperrors.IsClosed(err), true)
}

func TestMetrics(t *testing.T) {
	reg := metrics.NewRegistry(prometheus.NewRegistry())
	config := testConfig()
	config.Name = "reports"
	config.Metrics = reg
	s, rx := newScheduler(t, config)

	testutil.AssertNoError(t, s.ScheduleFunc("tick", every(5*time.Millisecond), counter()))
	testutil.AssertNoError(t, s.Schedule("daily", "@daily", counter()))
	testutil.AssertEqual(t, promtestutil.ToFloat64(reg.JobsScheduled.WithLabelValues("reports")), 2.0)

	testutil.AssertNoError(t, s.Start())
	recvValue(t, rx)
	recvValue(t, rx)
	testutil.AssertEqual(t, promtestutil.ToFloat64(reg.JobRuns.WithLabelValues("reports", "tick")) >= 2, true)

	testutil.AssertNoError(t, s.Unschedule("daily"))
	testutil.AssertEqual(t, promtestutil.ToFloat64(reg.JobsScheduled.WithLabelValues("reports")), 1.0)
}
