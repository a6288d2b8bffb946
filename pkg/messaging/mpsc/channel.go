package mpsc

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	gperrors "github.com/vnykmshr/goprim/pkg/common/errors"
	"github.com/vnykmshr/goprim/pkg/metrics"
)

// ErrClosed is returned by RecvContext once every Sender has been closed and
// no value remains for the receiver.
var ErrClosed = fmt.Errorf("channel: %w", gperrors.ErrClosed)

// Config holds configuration for a channel.
type Config struct {
	// Name identifies the channel in logs and metrics.
	Name string

	// DisableStaging makes every Recv take the shared lock instead of moving
	// the remaining queue into the receiver's private buffer. Use it when
	// several receivers should share the backlog.
	DisableStaging bool

	// Metrics receives channel instrumentation. Nil disables metrics.
	Metrics *metrics.Registry

	// Logger receives lifecycle events. Defaults to the standard logrus logger.
	Logger logrus.FieldLogger
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Logger: logrus.StandardLogger(),
	}
}

// Stats holds a snapshot of channel counters.
type Stats struct {
	// Sent is the total number of values sent.
	Sent int64

	// Received is the total number of values handed to receivers.
	Received int64

	// Queued is the number of values in the shared queue.
	Queued int

	// Staged is the number of values in the calling receiver's private buffer.
	Staged int

	// Senders is the number of live Sender handles.
	Senders int

	// Receivers is the number of live Receiver handles.
	Receivers int

	// LockAcquisitions counts shared lock acquisitions by Send, Recv, Clone
	// and Close, including reacquisitions after a wait.
	LockAcquisitions int64

	// Swaps counts moves of the shared queue into a staging buffer.
	Swaps int64

	// Closed is true once every Sender has been closed.
	Closed bool
}

// state is the queue and producer bookkeeping shared by every handle of one
// channel. queue and senders change together under mu.
type state[T any] struct {
	mu        sync.Mutex
	available *sync.Cond
	queue     ring[T]
	senders   int
	receivers int

	sent     atomic.Int64
	received atomic.Int64
	locks    atomic.Int64
	swaps    atomic.Int64

	staging bool
	inst    *instruments
	log     logrus.FieldLogger
}

// New creates a channel with default configuration and returns its first
// Sender and Receiver.
func New[T any]() (*Sender[T], *Receiver[T]) {
	return NewWithConfig[T](DefaultConfig())
}

// NewWithConfig creates a channel with the specified configuration.
func NewWithConfig[T any](config Config) (*Sender[T], *Receiver[T]) {
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}

	s := &state[T]{
		senders:   1,
		receivers: 1,
		staging:   !config.DisableStaging,
		log:       config.Logger.WithField("channel", config.Name),
	}
	s.available = sync.NewCond(&s.mu)

	if config.Metrics != nil {
		s.inst = newInstruments(config.Metrics, config.Name)
		s.inst.senders.Set(1)
	}

	return &Sender[T]{state: s}, &Receiver[T]{state: s}
}

// lock acquires mu and counts the acquisition.
func (s *state[T]) lock() {
	s.mu.Lock()
	s.noteLock()
}

func (s *state[T]) noteLock() {
	s.locks.Add(1)
	if s.inst != nil {
		s.inst.locks.Inc()
	}
}

func (s *state[T]) stats() Stats {
	s.mu.Lock()
	queued, senders, receivers := s.queue.len(), s.senders, s.receivers
	s.mu.Unlock()

	return Stats{
		Sent:             s.sent.Load(),
		Received:         s.received.Load(),
		Queued:           queued,
		Senders:          senders,
		Receivers:        receivers,
		LockAcquisitions: s.locks.Load(),
		Swaps:            s.swaps.Load(),
		Closed:           senders == 0,
	}
}
