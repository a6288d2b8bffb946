package bridge

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	gperrors "github.com/vnykmshr/goprim/pkg/common/errors"
	"github.com/vnykmshr/goprim/pkg/common/validation"
	"github.com/vnykmshr/goprim/pkg/messaging/mpsc"
	"github.com/vnykmshr/goprim/pkg/metrics"
)

// Client is the subset of the Redis API the bridge needs.
type Client interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

var _ Client = (redis.UniversalClient)(nil)

// Config holds bridge configuration.
type Config struct {
	// Name identifies the bridge in logs and metrics.
	Name string

	// Redis is the client used for the list operations.
	Redis Client

	// Key is the Redis list the bridge pushes to and pops from.
	Key string

	// BatchSize is the maximum number of values pushed by one RPUSH.
	// Values already waiting in the channel are batched; Forward never
	// waits to fill a batch.
	BatchSize int

	// PopTimeout is how long each BLPOP blocks before Feed checks its
	// context again.
	PopTimeout time.Duration

	// RedisTimeout bounds each RPUSH. Zero leaves pushes unbounded, including
	// the final push after Forward's context ends.
	RedisTimeout time.Duration

	// Metrics receives bridge instrumentation. Nil disables metrics.
	Metrics *metrics.Registry

	// Logger receives bridge errors.
	Logger logrus.FieldLogger
}

// DefaultConfig returns a default bridge configuration. Redis and Key must
// still be set.
func DefaultConfig() Config {
	return Config{
		Name:         "default",
		BatchSize:    64,
		PopTimeout:   time.Second,
		RedisTimeout: 500 * time.Millisecond,
		Logger:       logrus.StandardLogger(),
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if err := validation.ValidateNotNil("bridge", "Redis", c.Redis); err != nil {
		return err
	}
	if err := validation.ValidateNotEmpty("bridge", "Key", c.Key); err != nil {
		return err
	}
	if err := validation.ValidatePositive("bridge", "BatchSize", c.BatchSize); err != nil {
		return err
	}
	if c.PopTimeout <= 0 {
		return gperrors.NewValidationError("bridge", "PopTimeout", c.PopTimeout, "must be positive").
			WithHint("BLPOP needs a finite wait, e.g. 1s")
	}
	return validation.ValidateNonNegativeDuration("bridge", "RedisTimeout", c.RedisTimeout)
}

// Bridge moves values between mpsc channels and a Redis list, so producers
// and consumers can live in different processes.
type Bridge[T any] struct {
	config Config
	codec  Codec[T]
	log    logrus.FieldLogger

	forwarded     prometheus.Counter
	fed           prometheus.Counter
	forwardErrors prometheus.Counter
	feedErrors    prometheus.Counter
}

// New creates a JSON bridge with default settings for the given list.
func New[T any](client Client, key string) (*Bridge[T], error) {
	config := DefaultConfig()
	config.Redis = client
	config.Key = key
	return NewWithConfig[T](config, JSONCodec[T]{})
}

// NewWithConfig creates a bridge with the specified configuration and codec.
func NewWithConfig[T any](config Config, codec Codec[T]) (*Bridge[T], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := validation.ValidateNotNil("bridge", "Codec", codec); err != nil {
		return nil, err
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}
	if config.Name == "" {
		config.Name = "default"
	}

	b := &Bridge[T]{
		config: config,
		codec:  codec,
		log:    config.Logger.WithFields(logrus.Fields{"bridge": config.Name, "key": config.Key}),
	}
	if reg := config.Metrics; reg != nil {
		b.forwarded = reg.BridgeMessages.WithLabelValues(config.Name, "forward")
		b.fed = reg.BridgeMessages.WithLabelValues(config.Name, "feed")
		b.forwardErrors = reg.BridgeErrors.WithLabelValues(config.Name, "forward")
		b.feedErrors = reg.BridgeErrors.WithLabelValues(config.Name, "feed")
	}
	return b, nil
}

// Forward receives from rx and pushes every value onto the list until the
// channel is closed and drained, then returns nil. It returns early with
// ctx.Err() or with the first encoding or Redis error. Values already taken
// from rx are pushed even when ctx ends mid-batch, bounded by RedisTimeout.
// Forward does not close rx.
func (b *Bridge[T]) Forward(ctx context.Context, rx *mpsc.Receiver[T]) error {
	batch := make([]interface{}, 0, b.config.BatchSize)
	for {
		v, err := rx.RecvContext(ctx)
		if errors.Is(err, mpsc.ErrClosed) {
			return nil
		}
		if err != nil {
			return err
		}

		batch = batch[:0]
		var recvErr error
		for {
			data, err := b.codec.Encode(v)
			if err != nil {
				return b.fail(b.forwardErrors, "Encode", err)
			}
			batch = append(batch, data)

			// Take what is already waiting without blocking.
			if len(batch) == b.config.BatchSize || rx.Len() == 0 {
				break
			}
			if v, recvErr = rx.RecvContext(ctx); recvErr != nil {
				break
			}
		}

		if err := b.push(context.WithoutCancel(ctx), batch); err != nil {
			return err
		}
		if recvErr != nil && !errors.Is(recvErr, mpsc.ErrClosed) {
			return recvErr
		}
	}
}

func (b *Bridge[T]) push(ctx context.Context, batch []interface{}) error {
	if b.config.RedisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.config.RedisTimeout)
		defer cancel()
	}

	if err := b.config.Redis.RPush(ctx, b.config.Key, batch...).Err(); err != nil {
		return b.fail(b.forwardErrors, "RPush", err)
	}
	if b.forwarded != nil {
		b.forwarded.Add(float64(len(batch)))
	}
	return nil
}

// Feed pops values from the list and sends them on tx until ctx ends or an
// error occurs. Feed owns tx and closes it on return, so receivers observe
// closure once feeding stops. It returns ctx.Err() on cancellation.
func (b *Bridge[T]) Feed(ctx context.Context, tx *mpsc.Sender[T]) error {
	defer tx.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := b.config.Redis.BLPop(ctx, b.config.PopTimeout, b.config.Key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return b.fail(b.feedErrors, "BLPop", err)
		}

		// BLPOP replies with the key followed by the element.
		if len(res) != 2 {
			continue
		}
		v, err := b.codec.Decode([]byte(res[1]))
		if err != nil {
			return b.fail(b.feedErrors, "Decode", err)
		}

		tx.Send(v)
		if b.fed != nil {
			b.fed.Inc()
		}
	}
}

func (b *Bridge[T]) fail(counter prometheus.Counter, op string, err error) error {
	if counter != nil {
		counter.Inc()
	}
	b.log.WithError(err).WithField("op", op).Error("bridge operation failed")
	return gperrors.NewOperationError("bridge", op, err).WithContext("key=" + b.config.Key)
}
