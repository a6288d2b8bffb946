package mpsc

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/goprim/pkg/metrics"
)

// instruments holds the per-channel children of the registry vectors,
// resolved once so the hot path skips label lookups.
type instruments struct {
	sends      prometheus.Counter
	recvStaged prometheus.Counter
	recvQueue  prometheus.Counter
	locks      prometheus.Counter
	swaps      prometheus.Counter
	senders    prometheus.Gauge
	queued     prometheus.Gauge
	wait       prometheus.Observer
}

func newInstruments(reg *metrics.Registry, name string) *instruments {
	return &instruments{
		sends:      reg.ChannelSends.WithLabelValues(name),
		recvStaged: reg.ChannelReceives.WithLabelValues(name, "staged"),
		recvQueue:  reg.ChannelReceives.WithLabelValues(name, "queue"),
		locks:      reg.ChannelLockAcquisitions.WithLabelValues(name),
		swaps:      reg.ChannelSwaps.WithLabelValues(name),
		senders:    reg.ChannelSenders.WithLabelValues(name),
		queued:     reg.ChannelQueued.WithLabelValues(name),
		wait:       reg.ChannelRecvWait.WithLabelValues(name),
	}
}
