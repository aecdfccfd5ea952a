package slot

import (
	"github.com/VictoriaMetrics/metrics"
	"sync/atomic"
)

var (
	loadsFromSlot      = metrics.NewCounter(`dblog_slot_loads_total{source="slot"}`)
	loadsFromBootstrap = metrics.NewCounter(`dblog_slot_loads_total{source="bootstrap"}`)
	loadErrors         = metrics.NewCounter(`dblog_slot_load_errors_total`)
	saves              = metrics.NewCounter(`dblog_slot_saves_total`)
	resets             = metrics.NewCounter(`dblog_slot_resets_total`)
	bootstrapFetch     = metrics.NewHistogram(`dblog_slot_bootstrap_fetch_duration_seconds`)

	lastBlobBytes atomic.Int64
	_             = metrics.NewGauge(`dblog_slot_blob_bytes`, func() float64 {
		return float64(lastBlobBytes.Load())
	})
)
