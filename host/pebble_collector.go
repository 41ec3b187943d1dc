package host

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PebbleCollector exposes the storage-engine metrics that matter for an
// AuScoutDS host: Pebble's own compaction/memtable/WAL health plus the
// description-cache occupancy PebbleHost keeps on top of it. It is not
// a general Pebble metrics exporter -- just the slice of
// *pebble.Metrics and *PebbleHost state this host cares to watch.
type PebbleCollector struct {
	h *PebbleHost

	compactionCount         *prometheus.Desc
	compactionEstimatedDebt *prometheus.Desc
	memtableSize            *prometheus.Desc
	walSize                 *prometheus.Desc
	descrCacheLen           *prometheus.Desc
}

func NewPebbleCollector(h *PebbleHost) *PebbleCollector {
	return &PebbleCollector{
		h: h,

		compactionCount: prometheus.NewDesc(
			"auscoutds_pebble_compaction_count_total",
			"Total number of compactions performed",
			nil, nil,
		),
		compactionEstimatedDebt: prometheus.NewDesc(
			"auscoutds_pebble_compaction_estimated_debt_bytes",
			"Estimated number of bytes that need to be compacted to reach a stable state",
			nil, nil,
		),
		memtableSize: prometheus.NewDesc(
			"auscoutds_pebble_memtable_size_bytes",
			"Current size of the memtable in bytes",
			nil, nil,
		),
		walSize: prometheus.NewDesc(
			"auscoutds_pebble_wal_size_bytes",
			"Size of live WAL data in bytes",
			nil, nil,
		),
		descrCacheLen: prometheus.NewDesc(
			"auscoutds_descr_cache_entries",
			"Number of description side-key entries currently cached in memory",
			nil, nil,
		),
	}
}

func (pc *PebbleCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- pc.compactionCount
	ch <- pc.compactionEstimatedDebt
	ch <- pc.memtableSize
	ch <- pc.walSize
	ch <- pc.descrCacheLen
}

func (pc *PebbleCollector) Collect(ch chan<- prometheus.Metric) {
	metrics := pc.h.db.Metrics()

	ch <- prometheus.MustNewConstMetric(
		pc.compactionCount,
		prometheus.CounterValue,
		float64(metrics.Compact.Count),
	)
	ch <- prometheus.MustNewConstMetric(
		pc.compactionEstimatedDebt,
		prometheus.GaugeValue,
		float64(metrics.Compact.EstimatedDebt),
	)
	ch <- prometheus.MustNewConstMetric(
		pc.memtableSize,
		prometheus.GaugeValue,
		float64(metrics.MemTable.Size),
	)
	ch <- prometheus.MustNewConstMetric(
		pc.walSize,
		prometheus.GaugeValue,
		float64(metrics.WAL.Size),
	)
	ch <- prometheus.MustNewConstMetric(
		pc.descrCacheLen,
		prometheus.GaugeValue,
		float64(pc.h.descrCache.Len()),
	)
}
