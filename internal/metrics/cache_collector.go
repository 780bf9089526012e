package metrics

import (
	"product-needs/internal/cache"

	"github.com/prometheus/client_golang/prometheus"
)

// cacheCollector reads cache statistics at scrape time.
type cacheCollector struct {
	store cache.Store

	hits      *prometheus.Desc
	misses    *prometheus.Desc
	sets      *prometheus.Desc
	deletes   *prometheus.Desc
	evictions *prometheus.Desc
	errors    *prometheus.Desc
	entries   *prometheus.Desc
}

func newCacheCollector(name string, store cache.Store) *cacheCollector {
	labels := prometheus.Labels{"cache": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "cache", metric), help, nil, labels)
	}

	return &cacheCollector{
		store:     store,
		hits:      desc("hits_total", "Cache lookups that found an entry."),
		misses:    desc("misses_total", "Cache lookups that found nothing."),
		sets:      desc("sets_total", "Entries written to the cache."),
		deletes:   desc("deletes_total", "Entries explicitly invalidated."),
		evictions: desc("evictions_total", "Entries dropped by expiry or capacity."),
		errors:    desc("errors_total", "Failed cache operations."),
		entries:   desc("entries", "Entries currently held."),
	}
}

// Describe implements prometheus.Collector.
func (c *cacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.sets
	ch <- c.deletes
	ch <- c.evictions
	ch <- c.errors
	ch <- c.entries
}

// Collect implements prometheus.Collector.
func (c *cacheCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.store.Stats()

	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.sets, prometheus.CounterValue, float64(s.Sets))
	ch <- prometheus.MustNewConstMetric(c.deletes, prometheus.CounterValue, float64(s.Deletes))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions))
	ch <- prometheus.MustNewConstMetric(c.errors, prometheus.CounterValue, float64(s.Errors))
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(s.Entries))
}
