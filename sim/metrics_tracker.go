// MetricsTracker samples every registered collector for every registered
// link on a fixed simulated-time grid (C5). Grounded on the aggregation
// shape of the teacher's sim/metrics.go Metrics struct and the sorted,
// named-series helpers in sim/metrics_utils.go.
package sim

// Sample is a single (timestamp, value) pair appended to a named series
// per (link, metric).
type Sample struct {
	Timestamp float64
	Value     float64
}

type linkState struct {
	link           *Link
	collectors     []Collector
	lastSampleTime float64
	series         map[string][]Sample // collector name -> ordered samples
}

// MetricsTracker periodically samples registered collectors for every
// registered link on simulated time.
type MetricsTracker struct {
	sampleInterval float64
	order          []string // link IDs, in registration order
	perLink        map[string]*linkState
}

// NewMetricsTracker constructs a tracker with the given sampling interval.
// sampleInterval must be > 0 (construction-time fail-fast, §7).
func NewMetricsTracker(sampleInterval float64) (*MetricsTracker, error) {
	if sampleInterval <= 0 {
		return nil, NewSimError(ErrInvalidParameters, "metrics sample_interval must be > 0, got %v", sampleInterval)
	}
	return &MetricsTracker{
		sampleInterval: sampleInterval,
		perLink:        make(map[string]*linkState),
	}, nil
}

// Register adds a link to be sampled, with the given set of collectors.
func (t *MetricsTracker) Register(link *Link, collectors ...Collector) {
	series := make(map[string][]Sample, len(collectors))
	for _, c := range collectors {
		series[c.Name()] = nil
	}
	t.order = append(t.order, link.ID)
	t.perLink[link.ID] = &linkState{link: link, collectors: collectors, series: series}
}

// Sample advances every registered link's sampling cursor up to (but not
// including) now, producing one sample per collector at each grid point.
// Sampling happens only on the grid k*sampleInterval, never on event
// times; repeated calls with equal or lesser now are no-ops (idempotent).
func (t *MetricsTracker) Sample(now float64) {
	for _, id := range t.order {
		ls := t.perLink[id]
		for ls.lastSampleTime < now {
			tk := ls.lastSampleTime
			for _, c := range ls.collectors {
				v := c.Collect(ls.link, tk)
				ls.series[c.Name()] = append(ls.series[c.Name()], Sample{Timestamp: tk, Value: v})
			}
			ls.lastSampleTime += t.sampleInterval
		}
	}
}

// Samples returns the ordered series for (link, name), or an empty series
// if unknown.
func (t *MetricsTracker) Samples(link *Link, name string) []Sample {
	ls, ok := t.perLink[link.ID]
	if !ok {
		return nil
	}
	return ls.series[name]
}

// Latest returns the most recent sample value for (link, name), and
// whether any sample exists yet. Strategies that consult live metrics use
// this to implement their no-sample-yet fallback (§4.6).
func (t *MetricsTracker) Latest(link *Link, name string) (float64, bool) {
	series := t.Samples(link, name)
	if len(series) == 0 {
		return 0, false
	}
	return series[len(series)-1].Value, true
}

// Links returns the registered links in registration order.
func (t *MetricsTracker) Links() []*Link {
	links := make([]*Link, 0, len(t.order))
	for _, id := range t.order {
		links = append(links, t.perLink[id].link)
	}
	return links
}
