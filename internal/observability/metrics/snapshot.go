package metrics

import (
	"math"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Snapshot is a point-in-time summary for the status dashboard.
type Snapshot struct {
	Inbound          map[string]int64
	Languages        map[string]int64
	CompletionTotal  int64
	CompletionP50Ms  float64
	CompletionP95Ms  float64
	CompletionErrors int64
}

// TakeSnapshot reads the bot collectors back out of gatherer.
func TakeSnapshot(gatherer prometheus.Gatherer) Snapshot {
	snap := Snapshot{
		Inbound:   map[string]int64{},
		Languages: map[string]int64{},
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mfs, err := gatherer.Gather()
	if err != nil {
		return snap
	}

	for _, mf := range mfs {
		if mf == nil {
			continue
		}
		switch mf.GetName() {
		case inboundName:
			sumCounters(mf, "outcome", snap.Inbound)
		case languageName:
			sumCounters(mf, "language", snap.Languages)
		case completionName:
			summarizeCompletions(mf, &snap)
		}
	}
	return snap
}

func sumCounters(mf *dto.MetricFamily, label string, into map[string]int64) {
	for _, metric := range mf.Metric {
		if metric == nil || metric.GetCounter() == nil {
			continue
		}
		into[labelValue(metric, label)] += int64(metric.GetCounter().GetValue())
	}
}

// summarizeCompletions aggregates histograms across providers, keeping status="ok"
// for the quantiles and counting the rest as errors.
func summarizeCompletions(mf *dto.MetricFamily, snap *Snapshot) {
	cumulativeByUpper := map[float64]uint64{}
	var sampleCount uint64

	for _, metric := range mf.Metric {
		if metric == nil {
			continue
		}
		h := metric.GetHistogram()
		if h == nil {
			continue
		}
		if labelValue(metric, "status") != "ok" {
			snap.CompletionErrors += int64(h.GetSampleCount())
			continue
		}
		sampleCount += h.GetSampleCount()
		for _, b := range h.Bucket {
			if b == nil {
				continue
			}
			cumulativeByUpper[b.GetUpperBound()] += b.GetCumulativeCount()
		}
	}
	if sampleCount == 0 {
		return
	}

	uppers := make([]float64, 0, len(cumulativeByUpper))
	for upper := range cumulativeByUpper {
		uppers = append(uppers, upper)
	}
	sort.Float64s(uppers)

	snap.CompletionTotal = int64(sampleCount)
	snap.CompletionP50Ms = histogramQuantile(0.50, sampleCount, uppers, cumulativeByUpper) * 1000
	snap.CompletionP95Ms = histogramQuantile(0.95, sampleCount, uppers, cumulativeByUpper) * 1000
}

func labelValue(metric *dto.Metric, name string) string {
	for _, lp := range metric.Label {
		if lp != nil && lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

// histogramQuantile returns the upper bound of the first bucket reaching q.
// Samples past the last finite bucket report that bucket's bound.
func histogramQuantile(q float64, total uint64, uppers []float64, cumulativeByUpper map[float64]uint64) float64 {
	if total == 0 || len(uppers) == 0 {
		return 0
	}
	target := uint64(math.Ceil(q * float64(total)))
	var lastFinite float64
	for _, upper := range uppers {
		if math.IsInf(upper, 1) {
			continue
		}
		lastFinite = upper
		if cumulativeByUpper[upper] >= target {
			return upper
		}
	}
	return lastFinite
}
