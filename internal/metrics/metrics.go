package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the pipeline counters behind a private prometheus registry.
type Registry struct {
	reg *prometheus.Registry

	RecordsParsed     prometheus.Counter
	RecordsSkipped    prometheus.Counter
	WindowsBuilt      prometheus.Counter
	ArtifactsIssued   prometheus.Counter
	ArtifactsRedeemed prometheus.Counter
	RedeemsDenied     prometheus.Counter
}

// NewRegistry constructs and registers all pipeline metrics.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	parsed := prometheus.NewCounter(prometheus.CounterOpts{Name: "dealscope_records_parsed_total"})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{Name: "dealscope_records_skipped_total"})
	windows := prometheus.NewCounter(prometheus.CounterOpts{Name: "dealscope_windows_built_total"})
	issued := prometheus.NewCounter(prometheus.CounterOpts{Name: "dealscope_artifacts_issued_total"})
	redeemed := prometheus.NewCounter(prometheus.CounterOpts{Name: "dealscope_artifacts_redeemed_total"})
	denied := prometheus.NewCounter(prometheus.CounterOpts{Name: "dealscope_redeems_denied_total"})

	r.MustRegister(parsed, skipped, windows, issued, redeemed, denied)
	return &Registry{
		reg:               r,
		RecordsParsed:     parsed,
		RecordsSkipped:    skipped,
		WindowsBuilt:      windows,
		ArtifactsIssued:   issued,
		ArtifactsRedeemed: redeemed,
		RedeemsDenied:     denied,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
