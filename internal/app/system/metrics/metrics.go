// Package metrics exposes Prometheus counters for learning activity and
// gauges derived from the record store at scrape time.
package metrics

import (
	"context"
	"net/http"

	metricsstore "github.com/dalemusser/thinkedge/internal/app/store/metrics"
	"github.com/dalemusser/thinkedge/internal/app/system/timeouts"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "thinkedge"

// CountsFunc supplies dashboard totals for the gauge collector.
type CountsFunc func(ctx context.Context) metricsstore.Counts

// Metrics holds the application's collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	reg *prometheus.Registry

	logins        *prometheus.CounterVec
	registrations prometheus.Counter
	approvals     prometheus.Counter
	completions   prometheus.Counter
	submissions   *prometheus.CounterVec
	scores        prometheus.Histogram
	promotions    prometheus.Counter
	imported      prometheus.Counter
}

// New registers all collectors. counts may be nil to skip store gauges.
func New(counts CountsFunc) *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Self-service account registrations.",
		}),
		approvals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "approvals_total",
			Help:      "Accounts approved by an admin.",
		}),
		completions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_completions_total",
			Help:      "Content items marked complete by students.",
		}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessment_submissions_total",
			Help:      "Assessment submissions, by whether marks were recorded.",
		}, []string{"recorded"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assessment_score",
			Help:      "Distribution of assessment scores (0-100).",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		promotions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "students_promoted_total",
			Help:      "Students moved to the next class by archive-and-promote.",
		}),
		imported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "students_imported_total",
			Help:      "Students created by roster import.",
		}),
	}
	m.reg.MustRegister(
		m.logins, m.registrations, m.approvals, m.completions,
		m.submissions, m.scores, m.promotions, m.imported,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if counts != nil {
		m.reg.MustRegister(&countsCollector{fn: counts})
	}
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry (tests gather from it).
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) Login(ok bool) {
	if m == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) Registered() {
	if m != nil {
		m.registrations.Inc()
	}
}

func (m *Metrics) Approved() {
	if m != nil {
		m.approvals.Inc()
	}
}

func (m *Metrics) Completed() {
	if m != nil {
		m.completions.Inc()
	}
}

// Submitted records one assessment submission and its score.
func (m *Metrics) Submitted(score int, recorded bool) {
	if m == nil {
		return
	}
	label := "false"
	if recorded {
		label = "true"
	}
	m.submissions.WithLabelValues(label).Inc()
	m.scores.Observe(float64(score))
}

func (m *Metrics) Promoted(n int) {
	if m != nil && n > 0 {
		m.promotions.Add(float64(n))
	}
}

func (m *Metrics) Imported(n int) {
	if m != nil && n > 0 {
		m.imported.Add(float64(n))
	}
}

// countsCollector turns store totals into gauges on each scrape.
type countsCollector struct {
	fn CountsFunc
}

func storeDesc(name, help string) *prometheus.Desc {
	return prometheus.NewDesc(prometheus.BuildFQName(namespace, "store", name), help, nil, nil)
}

var (
	descInstitutes  = storeDesc("institutes", "Institutes on the platform.")
	descClasses     = storeDesc("active_classes", "Classes not archived.")
	descTeachers    = storeDesc("teachers", "Teacher accounts.")
	descStudents    = storeDesc("students", "Student accounts.")
	descPending     = storeDesc("pending_users", "Accounts awaiting approval.")
	descContents    = storeDesc("contents", "Content items.")
	descAssessments = storeDesc("assessments", "Assessments.")
	descPendingRegs = storeDesc("pending_registrations", "Institute registrations awaiting review.")
)

func (c *countsCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		descInstitutes, descClasses, descTeachers, descStudents,
		descPending, descContents, descAssessments, descPendingRegs,
	} {
		ch <- d
	}
}

func (c *countsCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
	defer cancel()
	n := c.fn(ctx)
	gauge := func(d *prometheus.Desc, v int64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, float64(v))
	}
	gauge(descInstitutes, n.Institutes)
	gauge(descClasses, n.Classes)
	gauge(descTeachers, n.Teachers)
	gauge(descStudents, n.Students)
	gauge(descPending, n.PendingUsers)
	gauge(descContents, n.Contents)
	gauge(descAssessments, n.Assessments)
	gauge(descPendingRegs, n.PendingRegistrations)
}
