package metrics_test

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	metricsstore "github.com/dalemusser/thinkedge/internal/app/store/metrics"
	"github.com/dalemusser/thinkedge/internal/app/system/metrics"
)

func TestCounters(t *testing.T) {
	m := metrics.New(nil)

	m.Login(true)
	m.Login(false)
	m.Login(false)
	m.Submitted(50, true)
	m.Promoted(3)
	m.Promoted(0)

	body := scrape(t, m)
	for _, want := range []string{
		`thinkedge_logins_total{result="failure"} 2`,
		`thinkedge_logins_total{result="success"} 1`,
		`thinkedge_assessment_submissions_total{recorded="true"} 1`,
		`thinkedge_students_promoted_total 3`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape missing %q", want)
		}
	}
}

func TestStoreGauges(t *testing.T) {
	m := metrics.New(func(context.Context) metricsstore.Counts {
		return metricsstore.Counts{Students: 7, PendingUsers: 2}
	})

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := 0
	for _, mf := range families {
		switch mf.GetName() {
		case "thinkedge_store_students", "thinkedge_store_pending_users":
			found++
		}
	}
	if found != 2 {
		t.Errorf("expected 2 gauge families, got %d", found)
	}
	body := scrape(t, m)
	if !strings.Contains(body, "thinkedge_store_students 7") || !strings.Contains(body, "thinkedge_store_pending_users 2") {
		t.Error("store gauges not exported")
	}
}

func TestNilMetrics(t *testing.T) {
	var m *metrics.Metrics
	m.Login(true)
	m.Completed()
	m.Submitted(100, false)
	if m.Handler() == nil {
		t.Error("nil metrics should still return a handler")
	}
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	b, _ := io.ReadAll(rec.Body)
	return string(b)
}
