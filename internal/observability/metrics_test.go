package observability

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/danmuck/mapcctl/internal/testutil/testlog"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	RecordFrame("a1")
	RecordMalformedFrame("a1")
	RecordMessage("a1", "sim-start")
	RecordBeliefChange("a1", BeliefAdded)
	RecordAction("a1", "skip")
	RecordWarning("a1", "unused_action")

	if got := testutil.ToFloat64(beliefChanges.WithLabelValues("a1", BeliefAdded)); got < 1 {
		t.Fatalf("belief change counter not incremented: %v", got)
	}
}

func TestHandlerExposesCounters(t *testing.T) {
	testlog.Start(t)
	RecordAction("metrics-agent", "skip")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, `mapcctl_agent_actions_sent_total{agent="metrics-agent",type="skip"}`) {
		t.Fatalf("counter missing from exposition:\n%s", body)
	}
}
