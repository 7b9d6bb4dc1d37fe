package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters_Increment(t *testing.T) {
	before := testutil.ToFloat64(Submissions.WithLabelValues("accepted"))
	Submissions.WithLabelValues("accepted").Inc()
	if got := testutil.ToFloat64(Submissions.WithLabelValues("accepted")); got != before+1 {
		t.Errorf("expected %v, got %v", before+1, got)
	}

	Notifications.WithLabelValues("admin", "failed").Inc()
	if got := testutil.ToFloat64(Notifications.WithLabelValues("admin", "failed")); got < 1 {
		t.Errorf("expected admin/failed counter >= 1, got %v", got)
	}
}

func TestHandler_NotNil(t *testing.T) {
	if Handler() == nil {
		t.Fatal("expected a metrics handler")
	}
}
