package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init() // must not panic on duplicate registration

	if RemovalsTotal == nil || RetriesTotal == nil || RemovalDuration == nil {
		t.Fatal("metrics not initialized")
	}
}

func TestRemovalCountersIncrement(t *testing.T) {
	Init()

	before := testutil.ToFloat64(FilesRemovedTotal)
	FilesRemovedTotal.Inc()
	if got := testutil.ToFloat64(FilesRemovedTotal); got != before+1 {
		t.Errorf("FilesRemovedTotal = %v, want %v", got, before+1)
	}

	beforeSuccess := testutil.ToFloat64(RemovalsTotal.WithLabelValues("success"))
	RemovalsTotal.WithLabelValues("success").Inc()
	if got := testutil.ToFloat64(RemovalsTotal.WithLabelValues("success")); got != beforeSuccess+1 {
		t.Errorf("RemovalsTotal{success} = %v, want %v", got, beforeSuccess+1)
	}
}

func TestOutcomeLabelsPreRegistered(t *testing.T) {
	Init()
	for _, outcome := range []string{"success", "error", "skipped"} {
		// WithLabelValues on a pre-registered label must not create a new series
		if testutil.ToFloat64(RemovalsTotal.WithLabelValues(outcome)) < 0 {
			t.Errorf("outcome %q missing", outcome)
		}
	}
}
