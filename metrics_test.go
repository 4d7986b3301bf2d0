package slidedom

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecordMedia(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	d := newTestDoc(t, WithMetrics(m))

	d.GetMedia().Add(testPNG(), "")
	d.GetMedia().Add(testPNG(), "")
	d.GetMedia().Add(testGIF(), "")

	if got := testutil.ToFloat64(m.mediaAddedTotal); got != 2 {
		t.Errorf("added_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.mediaReusedTotal); got != 1 {
		t.Errorf("reused_total = %v, want 1", got)
	}
}

func TestMetricsRecordAutofit(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	d := newTestDoc(t, WithMetrics(m))
	s, _ := d.GetSlide(0)
	box, _ := s.GetShapes().AddTextBox(0, 0, 400, 97.2, "")
	tb, _ := box.GetTextBox()
	if err := tb.SetAutofit(AutofitShrinkText); err != nil {
		t.Fatalf("SetAutofit() error = %v", err)
	}
	if err := tb.SetText(strings.Repeat("line\n", 5) + "line"); err != nil {
		t.Fatalf("SetText() error = %v", err)
	}

	if got := testutil.ToFloat64(m.autofitPasses.WithLabelValues(AutofitShrinkText.String())); got < 1 {
		t.Errorf("shrink passes = %v, want at least 1", got)
	}
	if got := testutil.ToFloat64(m.shrinkIterations); got == 0 {
		t.Errorf("shrink_iterations_total = 0, want measurements recorded")
	}
	if n := testutil.CollectAndCount(m.fontScale); n != 1 {
		t.Errorf("font_scale series = %d, want 1", n)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.autofitPass(AutofitResizeShape)
	m.shrinkResult(3, 0.5)
	m.mediaAdded()
	m.mediaReused()
}
