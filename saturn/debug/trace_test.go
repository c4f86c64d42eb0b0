package debug

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNopTracerReportsDisabledForEveryCategory(t *testing.T) {
	assert.False(t, Nop.Enabled(CategorySCSP))
	assert.False(t, Nop.Enabled(AllCategories))
}

func TestSlogTracerOnlyEmitsEnabledCategories(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tracer := NewSlogTracer(logger, CategorySCUDSP|CategoryCDBlock)

	assert.True(t, tracer.Enabled(CategorySCUDSP))
	assert.False(t, tracer.Enabled(CategorySCSP))

	tracer.Trace(CategorySCUDSP, "dsp step", "pc", 5)
	tracer.Trace(CategorySCSP, "should not appear")

	out := buf.String()
	assert.Contains(t, out, "dsp step")
	assert.Contains(t, out, "scudsp")
	assert.NotContains(t, out, "should not appear")
}
