package stage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	ran := Ran(42)
	v, ok := ran.Get()
	assert.True(t, ok)
	assert.Equal(t, 42, v)
	assert.Equal(t, Record{Stage: "tpm", Status: StatusRan}, Summarize("tpm", ran))

	skipped := Skipped[string]("no gene set file")
	s, ok := skipped.Get()
	assert.False(t, ok)
	assert.Empty(t, s)
	assert.False(t, skipped.Ran())
	assert.Equal(t, Record{Stage: "gsea", Status: StatusSkipped, Reason: "no gene set file"}, Summarize("gsea", skipped))
}
