package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	inner := Validation("%q not in count table columns", "C")
	err := Wrapf(inner, "stage %s", "subset")

	assert.Equal(t, CodeValidation, GetCode(err))
	assert.True(t, Is(err, CodeValidation))
	assert.Contains(t, err.Error(), `"C" not in count table columns`)
	assert.Contains(t, err.Error(), "stage subset")
}

func TestWrapPlainError(t *testing.T) {
	err := Wrap(stderrors.New("boom"), "reading")
	assert.Equal(t, CodeInternal, GetCode(err))
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestExternalToolMentionsLog(t *testing.T) {
	err := ExternalTool("Rscript", "/tmp/out/deseq2.log", stderrors.New("exit status 1"))
	assert.Equal(t, CodeExternalTool, GetCode(err))
	assert.Contains(t, err.Error(), "/tmp/out/deseq2.log")
	assert.Contains(t, err.Error(), "exit status 1")
}

func TestGetCodeUnknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}
