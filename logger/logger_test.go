package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("chatty"))
}

func TestTee(t *testing.T) {
	var buf bytes.Buffer
	l := New("info")
	l.SetOutput(&buf)

	path := filepath.Join(t.TempDir(), "run.log")
	closer, err := Tee(l, path)
	require.NoError(t, err)

	l.Info("Keep the most abundant genes")
	require.NoError(t, closer.Close())
	l.Info("after close")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Keep the most abundant genes")
	assert.NotContains(t, string(data), "after close")
	assert.Contains(t, buf.String(), "after close")
}
