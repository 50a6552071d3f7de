package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNew_ParsesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", &buf)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("nodes", 7).Debug("tree built")
	assert.Contains(t, buf.String(), "tree built")
	assert.Contains(t, buf.String(), "nodes=7")
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	logger := New("chatty", &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Info("nothing to see")
	assert.Equal(t, logrus.PanicLevel, logger.GetLevel())
}
