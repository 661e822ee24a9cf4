package log

import (
	"bytes"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIOLogger(t *testing.T) {
	var logBuffer bytes.Buffer
	logger := log.New()
	logger.SetOutput(&logBuffer)
	logger.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

	var out bytes.Buffer
	in := strings.NewReader(`{"jsonrpc":"2.0","method":"tools/list"}`)
	iol := NewIOLogger(in, &out, logger)

	buf := make([]byte, 128)
	n, err := iol.Read(buf)
	require.NoError(t, err)
	assert.Contains(t, logBuffer.String(), "[stdin]")
	assert.Contains(t, logBuffer.String(), "tools/list")

	_, err = iol.Write(buf[:n])
	require.NoError(t, err)
	assert.Contains(t, logBuffer.String(), "[stdout]")
	assert.Equal(t, `{"jsonrpc":"2.0","method":"tools/list"}`, out.String())
}
