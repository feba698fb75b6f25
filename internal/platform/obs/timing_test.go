package obs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTime_LogsSuccessAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	ctx := WithRequestID(context.Background(), "abc")

	var err error
	Time(ctx, logger, "mock.Route")(&err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "abc", entry["req_id"])
	assert.Equal(t, "mock.Route", entry["op"])
	assert.Contains(t, entry, "dur_ms")
	assert.NotContains(t, entry, "error")
}

func TestTime_LogsFailureAtWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.InfoLevel)

	err := errors.New("boom")
	Time(context.Background(), logger, "remote.Table")(&err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "", entry["req_id"])
}

func TestTime_SuccessBelowLevelIsSilent(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.InfoLevel)

	Time(context.Background(), logger, "native.Nearest")(nil)
	assert.Empty(t, buf.String())
}

func TestRequestID(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
	assert.Equal(t, "x-1", RequestID(WithRequestID(context.Background(), "x-1")))
}
