package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	NopLogger
	msg    string
	fields map[string]interface{}
}

func (l *recordingLogger) Error(_ context.Context, msg string, fields map[string]interface{}) {
	l.msg = msg
	l.fields = fields
}

func TestLogErrorAddsErrorWithoutMutatingFields(t *testing.T) {
	logger := &recordingLogger{}
	fields := map[string]interface{}{"booking_id": int64(3)}

	LogError(context.Background(), logger, "falha", errors.New("boom"), fields)

	assert.Equal(t, "falha", logger.msg)
	assert.Equal(t, "boom", logger.fields["error"])
	assert.Equal(t, int64(3), logger.fields["booking_id"])
	assert.NotContains(t, fields, "error")
}

func TestUnmarshalPayload(t *testing.T) {
	data, err := MarshalPayload(map[string]int{"seats": 2})
	assert.NoError(t, err)

	payload, err := UnmarshalPayload[map[string]int](data)
	assert.NoError(t, err)
	assert.Equal(t, 2, payload["seats"])
}
