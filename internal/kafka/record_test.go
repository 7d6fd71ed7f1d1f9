package kafka

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPollError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *PollError
		want string
	}{
		{"kind only", &PollError{Kind: KindTransient}, "poll transient"},
		{"with cause", &PollError{Kind: KindFatal, Err: errors.New("fenced")}, "poll fatal: fenced"},
		{"with position", &PollError{Kind: KindEndOfPartition, Topic: "t1", Partition: 2, Offset: 9}, "poll eof t1/2@9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestPollError_Unwrap(t *testing.T) {
	err := &PollError{Kind: KindFatal, Err: io.EOF}
	assert.ErrorIs(t, err, io.EOF)

	var pe *PollError
	assert.True(t, errors.As(error(err), &pe))
	assert.Equal(t, "fatal", pe.Kind.String())
	assert.Equal(t, "kind(7)", ErrorKind(7).String())
}
