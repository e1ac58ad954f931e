package tx

import (
	"bytes"
	"testing"

	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDataScript(t *testing.T) {
	payload := []byte("hello chain")

	s, err := BuildDataScript(payload)
	require.NoError(t, err)

	// OP_RETURN prefix, then the payload as a single push.
	raw := []byte(*s)
	require.NotEmpty(t, raw)
	assert.Equal(t, byte(script.OpRETURN), raw[0])
	assert.True(t, IsDataScript(raw))
}

func TestBuildDataScriptEmptyPayload(t *testing.T) {
	_, err := BuildDataScript(nil)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestBuildDataScriptOversized(t *testing.T) {
	_, err := BuildDataScript(bytes.Repeat([]byte{0x01}, MaxDataPayload+1))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestDataScriptRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"short text", []byte("hi")},
		{"binary", []byte{0x00, 0xff, 0x80, 0x7f}},
		{"max size", bytes.Repeat([]byte("x"), MaxDataPayload)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := BuildDataScript(tt.payload)
			require.NoError(t, err)

			got, err := ParseDataScript(s)
			require.NoError(t, err)
			assert.Equal(t, tt.payload, got)
		})
	}
}

func TestParseDataScriptNil(t *testing.T) {
	_, err := ParseDataScript(nil)
	assert.ErrorIs(t, err, ErrNilParam)
}

func TestParseDataScriptNotOPReturn(t *testing.T) {
	_, pubKey := generateTestKeyPair(t)
	raw, err := P2PKHScript(pubKey)
	require.NoError(t, err)

	s := script.NewFromBytes(raw)
	_, err = ParseDataScript(s)
	assert.ErrorIs(t, err, ErrInvalidDataScript)
	assert.False(t, IsDataScript(raw))
}
