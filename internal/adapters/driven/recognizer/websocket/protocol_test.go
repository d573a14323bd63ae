package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mathink/internal/core/domain"
)

func TestNewRecognizeMessage_WireFormat(t *testing.T) {
	msg := NewRecognizeMessage(testRequest("r-1"))

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type":"recognize",
		"id":"r-1",
		"ink":[
			{"points":[[0,0],[10,5]]},
			{"character":"y","frame":[20,0,10,10]}
		]
	}`, string(data))
}

func TestNewRecognizeMessage_EmptyInk(t *testing.T) {
	data, err := json.Marshal(NewRecognizeMessage(domain.RecognitionRequest{ID: "r"}))
	require.NoError(t, err)

	assert.JSONEq(t, `{"type":"recognize","id":"r","ink":[]}`, string(data))
}

func TestReplyMessage_Result(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    domain.RecognitionResult
		wantErr error
	}{
		{
			name: "parsed",
			raw:  `{"type":"parsed","id":"r","latex":"x^2","nodes":[{"indexes":[0,1],"candidates":["x","X"]}],"invalidated":[2]}`,
			want: domain.RecognitionResult{
				LaTeX:       "x^2",
				Nodes:       []domain.TerminalNode{{Indexes: []int{0, 1}, Candidates: []string{"x", "X"}}},
				Invalidated: []int{2},
			},
		},
		{
			name: "parsed without nodes",
			raw:  `{"type":"parsed","id":"r","latex":""}`,
			want: domain.RecognitionResult{},
		},
		{
			name:    "unknown type",
			raw:     `{"type":"banana","id":"r"}`,
			wantErr: domain.ErrMalformedRecognizerResult,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg ReplyMessage
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &msg))

			got, err := msg.Result()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplyMessage_ResultFailed(t *testing.T) {
	msg := ReplyMessage{Type: TypeFailed, ID: "r", Error: "no ink"}

	_, err := msg.Result()

	require.Error(t, err)
	assert.Equal(t, "server: no ink", err.Error())
}
