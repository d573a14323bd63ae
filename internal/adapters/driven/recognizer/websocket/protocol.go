package websocket

import (
	"fmt"

	"github.com/custodia-labs/mathink/internal/core/domain"
)

// Message types.
const (
	TypeRecognize = "recognize"
	TypeParsed    = "parsed"
	TypeFailed    = "failed"
)

// InkMessage is one serialized ink unit on the wire.
// Strokes carry Points; characters carry Character and Frame.
type InkMessage struct {
	Points    [][2]float64 `json:"points,omitempty"`
	Character string       `json:"character,omitempty"`
	Frame     *[4]float64  `json:"frame,omitempty"`
}

// RecognizeMessage is sent by the client.
type RecognizeMessage struct {
	Type string       `json:"type"`
	ID   string       `json:"id"`
	Ink  []InkMessage `json:"ink"`
}

// NodeMessage is one terminal node in a parsed reply.
type NodeMessage struct {
	Indexes    []int    `json:"indexes"`
	Candidates []string `json:"candidates"`
}

// ReplyMessage is sent by the server.
type ReplyMessage struct {
	Type        string        `json:"type"`
	ID          string        `json:"id"`
	LaTeX       string        `json:"latex,omitempty"`
	Nodes       []NodeMessage `json:"nodes,omitempty"`
	Invalidated []int         `json:"invalidated,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// NewRecognizeMessage builds the wire form of req.
func NewRecognizeMessage(req domain.RecognitionRequest) RecognizeMessage {
	msg := RecognizeMessage{
		Type: TypeRecognize,
		ID:   req.ID,
		Ink:  make([]InkMessage, 0, len(req.Ink)),
	}
	for _, unit := range req.Ink {
		if unit.IsCharacter() {
			frame := [4]float64{unit.Frame.X, unit.Frame.Y, unit.Frame.Width, unit.Frame.Height}
			msg.Ink = append(msg.Ink, InkMessage{Character: unit.Character, Frame: &frame})
			continue
		}
		points := make([][2]float64, len(unit.Points))
		for i, p := range unit.Points {
			points[i] = [2]float64{p.X, p.Y}
		}
		msg.Ink = append(msg.Ink, InkMessage{Points: points})
	}
	return msg
}

// Result converts a reply into a recognition result.
// A failed reply becomes an error carrying the server's message.
func (r ReplyMessage) Result() (domain.RecognitionResult, error) {
	switch r.Type {
	case TypeParsed:
		result := domain.RecognitionResult{
			LaTeX:       r.LaTeX,
			Invalidated: r.Invalidated,
		}
		for _, n := range r.Nodes {
			result.Nodes = append(result.Nodes, domain.TerminalNode{
				Indexes:    n.Indexes,
				Candidates: n.Candidates,
			})
		}
		return result, nil
	case TypeFailed:
		return domain.RecognitionResult{}, fmt.Errorf("server: %s", r.Error)
	default:
		return domain.RecognitionResult{}, fmt.Errorf("%w: unexpected reply type %q", domain.ErrMalformedRecognizerResult, r.Type)
	}
}
