package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/mathink/internal/core/domain"
)

// Row payloads for each ink variant. The kind column carries the tag.

type pointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type segmentJSON struct {
	Op      string     `json:"op"`
	Control *pointJSON `json:"control,omitempty"`
	To      pointJSON  `json:"to"`
}

type strokeJSON struct {
	Segments []segmentJSON `json:"segments"`
}

type characterJSON struct {
	Character string     `json:"character"`
	Bounds    [4]float64 `json:"bounds"`
	Replaced  []int      `json:"replaced"`
}

type removalJSON struct {
	Removed []int      `json:"removed"`
	Bounds  [4]float64 `json:"bounds"`
}

func rectToJSON(r domain.Rect) [4]float64 {
	return [4]float64{r.X, r.Y, r.Width, r.Height}
}

func rectFromJSON(b [4]float64) domain.Rect {
	return domain.Rect{X: b[0], Y: b[1], Width: b[2], Height: b[3]}
}

func parseSegmentOp(s string) (domain.SegmentOp, error) {
	switch s {
	case "move":
		return domain.SegmentMove, nil
	case "line":
		return domain.SegmentLine, nil
	case "quad":
		return domain.SegmentQuad, nil
	default:
		return 0, fmt.Errorf("%w: unknown segment op %q", domain.ErrInvalidInput, s)
	}
}

// encodeInk returns the kind tag and JSON payload for one log unit.
func encodeInk(unit domain.Ink) (domain.InkKind, []byte, error) {
	var payload any
	switch u := unit.(type) {
	case domain.Stroke:
		s := strokeJSON{Segments: make([]segmentJSON, 0, len(u.Path.Segments))}
		for _, seg := range u.Path.Segments {
			js := segmentJSON{Op: seg.Op.String(), To: pointJSON{X: seg.To.X, Y: seg.To.Y}}
			if seg.Op == domain.SegmentQuad {
				js.Control = &pointJSON{X: seg.Control.X, Y: seg.Control.Y}
			}
			s.Segments = append(s.Segments, js)
		}
		payload = s
	case domain.CharacterReplacement:
		payload = characterJSON{Character: u.Character, Bounds: rectToJSON(u.Bounds), Replaced: nonNil(u.Replaced)}
	case domain.RemovalMarker:
		payload = removalJSON{Removed: nonNil(u.Removed), Bounds: rectToJSON(u.Bounds)}
	default:
		return "", nil, fmt.Errorf("%w: unsupported ink %T", domain.ErrInvalidInput, unit)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", nil, err
	}
	return unit.Kind(), data, nil
}

// decodeInk rebuilds a log unit from its kind tag and payload.
func decodeInk(kind domain.InkKind, data []byte) (domain.Ink, error) {
	switch kind {
	case domain.InkKindStroke:
		var s strokeJSON
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		var path domain.Path
		for _, js := range s.Segments {
			op, err := parseSegmentOp(js.Op)
			if err != nil {
				return nil, err
			}
			to := domain.Point{X: js.To.X, Y: js.To.Y}
			switch op {
			case domain.SegmentMove:
				path.MoveTo(to)
			case domain.SegmentLine:
				path.LineTo(to)
			case domain.SegmentQuad:
				if js.Control == nil {
					return nil, fmt.Errorf("%w: quad segment without control point", domain.ErrInvalidInput)
				}
				path.QuadTo(to, domain.Point{X: js.Control.X, Y: js.Control.Y})
			}
		}
		return domain.Stroke{Path: path}, nil

	case domain.InkKindCharacter:
		var c characterJSON
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return domain.CharacterReplacement{
			Character: c.Character,
			Bounds:    rectFromJSON(c.Bounds),
			Replaced:  c.Replaced,
		}, nil

	case domain.InkKindRemoval:
		var r removalJSON
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return domain.RemovalMarker{Removed: r.Removed, Bounds: rectFromJSON(r.Bounds)}, nil

	default:
		return nil, fmt.Errorf("%w: unknown ink kind %q", domain.ErrInvalidInput, kind)
	}
}

func nonNil(xs []int) []int {
	if xs == nil {
		return []int{}
	}
	return xs
}
