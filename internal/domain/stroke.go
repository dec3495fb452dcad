package domain

import "errors"

// Tool identifies the drawing tool that produced a stroke.
type Tool string

const (
	ToolPen       Tool = "pen"
	ToolEraser    Tool = "eraser"
	ToolLine      Tool = "line"
	ToolRectangle Tool = "rectangle"
	ToolCircle    Tool = "circle"
	ToolText      Tool = "text"
)

// Point is a single sampled canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one drawing operation. Freehand tools (pen, eraser) carry a
// growing point list and may be replaced in place by their author while the
// stroke is still being drawn; shape tools are appended once, finalized.
type Stroke struct {
	ID         string  `json:"id"`
	Tool       Tool    `json:"tool"`
	Color      string  `json:"color"`
	Size       float64 `json:"size"`
	Points     []Point `json:"points,omitempty"`
	StartPoint *Point  `json:"startPoint,omitempty"`
	EndPoint   *Point  `json:"endPoint,omitempty"`
	Text       string  `json:"text,omitempty"`
	UserID     string  `json:"userId"`
	Timestamp  int64   `json:"timestamp,omitempty"` // unix ms, assigned by the server
}

var errInvalidStroke = errors.New("invalid stroke")

// Freehand reports whether the stroke is streamed as a growing point list.
func (s Stroke) Freehand() bool {
	return s.Tool == ToolPen || s.Tool == ToolEraser
}

// Validate checks the structural requirements for the stroke's tool kind.
func (s Stroke) Validate() error {
	if s.ID == "" || s.UserID == "" {
		return errInvalidStroke
	}

	switch s.Tool {
	case ToolPen, ToolEraser:
		if len(s.Points) == 0 {
			return errInvalidStroke
		}
	case ToolLine, ToolRectangle, ToolCircle:
		if s.StartPoint == nil || s.EndPoint == nil {
			return errInvalidStroke
		}
	case ToolText:
		if s.StartPoint == nil || s.Text == "" {
			return errInvalidStroke
		}
	default:
		return errInvalidStroke
	}

	return nil
}

// Cursor is an ephemeral pointer position. It is broadcast as-is and never
// stored; the server only stamps the timestamp on the way through.
type Cursor struct {
	UserID    string  `json:"userId"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	UserName  string  `json:"userName,omitempty"`
	Color     string  `json:"color,omitempty"`
	Timestamp int64   `json:"timestamp,omitempty"`
}
