package protocol

// CommandType distinguishes history log entries
type CommandType string

const (
	CommandDraw  CommandType = "draw"
	CommandErase CommandType = "erase"
)

// Command is one entry of the canvas history log: a single line segment
// (draw) or a circular erase region (erase). One flat struct covers both
// kinds so the log marshals the way clients expect; coordinate fields are
// never omitted because zero is a legitimate position. Commands are
// immutable once appended. Timestamp is server wall-clock milliseconds at
// append time and is secondary to log position for ordering.
type Command struct {
	Type      CommandType `json:"type"`
	UserID    string      `json:"userId"`
	Timestamp int64       `json:"timestamp"`

	// Draw fields
	UserColor   string  `json:"userColor,omitempty"`
	X1          float64 `json:"x1"`
	Y1          float64 `json:"y1"`
	X2          float64 `json:"x2"`
	Y2          float64 `json:"y2"`
	StrokeWidth float64 `json:"strokeWidth"`

	// Erase fields
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}
