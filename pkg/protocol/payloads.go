package protocol

// DrawPayload carries one line segment from a client. Coordinates are
// passed through as received; the server adds color and timestamp.
type DrawPayload struct {
	X1          float64 `json:"x1"`
	Y1          float64 `json:"y1"`
	X2          float64 `json:"x2"`
	Y2          float64 `json:"y2"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// ErasePayload carries a circular erase region from a client
type ErasePayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// CursorMovePayload carries a client's cursor position
type CursorMovePayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CursorUpdatePayload is broadcast to the other clients on cursor movement
type CursorUpdatePayload struct {
	UserID   string  `json:"userId"`
	Username string  `json:"username"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Color    string  `json:"color"`
}

// UndoActionPayload carries the entire remaining log after an undo so every
// client can re-render the canvas from scratch
type UndoActionPayload struct {
	UserID          string    `json:"userId"`
	PreviousHistory []Command `json:"previousHistory"`
}

// CursorRemovedPayload signals that a user's cursor should be dropped
type CursorRemovedPayload struct {
	UserID string `json:"userId"`
}

// UserInfo is one entry of a userListUpdate broadcast
type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Color    string `json:"color"`
}
