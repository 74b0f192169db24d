package core

type (
	// InitialStateMessage carries the full canvas snapshot sent to a
	// client exactly once, on join.
	InitialStateMessage struct {
		Type   string  `json:"type"`
		Pixels []Pixel `json:"pixels"`
	}

	// PixelUpdateMessage announces one accepted pixel change to every
	// connected client, including the sender.
	PixelUpdateMessage struct {
		Type  string `json:"type"`
		Pixel Pixel  `json:"pixel"`
	}
)

// Message type tags on the outbound protocol.
const (
	MessageTypeInitialState = "initial_state"
	MessageTypePixelUpdate  = "pixel_update"
)

// NewInitialStateMessage builds the join snapshot. A nil pixel slice is
// normalized to an empty one so clients always see a JSON array.
func NewInitialStateMessage(pixels []Pixel) InitialStateMessage {
	if pixels == nil {
		pixels = []Pixel{}
	}
	return InitialStateMessage{Type: MessageTypeInitialState, Pixels: pixels}
}

// NewPixelUpdateMessage builds the broadcast for one accepted update.
func NewPixelUpdateMessage(pixel Pixel) PixelUpdateMessage {
	return PixelUpdateMessage{Type: MessageTypePixelUpdate, Pixel: pixel}
}
