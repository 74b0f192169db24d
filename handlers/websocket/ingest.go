package websocket

import (
	"encoding/json"
	"fmt"

	"pixelchaos/core"
)

type (
	// inboundPixel is the loose shape of a client pixel submission.
	// Pointer fields distinguish absent from zero.
	inboundPixel struct {
		X     *int          `json:"x"`
		Y     *int          `json:"y"`
		Color *inboundColor `json:"color"`
	}

	// inboundColor accepts both the short "a" and long "alpha" spellings
	// of the optional fourth channel.
	inboundColor struct {
		R     *int `json:"r"`
		G     *int `json:"g"`
		B     *int `json:"b"`
		A     *int `json:"a"`
		Alpha *int `json:"alpha"`
	}
)

// DecodePixel turns one raw inbound payload into a Pixel. Every failure
// returns a *core.DecodeError naming the reason; the caller logs it and
// keeps the connection open. Missing alpha normalizes to fully opaque.
// Coordinate bounds are checked only when bounds.Enforce is set.
func DecodePixel(raw []byte, bounds core.Bounds) (core.Pixel, error) {
	var in inboundPixel
	if err := json.Unmarshal(raw, &in); err != nil {
		return core.Pixel{}, &core.DecodeError{Reason: "malformed payload", Err: err}
	}

	color, err := decodeColor(in.Color)
	if err != nil {
		return core.Pixel{}, err
	}

	if in.X == nil || in.Y == nil {
		return core.Pixel{}, &core.DecodeError{Reason: "missing coordinates"}
	}
	if bounds.Enforce && !bounds.Contains(*in.X, *in.Y) {
		return core.Pixel{}, &core.DecodeError{
			Reason: fmt.Sprintf("coordinates (%d, %d) outside canvas %dx%d", *in.X, *in.Y, bounds.Cols, bounds.Rows),
		}
	}

	return core.Pixel{X: *in.X, Y: *in.Y, Color: color}, nil
}

func decodeColor(in *inboundColor) (core.Color, error) {
	if in == nil {
		return core.Color{}, &core.DecodeError{Reason: "missing color"}
	}
	if in.R == nil || in.G == nil || in.B == nil {
		return core.Color{}, &core.DecodeError{Reason: "missing color channel"}
	}

	alphaField := in.A
	if alphaField == nil {
		alphaField = in.Alpha
	}

	channels := []*int{in.R, in.G, in.B}
	if alphaField != nil {
		channels = append(channels, alphaField)
	}
	for _, channel := range channels {
		if *channel < 0 || *channel > 255 {
			return core.Color{}, &core.DecodeError{
				Reason: fmt.Sprintf("color channel %d out of range", *channel),
			}
		}
	}

	alpha := 255
	if alphaField != nil {
		alpha = *alphaField
	}
	return core.Color{
		R: uint8(*in.R),
		G: uint8(*in.G),
		B: uint8(*in.B),
		A: uint8(alpha),
	}, nil
}
