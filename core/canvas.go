package core

import (
	"context"
	"fmt"
	"time"
)

type (
	// Color is an 8-bit-per-channel RGBA value. Inbound payloads may omit
	// the alpha channel; decoding normalizes it to fully opaque.
	Color struct {
		R uint8 `json:"r"`
		G uint8 `json:"g"`
		B uint8 `json:"b"`
		A uint8 `json:"a"`
	}

	// Pixel is a single painted coordinate on the shared canvas. The (X, Y)
	// pair is the unique key; a later pixel for the same coordinates
	// replaces the earlier one.
	Pixel struct {
		X     int   `json:"x"`
		Y     int   `json:"y"`
		Color Color `json:"color"`
	}

	// Bounds describes the fixed canvas dimensions. Valid coordinates are
	// 0 <= x < Cols and 0 <= y < Rows. Enforce toggles rejection of
	// out-of-bounds submissions at ingest.
	Bounds struct {
		Rows    int
		Cols    int
		Enforce bool
	}

	// PixelStore is the canvas state store. Coordinates never painted are
	// absent, not an error condition; Get reports absence via ErrNotFound.
	PixelStore interface {
		// Get returns the pixel at (x, y), or ErrNotFound if the
		// coordinate has never been painted.
		Get(ctx context.Context, x, y int) (*Pixel, error)

		// GetAll returns every painted pixel. Order is not significant.
		GetAll(ctx context.Context) ([]Pixel, error)

		// Set paints a pixel, replacing any previous value for its
		// coordinates. Set never fails from the caller's perspective;
		// backing-store write errors degrade to in-memory state.
		Set(ctx context.Context, pixel Pixel) error
	}

	// HistoryStore is an append-only log of accepted pixel updates.
	// Appends are best effort; callers log failures and move on.
	HistoryStore interface {
		Append(ctx context.Context, pixel Pixel, at time.Time) error
	}
)

// Contains reports whether (x, y) lies inside the canvas.
func (b Bounds) Contains(x, y int) bool {
	return x >= 0 && x < b.Cols && y >= 0 && y < b.Rows
}

// Key returns the backing-cache hash field for this pixel's coordinates.
func (p Pixel) Key() string {
	return CoordKey(p.X, p.Y)
}

// CoordKey builds the backing-cache hash field name for a coordinate pair.
func CoordKey(x, y int) string {
	return fmt.Sprintf("%d:%d", x, y)
}
