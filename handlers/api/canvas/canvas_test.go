package canvas

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pixelchaos/core"
	canvasstore "pixelchaos/stores/canvas"
)

func paintedStore(t *testing.T, pixels ...core.Pixel) core.PixelStore {
	t.Helper()
	store := canvasstore.NewStore(nil)
	for _, pixel := range pixels {
		if err := store.Set(context.Background(), pixel); err != nil {
			t.Fatalf("Set() failed: %v", err)
		}
	}
	return store
}

func TestHandleGetPixels_Empty(t *testing.T) {
	handler := HandleGetPixels(paintedStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/canvas/pixels", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status %d, want %d", rec.Code, http.StatusOK)
	}

	var pixels []core.Pixel
	if err := json.Unmarshal(rec.Body.Bytes(), &pixels); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if pixels == nil {
		t.Error("Empty canvas should serialize as [], not null")
	}
	if len(pixels) != 0 {
		t.Errorf("Expected no pixels, got %d", len(pixels))
	}
}

func TestHandleGetPixels_ReturnsPaintedPixels(t *testing.T) {
	want := core.Pixel{X: 5, Y: 5, Color: core.Color{R: 255, A: 255}}
	handler := HandleGetPixels(paintedStore(t, want))

	req := httptest.NewRequest(http.MethodGet, "/api/canvas/pixels", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	var pixels []core.Pixel
	if err := json.Unmarshal(rec.Body.Bytes(), &pixels); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if len(pixels) != 1 || pixels[0] != want {
		t.Errorf("Got %+v, want exactly %+v", pixels, want)
	}
}

func TestHandleGetPixel_Found(t *testing.T) {
	want := core.Pixel{X: 3, Y: 4, Color: core.Color{B: 255, A: 255}}
	handler := HandleGetPixel(paintedStore(t, want))

	req := httptest.NewRequest(http.MethodGet, "/api/canvas/pixel?x=3&y=4", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status %d, want %d", rec.Code, http.StatusOK)
	}

	var pixel core.Pixel
	if err := json.Unmarshal(rec.Body.Bytes(), &pixel); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if pixel != want {
		t.Errorf("Got %+v, want %+v", pixel, want)
	}
}

func TestHandleGetPixel_NotPainted(t *testing.T) {
	handler := HandleGetPixel(paintedStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/canvas/pixel?x=1&y=1", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Status %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleGetPixel_BadCoordinates(t *testing.T) {
	handler := HandleGetPixel(paintedStore(t))

	for _, query := range []string{"", "x=a&y=1", "x=1", "x=1.5&y=2"} {
		req := httptest.NewRequest(http.MethodGet, "/api/canvas/pixel?"+query, nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Query %q: status %d, want %d", query, rec.Code, http.StatusBadRequest)
		}
	}
}
