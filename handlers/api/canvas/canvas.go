package canvas

import (
	"errors"
	"net/http"
	"strconv"

	"pixelchaos/core"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

// HandleGetPixels returns the full canvas state over plain HTTP, for
// clients that want a read without opening a WebSocket session.
func HandleGetPixels(store core.PixelStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pixels, err := store.GetAll(r.Context())
		if err != nil {
			logrus.WithError(err).Error("Failed to read canvas")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to read canvas"})
			return
		}

		if pixels == nil {
			pixels = []core.Pixel{}
		}
		render.JSON(w, r, pixels)
	}
}

// HandleGetPixel returns one coordinate, or 404 for a coordinate that has
// never been painted.
func HandleGetPixel(store core.PixelStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		x, errX := strconv.Atoi(r.URL.Query().Get("x"))
		y, errY := strconv.Atoi(r.URL.Query().Get("y"))
		if errX != nil || errY != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "x and y must be integers"})
			return
		}

		pixel, err := store.Get(r.Context(), x, y)
		if errors.Is(err, core.ErrNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "Pixel not painted"})
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"x":     x,
				"y":     y,
				"error": err,
			}).Error("Failed to read pixel")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to read pixel"})
			return
		}

		render.JSON(w, r, pixel)
	}
}
