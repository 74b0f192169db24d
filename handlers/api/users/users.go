package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"pixelchaos/core"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HandleCreate inserts a new account record.
func HandleCreate(store core.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}
		if req.Email == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Email is required"})
			return
		}

		user := &core.User{Name: req.Name, Email: req.Email}
		id, err := store.Create(r.Context(), user)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"email": req.Email,
				"error": err,
			}).Error("Failed to create user")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to create user"})
			return
		}

		user.ID = id
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, user)
	}
}

// HandleGetByEmail returns the account record for an email address.
func HandleGetByEmail(store core.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := chi.URLParam(r, "email")
		if email == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Email is required"})
			return
		}

		user, err := store.FindByEmail(r.Context(), email)
		if errors.Is(err, core.ErrNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "User not found"})
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"email": email,
				"error": err,
			}).Error("Failed to look up user")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to look up user"})
			return
		}

		render.JSON(w, r, user)
	}
}
