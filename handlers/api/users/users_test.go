package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pixelchaos/core"

	"github.com/go-chi/chi/v5"
)

type fakeUserStore struct {
	byEmail map[string]*core.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*core.User)}
}

func (s *fakeUserStore) Create(ctx context.Context, user *core.User) (string, error) {
	user.ID = "01ARZ3NDEKTSV4RRFFQ69G5FAV"
	s.byEmail[user.Email] = user
	return user.ID, nil
}

func (s *fakeUserStore) FindByEmail(ctx context.Context, email string) (*core.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, core.ErrNotFound
	}
	return user, nil
}

func TestHandleCreate_Success(t *testing.T) {
	store := newFakeUserStore()
	handler := HandleCreate(store)

	body := `{"name":"Ada","email":"ada@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Status %d, want %d", rec.Code, http.StatusCreated)
	}

	var user core.User
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if user.ID == "" {
		t.Error("Created user should carry an id")
	}
	if user.Email != "ada@example.com" {
		t.Errorf("Email %q, want %q", user.Email, "ada@example.com")
	}
	if user.OnCooldown {
		t.Error("New user should not start on cooldown")
	}
}

func TestHandleCreate_Rejections(t *testing.T) {
	handler := HandleCreate(newFakeUserStore())

	for name, body := range map[string]string{
		"invalid JSON":  `{broken`,
		"missing email": `{"name":"Ada"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want %d", name, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestHandleGetByEmail(t *testing.T) {
	store := newFakeUserStore()
	if _, err := store.Create(context.Background(), &core.User{Name: "Ada", Email: "ada@example.com"}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	r := chi.NewRouter()
	r.Get("/api/users/{email}", HandleGetByEmail(store))

	req := httptest.NewRequest(http.MethodGet, "/api/users/ada@example.com", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status %d, want %d", rec.Code, http.StatusOK)
	}

	var user core.User
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if user.Name != "Ada" {
		t.Errorf("Name %q, want %q", user.Name, "Ada")
	}
}

func TestHandleGetByEmail_NotFound(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/users/{email}", HandleGetByEmail(newFakeUserStore()))

	req := httptest.NewRequest(http.MethodGet, "/api/users/ghost@example.com", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Status %d, want %d", rec.Code, http.StatusNotFound)
	}
}
