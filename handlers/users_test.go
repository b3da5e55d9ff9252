package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"moviematcher/models"
)

type memoryUserStore struct {
	users map[string]*models.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: map[string]*models.User{}}
}

func (m *memoryUserStore) CreateUser(user *models.User) error {
	if user.ID == "" {
		user.ID = "id-" + user.Username
	}
	m.users[user.Username] = user
	return nil
}

func (m *memoryUserStore) GetByUsername(username string) (*models.User, error) {
	return m.users[username], nil
}

type stubTokens struct{}

func (stubTokens) Generate(username, email string) (string, error) {
	return "token-for-" + username, nil
}

func TestRegisterAndLogin(t *testing.T) {
	store := newMemoryUserStore()
	h := NewUserHandler(store, stubTokens{})

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"username": "alice", "password": "hunter22", "email": "a@example.com"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "hunter22") {
		t.Fatal("password material leaked into response")
	}

	stored := store.users["alice"]
	if stored == nil {
		t.Fatal("user not stored")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter22")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username": "alice", "password": "hunter22"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["token"] != "token-for-alice" {
		t.Fatalf("unexpected token: %q", body["token"])
	}
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	h := NewUserHandler(newMemoryUserStore(), stubTokens{})

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"username": "", "password": ""}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	store := newMemoryUserStore()
	store.users["alice"] = &models.User{Username: "alice"}
	h := NewUserHandler(store, stubTokens{})

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"username": "alice", "password": "pw"}`)))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store := newMemoryUserStore()
	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	store.users["alice"] = &models.User{Username: "alice", PasswordHash: string(hash)}
	h := NewUserHandler(store, stubTokens{})

	for name, body := range map[string]string{
		"wrong password": `{"username": "alice", "password": "wrong"}`,
		"unknown user":   `{"username": "mallory", "password": "right"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Login(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body)))
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}
