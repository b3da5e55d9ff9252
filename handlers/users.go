package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"moviematcher/models"
)

const bcryptCost = 12

// userStore persists and looks up accounts.
type userStore interface {
	CreateUser(user *models.User) error
	GetByUsername(username string) (*models.User, error)
}

// tokenIssuer signs session tokens at login.
type tokenIssuer interface {
	Generate(username, email string) (string, error)
}

// UserHandler serves registration and login.
type UserHandler struct {
	users  userStore
	tokens tokenIssuer
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(users userStore, tokens tokenIssuer) *UserHandler {
	return &UserHandler{users: users, tokens: tokens}
}

// Register handles POST /register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	existing, err := h.users.GetByUsername(creds.Username)
	if err != nil {
		log.Printf("[users] lookup failed for %s: %v", creds.Username, err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "username already taken")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcryptCost)
	if err != nil {
		log.Printf("[users] hash failed: %v", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	user := &models.User{
		Username:     creds.Username,
		Email:        creds.Email,
		PasswordHash: string(hash),
	}
	if err := h.users.CreateUser(user); err != nil {
		log.Printf("[users] create failed for %s: %v", creds.Username, err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /login and returns a signed session token.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.GetByUsername(creds.Username)
	if err != nil {
		log.Printf("[users] lookup failed for %s: %v", creds.Username, err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.tokens.Generate(user.Username, user.Email)
	if err != nil {
		log.Printf("[users] token generation failed for %s: %v", user.Username, err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
