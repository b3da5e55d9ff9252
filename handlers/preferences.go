package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"moviematcher/internal/auth"
	"moviematcher/models"
)

// preferenceStore persists an account's preference set.
type preferenceStore interface {
	Replace(userID string, prefs models.PreferencesRequest) error
	Get(userID string) (*models.StoredPreferences, error)
}

// accountLookup resolves usernames to accounts.
type accountLookup interface {
	GetByUsername(username string) (*models.User, error)
}

// PreferenceHandler saves and returns the merged preference set for the
// authenticated account.
type PreferenceHandler struct {
	prefs preferenceStore
	users accountLookup
}

// NewPreferenceHandler constructs a PreferenceHandler.
func NewPreferenceHandler(prefs preferenceStore, users accountLookup) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs, users: users}
}

// SavePreferences handles POST /api/preferences. The stored set is replaced
// wholesale: both slots' genre rankings and the service selections.
func (h *PreferenceHandler) SavePreferences(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestUser(w, r)
	if !ok {
		return
	}

	var req models.PreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.prefs.Replace(user.ID, req); err != nil {
		log.Printf("[preferences] save failed for %s: %v", user.Username, err)
		writeError(w, http.StatusInternalServerError, "failed to save preferences")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "preferences saved"})
}

// GetPreferences handles GET /api/preferences.
func (h *PreferenceHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requestUser(w, r)
	if !ok {
		return
	}

	prefs, err := h.prefs.Get(user.ID)
	if err != nil {
		log.Printf("[preferences] load failed for %s: %v", user.Username, err)
		writeError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}

func (h *PreferenceHandler) requestUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	username := auth.GetUsername(r)
	if username == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}

	user, err := h.users.GetByUsername(username)
	if err != nil {
		log.Printf("[preferences] user lookup failed for %s: %v", username, err)
		writeError(w, http.StatusInternalServerError, "user lookup failed")
		return nil, false
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return nil, false
	}
	return user, true
}
