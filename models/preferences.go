package models

// UserSlotOne and UserSlotTwo distinguish which of the two session
// participants a genre preference belongs to.
const (
	UserSlotOne = 1
	UserSlotTwo = 2
)

// GenrePreference is one ranked genre choice for one participant slot.
type GenrePreference struct {
	ID        int64  `json:"id"`
	UserID    string `json:"userId"`
	GenreName string `json:"genreName"`
	Ranking   int    `json:"ranking"`
	UserSlot  int    `json:"userSlot"`
}

// StreamingSelection records one streaming service the account subscribes to.
type StreamingSelection struct {
	ID          int64  `json:"id"`
	UserID      string `json:"userId"`
	ServiceName string `json:"serviceName"`
}

// PreferencesRequest is the payload for saving a matching session's combined
// preferences. Genre maps are name → rank.
type PreferencesRequest struct {
	User1Genres map[string]int `json:"user1Genres"`
	User2Genres map[string]int `json:"user2Genres"`
	Services    []string       `json:"services"`
}

// StoredPreferences is the full preference set for one account.
type StoredPreferences struct {
	Genres   []GenrePreference    `json:"genres"`
	Services []StreamingSelection `json:"services"`
}
