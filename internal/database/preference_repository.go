package database

import (
	"database/sql"
	"fmt"

	"moviematcher/models"
)

// PreferenceRepository persists the merged genre rankings and streaming
// service selections for an account.
type PreferenceRepository struct {
	db *sql.DB
}

// NewPreferenceRepository creates a preference repository.
func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Replace overwrites the account's stored preferences wholesale in one
// transaction: both slots' genre rankings and the service selections.
func (r *PreferenceRepository) Replace(userID string, prefs models.PreferencesRequest) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin preferences tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM genre_preferences WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear genre preferences: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM streaming_selections WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear streaming selections: %w", err)
	}

	if err := insertGenres(tx, userID, models.UserSlotOne, prefs.User1Genres); err != nil {
		return err
	}
	if err := insertGenres(tx, userID, models.UserSlotTwo, prefs.User2Genres); err != nil {
		return err
	}

	for _, service := range prefs.Services {
		if _, err := tx.Exec(
			`INSERT INTO streaming_selections (user_id, service_name) VALUES (?, ?)`,
			userID, service,
		); err != nil {
			return fmt.Errorf("insert streaming selection %q: %w", service, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit preferences: %w", err)
	}
	return nil
}

func insertGenres(tx *sql.Tx, userID string, slot int, genres map[string]int) error {
	for name, rank := range genres {
		if _, err := tx.Exec(
			`INSERT INTO genre_preferences (user_id, genre_name, ranking, user_slot)
			 VALUES (?, ?, ?, ?)`,
			userID, name, rank, slot,
		); err != nil {
			return fmt.Errorf("insert genre preference %q: %w", name, err)
		}
	}
	return nil
}

// Get returns the account's stored preference set.
func (r *PreferenceRepository) Get(userID string) (*models.StoredPreferences, error) {
	rows, err := r.db.Query(
		`SELECT id, user_id, genre_name, ranking, user_slot
		 FROM genre_preferences WHERE user_id = ? ORDER BY user_slot, ranking`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query genre preferences: %w", err)
	}
	defer rows.Close()

	prefs := &models.StoredPreferences{
		Genres:   []models.GenrePreference{},
		Services: []models.StreamingSelection{},
	}
	for rows.Next() {
		var gp models.GenrePreference
		if err := rows.Scan(&gp.ID, &gp.UserID, &gp.GenreName, &gp.Ranking, &gp.UserSlot); err != nil {
			return nil, fmt.Errorf("scan genre preference: %w", err)
		}
		prefs.Genres = append(prefs.Genres, gp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genre preferences: %w", err)
	}

	serviceRows, err := r.db.Query(
		`SELECT id, user_id, service_name
		 FROM streaming_selections WHERE user_id = ? ORDER BY service_name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query streaming selections: %w", err)
	}
	defer serviceRows.Close()

	for serviceRows.Next() {
		var ss models.StreamingSelection
		if err := serviceRows.Scan(&ss.ID, &ss.UserID, &ss.ServiceName); err != nil {
			return nil, fmt.Errorf("scan streaming selection: %w", err)
		}
		prefs.Services = append(prefs.Services, ss)
	}
	if err := serviceRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate streaming selections: %w", err)
	}

	return prefs, nil
}
