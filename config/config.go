package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Settings holds everything the server needs at runtime. Values come from an
// optional JSON file and are overridden by environment variables.
type Settings struct {
	Port            int    `json:"port"`
	DatabasePath    string `json:"databasePath"`
	LogPath         string `json:"logPath"`
	JWTSecret       string `json:"jwtSecret"`
	RecommenderURL  string `json:"recommenderUrl"`
	RapidAPIKey     string `json:"rapidApiKey"`
	RapidAPIHost    string `json:"rapidApiHost"`
	StreamingAPIURL string `json:"streamingApiUrl"`
	EnrichWorkers   int    `json:"enrichWorkers"`
}

// Manager provides synchronized access to settings. Handlers and services
// hold the manager rather than a settings snapshot so admin updates are
// visible without a restart.
type Manager struct {
	mu       sync.RWMutex
	settings Settings
}

func defaults() Settings {
	return Settings{
		Port:            8080,
		DatabasePath:    "moviematcher.db",
		RecommenderURL:  "http://localhost:5001",
		RapidAPIHost:    "streaming-availability.p.rapidapi.com",
		StreamingAPIURL: "https://streaming-availability.p.rapidapi.com",
		EnrichWorkers:   8,
	}
}

// Load builds a Manager from the JSON file at path (missing file is fine)
// plus environment overrides.
func Load(path string) (*Manager, error) {
	s := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		} else if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(&s)
	return &Manager{settings: s}, nil
}

func applyEnv(s *Settings) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			s.Port = port
		}
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		s.DatabasePath = v
	}
	if v := os.Getenv("LOG_PATH"); v != "" {
		s.LogPath = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		s.JWTSecret = v
	}
	if v := os.Getenv("RECOMMENDER_URL"); v != "" {
		s.RecommenderURL = v
	}
	if v := os.Getenv("RAPIDAPI_KEY"); v != "" {
		s.RapidAPIKey = v
	}
	if v := os.Getenv("RAPIDAPI_HOST"); v != "" {
		s.RapidAPIHost = v
	}
	if v := os.Getenv("STREAMING_API_URL"); v != "" {
		s.StreamingAPIURL = v
	}
	if v := os.Getenv("ENRICH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.EnrichWorkers = n
		}
	}
}

// Get returns a copy of the current settings.
func (m *Manager) Get() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// Update replaces the current settings.
func (m *Manager) Update(s Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
}
