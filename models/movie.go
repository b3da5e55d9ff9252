package models

// MovieSearchRequest asks for movies matching the merged genre preferences
// and the streaming services both users can actually watch.
type MovieSearchRequest struct {
	Genres    []string `json:"genres"`
	Platforms []string `json:"platforms"`
}
