package types

import "github.com/google/uuid"

type GenreStatistic struct {
	GenreID       uuid.UUID `json:"genreId"`
	Genre         string    `json:"genre"`
	TrackCount    int64     `json:"trackCount"`
	TotalDuration int64     `json:"totalDuration"`
	AvgPlays      float64   `json:"avgPlays"`
	AvgLikes      float64   `json:"avgLikes"`
}

type ArtistStatistic struct {
	ArtistID      uuid.UUID `json:"artistId"`
	Artist        string    `json:"artist"`
	TotalTracks   int64     `json:"totalTracks"`
	TotalDuration int64     `json:"totalDuration"`
	AvgDuration   float64   `json:"avgDuration"`
	TotalPlays    int64     `json:"totalPlays"`
}

type PopularTrack struct {
	TrackID    uuid.UUID `json:"trackId"`
	Title      string    `json:"title"`
	ArtistID   uuid.UUID `json:"artistId"`
	Duration   int       `json:"duration"`
	PlayCount  int       `json:"playCount"`
	LikesCount int       `json:"likesCount"`
	Score      float64   `json:"score"`
}

// ConsistencyError describes a cached counter that disagrees with the value
// recomputed from the underlying rows.
type ConsistencyError struct {
	Entity string    `json:"entity"`
	ID     uuid.UUID `json:"id"`
	Field  string    `json:"field"`
	Cached int64     `json:"cached"`
	Actual int64     `json:"actual"`
}

func (e ConsistencyError) Error() string {
	return Wrap(
		ErrConsistency,
		"%s %s field %s cached=%d actual=%d",
		e.Entity, e.ID, e.Field, e.Cached, e.Actual,
	).Error()
}

func (e ConsistencyError) Unwrap() error {
	return ErrConsistency
}

type ReconcileReport struct {
	Checked    int                `json:"checked"`
	Mismatches []ConsistencyError `json:"mismatches"`
	Repaired   bool               `json:"repaired"`
}
