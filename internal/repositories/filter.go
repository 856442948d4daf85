package repositories

import (
	"kaudio/internal/types"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TrackFilter struct {
	AlbumID     *uuid.UUID
	ArtistID    *uuid.UUID
	GenreID     *uuid.UUID
	IsExplicit  *bool
	Title       string
	Year        *int
	MinDuration *int
	MaxDuration *int
	MinRating   *float64
	MaxRating   *float64
	Ordering    string
	Limit       int
	Offset      int
}

type AlbumFilter struct {
	ArtistID    *uuid.UUID
	GenreID     *uuid.UUID
	Title       string
	Year        *int
	MinTracks   *int
	MaxTracks   *int
	MinDuration *int
	MaxDuration *int
	Ordering    string
	Limit       int
	Offset      int
}

type ArtistFilter struct {
	Name         string
	IsVerified   *bool
	MinListeners *int
	MaxListeners *int
	Ordering     string
	Limit        int
	Offset       int
}

type PlaylistFilter struct {
	OwnerID       *uuid.UUID
	Title         string
	MinTracks     *int
	MaxTracks     *int
	MinDuration   *int
	MaxDuration   *int
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Ordering      string
	Limit         int
	Offset        int
}

// Sortable columns per list. A leading "-" on the ordering value sorts
// descending.
var (
	trackOrderings = map[string]string{
		"title":        "tracks.title",
		"play_count":   "tracks.play_count",
		"likes_count":  "tracks.likes_count",
		"duration":     "tracks.duration",
		"release_date": "tracks.release_date",
	}
	albumOrderings = map[string]string{
		"title":          "albums.title",
		"release_date":   "albums.release_date",
		"total_tracks":   "albums.total_tracks",
		"total_duration": "albums.total_duration",
	}
	artistOrderings = map[string]string{
		"name":              "artists.name",
		"monthly_listeners": "artists.monthly_listeners",
	}
	playlistOrderings = map[string]string{
		"created_at":     "playlists.created_at",
		"title":          "playlists.title",
		"total_tracks":   "playlists.total_tracks",
		"total_duration": "playlists.total_duration",
	}
)

func (f TrackFilter) validate() error {
	if err := checkRange("duration", f.MinDuration, f.MaxDuration); err != nil {
		return err
	}
	if f.MinRating != nil && f.MaxRating != nil && *f.MinRating > *f.MaxRating {
		return types.Wrap(types.ErrValidation, "minimum rating exceeds maximum rating")
	}
	return nil
}

func (f AlbumFilter) validate() error {
	if err := checkRange("tracks", f.MinTracks, f.MaxTracks); err != nil {
		return err
	}
	return checkRange("duration", f.MinDuration, f.MaxDuration)
}

func (f ArtistFilter) validate() error {
	return checkRange("listeners", f.MinListeners, f.MaxListeners)
}

func (f PlaylistFilter) validate() error {
	if err := checkRange("tracks", f.MinTracks, f.MaxTracks); err != nil {
		return err
	}
	if err := checkRange("duration", f.MinDuration, f.MaxDuration); err != nil {
		return err
	}
	if f.CreatedAfter != nil && f.CreatedBefore != nil && f.CreatedAfter.After(*f.CreatedBefore) {
		return types.Wrap(types.ErrValidation, "createdAfter is later than createdBefore")
	}
	return nil
}

func checkRange(field string, lower, upper *int) error {
	if lower != nil && upper != nil && *lower > *upper {
		return types.Wrap(types.ErrValidation, "minimum %s exceeds maximum %s", field, field)
	}
	return nil
}

// whereContains adds a case-insensitive substring match that behaves the same
// on postgres and sqlite.
func whereContains(query *gorm.DB, column, term string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" {
		return query
	}

	escaper := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	pattern := "%" + escaper.Replace(strings.ToLower(term)) + "%"
	return query.Where("LOWER("+column+`) LIKE ? ESCAPE '\'`, pattern)
}

func whereBetween[T any](query *gorm.DB, column string, lower, upper *T) *gorm.DB {
	if lower != nil {
		query = query.Where(column+" >= ?", *lower)
	}
	if upper != nil {
		query = query.Where(column+" <= ?", *upper)
	}
	return query
}

// whereYear matches dates inside the calendar year without database specific
// date functions.
func whereYear(query *gorm.DB, column string, year *int) *gorm.DB {
	if year == nil {
		return query
	}

	start := time.Date(*year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return query.Where(column+" >= ? AND "+column+" < ?", start, start.AddDate(1, 0, 0))
}

// orderBy applies the requested ordering, then the fallback, then id so pages
// are stable.
func orderBy(
	query *gorm.DB,
	ordering string,
	allowed map[string]string,
	fallback, idColumn string,
) (*gorm.DB, error) {
	if ordering = strings.TrimSpace(ordering); ordering != "" {
		direction := "ASC"
		if strings.HasPrefix(ordering, "-") {
			direction = "DESC"
			ordering = ordering[1:]
		}

		column, ok := allowed[ordering]
		if !ok {
			return nil, types.Wrap(types.ErrValidation, "cannot order by %q", ordering)
		}
		query = query.Order(column + " " + direction)
	}

	return query.Order(fallback).Order(idColumn + " ASC"), nil
}
