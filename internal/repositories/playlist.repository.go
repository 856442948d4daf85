package repositories

import (
	"context"
	. "kaudio/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlaylistRepository interface {
	Create(ctx context.Context, tx *gorm.DB, playlist *Playlist) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Playlist, error)
	GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Playlist, error)
	GetWithTracks(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Playlist, error)
	ListVisible(ctx context.Context, tx *gorm.DB, user *User, filter PlaylistFilter) ([]*Playlist, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*Playlist, error)
	ListIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error)
	ListIDsContainingTrack(ctx context.Context, tx *gorm.DB, trackID uuid.UUID) ([]uuid.UUID, error)
	Update(ctx context.Context, tx *gorm.DB, playlist *Playlist) error
	SetVisibility(ctx context.Context, tx *gorm.DB, id uuid.UUID, public bool) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	AddTrack(ctx context.Context, tx *gorm.DB, entry *PlaylistTrack) error
	RemoveTrack(ctx context.Context, tx *gorm.DB, playlistID, trackID uuid.UUID) (bool, error)
	HasTrack(ctx context.Context, tx *gorm.DB, playlistID, trackID uuid.UUID) (bool, error)
}

type playlistRepository struct {
	log logger.Logger
}

func NewPlaylistRepository() PlaylistRepository {
	return &playlistRepository{
		log: logger.New("playlistRepository"),
	}
}

func (r *playlistRepository) Create(ctx context.Context, tx *gorm.DB, playlist *Playlist) error {
	log := r.log.Function("Create")

	if err := gorm.G[Playlist](tx).Create(ctx, playlist); err != nil {
		return log.Err("failed to create playlist", err, "userID", playlist.UserID)
	}

	return nil
}

func (r *playlistRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Playlist, error) {
	playlist, err := gorm.G[Playlist](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, notFound(err, "playlist", id)
	}

	return &playlist, nil
}

// GetForUpdate locks the playlist row until the surrounding transaction ends
// so concurrent membership changes serialize on it.
func (r *playlistRepository) GetForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Playlist, error) {
	var playlist Playlist
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&playlist, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "playlist", id)
	}

	return &playlist, nil
}

func (r *playlistRepository) GetWithTracks(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Playlist, error) {
	var playlist Playlist
	if err := tx.WithContext(ctx).
		Preload("Tracks", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Tracks.Track").
		First(&playlist, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "playlist", id)
	}

	return &playlist, nil
}

// ListVisible returns public playlists plus the caller's own. Admins see all.
// The filter narrows that set and never widens it.
func (r *playlistRepository) ListVisible(
	ctx context.Context,
	tx *gorm.DB,
	user *User,
	filter PlaylistFilter,
) ([]*Playlist, error) {
	log := r.log.Function("ListVisible")

	if err := filter.validate(); err != nil {
		return nil, err
	}

	query := tx.WithContext(ctx).Model(&Playlist{})
	switch {
	case user == nil:
		query = query.Where("playlists.is_public = ?", true)
	case !user.IsAdmin():
		query = query.Where("(playlists.is_public = ? OR playlists.user_id = ?)", true, user.ID)
	}

	if filter.OwnerID != nil {
		query = query.Where("playlists.user_id = ?", *filter.OwnerID)
	}
	query = whereContains(query, "playlists.title", filter.Title)
	query = whereBetween(query, "playlists.total_tracks", filter.MinTracks, filter.MaxTracks)
	query = whereBetween(query, "playlists.total_duration", filter.MinDuration, filter.MaxDuration)
	query = whereBetween(query, "playlists.created_at", filter.CreatedAfter, filter.CreatedBefore)

	query, err := orderBy(query, filter.Ordering, playlistOrderings, "playlists.created_at DESC", "playlists.id")
	if err != nil {
		return nil, err
	}

	var playlists []*Playlist
	if err := query.
		Limit(clampLimit(filter.Limit)).
		Offset(filter.Offset).
		Find(&playlists).Error; err != nil {
		return nil, log.Err("failed to list playlists", err)
	}

	return playlists, nil
}

func (r *playlistRepository) ListByUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) ([]*Playlist, error) {
	log := r.log.Function("ListByUser")

	playlists, err := gorm.G[*Playlist](tx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list user playlists", err, "userID", userID)
	}

	return playlists, nil
}

func (r *playlistRepository) ListIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
	log := r.log.Function("ListIDs")

	var ids []uuid.UUID
	if err := tx.WithContext(ctx).Model(&Playlist{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, log.Err("failed to list playlist ids", err)
	}

	return ids, nil
}

func (r *playlistRepository) ListIDsContainingTrack(
	ctx context.Context,
	tx *gorm.DB,
	trackID uuid.UUID,
) ([]uuid.UUID, error) {
	log := r.log.Function("ListIDsContainingTrack")

	var ids []uuid.UUID
	if err := tx.WithContext(ctx).
		Model(&PlaylistTrack{}).
		Where("track_id = ?", trackID).
		Order("playlist_id").
		Pluck("playlist_id", &ids).Error; err != nil {
		return nil, log.Err("failed to list playlists for track", err, "trackID", trackID)
	}

	return ids, nil
}

func (r *playlistRepository) Update(ctx context.Context, tx *gorm.DB, playlist *Playlist) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).
		Model(&Playlist{}).
		Where("id = ?", playlist.ID).
		Updates(map[string]any{
			"title":   playlist.Title,
			"img_url": playlist.ImgURL,
		}).Error; err != nil {
		return log.Err("failed to update playlist", err, "playlistID", playlist.ID)
	}

	return nil
}

func (r *playlistRepository) SetVisibility(ctx context.Context, tx *gorm.DB, id uuid.UUID, public bool) error {
	log := r.log.Function("SetVisibility")

	if err := tx.WithContext(ctx).
		Model(&Playlist{}).
		Where("id = ?", id).
		UpdateColumn("is_public", public).Error; err != nil {
		return log.Err("failed to set playlist visibility", err, "playlistID", id)
	}

	return nil
}

func (r *playlistRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if _, err := gorm.G[PlaylistTrack](tx).Where("playlist_id = ?", id).Delete(ctx); err != nil {
		return log.Err("failed to delete playlist entries", err, "playlistID", id)
	}

	rows, err := gorm.G[Playlist](tx).Where("id = ?", id).Delete(ctx)
	if err != nil {
		return log.Err("failed to delete playlist", err, "playlistID", id)
	}
	if rows == 0 {
		return notFound(gorm.ErrRecordNotFound, "playlist", id)
	}

	return nil
}

func (r *playlistRepository) AddTrack(ctx context.Context, tx *gorm.DB, entry *PlaylistTrack) error {
	log := r.log.Function("AddTrack")

	if err := gorm.G[PlaylistTrack](tx).Create(ctx, entry); err != nil {
		return log.Err("failed to add playlist track", err,
			"playlistID", entry.PlaylistID,
			"trackID", entry.TrackID,
		)
	}

	return nil
}

func (r *playlistRepository) RemoveTrack(
	ctx context.Context,
	tx *gorm.DB,
	playlistID, trackID uuid.UUID,
) (bool, error) {
	log := r.log.Function("RemoveTrack")

	rows, err := gorm.G[PlaylistTrack](tx).
		Where("playlist_id = ? AND track_id = ?", playlistID, trackID).
		Delete(ctx)
	if err != nil {
		return false, log.Err("failed to remove playlist track", err,
			"playlistID", playlistID,
			"trackID", trackID,
		)
	}

	return rows > 0, nil
}

func (r *playlistRepository) HasTrack(
	ctx context.Context,
	tx *gorm.DB,
	playlistID, trackID uuid.UUID,
) (bool, error) {
	var count int64
	if err := tx.WithContext(ctx).
		Model(&PlaylistTrack{}).
		Where("playlist_id = ? AND track_id = ?", playlistID, trackID).
		Count(&count).Error; err != nil {
		return false, r.log.Function("HasTrack").Err("failed to check playlist track", err)
	}

	return count > 0, nil
}
