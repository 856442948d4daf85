package repositories

import (
	"context"
	"fmt"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PositionScope identifies one ordered collection: the rows of Table whose
// ParentColumn equals ParentID, each naming its member in ItemColumn.
type PositionScope struct {
	Table        string
	ParentColumn string
	ParentID     uuid.UUID
	ItemColumn   string
}

func PlaylistScope(playlistID uuid.UUID) PositionScope {
	return PositionScope{
		Table:        "playlist_tracks",
		ParentColumn: "playlist_id",
		ParentID:     playlistID,
		ItemColumn:   "track_id",
	}
}

func LibraryAlbumScope(userID uuid.UUID) PositionScope {
	return PositionScope{
		Table:        "user_albums",
		ParentColumn: "user_id",
		ParentID:     userID,
		ItemColumn:   "album_id",
	}
}

func LibraryTrackScope(userID uuid.UUID) PositionScope {
	return PositionScope{
		Table:        "user_tracks",
		ParentColumn: "user_id",
		ParentID:     userID,
		ItemColumn:   "track_id",
	}
}

type positionRow struct {
	ID       uuid.UUID
	ItemID   uuid.UUID
	Position int
	AddedAt  time.Time
}

// PositionRepository keeps the positions of a collection dense: 1..N with no
// gaps or repeats. Callers run every method inside the transaction that
// changes membership.
type PositionRepository interface {
	Next(ctx context.Context, tx *gorm.DB, scope PositionScope) (int, error)
	Compact(ctx context.Context, tx *gorm.DB, scope PositionScope) error
	Move(ctx context.Context, tx *gorm.DB, scope PositionScope, itemID uuid.UUID, to int) (int, error)
	Positions(ctx context.Context, tx *gorm.DB, scope PositionScope) ([]int, error)
}

type positionRepository struct {
	log logger.Logger
}

func NewPositionRepository() PositionRepository {
	return &positionRepository{
		log: logger.New("positionRepository"),
	}
}

func (r *positionRepository) Next(ctx context.Context, tx *gorm.DB, scope PositionScope) (int, error) {
	log := r.log.Function("Next")

	var next int
	if err := tx.WithContext(ctx).
		Table(scope.Table).
		Where(fmt.Sprintf("%s = ?", scope.ParentColumn), scope.ParentID).
		Select("COALESCE(MAX(position), 0) + 1").
		Row().
		Scan(&next); err != nil {
		return 0, log.Err("failed to compute next position", err, "table", scope.Table, "parentID", scope.ParentID)
	}

	return next, nil
}

func (r *positionRepository) Compact(ctx context.Context, tx *gorm.DB, scope PositionScope) error {
	log := r.log.Function("Compact")

	rows, err := r.load(ctx, tx, scope)
	if err != nil {
		return log.Err("failed to load positions", err, "table", scope.Table)
	}

	return r.rewrite(ctx, tx, scope, rows)
}

// Move places the item at position to, clamped into 1..N, and shifts the rows
// in between by one. The final position is returned.
func (r *positionRepository) Move(
	ctx context.Context,
	tx *gorm.DB,
	scope PositionScope,
	itemID uuid.UUID,
	to int,
) (int, error) {
	log := r.log.Function("Move")

	rows, err := r.load(ctx, tx, scope)
	if err != nil {
		return 0, log.Err("failed to load positions", err, "table", scope.Table)
	}

	from := -1
	for i, row := range rows {
		if row.ItemID == itemID {
			from = i
			break
		}
	}
	if from < 0 {
		return 0, notFound(gorm.ErrRecordNotFound, scope.ItemColumn, itemID)
	}

	target := min(max(to, 1), len(rows)) - 1

	moving := rows[from]
	rows = append(rows[:from], rows[from+1:]...)
	rows = append(rows[:target], append([]positionRow{moving}, rows[target:]...)...)

	if err := r.rewrite(ctx, tx, scope, rows); err != nil {
		return 0, err
	}

	return target + 1, nil
}

func (r *positionRepository) Positions(
	ctx context.Context,
	tx *gorm.DB,
	scope PositionScope,
) ([]int, error) {
	var positions []int
	if err := tx.WithContext(ctx).
		Table(scope.Table).
		Where(fmt.Sprintf("%s = ?", scope.ParentColumn), scope.ParentID).
		Order("position ASC").
		Pluck("position", &positions).Error; err != nil {
		return nil, r.log.Function("Positions").Err("failed to read positions", err, "table", scope.Table)
	}

	return positions, nil
}

func (r *positionRepository) load(
	ctx context.Context,
	tx *gorm.DB,
	scope PositionScope,
) ([]positionRow, error) {
	var rows []positionRow
	err := tx.WithContext(ctx).
		Table(scope.Table).
		Select(fmt.Sprintf("id, %s AS item_id, position, added_at", scope.ItemColumn)).
		Where(fmt.Sprintf("%s = ?", scope.ParentColumn), scope.ParentID).
		Order("position ASC").
		Order("added_at ASC").
		Order("id ASC").
		Scan(&rows).Error

	return rows, err
}

// rewrite stores index+1 as the position of each row, skipping rows that are
// already in place.
func (r *positionRepository) rewrite(
	ctx context.Context,
	tx *gorm.DB,
	scope PositionScope,
	rows []positionRow,
) error {
	log := r.log.Function("rewrite")

	for i, row := range rows {
		if row.Position == i+1 {
			continue
		}
		if err := tx.WithContext(ctx).
			Table(scope.Table).
			Where("id = ?", row.ID).
			UpdateColumn("position", i+1).Error; err != nil {
			return log.Err("failed to update position", err, "table", scope.Table, "rowID", row.ID)
		}
	}

	return nil
}
