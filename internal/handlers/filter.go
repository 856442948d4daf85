package handlers

import (
	"kaudio/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

func parseTrackFilter(c *fiber.Ctx) (repositories.TrackFilter, error) {
	var (
		filter repositories.TrackFilter
		err    error
	)

	if filter.AlbumID, err = queryID(c, "albumId"); err != nil {
		return filter, err
	}
	if filter.ArtistID, err = queryID(c, "artistId"); err != nil {
		return filter, err
	}
	if filter.GenreID, err = queryID(c, "genreId"); err != nil {
		return filter, err
	}
	if filter.IsExplicit, err = queryBool(c, "explicit"); err != nil {
		return filter, err
	}
	if filter.Year, err = queryInt(c, "year"); err != nil {
		return filter, err
	}
	if filter.MinDuration, err = queryInt(c, "minDuration"); err != nil {
		return filter, err
	}
	if filter.MaxDuration, err = queryInt(c, "maxDuration"); err != nil {
		return filter, err
	}
	if filter.MinRating, err = queryFloat(c, "minRating"); err != nil {
		return filter, err
	}
	if filter.MaxRating, err = queryFloat(c, "maxRating"); err != nil {
		return filter, err
	}

	filter.Title = firstQuery(c, "title", "q")
	filter.Ordering = c.Query("ordering")
	filter.Limit, filter.Offset = pagination(c)
	return filter, nil
}

func parseAlbumFilter(c *fiber.Ctx) (repositories.AlbumFilter, error) {
	var (
		filter repositories.AlbumFilter
		err    error
	)

	if filter.ArtistID, err = queryID(c, "artistId"); err != nil {
		return filter, err
	}
	if filter.GenreID, err = queryID(c, "genreId"); err != nil {
		return filter, err
	}
	if filter.Year, err = queryInt(c, "year"); err != nil {
		return filter, err
	}
	if filter.MinTracks, err = queryInt(c, "minTracks"); err != nil {
		return filter, err
	}
	if filter.MaxTracks, err = queryInt(c, "maxTracks"); err != nil {
		return filter, err
	}
	if filter.MinDuration, err = queryInt(c, "minDuration"); err != nil {
		return filter, err
	}
	if filter.MaxDuration, err = queryInt(c, "maxDuration"); err != nil {
		return filter, err
	}

	filter.Title = firstQuery(c, "title", "q")
	filter.Ordering = c.Query("ordering")
	filter.Limit, filter.Offset = pagination(c)
	return filter, nil
}

func parseArtistFilter(c *fiber.Ctx) (repositories.ArtistFilter, error) {
	var (
		filter repositories.ArtistFilter
		err    error
	)

	if filter.IsVerified, err = queryBool(c, "isVerified"); err != nil {
		return filter, err
	}
	if filter.MinListeners, err = queryInt(c, "minListeners"); err != nil {
		return filter, err
	}
	if filter.MaxListeners, err = queryInt(c, "maxListeners"); err != nil {
		return filter, err
	}

	filter.Name = firstQuery(c, "name", "q")
	filter.Ordering = c.Query("ordering")
	filter.Limit, filter.Offset = pagination(c)
	return filter, nil
}

func parsePlaylistFilter(c *fiber.Ctx) (repositories.PlaylistFilter, error) {
	var (
		filter repositories.PlaylistFilter
		err    error
	)

	if filter.MinTracks, err = queryInt(c, "minTracks"); err != nil {
		return filter, err
	}
	if filter.MaxTracks, err = queryInt(c, "maxTracks"); err != nil {
		return filter, err
	}
	if filter.MinDuration, err = queryInt(c, "minDuration"); err != nil {
		return filter, err
	}
	if filter.MaxDuration, err = queryInt(c, "maxDuration"); err != nil {
		return filter, err
	}
	if filter.CreatedAfter, err = queryDate(c, "createdAfter", false); err != nil {
		return filter, err
	}
	if filter.CreatedBefore, err = queryDate(c, "createdBefore", true); err != nil {
		return filter, err
	}

	filter.Title = firstQuery(c, "title", "q")
	filter.Ordering = c.Query("ordering")
	filter.Limit, filter.Offset = pagination(c)
	return filter, nil
}
