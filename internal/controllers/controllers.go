package controllers

import (
	"kaudio/config"
	"kaudio/internal/database"
	"kaudio/internal/repositories"
	"kaudio/internal/services"

	activityController "kaudio/internal/controllers/activity"
	adminController "kaudio/internal/controllers/admin"
	authController "kaudio/internal/controllers/auth"
	catalogController "kaudio/internal/controllers/catalog"
	libraryController "kaudio/internal/controllers/library"
	playlistController "kaudio/internal/controllers/playlists"
	reviewController "kaudio/internal/controllers/reviews"
	statsController "kaudio/internal/controllers/stats"
	subscriptionController "kaudio/internal/controllers/subscriptions"
	userController "kaudio/internal/controllers/users"
)

type Controllers struct {
	User         userController.UserControllerInterface
	Auth         authController.AuthControllerInterface
	Admin        adminController.AdminControllerInterface
	Catalog      catalogController.CatalogControllerInterface
	Playlist     playlistController.PlaylistControllerInterface
	Library      libraryController.LibraryControllerInterface
	Activity     activityController.ActivityControllerInterface
	Review       reviewController.ReviewControllerInterface
	Stats        statsController.StatsControllerInterface
	Subscription subscriptionController.SubscriptionControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		User:         userController.New(repos, services, config, db),
		Auth:         authController.New(services),
		Admin:        adminController.New(services),
		Catalog:      catalogController.New(repos, services, config, db),
		Playlist:     playlistController.New(repos, services, config, db),
		Library:      libraryController.New(repos, services, config, db),
		Activity:     activityController.New(services, config, db),
		Review:       reviewController.New(repos, services, config, db),
		Stats:        statsController.New(repos, config, db),
		Subscription: subscriptionController.New(repos, services, config, db),
	}
}
