package initialize

import (
	. "kaudio/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InitializeTables inserts the reference rows every environment needs. It is
// safe to run repeatedly.
func InitializeTables(db *gorm.DB, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializePlans(db, log); err != nil {
		return log.Err("failed to initialize subscription plans", err)
	}

	log.Info("Table initialization complete")
	return nil
}

func initializePlans(db *gorm.DB, log logger.Logger) error {
	for _, plan := range defaultPlans() {
		var existing SubscriptionPlan
		if err := db.First(&existing, "type = ?", plan.Type).Error; err == nil {
			log.Debug("Plan already exists", "type", plan.Type)
			continue
		}

		log.Info("Initializing plan", "type", plan.Type)
		if err := db.Create(&plan).Error; err != nil {
			return log.Err("failed to create plan", err, "type", plan.Type)
		}
	}

	return nil
}

func defaultPlans() []SubscriptionPlan {
	return []SubscriptionPlan{
		{
			Type:        PlanFree,
			Permissions: datatypes.JSON(`{"ads":true,"offline":false,"skipsPerHour":6,"members":1}`),
		},
		{
			Type:        PlanPremium,
			Permissions: datatypes.JSON(`{"ads":false,"offline":true,"skipsPerHour":-1,"members":1}`),
		},
		{
			Type:        PlanFamily,
			Permissions: datatypes.JSON(`{"ads":false,"offline":true,"skipsPerHour":-1,"members":6}`),
		},
	}
}
