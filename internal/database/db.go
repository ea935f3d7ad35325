package database

import (
	"log"

	"mealprogram-backend/internal/config"
	"mealprogram-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	// Backfill migration: consumption_logs.ingredient_name was added after the
	// first deployments. Fill it from ingredients before AutoMigrate marks the
	// column NOT NULL.
	if DB.Migrator().HasTable(&models.ConsumptionLog{}) && DB.Migrator().HasColumn(&models.ConsumptionLog{}, "ingredient_name") {
		var nullCount int64
		DB.Raw("SELECT COUNT(*) FROM consumption_logs WHERE ingredient_name IS NULL OR ingredient_name = ''").Scan(&nullCount)
		if nullCount > 0 {
			log.Printf("Backfilling ingredient_name on %d consumption_logs rows...", nullCount)
			DB.Exec(`
				UPDATE consumption_logs cl
				SET ingredient_name = i.name
				FROM ingredients i
				WHERE cl.ingredient_id = i.id
				AND (cl.ingredient_name IS NULL OR cl.ingredient_name = '')
			`)
		}
	}

	err = DB.AutoMigrate(
		&models.School{},
		&models.User{},
		&models.Grade{},
		&models.Classroom{},
		&models.Teacher{},
		&models.Student{},
		&models.Staff{},
		&models.Supplier{},
		&models.SchoolAsset{},
		&models.SchoolDay{},
		&models.DailyAttendance{},
		&models.Ingredient{},
		&models.ConsumptionLog{},
		&models.SupplyLog{},
		&models.WasteLog{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.AuditLog{},
		&models.MonthlyReport{},
		&models.PosProduct{},
		&models.PosSale{},
		&models.PosSaleItem{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("Database connected, migration complete.")
}
