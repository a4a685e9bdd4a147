package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if !cfg.IsDevelopment() {
		logLevel = logger.Silent
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

// Migrate creates the schema and applies the constraints AutoMigrate
// cannot express. Every statement is idempotent.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Insurer{},
		&models.Patient{},
		&models.Professional{},
		&models.Service{},
		&models.SubService{},
		&models.ProfessionalService{},
		&models.User{},
		&models.Appointment{},
		&models.Settlement{},
		&models.ServiceRendering{},
		&models.AuditLog{},
		&models.Setting{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	patches := []struct{ descr, sql string }{
		{"one active appointment per patient and month", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_patient_month
    ON appointments (patient_id, booking_month)
    WHERE status <> 'cancelled'`},
		{"appointment interval ordering", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_appointments_interval') THEN
    ALTER TABLE appointments ADD CONSTRAINT chk_appointments_interval CHECK (end_time > start_time);
  END IF;
END $$`},
		{"settlement period ordering", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_settlements_period') THEN
    ALTER TABLE settlements ADD CONSTRAINT chk_settlements_period CHECK (period_end >= period_start);
  END IF;
END $$`},
		{"pending renderings lookup", `
CREATE INDEX IF NOT EXISTS idx_renderings_unsettled
    ON service_renderings (professional_id, date)
    WHERE status = 'pending' AND settlement_id IS NULL`},
		{"clinic name setting", `
INSERT INTO settings (key, value, type, description, updated_at)
VALUES ('clinic_name', 'Consultorio Odontológico', 'string', 'Nombre mostrado en correos y liquidaciones', NOW())
ON CONFLICT (key) DO NOTHING`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
		log.Debug().Str("patch", p.descr).Msg("schema patch applied")
	}

	return nil
}
