package schema

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []any {
	return []any{
		&Series{},
		&Observation{},
		&Database{},
		&SchemaVersion{},
	}
}

// TableNames returns table names of AllModels in the same order.
func TableNames() []string {
	return []string{
		Series{}.TableName(),
		Observation{}.TableName(),
		Database{}.TableName(),
		SchemaVersion{}.TableName(),
	}
}

// Migrate runs GORM AutoMigrate to create or update schema and records
// the current schema version.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return err
	}
	v := SchemaVersion{
		Version:     Version,
		Description: "series catalog with observations",
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&v).Error
}

// SeriesColumns returns the column names of the series table in the order
// of its struct fields.
func SeriesColumns() []string {
	return []string{
		"id", "name", "number", "alias", "file", "description", "type",
		"units", "exponent", "decimals", "units_description", "frequency",
		"first_observation_date", "last_observation_date",
		"observation_count", "title", "source", "notes", "database",
	}
}

// ObservationColumns returns the column names of the observations table.
func ObservationColumns() []string {
	return []string{"series_id", "date", "value"}
}
