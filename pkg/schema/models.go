// Package schema provides database schema models for the bdeseries
// PostgreSQL store. Column names of Series follow the catalog header, so a
// catalog loaded into PostgreSQL has the same shape as the CSV export.
package schema

import (
	"database/sql"
	"time"
)

// Version is the current schema version recorded in schema_versions.
const Version = "1"

// Series is one row of the catalog: a data column of one source file.
type Series struct {
	// ID is UUID v5 generated from the file name and the column name.
	ID string `db:"id" gorm:"type:uuid;primaryKey"`

	// Name is the series code, the column header of the source file.
	Name string `db:"name" gorm:"type:varchar(255);not null;index"`

	Number string `db:"number" gorm:"type:varchar(255)"`
	Alias  string `db:"alias" gorm:"type:varchar(255)"`

	// File is the base name of the source file.
	File string `db:"file" gorm:"type:varchar(255);not null;index"`

	Description      string `db:"description" gorm:"type:text"`
	Type             string `db:"type" gorm:"type:varchar(100)"`
	Units            string `db:"units" gorm:"type:text"`
	Exponent         string `db:"exponent" gorm:"type:varchar(50)"`
	Decimals         string `db:"decimals" gorm:"type:varchar(50)"`
	UnitsDescription string `db:"units_description" gorm:"type:text"`
	Frequency        string `db:"frequency" gorm:"type:varchar(100)"`

	// FirstObservationDate is NULL for series without dated values.
	FirstObservationDate sql.NullTime `db:"first_observation_date" gorm:"type:date"`

	// LastObservationDate is NULL for series without dated values.
	LastObservationDate sql.NullTime `db:"last_observation_date" gorm:"type:date"`

	ObservationCount int    `db:"observation_count" gorm:"not null;default:0"`
	Title            string `db:"title" gorm:"type:text"`
	Source           string `db:"source" gorm:"type:text"`
	Notes            string `db:"notes" gorm:"type:text"`

	// Database is the tag of the source database (be, cf...).
	Database string `db:"database" gorm:"type:varchar(50);not null;index"`
}

// Observation is one non-missing value of a series at a date.
type Observation struct {
	SeriesID string    `db:"series_id" gorm:"type:uuid;primaryKey"`
	Date     time.Time `db:"date" gorm:"type:date;primaryKey"`
	Value    string    `db:"value" gorm:"type:text;not null"`
}

// Database records when a source database was loaded last.
type Database struct {
	// Tag is the short name of the database (be, cf...).
	Tag string `db:"tag" gorm:"type:varchar(50);primaryKey"`

	// FileCount is the number of source files that produced series.
	FileCount int `db:"file_count" gorm:"not null;default:0"`

	// SeriesCount is the number of catalog rows of the database.
	SeriesCount int `db:"series_count" gorm:"not null;default:0"`

	// ObservationCount is the number of loaded observation rows.
	ObservationCount int `db:"observation_count" gorm:"not null;default:0"`

	LoadedAt time.Time `db:"loaded_at" gorm:"not null"`
}

// SchemaVersion tracks database schema migrations.
type SchemaVersion struct {
	Version     string    `db:"version" gorm:"type:text;primaryKey"`
	Description string    `db:"description" gorm:"type:text"`
	AppliedAt   time.Time `db:"applied_at" gorm:"autoCreateTime"`
}

// TableName returns the PostgreSQL table name for the Series model.
func (Series) TableName() string { return "series" }

func (Observation) TableName() string { return "observations" }

func (Database) TableName() string { return "databases" }

func (SchemaVersion) TableName() string { return "schema_versions" }
