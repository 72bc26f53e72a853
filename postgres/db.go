package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xy-planning-network/paramconv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// A DB wraps a *gorm.DB, translating its errors into paramconv's.
type DB struct {
	db *gorm.DB
}

// NewDB constructs a *DB from a *gorm.DB.
func NewDB(db *gorm.DB) *DB { return &DB{db: db} }

// DB exposes the underlying *gorm.DB backing DB.
//
// NB: use in exceptional circumstances only.
func (db *DB) DB() *gorm.DB { return db.db }

// FindBy retrieves the first record whose column equals value into dest,
// a pointer to a struct that is a database table.
//
// If no record matches, FindBy returns paramconv.ErrNotExist.
// If value cannot be compared to column, say "abc" for an integer column,
// FindBy returns paramconv.ErrNotExist as well, since no record could match.
func (db *DB) FindBy(dest any, column string, value any) error {
	err := db.db.
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).
		First(dest).
		Error

	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %T with %s = %v", paramconv.ErrNotExist, dest, column, value)
	case errSQLSyntax.MatchString(err.Error()):
		return fmt.Errorf("%w: %w: %s", paramconv.ErrNotExist, paramconv.ErrNotValid, err)
	default:
		return fmt.Errorf("%w: %s", paramconv.ErrUnexpected, err)
	}
}

// WipeDB queries for all of the tables in schema and then drops the data in those tables.
func WipeDB(db *gorm.DB, schema string) error {
	var tables []string
	err := db.
		Table("information_schema.tables").
		Select("table_name").
		Where("table_schema = ?", schema).
		Not("table_type = ?", "VIEW").
		Pluck("table_name", &tables).
		Error
	if err != nil {
		return err
	}

	if len(tables) == 0 {
		return nil
	}

	return db.Exec(fmt.Sprintf("TRUNCATE %s CASCADE;", strings.Join(tables, ", "))).Error
}
