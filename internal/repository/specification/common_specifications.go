package specification

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByID filters by ID
type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

// OrderBy applies ordering
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}

// Pagination
type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit).Offset(s.Offset)
}

// FilterBy Generic Filter
type FilterBy struct {
	Field string
	Value interface{}
}

func (s FilterBy) Apply(db *gorm.DB) *gorm.DB {
	query := fmt.Sprintf("%s = ?", s.Field)
	return db.Where(query, s.Value)
}

func Filter(field string, value interface{}) Specification {
	return FilterBy{Field: field, Value: value}
}

// SearchIn applies a case-insensitive LIKE over one or more text columns.
type SearchIn struct {
	Fields []string
	Term   string
}

func (s SearchIn) Apply(db *gorm.DB) *gorm.DB {
	like := "%" + s.Term + "%"
	query := ""
	args := make([]interface{}, 0, len(s.Fields))
	for i, f := range s.Fields {
		if i > 0 {
			query += " OR "
		}
		query += fmt.Sprintf("%s ILIKE ?", f)
		args = append(args, like)
	}
	return db.Where(query, args...)
}
