package specification

import (
	"time"

	"gorm.io/gorm"
)

type ByDate struct {
	Date time.Time
}

func (s ByDate) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("date = ?", s.Date.Format("2006-01-02"))
}

// ByTag matches a single tag inside the comma-separated tags column.
type ByTag struct {
	Tag string
}

func (s ByTag) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("tags_csv ILIKE ?", "%"+s.Tag+"%")
}
