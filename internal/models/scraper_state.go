package models

import (
	"time"
)

// ScraperState is the resumable crawl checkpoint of one scraper.
type ScraperState struct {
	ScraperName   string     `gorm:"primaryKey;type:varchar(120)" json:"scraper_name"`
	Offset        int        `gorm:"column:cursor_offset;not null;default:0" json:"offset"`
	LastTaxSaleID *string    `gorm:"type:text" json:"last_tax_sale_id"`
	LastNode      *string    `gorm:"type:text" json:"last_node"`
	LastRunID     *string    `gorm:"type:text" json:"last_run_id"`
	LastRunAt     *time.Time `json:"last_run_at"`
	DoneForToday  bool       `gorm:"not null;default:false" json:"done_for_today"`
	ResumeAfter   *time.Time `json:"resume_after"`
	CreatedAt     time.Time  `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (ScraperState) TableName() string {
	return "scraper_state"
}
