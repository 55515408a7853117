package models

import "time"

const (
	RunStatusRunning = "running"
	RunStatusOK      = "ok"
	RunStatusFailed  = "failed"
)

// ScraperRun is one execution of a scraper. Rows are only ever inserted as
// running and closed once.
type ScraperRun struct {
	ID            uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ScraperName   string     `gorm:"type:varchar(120);not null;uniqueIndex:ux_scraper_runs_run,priority:1;index:ix_scraper_runs_started,priority:1" json:"scraper_name"`
	RunID         string     `gorm:"type:varchar(120);not null;uniqueIndex:ux_scraper_runs_run,priority:2" json:"run_id"`
	Status        string     `gorm:"type:varchar(20);not null;index" json:"status"`
	Message       *string    `gorm:"type:text" json:"message"`
	FoundTotal    int        `gorm:"not null;default:0" json:"found_total"`
	Processed     int        `gorm:"not null;default:0" json:"processed"`
	Inserted      int        `gorm:"not null;default:0" json:"inserted"`
	Updated       int        `gorm:"not null;default:0" json:"updated"`
	Skipped       int        `gorm:"not null;default:0" json:"skipped"`
	RemovedMarked int        `gorm:"not null;default:0" json:"removed_marked"`
	StartedAt     time.Time  `gorm:"not null;index:ix_scraper_runs_started,priority:2" json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at"`
}

func (ScraperRun) TableName() string {
	return "scraper_runs"
}
