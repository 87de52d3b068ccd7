package models

import "time"

// EventResourceType is the link segment used by notifications that reference an event.
const EventResourceType = "events"

// Event is a listed event. Notifications announcing it link to /events/{ID}.
type Event struct {
	ID          int64      `gorm:"column:event_id;primaryKey;autoIncrement" json:"event_id"`
	Title       string     `gorm:"column:event_title;size:255;not null" json:"event_title"`
	Description *string    `gorm:"type:text" json:"description"`
	Location    *string    `gorm:"size:255" json:"location"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	CreatedAt   time.Time  `json:"created_at"`
}
