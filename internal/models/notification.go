package models

import "time"

// Notification is the shared content of one broadcast. It is written once by the fan-out path and
// only ever removed, never updated.
type Notification struct {
	BaseModel

	Title   string  `gorm:"size:255;not null" json:"title"`
	Message string  `gorm:"type:text;not null" json:"message"`
	Link    *string `gorm:"size:512;index" json:"link"`

	Entries []RecipientEntry `gorm:"foreignKey:NotificationID;constraint:OnDelete:CASCADE" json:"-"`
}

// RecipientEntry holds one recipient's delivery and read state for a Notification.
// SeenAt is set exactly when IsRead is true.
type RecipientEntry struct {
	BaseModel

	RecipientID    int64  `gorm:"not null;index;uniqueIndex:idx_recipient_notification" json:"recipient_id"`
	NotificationID string `gorm:"size:36;not null;index;uniqueIndex:idx_recipient_notification" json:"notification_id"`

	IsRead bool       `gorm:"not null;default:false" json:"is_read"`
	SeenAt *time.Time `json:"seen_at"`
}

// TableName keeps the ledger table name used by existing deployments.
func (RecipientEntry) TableName() string {
	return "user_notifications"
}

// LinkValue returns the deep link or an empty string.
func (n Notification) LinkValue() string {
	if n.Link == nil {
		return ""
	}
	return *n.Link
}
