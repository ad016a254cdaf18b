package domain

import (
	"time"

	"gorm.io/datatypes"
)

// SettingsID is the fixed primary key of the settings singleton row
const SettingsID int64 = 1

type Setting struct {
	ID             int64     `gorm:"primaryKey;autoIncrement:false" json:"-"`
	ContactPhone   string    `gorm:"size:64" json:"contactPhone"`
	ContactEmail   string    `gorm:"size:255" json:"contactEmail"`
	Location       string    `gorm:"size:255" json:"location"`
	WhatsappNumber string    `gorm:"size:64" json:"whatsappNumber"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// TableName Specify table name
func (Setting) TableName() string {
	return "settings"
}

// ActivityLog audit trail entry written after every admin mutation
type ActivityLog struct {
	ID        int64          `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	Actor     string         `gorm:"size:64" json:"actor"`
	Action    string         `gorm:"size:16;index" json:"action"`
	Entity    string         `gorm:"size:32;index" json:"entity"`
	EntityID  string         `gorm:"size:64" json:"entityId"`
	Details   datatypes.JSON `json:"details"`
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
}

// TableName Specify table name
func (ActivityLog) TableName() string {
	return "activity_logs"
}

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionUpload = "upload"

	ActorAdmin = "admin"
)
