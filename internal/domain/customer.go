package domain

import (
	"time"

	"gorm.io/datatypes"
)

// User a farm customer, not a back office account
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	Name      string    `gorm:"size:255;not null;index" json:"name"`
	Email     string    `gorm:"size:255" json:"email"`
	Phone     string    `gorm:"size:64" json:"phone"`
	Location  string    `gorm:"size:255" json:"location"`
	Type      string    `gorm:"size:32;index" json:"type"`   // individual, business, unknown
	Status    string    `gorm:"size:32;index" json:"status"` // active, inactive
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

type Order struct {
	ID          int64          `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	UserID      *int64         `gorm:"index" json:"userId,string"`
	Status      string         `gorm:"size:32;index" json:"status"`
	TotalAmount float64        `json:"totalAmount"`
	Items       datatypes.JSON `json:"items"`
	Notes       string         `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (Order) TableName() string {
	return "orders"
}

// Inquiry a message left through the public contact form
type Inquiry struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	Product   string    `gorm:"size:255" json:"product"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255" json:"email"`
	Phone     string    `gorm:"size:64" json:"phone"`
	Quantity  string    `gorm:"size:64" json:"quantity"`
	Message   string    `gorm:"type:text" json:"message"`
	Status    string    `gorm:"size:32;index" json:"status"` // new, contacted, closed
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Inquiry) TableName() string {
	return "inquiries"
}

type AnalyticsEvent struct {
	ID        int64          `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	EventName string         `gorm:"size:100;index" json:"eventName"`
	Path      string         `gorm:"size:255" json:"path"`
	Metadata  datatypes.JSON `json:"metadata"`
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
}

func (AnalyticsEvent) TableName() string {
	return "analytics_events"
}
