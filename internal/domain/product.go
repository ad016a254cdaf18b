package domain

import "time"

// Ram breeding stock offered for sale
type Ram struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	Name        string    `gorm:"size:255;not null;index" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Breed       string    `gorm:"size:100" json:"breed"`
	BornDate    string    `gorm:"size:32" json:"bornDate"`
	Weight      float64   `json:"weight"`
	Color       string    `gorm:"size:64" json:"color"`
	Health      string    `gorm:"size:255" json:"health"`
	Bloodline   string    `gorm:"size:255" json:"bloodline"`
	Price       float64   `json:"price"`
	Status      string    `gorm:"size:32;index" json:"status"` // available, sold, reserved
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Ram) TableName() string {
	return "rams"
}

// Bean bagged dry beans, priced per kilogram
type Bean struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	Name        string    `gorm:"size:255;not null;index" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Variety     string    `gorm:"size:100" json:"variety"`
	PricePerKg  float64   `json:"pricePerKg"`
	Status      string    `gorm:"size:32;index" json:"status"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Bean) TableName() string {
	return "beans"
}

// Media an uploaded image or video that belongs to one product
type Media struct {
	ID         int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	ParentType string    `gorm:"size:16;index:idx_media_parent" json:"parentType"` // ram or bean
	ParentID   int64     `gorm:"index:idx_media_parent" json:"parentId,string"`
	MediaType  string    `gorm:"size:16" json:"type"` // image or video
	URL        string    `gorm:"size:1024" json:"url"`
	Filename   string    `gorm:"size:255" json:"filename"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Media) TableName() string {
	return "media"
}

const (
	MediaImage = "image"
	MediaVideo = "video"
)
