package domain

import "time"

// StockMovement is a ledger entry. Current stock is the sum of QuantityChange
// per (ProductType, ProductID); rows are never updated or deleted.
type StockMovement struct {
	ID             int64     `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	ProductType    string    `gorm:"size:16;index:idx_stock_product" json:"productType"`
	ProductID      string    `gorm:"size:32;index:idx_stock_product" json:"productId"`
	QuantityChange int64     `json:"quantityChange"`
	Note           string    `gorm:"size:500" json:"note"`
	CreatedAt      time.Time `gorm:"index" json:"createdAt"`
}

func (StockMovement) TableName() string {
	return "stock_movements"
}

const (
	ProductRam  = "ram"
	ProductBean = "bean"
)
