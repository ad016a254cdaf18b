package domain

var Tables = []interface{}{
	// Catalog
	&Ram{},
	&Bean{},
	&Media{},
	// Sales
	&User{},
	&Order{},
	&Inquiry{},
	&StockMovement{},
	// System
	&Setting{},
	&ActivityLog{},
	&AnalyticsEvent{},
}
