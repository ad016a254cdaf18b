package domain

// Collection names a record set. The name doubles as table name and as the
// document store file name.
type Collection string

const (
	Rams            Collection = "rams"
	Beans           Collection = "beans"
	MediaItems      Collection = "media"
	Users           Collection = "users"
	Orders          Collection = "orders"
	StockMovements  Collection = "stock_movements"
	ActivityLogs    Collection = "activity_logs"
	Settings        Collection = "settings"
	Inquiries       Collection = "inquiries"
	AnalyticsEvents Collection = "analytics_events"
)

// Collections lists every top level collection
var Collections = []Collection{
	Rams, Beans, Users, Orders, StockMovements, ActivityLogs, Settings, Inquiries, AnalyticsEvents,
}

// Model returns a new gorm model value for the collection, nil if unknown
func (c Collection) Model() interface{} {
	switch c {
	case Rams:
		return &Ram{}
	case Beans:
		return &Bean{}
	case MediaItems:
		return &Media{}
	case Users:
		return &User{}
	case Orders:
		return &Order{}
	case StockMovements:
		return &StockMovement{}
	case ActivityLogs:
		return &ActivityLog{}
	case Settings:
		return &Setting{}
	case Inquiries:
		return &Inquiry{}
	case AnalyticsEvents:
		return &AnalyticsEvent{}
	}
	return nil
}

// Mutable collections carry an updatedAt stamp; the rest are append-only.
func (c Collection) Mutable() bool {
	switch c {
	case Rams, Beans, Users, Orders, Inquiries, Settings:
		return true
	}
	return false
}

// HasMedia reports whether documents embed a media list
func (c Collection) HasMedia() bool {
	return c == Rams || c == Beans
}

// ProductType maps a product collection to its singular type name
func (c Collection) ProductType() string {
	switch c {
	case Rams:
		return ProductRam
	case Beans:
		return ProductBean
	}
	return ""
}

// ProductCollection is the inverse of ProductType
func ProductCollection(productType string) (Collection, bool) {
	switch productType {
	case ProductRam:
		return Rams, true
	case ProductBean:
		return Beans, true
	}
	return "", false
}
