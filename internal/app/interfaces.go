package app

import (
	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"

	"github.com/otjiningirua/owfarm/config"
	"github.com/otjiningirua/owfarm/internal/activity"
	"github.com/otjiningirua/owfarm/internal/store"
	"github.com/otjiningirua/owfarm/internal/upload"
)

// StoreProvider provides the persistence backend selected at startup
type StoreProvider interface {
	Store() store.Store
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SessionProvider provides the admin session set
type SessionProvider interface {
	Sessions() *SessionStore
}

// AuditProvider provides the activity recorder
type AuditProvider interface {
	Activity() *activity.Recorder
}

// UploadProvider provides the upload area
type UploadProvider interface {
	Uploads() *upload.Store
}

// EventProvider provides the in-process event bus
type EventProvider interface {
	Bus() EventBus.Bus
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context
// Handlers should depend on specific providers or this combined interface
type AppContext interface {
	StoreProvider
	ConfigProvider
	SessionProvider
	AuditProvider
	UploadProvider
	EventProvider
	SchedulerProvider

	// InitDb drops and recreates every table, relational backend only
	InitDb() error
	// SeedCatalog inserts the demo products that are not present yet
	SeedCatalog()
}
