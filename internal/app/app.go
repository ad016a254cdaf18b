package app

import (
	"os"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/otjiningirua/owfarm/config"
	"github.com/otjiningirua/owfarm/internal/activity"
	"github.com/otjiningirua/owfarm/internal/domain"
	"github.com/otjiningirua/owfarm/internal/notify"
	"github.com/otjiningirua/owfarm/internal/store"
	"github.com/otjiningirua/owfarm/internal/upload"
	"github.com/otjiningirua/owfarm/pkg/metrics"
)

type Application struct {
	appConfig *config.AppConfig
	store     store.Store
	sessions  *SessionStore
	activity  *activity.Recorder
	uploads   *upload.Store
	bus       EventBus.Bus
	notifier  *notify.Notifier
	sched     *cron.Cron
}

// Ensure Application implements all interfaces
var (
	_ StoreProvider     = (*Application)(nil)
	_ ConfigProvider    = (*Application)(nil)
	_ SessionProvider   = (*Application)(nil)
	_ AuditProvider     = (*Application)(nil)
	_ UploadProvider    = (*Application)(nil)
	_ EventProvider     = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Store() store.Store {
	return a.store
}

func (a *Application) Sessions() *SessionStore {
	return a.sessions
}

func (a *Application) Activity() *activity.Recorder {
	return a.activity
}

func (a *Application) Uploads() *upload.Store {
	return a.uploads
}

func (a *Application) Bus() EventBus.Bus {
	return a.bus
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// OverrideStore replaces the storage backend and rebuilds the services
// that depend on it (used in tests).
func (a *Application) OverrideStore(s store.Store) error {
	a.store = s
	return a.initServices()
}

func initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

func (a *Application) Init(cfg *config.AppConfig) error {
	a.appConfig = cfg
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	initLogger(cfg)

	if err := metrics.InitMetrics(cfg.System.Workdir); err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	a.store, err = store.Open(cfg)
	if err != nil {
		return err
	}
	zap.S().Infof("Storage backend selected: %s", a.store.Backend())

	if err := a.initServices(); err != nil {
		return err
	}
	a.checkSettings()
	a.initJob()
	return nil
}

func (a *Application) initServices() error {
	cfg := a.appConfig
	sessions, err := NewSessionStore(cfg.Admin.Password)
	if err != nil {
		return err
	}
	a.sessions = sessions
	a.activity = activity.NewRecorder(a.store, cfg.Admin.LogLimit)
	a.uploads, err = upload.NewStore(cfg.GetUploadDir())
	if err != nil {
		return err
	}

	if a.notifier != nil {
		a.notifier.Close()
		a.notifier = nil
	}
	a.bus = EventBus.New()
	if cfg.NotifyEnabled() {
		a.notifier, err = notify.NewNotifier(a.bus, notify.NewMailSender(cfg.Notify), cfg.Notify.Workers)
		if err != nil {
			return err
		}
		zap.L().Info("inquiry notification enabled",
			zap.String("namespace", "notify"),
			zap.String("smtp_host", cfg.Notify.SmtpHost))
	}
	return nil
}

// InitDb drops and recreates all tables of the relational backend
func (a *Application) InitDb() error {
	rs, ok := a.store.(*store.RelationalStore)
	if !ok {
		return errors.Errorf("initdb needs a relational backend, current backend is %s", a.store.Backend())
	}
	if err := rs.DB().Migrator().DropTable(domain.Tables...); err != nil {
		return errors.Wrap(err, "drop tables")
	}
	return rs.Migrate()
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.notifier != nil {
		a.notifier.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			zap.S().Warn("close store:", err)
		}
	}
	_ = metrics.Close()
	_ = zap.L().Sync()
}
