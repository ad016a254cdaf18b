package store

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/otjiningirua/owfarm/config"
)

func dialector(cfg config.DBConfig, workdir string) (gorm.Dialector, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5
	}
	switch strings.ToLower(cfg.Type) {
	case "", "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=Local&timeout=%ds",
			cfg.User, cfg.Passwd, cfg.Host, cfg.Port, cfg.Name, timeout)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable connect_timeout=%d",
			cfg.Host, cfg.Port, cfg.User, cfg.Passwd, cfg.Name, timeout)
		return postgres.Open(dsn), nil
	case "sqlite":
		dsn := cfg.Name
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			dsn = filepath.Join(workdir, cfg.Name+".db")
		}
		return sqlite.Open(dsn), nil
	}
	return nil, errors.Errorf("unsupported database type %q", cfg.Type)
}

// Connect is the capability probe: it opens the configured database, sizes
// the pool and runs SELECT 1. Any failure, including a panic inside the
// driver, yields nil and is only logged. It never retries.
func Connect(cfg config.DBConfig, workdir string) (db *gorm.DB) {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Warnf("database probe panic: %v", r)
			db = nil
		}
	}()

	dial, err := dialector(cfg, workdir)
	if err != nil {
		zap.L().Warn("database unavailable", zap.String("namespace", "store"), zap.Error(err))
		return nil
	}
	level := logger.Silent
	if cfg.Debug {
		level = logger.Info
	}
	gdb, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(level)})
	if err != nil {
		zap.L().Warn("database unavailable",
			zap.String("namespace", "store"),
			zap.String("type", cfg.Type),
			zap.String("host", cfg.Host),
			zap.Error(err))
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		zap.L().Warn("database unavailable", zap.String("namespace", "store"), zap.Error(err))
		return nil
	}
	maxConn, idleConn, lifetime := cfg.MaxConn, cfg.IdleConn, 30*time.Minute
	if maxConn <= 0 {
		maxConn = 10
	}
	if idleConn <= 0 {
		idleConn = 2
	}
	// sqlite keeps one connection forever, an in-memory database lives and dies with it
	if strings.EqualFold(cfg.Type, "sqlite") {
		maxConn, idleConn, lifetime = 1, 1, 0
	}
	sqlDB.SetMaxOpenConns(maxConn)
	sqlDB.SetMaxIdleConns(idleConn)
	sqlDB.SetConnMaxLifetime(lifetime)

	if err := gdb.Exec("SELECT 1").Error; err != nil {
		zap.L().Warn("database liveness check failed", zap.String("namespace", "store"), zap.Error(err))
		_ = sqlDB.Close()
		return nil
	}
	return gdb
}

// Open selects the backend once for the life of the process. A database
// type of "file" skips the probe.
func Open(cfg *config.AppConfig) (Store, error) {
	if !strings.EqualFold(cfg.Database.Type, BackendDocument) {
		if db := Connect(cfg.Database, cfg.GetDataDir()); db != nil {
			rs, err := NewRelationalStore(db)
			if err != nil {
				return nil, err
			}
			if err := rs.Migrate(); err != nil {
				zap.L().Error("database migration failed", zap.String("namespace", "store"), zap.Error(err))
			}
			zap.L().Info("using relational store", zap.String("namespace", "store"), zap.String("type", cfg.Database.Type))
			return rs, nil
		}
		zap.L().Warn("falling back to document store", zap.String("namespace", "store"), zap.String("dir", cfg.GetDataDir()))
	}
	ds, err := NewDocumentStore(cfg.GetDataDir())
	if err != nil {
		return nil, err
	}
	zap.L().Info("using document store", zap.String("namespace", "store"), zap.String("dir", ds.Dir()))
	return ds, nil
}
