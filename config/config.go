package config

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// DBConfig relational database settings
type DBConfig struct {
	Type     string `yaml:"type"` // mysql, postgres, sqlite or file
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Timeout  int    `yaml:"timeout"` // dial timeout in seconds
	Debug    bool   `yaml:"debug"`
}

// SysConfig system settings
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

// WebConfig http server settings
type WebConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	PublicDir string `yaml:"public_dir"`
	BodyLimit string `yaml:"body_limit"`
}

// MaxAdminPasswordLen is the longest admin secret bcrypt hashes without
// truncating it
const MaxAdminPasswordLen = 72

// AdminConfig back office access
type AdminConfig struct {
	Password   string `yaml:"password"`
	CookieName string `yaml:"cookie_name"`
	LogLimit   int    `yaml:"log_limit"`
}

// NotifyConfig inquiry mail notification, disabled when SmtpHost is empty
type NotifyConfig struct {
	SmtpHost string `yaml:"smtp_host"`
	SmtpPort int    `yaml:"smtp_port"`
	SmtpUser string `yaml:"smtp_user"`
	SmtpPwd  string `yaml:"smtp_pwd"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
	Workers  int    `yaml:"workers"`
}

// FarmConfig contact details seeded into the settings record on first start
type FarmConfig struct {
	ContactPhone   string `yaml:"contact_phone"`
	ContactEmail   string `yaml:"contact_email"`
	Location       string `yaml:"location"`
	WhatsappNumber string `yaml:"whatsapp_number"`
}

// LogConfig logger settings
type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type AppConfig struct {
	System   SysConfig    `yaml:"system"`
	Web      WebConfig    `yaml:"web"`
	Database DBConfig     `yaml:"database"`
	Admin    AdminConfig  `yaml:"admin"`
	Notify   NotifyConfig `yaml:"notify"`
	Farm     FarmConfig   `yaml:"farm"`
	Logger   LogConfig    `yaml:"logger"`
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) GetUploadDir() string {
	return path.Join(c.System.Workdir, "uploads")
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetMetricsDir() string {
	return path.Join(c.System.Workdir, "metrics")
}

// NotifyEnabled reports whether inquiry mails should be sent
func (c *AppConfig) NotifyEnabled() bool {
	return c.Notify.SmtpHost != "" && c.Notify.To != ""
}

func (c *AppConfig) initDirs() error {
	for _, dir := range []string{c.GetDataDir(), c.GetUploadDir(), c.GetLogDir(), c.GetMetricsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create dir %s", dir)
		}
	}
	return nil
}

// DefaultAppConfig returns the built-in configuration
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "OwFarm",
			Location: "Africa/Windhoek",
			Workdir:  "./var",
		},
		Web: WebConfig{
			Host:      "0.0.0.0",
			Port:      3000,
			BodyLimit: "50M",
		},
		Database: DBConfig{
			Type:     "mysql",
			Host:     "127.0.0.1",
			Port:     3306,
			Name:     "ow_farm",
			User:     "root",
			MaxConn:  10,
			IdleConn: 2,
			Timeout:  5,
		},
		Admin: AdminConfig{
			Password:   "admin123",
			CookieName: "admin_session",
			LogLimit:   200,
		},
		Notify: NotifyConfig{
			SmtpPort: 587,
			Workers:  2,
		},
		Farm: FarmConfig{
			Location:       "Otjiwarongo, Namibia",
			WhatsappNumber: "264811234567",
		},
		Logger: LogConfig{
			Mode: "development",
		},
	}
}

func setEnvValue(name string, val *string) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = cast.ToBool(evalue)
	}
}

func setEnvIntValue(name string, val *int) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	if v, err := cast.ToIntE(strings.TrimSpace(evalue)); err == nil {
		*val = v
	}
}

// LoadConfig builds the configuration from defaults, the yaml file (when it exists),
// a local .env file and finally the process environment.
func LoadConfig(cfile string) (*AppConfig, error) {
	if cfile == "" {
		cfile = "owfarm.yml"
	}
	cfg := DefaultAppConfig()
	if data, err := os.ReadFile(cfile); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", cfile)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "read config %s", cfile)
	}

	_ = godotenv.Load()

	setEnvValue("OWFARM_WORKDIR", &cfg.System.Workdir)
	setEnvValue("OWFARM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("OWFARM_DEBUG", &cfg.System.Debug)

	setEnvValue("OWFARM_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("PORT", &cfg.Web.Port)
	setEnvValue("OWFARM_PUBLIC_DIR", &cfg.Web.PublicDir)

	setEnvValue("ADMIN_PASSWORD", &cfg.Admin.Password)

	setEnvValue("DB_TYPE", &cfg.Database.Type)
	setEnvValue("DB_HOST", &cfg.Database.Host)
	setEnvIntValue("DB_PORT", &cfg.Database.Port)
	setEnvValue("DB_USER", &cfg.Database.User)
	setEnvValue("DB_PASSWORD", &cfg.Database.Passwd)
	setEnvValue("DB_NAME", &cfg.Database.Name)
	setEnvIntValue("DB_MAX_CONN", &cfg.Database.MaxConn)
	setEnvBoolValue("DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("WHATSAPP_NUMBER", &cfg.Farm.WhatsappNumber)
	setEnvValue("OWFARM_CONTACT_PHONE", &cfg.Farm.ContactPhone)
	setEnvValue("OWFARM_CONTACT_EMAIL", &cfg.Farm.ContactEmail)

	setEnvValue("OWFARM_LOG_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("OWFARM_LOG_FILE_ENABLE", &cfg.Logger.FileEnable)

	setEnvValue("OWFARM_SMTP_HOST", &cfg.Notify.SmtpHost)
	setEnvIntValue("OWFARM_SMTP_PORT", &cfg.Notify.SmtpPort)
	setEnvValue("OWFARM_SMTP_USER", &cfg.Notify.SmtpUser)
	setEnvValue("OWFARM_SMTP_PWD", &cfg.Notify.SmtpPwd)
	setEnvValue("OWFARM_SMTP_FROM", &cfg.Notify.From)
	setEnvValue("OWFARM_SMTP_TO", &cfg.Notify.To)

	if len(cfg.Admin.Password) > MaxAdminPasswordLen {
		return nil, errors.Errorf("admin password is longer than %d bytes", MaxAdminPasswordLen)
	}

	if cfg.Logger.Filename == "" {
		cfg.Logger.Filename = filepath.Join(cfg.GetLogDir(), "owfarm.log")
	}
	if cfg.Admin.CookieName == "" {
		cfg.Admin.CookieName = "admin_session"
	}
	if cfg.Admin.LogLimit <= 0 {
		cfg.Admin.LogLimit = 200
	}

	if err := cfg.initDirs(); err != nil {
		return nil, err
	}
	return cfg, nil
}
