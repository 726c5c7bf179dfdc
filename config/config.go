package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

// SystemConfig holds process-level settings.
type SystemConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// WebConfig holds the HTTP API listener settings.
type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

// BackendConfig points at the remote product/ticket API.
type BackendConfig struct {
	BaseURL string `yaml:"base_url" json:"base_url"`
	// Timeout is the per-request timeout in seconds for collaborator calls.
	Timeout int `yaml:"timeout" json:"timeout"`
	// SubmitWorkers is the size of the async ticket submission pool.
	SubmitWorkers int `yaml:"submit_workers" json:"submit_workers"`
}

// StoreConfig customizes the printed receipt.
type StoreConfig struct {
	Name     string `yaml:"name" json:"name"`
	Subtitle string `yaml:"subtitle" json:"subtitle"`
	Footer   string `yaml:"footer" json:"footer"`
	Footer2  string `yaml:"footer2" json:"footer2"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// MailConfig enables receipt delivery by email when a SMTP host is set.
type MailConfig struct {
	Enable   bool   `yaml:"enable" json:"enable"`
	SmtpHost string `yaml:"smtp_host" json:"smtp_host"`
	SmtpPort int    `yaml:"smtp_port" json:"smtp_port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
	To       string `yaml:"to" json:"to"`
}

type AppConfig struct {
	System  SystemConfig  `yaml:"system" json:"system"`
	Web     WebConfig     `yaml:"web" json:"web"`
	Backend BackendConfig `yaml:"backend" json:"backend"`
	Store   StoreConfig   `yaml:"store" json:"store"`
	Logger  LoggerConfig  `yaml:"logger" json:"logger"`
	Mail    MailConfig    `yaml:"mail" json:"mail"`
}

var DefaultAppConfig = &AppConfig{
	System: SystemConfig{
		Appid:    "gopos",
		Location: "America/Bogota",
		Workdir:  "/var/gopos",
		Debug:    true,
	},
	Web: WebConfig{
		Host: "0.0.0.0",
		Port: 1880,
	},
	Backend: BackendConfig{
		BaseURL:       "http://127.0.0.1:8080/api",
		Timeout:       10,
		SubmitWorkers: 4,
	},
	Store: StoreConfig{
		Name:     "TIENDA TECNOLOGICA",
		Subtitle: "RECIBO DE CAJA",
		Footer:   "¡Gracias por su compra!",
		Footer2:  "Vuelva pronto",
	},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: false,
		Filename:   "/var/gopos/gopos.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		f(v)
	}
}

// LoadConfig reads the YAML configuration file and applies GOPOS_*
// environment overrides on top. A missing file yields the defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvValue("GOPOS_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("GOPOS_SYSTEM_DEBUG", func(v string) { cfg.System.Debug = cast.ToBool(v) })
	setEnvValue("GOPOS_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvValue("GOPOS_WEB_PORT", func(v string) { cfg.Web.Port = cast.ToInt(v) })
	setEnvValue("GOPOS_BACKEND_BASEURL", func(v string) { cfg.Backend.BaseURL = v })
	setEnvValue("GOPOS_BACKEND_TIMEOUT", func(v string) { cfg.Backend.Timeout = cast.ToInt(v) })
	setEnvValue("GOPOS_LOGGER_MODE", func(v string) { cfg.Logger.Mode = v })
	setEnvValue("GOPOS_MAIL_ENABLE", func(v string) { cfg.Mail.Enable = cast.ToBool(v) })

	if cfg.Backend.Timeout <= 0 {
		cfg.Backend.Timeout = 10
	}
	if cfg.Backend.SubmitWorkers <= 0 {
		cfg.Backend.SubmitWorkers = 4
	}
	return cfg
}

// InitDirs creates the runtime directory layout under the workdir.
func (c *AppConfig) InitDirs() {
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "receipts"), 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "metrics"), 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "logs"), 0755)
}
