package app

import (
	"os"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"github.com/talkincode/gopos/config"
	"github.com/talkincode/gopos/internal/catalog"
	"github.com/talkincode/gopos/internal/pos"
	"github.com/talkincode/gopos/internal/receipt"
	"github.com/talkincode/gopos/internal/ticket"
	"github.com/talkincode/gopos/pkg/metrics"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Application struct {
	appConfig *config.AppConfig
	bus       EventBus.Bus
	sched     *cron.Cron

	catalogCache *catalog.Cache
	ticketStore  *ticket.Store
	submitter    *ticket.Submitter
	receipts     *receipt.Renderer
	engine       *pos.Engine
}

// Ensure Application implements all interfaces
var (
	_ ConfigProvider    = (*Application)(nil)
	_ BusProvider       = (*Application)(nil)
	_ CatalogProvider   = (*Application)(nil)
	_ TicketsProvider   = (*Application)(nil)
	_ EngineProvider    = (*Application)(nil)
	_ ReceiptProvider   = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig   { return a.appConfig }
func (a *Application) Bus() EventBus.Bus           { return a.bus }
func (a *Application) Catalog() *catalog.Cache     { return a.catalogCache }
func (a *Application) Tickets() *ticket.Store      { return a.ticketStore }
func (a *Application) Submitter() *ticket.Submitter { return a.submitter }
func (a *Application) Engine() *pos.Engine         { return a.engine }
func (a *Application) Receipts() *receipt.Renderer { return a.receipts }
func (a *Application) Scheduler() *cron.Cron       { return a.sched }

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	// Initialize zap logger
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.OutputPaths = []string{"stdout"}

	// Build logger with file rotation if enabled
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
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)

	cfg.InitDirs()

	// Initialize metrics with workdir convention
	if err := metrics.InitMetrics(cfg.System.Workdir); err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	a.bus = EventBus.New()

	timeout := time.Duration(cfg.Backend.Timeout) * time.Second
	a.catalogCache = catalog.NewCache(catalog.NewClient(cfg.Backend.BaseURL, timeout), a.bus)

	ticketClient := ticket.NewClient(cfg.Backend.BaseURL, timeout)
	a.ticketStore = ticket.NewStore(ticketClient, a.bus)
	a.submitter, err = ticket.NewSubmitter(ticketClient, a.ticketStore, a.bus, cfg.Backend.SubmitWorkers, timeout)
	if err != nil {
		zap.L().Error("failed to create ticket submitter", zap.Error(err))
	}

	var mailer *receipt.Mailer
	if cfg.Mail.Enable && cfg.Mail.SmtpHost != "" {
		mailer = receipt.NewMailer(cfg.Mail)
	}
	a.receipts = receipt.NewRenderer(cfg, mailer)

	a.engine = pos.NewEngine(a.catalogCache, a.submitter, a.receipts)

	a.initJob()
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.submitter != nil {
		a.submitter.Close()
	}
	_ = metrics.Close()
	_ = zap.L().Sync()
}
