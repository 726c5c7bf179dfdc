package app

import (
	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"github.com/talkincode/gopos/config"
	"github.com/talkincode/gopos/internal/catalog"
	"github.com/talkincode/gopos/internal/pos"
	"github.com/talkincode/gopos/internal/receipt"
	"github.com/talkincode/gopos/internal/ticket"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// BusProvider provides the application event bus
type BusProvider interface {
	Bus() EventBus.Bus
}

// CatalogProvider provides the product catalog cache
type CatalogProvider interface {
	Catalog() *catalog.Cache
}

// TicketsProvider provides the mirrored ticket list and the submitter
type TicketsProvider interface {
	Tickets() *ticket.Store
	Submitter() *ticket.Submitter
}

// EngineProvider provides the cart engine (one register per process)
type EngineProvider interface {
	Engine() *pos.Engine
}

// ReceiptProvider provides the receipt renderer
type ReceiptProvider interface {
	Receipts() *receipt.Renderer
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context.
// Handlers should depend on specific providers or this combined interface.
type AppContext interface {
	ConfigProvider
	BusProvider
	CatalogProvider
	TicketsProvider
	EngineProvider
	ReceiptProvider
	SchedulerProvider
}
