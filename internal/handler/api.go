package handler

import (
	"github.com/tankapool/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	pool      *service.PoolService
	users     *service.UserService
	exchanges *service.ExchangeService
	stats     *service.StatsService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB) *API {
	return &API{
		db:        gdb,
		pool:      service.NewPoolService(gdb),
		users:     service.NewUserService(gdb),
		exchanges: service.NewExchangeService(gdb),
		stats:     service.NewStatsService(gdb),
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
