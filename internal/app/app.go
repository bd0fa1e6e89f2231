// Package app 把配置、存储、缓存、消息和服务装配成可运行的依赖图
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"hotel-booking-api/internal/core/auth"
	"hotel-booking-api/internal/core/cache"
	"hotel-booking-api/internal/core/config"
	"hotel-booking-api/internal/core/database"
	"hotel-booking-api/internal/core/events"
	"hotel-booking-api/internal/core/logger"
	"hotel-booking-api/internal/repo"
	"hotel-booking-api/internal/service"
	"hotel-booking-api/internal/transport/http/handler"
	"hotel-booking-api/internal/transport/http/router"
)

type App struct {
	Cfg   *config.Config
	Log   *zap.Logger
	DB    *gorm.DB
	Store *repo.Store
	Cache *cache.Cache
	Pub   events.Publisher
	JWT   *auth.JWTer

	Auth     *service.AuthService
	Users    *service.UserService
	Hotels   *service.HotelService
	Bookings *service.BookingService

	Modules *router.Registry

	closers []func()
}

// NewLogger 配了文件名就按大小切割，同时接管 gin 和标准库 log 的输出
func NewLogger(cfg *config.Config) (*zap.Logger, func()) {
	f := cfg.Log.File
	l, cleanup := logger.New(logger.Options{
		Level: cfg.Log.Level,
		JSON:  cfg.Log.JSON,
		App:   cfg.App.Name,
		Rotate: logger.FileRotate{
			Filename:   f.Filename,
			MaxSizeMB:  f.MaxSizeMB,
			MaxBackups: f.MaxBackups,
			MaxAgeDays: f.MaxAgeDays,
			Compress:   f.Compress,
		},
	})
	gin.DefaultWriter = logger.ToWriter(l, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(l, zapcore.ErrorLevel)
	restore := logger.RedirectStdLog(l, zapcore.InfoLevel)
	return l, func() {
		restore()
		cleanup()
	}
}

// OpenDB 按配置打开连接池；SQL 日志进 l
func OpenDB(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	return database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l,
	})
}

func NewJWTer(cfg *config.Config) *auth.JWTer {
	return &auth.JWTer{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		TTL:        time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		RefreshTTL: time.Duration(cfg.JWT.RefreshTokenTTLMin) * time.Minute,
	}
}

// New 失败时已打开的资源会被关闭
func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	a := &App{Cfg: cfg, Log: l, JWT: NewJWTer(cfg)}

	db, err := OpenDB(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	a.DB = db
	a.closers = append(a.closers, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.AutoMigrate(db.WithContext(ctx)); err != nil {
			a.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done")
	}
	a.Store = repo.NewStore(db)

	// Redis 不可用时降级为直读数据库
	if cfg.Redis.Enabled {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := c.Ping(ctx); err != nil {
			l.Warn("redis unavailable, cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = c.Close()
		} else {
			a.Cache = c
			a.closers = append(a.closers, func() { _ = c.Close() })
			l.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		}
	}

	a.Pub = events.Nop{}
	if cfg.MQ.Enabled {
		p, err := events.NewRabbitPublisher(cfg.MQ.URL, cfg.MQ.Queue)
		if err != nil {
			l.Warn("rabbitmq unavailable, events disabled", zap.Error(err))
		} else {
			a.Pub = p
			a.closers = append(a.closers, func() { _ = p.Close() })
			l.Info("rabbitmq connected", zap.String("queue", cfg.MQ.Queue))
		}
	}

	hotelTTL := time.Duration(cfg.Redis.HotelTTLSec) * time.Second
	a.Auth = service.NewAuthService(a.Store, a.JWT, l)
	a.Users = service.NewUserService(a.Store, l)
	a.Hotels = service.NewHotelService(a.Store, a.Cache, hotelTTL, l)
	a.Bookings = service.NewBookingService(a.Store, a.Cache, a.Pub, l)

	secure := cfg.App.Env != "" && cfg.App.Env != "local" && cfg.App.Env != "test"
	a.Modules = router.NewRegistry(
		handler.NewAuthHandler(a.Auth, a.Users, a.JWT.RefreshTTL, secure),
		handler.NewUserHandler(a.Users, a.Bookings),
		handler.NewHotelHandler(a.Hotels, a.Bookings),
		handler.NewBookingHandler(a.Bookings),
	)
	return a, nil
}

func (a *App) Deps() router.Deps {
	return router.Deps{
		Logger:    a.Log,
		JWT:       a.JWT,
		Principal: a.Users.Principal,
		Modules:   a.Modules,
	}
}

// Close 逆序释放
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
