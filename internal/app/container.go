package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/you/adminconsole/domain"
	"github.com/you/adminconsole/internal/config"
	"github.com/you/adminconsole/internal/gateway"
	httpx "github.com/you/adminconsole/internal/http"
	"github.com/you/adminconsole/internal/http/handlers"
	"github.com/you/adminconsole/internal/http/middleware"
	"github.com/you/adminconsole/internal/infrastructure/auth"
	"github.com/you/adminconsole/internal/infrastructure/database"
	"github.com/you/adminconsole/internal/infrastructure/repositories"
	"github.com/you/adminconsole/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *database.RedisClient

	TokenStore domain.TokenStore
	Gateway    domain.AuthGateway

	// Services
	Session   *services.SessionService
	Resources *services.ResourceServiceImpl
	PolicySvc *services.PolicyServiceImpl
}

// NewContainer creates and initializes all dependencies. clock may be nil.
func NewContainer(cfg *config.Config, logger *slog.Logger, clock domain.Clock) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	if err := c.initDatabase(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initRedis(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initTokenStore(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initServices(clock); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// initDatabase opens gorm only when the SQL token store or persisted policies need it
func (c *Container) initDatabase() error {
	if c.Config.StorageDriver != config.StorageSQL && !c.Config.CasbinPersist {
		return nil
	}
	db, err := database.Open(c.Config.DBDriver, c.Config.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	c.DB = db
	return nil
}

func (c *Container) initRedis() error {
	if c.Config.StorageDriver != config.StorageRedis {
		return nil
	}
	c.RedisClient = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.RedisClient.Ping(ctx); err != nil {
		// the session degrades to signed out when storage is down, so keep going
		c.Logger.Warn("redis unreachable at startup", "addr", c.Config.RedisAddr, "error", err)
	}
	return nil
}

func (c *Container) initTokenStore() error {
	switch c.Config.StorageDriver {
	case config.StorageRedis:
		c.TokenStore = repositories.NewTokenRedisRepository(c.RedisClient.Client, c.Config.RedisPrefix, c.Config.TokenKey)
	case config.StorageSQL:
		store, err := repositories.NewTokenSQLRepository(c.DB, c.Config.TokenKey)
		if err != nil {
			return err
		}
		c.TokenStore = store
	default:
		c.TokenStore = repositories.NewTokenFileRepository(c.Config.StorageDir, c.Config.TokenKey)
	}
	c.Logger.Info("token storage ready", "driver", c.Config.StorageDriver)
	return nil
}

func (c *Container) initServices(clock domain.Clock) error {
	client := gateway.NewClient(c.Config.BackendURL, c.Config.BackendTimeout, c.Logger)
	c.Gateway = gateway.NewAuthGateway(client)

	c.Session = services.NewSessionService(c.TokenStore, auth.NewJWTDecoder(), c.Gateway, clock, c.Logger)
	c.Resources = services.NewResourceService(gateway.NewResourceClient(client), c.Session, c.Logger)

	var policyDB *gorm.DB
	if c.Config.CasbinPersist {
		policyDB = c.DB
	}
	cas, err := auth.NewCasbinService(policyDB, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}
	c.PolicySvc = services.NewPolicyService(services.NewCasbinEnforcerWrapper(cas.E, c.Config.CasbinPersist), c.Logger)
	if err := c.PolicySvc.SeedDefaults(); err != nil {
		return fmt.Errorf("seed policies: %w", err)
	}
	return nil
}

// Router builds the BFF HTTP surface over the container's services
func (c *Container) Router() *gin.Engine {
	return httpx.BuildRouter(
		handlers.NewAuthHandlers(c.Session, c.Logger),
		handlers.NewResourceHandlers(c.Resources),
		handlers.NewPolicyHandlers(c.PolicySvc),
		middleware.NewGuardMW(c.Session),
		middleware.NewPolicyMW(c.PolicySvc, c.Logger),
		c.Logger,
	)
}

// Close stops the session timer and closes all connections. The stored token is kept.
func (c *Container) Close() error {
	if c.Session != nil {
		c.Session.Close()
	}

	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		return database.Close(c.DB)
	}

	return nil
}
