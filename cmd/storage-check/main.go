package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/you/adminconsole/internal/app"
	"github.com/you/adminconsole/internal/config"
	"github.com/you/adminconsole/internal/infrastructure/auth"
)

// Checks the configured token storage and policy store without starting the server
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	fmt.Println("Admin console storage check")
	fmt.Println("===========================")
	fmt.Printf("Token storage: %s (key %q)\n", cfg.StorageDriver, cfg.TokenKey)

	logger := app.NewLogger(cfg, os.Stderr)
	c, err := app.NewContainer(cfg, logger, nil)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if c.RedisClient != nil {
		if err := c.RedisClient.Ping(ctx); err != nil {
			log.Fatalf("Failed to ping redis: %v", err)
		}
		fmt.Println("✓ Redis reachable")
	}

	token, err := c.TokenStore.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to read token storage: %v", err)
	}
	fmt.Println("✓ Token storage readable")

	if token == "" {
		fmt.Println("  - no session stored")
	} else {
		claims, err := auth.NewJWTDecoder().Decode(token)
		switch {
		case err != nil:
			fmt.Printf("  - stored token is undecodable and will be discarded: %v\n", err)
		case !claims.Expiry().After(time.Now()):
			fmt.Printf("  - stored session for %s expired at %s\n", claims.Email, claims.Expiry().Format(time.RFC3339))
		default:
			fmt.Printf("  - stored session for %s (%s) valid until %s\n", claims.Email, claims.Role, claims.Expiry().Format(time.RFC3339))
		}
	}

	source := "built-in defaults"
	if cfg.CasbinPersist {
		source = cfg.DBDriver
	}
	fmt.Printf("✓ Screen policies loaded from %s (%d rules)\n", source, len(c.PolicySvc.GetPolicies()))
}
