// Command authgate-stub runs the development identity service on plain
// HTTP. It exists so authgate consumers can exercise the full sign-up,
// sign-in, recovery, and role-check surface without a real identity
// provider: point idhttp.Client at the printed address.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/authgate/internal/idstub"
)

type config struct {
	Listen      string        `env:"AUTHGATE_STUB_LISTEN" envDefault:":9999"`
	RedisAddr   string        `env:"REDIS_ADDR"`
	TokenSecret string        `env:"AUTHGATE_STUB_SECRET" envDefault:"dev-secret-do-not-deploy"`
	AccessTTL   time.Duration `env:"AUTHGATE_STUB_ACCESS_TTL" envDefault:"1h"`
	RecoveryTTL time.Duration `env:"AUTHGATE_STUB_RECOVERY_TTL" envDefault:"15m"`

	// SeedRoleUser/SeedRole grant the named role to the given user id on
	// startup.
	SeedRoleUser string `env:"AUTHGATE_STUB_SEED_USER"`
	SeedRole     string `env:"AUTHGATE_STUB_SEED_ROLE" envDefault:"admin"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "parse env: %v\n", err)
		os.Exit(2)
	}

	listen := flag.String("listen", cfg.Listen, "listen address")
	redisAddr := flag.String("redis-addr", cfg.RedisAddr, "redis address; if empty, miniredis is used")
	flag.Parse()

	ctx := context.Background()

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if *redisAddr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{mr.Addr()},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", mr.Addr())
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{*redisAddr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", *redisAddr)
	}
	defer cleanup()

	server, err := idstub.NewServer(client, idstub.Config{
		TokenSecret: []byte(cfg.TokenSecret),
		AccessTTL:   cfg.AccessTTL,
		RecoveryTTL: cfg.RecoveryTTL,
		RecoveryMail: func(email, link string) {
			fmt.Printf("recovery mail for %s:\n  %s\n", email, link)
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "stub setup failed: %v\n", err)
		os.Exit(1)
	}

	if cfg.SeedRoleUser != "" {
		if err := server.GrantRole(ctx, cfg.SeedRoleUser, cfg.SeedRole); err != nil {
			fmt.Fprintf(os.Stderr, "seed role grant failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("granted role %q to user %s\n", cfg.SeedRole, cfg.SeedRoleUser)
	}

	fmt.Printf("identity stub listening on %s\n", *listen)
	if err := http.ListenAndServe(*listen, server.Handler()); err != nil {
		fmt.Fprintf(os.Stderr, "serve failed: %v\n", err)
		os.Exit(1)
	}
}
