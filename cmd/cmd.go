package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ehmtravel/backoffice/internal"
	"github.com/ehmtravel/backoffice/internal/cache"
	"github.com/ehmtravel/backoffice/internal/core/events"
	"github.com/ehmtravel/backoffice/internal/entity"
	"github.com/ehmtravel/backoffice/internal/gateway"
	"github.com/ehmtravel/backoffice/internal/localstore"
	"github.com/ehmtravel/backoffice/internal/navigation"
	"github.com/ehmtravel/backoffice/internal/notification"
	"github.com/ehmtravel/backoffice/internal/session"
	"github.com/ehmtravel/backoffice/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "backoffice",
	Short: "Travel back-office console",
	Long:  `Administration console for reservations, customers, suppliers, contracts and logistics.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*internal.Config, error) {
	if os.Getenv("APP_ENV") == "production" || os.Getenv("DOCKER_ENV") == "true" {
		cfg := internal.LoadConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("error validating config from environment: %w", err)
		}
		return cfg, nil
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	return &cfg, nil
}

// app wires the console's client-side components together.
type app struct {
	cfg     *internal.Config
	local   *localstore.Store
	session *session.Service
	gateway *gateway.Client
	caches  *cache.Manager
	feed    *notification.Feed
	nav     *navigation.Controller
}

func buildApp() (*app, error) {
	cfg, err := loadConfig(".")
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.L()

	local, err := localstore.Open(cfg.Storage.Path, log)
	if err != nil {
		return nil, err
	}

	tokens := session.NewTokenStore(cfg.Storage.TokenBackend, cfg.Storage.KeyringService, local, log)
	sessions := session.NewService(local, tokens, log)

	gw := gateway.NewClient(gateway.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, sessions.Token, log)

	bus := events.NewEventBus(log)
	caches := cache.NewManager(gw, bus, local, log)

	feed := notification.NewFeed(log)
	feed.Bind(bus, entity.KindReservations, entity.KindSuppliers, entity.KindCustomers)

	return &app{
		cfg:     cfg,
		local:   local,
		session: sessions,
		gateway: gw,
		caches:  caches,
		feed:    feed,
		nav:     navigation.NewController(),
	}, nil
}

// requireSession restores durable state and fails when the operator is not
// logged in.
func (a *app) requireSession() error {
	if sess := a.session.Restore(); !sess.IsLoggedIn {
		return internal.ErrNotLoggedIn
	}
	return nil
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(entityCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(stubCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}
