package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"pixoonair/internal/camera"
	"pixoonair/internal/handlers"
	"pixoonair/internal/lifecycle"
	"pixoonair/internal/logger"
	"pixoonair/internal/pixoo"
	"pixoonair/internal/repository"
	repodb "pixoonair/internal/repository/db"
	"pixoonair/internal/server"
	"pixoonair/internal/service"

	"github.com/spf13/viper"
)

const (
	envPrefix             = "PIXOONAIR"
	httpShutdownTimeout   = 10 * time.Second
	defaultDBPath         = "pixoonair.db"
	defaultDispatchQueue  = 8
	defaultDeviceTimeout  = 5 * time.Second
	defaultCameraInterval = 100 * time.Millisecond
)

func main() {
	hashPassphrase := flag.String("hash-passphrase", "", "print the bcrypt hash for auth.passphrase_hash and exit")
	flag.Parse()

	if *hashPassphrase != "" {
		hash, err := service.HashPassphrase(*hashPassphrase)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	// config first: the log level comes from it
	cfgErr := loadConfig()
	log := logger.Get(viper.GetString("log.level"))
	if cfgErr != nil {
		log.Fatalw("error reading config", "err", cfgErr)
	}

	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}

	// wire dependencies
	repos := repository.NewRepository(db)
	client := pixoo.NewClient(log.Named("pixoo"),
		pixoo.WithDiscoveryURL(viper.GetString("pixoo.discovery_url")),
		pixoo.WithTimeout(viper.GetDuration("pixoo.timeout")),
	)

	stopFlag := camera.NewStopFlag()
	monitor := camera.NewMonitor(cameraConfig(), log.Named("camera"))
	coordinator := lifecycle.NewShutdownCoordinator(stopFlag, log.Named("lifecycle"),
		lifecycle.WithExitDelay(viper.GetDuration("shutdown.exit_delay")),
	)

	auth, err := service.NewAuthService(service.AuthConfig{
		PassphraseHash: viper.GetString("auth.passphrase_hash"),
		SigningKey:     viper.GetString("auth.signing_key"),
		TokenTTL:       viper.GetDuration("auth.token_ttl"),
	})
	if err != nil {
		log.Fatalw("failed to init auth", "err", err)
	}

	services := service.NewService(repos, client, auth, coordinator, log)
	services.Status.SetMonitorCheck(monitor.Running)

	// display actions run off the monitor's reader goroutine and are not
	// cancelled on exit
	dispatcher := service.NewAsyncDispatcher(context.Background(), viper.GetInt("dispatch.max_pending"), log.Named("dispatch"))
	bridge := service.NewCameraBridge(services.Display, services.Settings, services.Status, dispatcher, log.Named("bridge"))

	startMonitor(monitor, bridge, stopFlag, log)

	// start HTTP server
	srv := &server.Server{}
	apiHandler := handlers.NewHandler(services, log.Named("http"))
	runHTTPServer(srv, server.Addr(viper.GetString("host"), viper.GetString("port")), apiHandler, log)

	registerShutdownHooks(coordinator, srv, monitor, services.Status, db)
	coordinator.WatchSignals(context.Background())

	<-coordinator.Done()
}

// loadConfig reads configs/config.yml when present. Every key has a default
// and can be overridden by PIXOONAIR_<KEY> with dots replaced by underscores.
func loadConfig() error {
	viper.SetDefault("host", "127.0.0.1")
	viper.SetDefault("port", "8080")
	viper.SetDefault("log.level", logger.InfoLevel)
	viper.SetDefault("db.path", defaultDBPath)
	viper.SetDefault("camera.command", []string{})
	viper.SetDefault("camera.poll_interval", defaultCameraInterval)
	viper.SetDefault("pixoo.discovery_url", pixoo.DefaultDiscoveryURL)
	viper.SetDefault("pixoo.timeout", defaultDeviceTimeout)
	viper.SetDefault("shutdown.exit_delay", lifecycle.DefaultExitDelay)
	viper.SetDefault("dispatch.max_pending", defaultDispatchQueue)
	viper.SetDefault("auth.passphrase_hash", "")
	viper.SetDefault("auth.signing_key", "")
	viper.SetDefault("auth.token_ttl", time.Hour)

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	log.Infow("opening sqlite", "path", dbPath)
	return repodb.InitDB(dbPath)
}

func cameraConfig() camera.Config {
	cfg := camera.DefaultConfig()
	if cmd := viper.GetStringSlice("camera.command"); len(cmd) > 0 {
		cfg.Command = cmd
	}
	cfg.PollInterval = viper.GetDuration("camera.poll_interval")
	return cfg
}

// startMonitor launches the camera monitor. A spawn failure is logged and
// the API keeps running with monitor_running=false.
func startMonitor(monitor *camera.Monitor, bridge *service.CameraBridge, stopFlag *camera.StopFlag, log *logger.Logger) {
	err := monitor.Start(bridge.OnCameraActive, bridge.OnCameraIdle, stopFlag)
	var spawnErr *camera.SpawnError
	switch {
	case errors.As(err, &spawnErr):
		log.Errorw("camera monitor not started", "command", spawnErr.Command, "err", spawnErr.Err)
	case err != nil:
		log.Errorw("camera monitor not started", "err", err)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, addr string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "addr", addr)
		if err := srv.Run(addr, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// registerShutdownHooks runs after the monitor stop flag is set.
func registerShutdownHooks(c *lifecycle.ShutdownCoordinator, srv *server.Server, monitor *camera.Monitor, status service.Status, db *sql.DB) {
	c.OnShutdown("http_server", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, httpShutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	})
	c.OnShutdown("camera_monitor", func(ctx context.Context) error {
		done := make(chan struct{})
		go func() {
			monitor.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	// dispatched display actions are not cancelled; they may still finish
	// and record a mode after this point, so appends stop before the close
	c.OnShutdown("activity_log", func(ctx context.Context) error {
		status.CloseLog()
		return nil
	})
	c.OnShutdown("sqlite", func(ctx context.Context) error {
		return db.Close()
	})
}
