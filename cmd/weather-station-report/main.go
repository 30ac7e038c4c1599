package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"

	httpapi "github.com/i474232898/weather-station-report/internal/api/http"
	"github.com/i474232898/weather-station-report/internal/config"
	"github.com/i474232898/weather-station-report/internal/scheduler"
	"github.com/i474232898/weather-station-report/internal/store"
	"github.com/i474232898/weather-station-report/internal/weather"
	"github.com/i474232898/weather-station-report/internal/weather/providers"
)

const service = "weather-station-report"

// initLogger parses the log level and installs it with a text formatter.
func initLogger(logLevel string) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}

	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	log.SetLevel(level)
	return nil
}

func main() {
	var (
		file  = flag.String("file", "", "station data file (overrides DATA_FILE)")
		url   = flag.String("url", "", "station data URL (overrides DATA_URL)")
		query = flag.String("query", "all", "query to run: average, missing, approved or all")
		from  = flag.String("from", "", "first date of the range, YYYY-MM-DD")
		to    = flag.String("to", "", "last date of the range, YYYY-MM-DD")
		serve = flag.Bool("serve", false, "serve the HTTP API instead of printing a report")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *file != "" {
		cfg.DataFile, cfg.DataURL = *file, ""
	}
	if *url != "" {
		cfg.DataURL, cfg.DataFile = *url, ""
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	if err := initLogger(cfg.LogLevel); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	var source weather.Source
	if cfg.DataURL != "" {
		source = providers.NewHTTPSource(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.DataURL, cfg.SkipMalformed)
	} else {
		source = providers.NewFileSource(cfg.DataFile, cfg.SkipMalformed)
	}

	svc := weather.NewService(source, func() weather.Store {
		return store.NewWeatherStore()
	})

	loadCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	_, err = svc.Load(loadCtx)
	cancel()
	if err != nil {
		log.Fatalf("failed to load station data: %v", err)
	}

	if !*serve {
		if err := report(os.Stdout, svc, *query, *from, *to); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	if err := run(cfg, svc); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(cfg *config.AppConfig, svc *weather.Service) error {
	sched := scheduler.New(cfg.ReloadInterval, svc)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               service,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": service,
		})
	})

	httpapi.RegisterRoutes(app, svc, cfg.MaxRangeDays)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorf("fiber server stopped: %v", err)
		}
	}()
	log.Infof("listening on :%s", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return app.ShutdownWithContext(shutdownCtx)
}
