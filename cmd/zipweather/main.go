// zipweather looks up the NWS forecast for a US ZIP code.
//
// Usage:
//
//	zipweather [flags] [zipcode]
//
// With a ZIP code argument it runs one lookup and exits; without one it
// prompts on standard input. Flags: -json prints the full report as a JSON
// object, -periods N shows up to N forecast periods (default 1, max 4), and
// -serve runs an HTTP server exposing GET /api/v1/forecast?zip=... instead.
//
// Exit status is 0 on success and 1 on any resolution or fetch failure;
// errors are printed to standard error.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/mtcodes/zipweather/internal/api/http"
	"github.com/mtcodes/zipweather/internal/config"
	"github.com/mtcodes/zipweather/internal/forecast"
	"github.com/mtcodes/zipweather/internal/geocode"
	"github.com/mtcodes/zipweather/internal/nws"
)

const maxPeriods = 4

func main() {
	jsonOut := flag.Bool("json", false, "print the report as a single JSON object")
	periods := flag.Int("periods", 1, "number of forecast periods to show (1-4)")
	serve := flag.Bool("serve", false, "run an HTTP server instead of a one-shot lookup")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	resolver, err := newResolver(cfg)
	if err != nil {
		log.Fatalf("failed to load geocode dataset: %v", err)
	}

	// Shared HTTP client for outbound NWS calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	client := nws.NewClient(httpClient, cfg.BaseURL, cfg.UserAgent)

	service := forecast.NewService(resolver, client)

	if *serve {
		runServer(cfg, service)
		return
	}

	zip := flag.Arg(0)
	if zip == "" {
		zip, err = promptForZip()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.HTTPTimeout+5*time.Second)
	defer cancel()

	report, err := service.Lookup(ctx, zip)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	n := *periods
	if n > maxPeriods {
		n = maxPeriods
	}
	fmt.Print(forecast.RenderPeriods(report, n))
}

func newResolver(cfg *config.AppConfig) (*geocode.Resolver, error) {
	if cfg.DatasetPath != "" {
		return geocode.NewFromFile(cfg.DatasetPath)
	}
	return geocode.New()
}

func promptForZip() (string, error) {
	fmt.Print("Please enter the US ZIP code: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading ZIP code: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func runServer(cfg *config.AppConfig, service *forecast.Service) {
	app := fiber.New(fiber.Config{
		AppName:               "zipweather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
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
			"service": "zipweather",
		})
	})

	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
