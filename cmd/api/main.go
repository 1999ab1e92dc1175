package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	_ "ticketpulse/docs"
	"ticketpulse/internal/config"
	"ticketpulse/internal/middleware"
	"ticketpulse/internal/routes"
	"ticketpulse/internal/utils"
)

// @title        ticketpulse API
// @version      1.0
// @description  Support ticket analytics dashboard over the helpdesk API
// @BasePath     /
func main() {

	envPath := "/app/.env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = ".env"
	}
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		cfg.CloseAll()
		log.Fatalf("Error creating config: %v", err)
	}
	defer cfg.CloseAll()

	cfg.Logger.Info(fmt.Sprintf("Starting server with execution ID %s", cfg.Logger.ExecutionID), map[string]interface{}{
		"environment":   cfg.Settings.Environment,
		"sqlserver":     cfg.SqlServer != nil,
		"elasticsearch": cfg.ES != nil,
	})

	engine := middleware.SetupServer(cfg)

	routes.InitiateRoutes(engine, cfg)

	if err := startServer(engine); err != nil {
		cfg.Logger.Error("server stopped", err)
	}
}

// startServer serves until SIGINT/SIGTERM and then drains in-flight requests
func startServer(engine *gin.Engine) error {
	srv := &http.Server{
		Addr:              ":" + utils.GetPort(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		certFile, keyFile := utils.GetCertFiles()
		if certFile != "" && keyFile != "" {
			log.Printf("Starting server with TLS on %s...", srv.Addr)
			errCh <- srv.ListenAndServeTLS(certFile, keyFile)
			return
		}
		log.Printf("Starting server on %s...", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
