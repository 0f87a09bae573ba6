package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nestsync/internal/api"
	"nestsync/internal/database"
	"nestsync/internal/monitoring"
	"nestsync/internal/planner"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"
)

var (
	port        = flag.Int("port", 8080, "API server port")
	metricsPort = flag.Int("metrics-port", 9090, "Metrics server port")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

// Config represents the application configuration
type Config struct {
	Database struct {
		Dialect string `yaml:"dialect"`
		DSN     string `yaml:"dsn"`
	} `yaml:"database"`
	Planner planner.Config `yaml:"planner"`
}

func main() {
	flag.Parse()

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	config, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := database.InitDB(config.Database.Dialect, config.Database.DSN); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDB()

	if err := database.Migrate(database.GetDB()); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	store := database.NewStore(database.GetDB())
	metrics := monitoring.NewMetricsCollector()
	plannerAPI := api.NewPlannerAPI(store, config.Planner, metrics)

	// Start metrics server
	go startMetricsServer(*metricsPort, metrics)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: plannerAPI.Router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting API server on port %d", *port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

// loadConfig reads the YAML config and applies environment overrides
func loadConfig(path string) (*Config, error) {
	config := &Config{}
	config.Database.Dialect = "sqlite3"
	config.Database.DSN = "nestsync.db"

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if dialect := os.Getenv("NESTSYNC_DB_DIALECT"); dialect != "" {
		config.Database.Dialect = dialect
	}
	if dsn := os.Getenv("NESTSYNC_DB_DSN"); dsn != "" {
		config.Database.DSN = dsn
	}

	return config, nil
}

func startMetricsServer(port int, metrics *monitoring.MetricsCollector) {
	metricsRouter := gin.Default()
	metricsRouter.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	log.Printf("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}
