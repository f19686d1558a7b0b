package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/tenders-netizen/quotedesk/internal/billing/directory"
	"github.com/tenders-netizen/quotedesk/internal/billing/events"
	"github.com/tenders-netizen/quotedesk/internal/billing/filestore"
	"github.com/tenders-netizen/quotedesk/internal/billing/handlers"
	"github.com/tenders-netizen/quotedesk/internal/billing/ledger"
	"github.com/tenders-netizen/quotedesk/internal/billing/store"
	"github.com/tenders-netizen/quotedesk/internal/pkg/idgen"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config struct for YAML configuration
type Config struct {
	HTTPPort     int      `yaml:"HTTP_PORT"`
	DBDriver     string   `yaml:"DB_DRIVER"`
	DBHost       string   `yaml:"DB_HOST"`
	DBPort       int      `yaml:"DB_PORT"`
	DBUser       string   `yaml:"DB_USER"`
	DBPassword   string   `yaml:"DB_PASSWORD"`
	DBName       string   `yaml:"DB_NAME"`
	DBSSLMode    string   `yaml:"DB_SSLMODE"`
	SQLitePath   string   `yaml:"SQLITE_PATH"`
	KafkaBrokers []string `yaml:"KAFKA_BROKERS"`
	Topic        string   `yaml:"TOPIC"`
	JWTSecret    string   `yaml:"JWT_SECRET"`
	Storage      string   `yaml:"STORAGE"` // local | s3
	UploadDir    string   `yaml:"UPLOAD_DIR"`
	PublicBase   string   `yaml:"PUBLIC_BASE_URL"`
	S3Bucket     string   `yaml:"S3_BUCKET"`
	S3AccountID  string   `yaml:"S3_ACCOUNT_ID"`
	S3AccessKey  string   `yaml:"S3_ACCESS_KEY_ID"`
	S3SecretKey  string   `yaml:"S3_SECRET_ACCESS_KEY"`
}

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	recordStore, err := store.New(storeConfig(cfg), logger)
	if err != nil {
		logger.Fatal("failed to initialize record store", zap.Error(err))
	}
	defer func() {
		if err := recordStore.Close(); err != nil {
			logger.Error("failed to close record store", zap.Error(err))
		}
	}()

	var producer directory.EventProducer = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaProducer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
		if err != nil {
			logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
		}
		defer kafkaProducer.Close()
		producer = kafkaProducer
	}

	ctx := context.Background()
	ids := idgen.New()
	companyDir := directory.New(ctx, recordStore, producer, ids, logger)
	quotationLedger := ledger.New(ctx, recordStore, producer, ids, logger)

	storage, local, err := initStorage(cfg)
	if err != nil {
		logger.Fatal("failed to initialize file storage", zap.Error(err))
	}

	h := handlers.New(companyDir, quotationLedger, storage, logger)
	router := handlers.NewRouter(h, cfg.JWTSecret, local)
	server := handlers.NewServer(cfg.HTTPPort, router, logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// loadConfig loads .env first, then the YAML configuration file.
func loadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join("internal", "billing", "config", "config.yaml")
	}
	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	err = yaml.Unmarshal(file, &cfg)
	if err != nil {
		return nil, err
	}
	if cfg.HTTPPort == 0 {
		cfg.HTTPPort = 8080
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = filepath.Join("uploads", "pdfs")
	}
	return &cfg, nil
}

// storeConfig maps the service config onto the record store config.
func storeConfig(cfg *Config) *store.Config {
	return &store.Config{
		Driver:   cfg.DBDriver,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		Path:     cfg.SQLitePath,
	}
}

// initStorage builds the configured blob backend. The *filestore.Local
// return is non-nil only for the local backend, which is also served
// statically.
func initStorage(cfg *Config) (filestore.Storage, *filestore.Local, error) {
	if cfg.Storage == "s3" {
		s3Store, err := filestore.NewS3(&filestore.S3Config{
			Bucket:          cfg.S3Bucket,
			AccountID:       cfg.S3AccountID,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			PublicBaseURL:   cfg.PublicBase,
		})
		return s3Store, nil, err
	}
	local, err := filestore.NewLocal(cfg.UploadDir, cfg.PublicBase)
	return local, local, err
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then shuts down the server.
func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	server.Stop()
	logger.Info("Server stopped properly")
}
