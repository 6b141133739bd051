package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/virtuality-fashion-backend/api"
	"github.com/rpupo63/virtuality-fashion-backend/catalog"
	"github.com/rpupo63/virtuality-fashion-backend/config"
	"github.com/rpupo63/virtuality-fashion-backend/database"
	"github.com/rpupo63/virtuality-fashion-backend/leads"
	"github.com/rpupo63/virtuality-fashion-backend/models"
	"github.com/rpupo63/virtuality-fashion-backend/ratelimit"
	"github.com/rpupo63/virtuality-fashion-backend/services"
	"github.com/rpupo63/virtuality-fashion-backend/storage"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()
	setupLogging(c)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Parameters from SSM only fill keys the environment leaves empty
	if prefix := config.GetString(c, "SSM_PARAMETER_PATH", ""); prefix != "" {
		client, err := config.NewSSMClient(ctx, config.GetString(c, "AWS_REGION", "us-east-1"))
		if err != nil {
			log.Fatal().Err(err).Msg("Error creating SSM client")
		}
		params, err := config.LoadParameters(ctx, client, prefix)
		if err != nil {
			log.Fatal().Err(err).Str("path", prefix).Msg("Error loading SSM parameters")
		}
		config.Merge(c, params)
		log.Info().Int("count", len(params)).Msg("Loaded SSM parameters")
	}

	fmt.Printf("DB_TYPE: %s\n", config.GetString(c, "DB_TYPE", "supa"))
	db, err := database.Open(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		fmt.Println("Generating models and query helpers...")
		models.GenerateModels(db)
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		fmt.Println("Generating column mismatch report...")
		models.GenerateColumnMismatchReportStandalone(db)
		return
	}

	if config.GetBool(c, "AUTO_MIGRATE", false) {
		if err := database.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Error migrating database")
		}
		log.Info().Msg("Database migration completed")
	}

	currentDB := database.New(db)

	policy, err := catalog.ParseFallbackPolicy(config.GetString(c, "TEAM_FALLBACK_POLICY", ""))
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid TEAM_FALLBACK_POLICY")
	}
	cat := catalog.New(currentDB.TeamMemberRepo(), currentDB.PortfolioItemRepo(), catalog.WithFallbackPolicy(policy))

	httpClient := &http.Client{Timeout: config.GetSeconds(c, "RELAY_TIMEOUT_SECONDS", 15)}
	deps := api.Deps{
		Catalog: cat,
		Leads:   leads.NewSubmitter(services.NewFormRelay(c, httpClient), newLeadNotifier(c, httpClient)),
	}

	if config.GetString(c, "STORAGE_ENDPOINT", "") != "" || config.GetString(c, "STORAGE_ACCESS_KEY_ID", "") != "" {
		store, err := storage.NewS3Store(ctx, storage.S3ConfigFromEnv(c))
		if err != nil {
			log.Fatal().Err(err).Msg("Error creating object storage client")
		}
		deps.Uploads = storage.NewGateway(store)
	} else {
		log.Warn().Msg("Object storage not configured, image uploads are disabled")
	}

	if redisURL := config.GetString(c, "REDIS_URL", ""); redisURL != "" {
		limiter, err := ratelimit.NewRedisLimiter(ctx, redisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Error connecting to Redis")
		}
		defer limiter.Close()
		deps.Limiter = limiter
	} else {
		deps.Limiter = ratelimit.NewMemoryLimiter()
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(c, deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	if !errors.Is(fatalErr, http.ErrServerClosed) {
		fmt.Printf("Closing server: %v\n", fatalErr)
	}

	server.ShutdownGracefully(30 * time.Second)
}

// newLeadNotifier returns nil when Resend is not configured; leads are then
// only relayed.
func newLeadNotifier(c map[string]string, httpClient *http.Client) leads.Notifier {
	recipients := config.GetStrings(c, "LEAD_NOTIFY_EMAILS")
	if len(recipients) == 0 {
		return nil
	}
	mailer, err := services.NewMailer(c, httpClient)
	if err != nil {
		log.Warn().Err(err).Msg("Lead notification emails are disabled")
		return nil
	}
	return services.NewLeadNotifier(mailer, recipients)
}

func setupLogging(c map[string]string) {
	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if config.GetBool(c, "LOG_PRETTY", false) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
