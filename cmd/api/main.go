package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"message-api/internal/auth"
	"message-api/internal/config"
	"message-api/internal/handler"
	"message-api/internal/integrations/paramstore"
	msgrepo "message-api/internal/repository/dynamo/message"
	routes "message-api/internal/router"
	"message-api/internal/server"
	"message-api/internal/service"
	"message-api/internal/storage/dynamo"
)

func main() {
	ctx := context.Background()
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ---- Configuration (read only here) ----
	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	// ---- AWS SDK config ----
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		log.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}

	dynamoAPI := awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.AWS.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWS.DynamoDBEndpoint)
		}
	})

	// ---- Storage, repository, services ----
	storeClient, err := dynamo.New(dynamoAPI, cfg.DynamoDB.TableMessages)
	if err != nil {
		log.Error("failed to create storage client", "err", err)
		os.Exit(1)
	}
	repo, err := msgrepo.NewRepository(storeClient, msgrepo.Indexes{
		SenderMessages: cfg.DynamoDB.IndexSenderMessages,
		CreatedAt:      cfg.DynamoDB.IndexCreatedAt,
	})
	if err != nil {
		log.Error("failed to create message repository", "err", err)
		os.Exit(1)
	}
	msgSvc, err := service.NewMessageService(repo)
	if err != nil {
		log.Error("failed to create message service", "err", err)
		os.Exit(1)
	}

	secret, err := resolveJWTSecret(ctx, cfg, awsCfg)
	if err != nil {
		log.Error("failed to resolve JWT secret", "err", err)
		os.Exit(1)
	}
	users, err := seedUsers()
	if err != nil {
		log.Error("failed to seed user store", "err", err)
		os.Exit(1)
	}
	authSvc, err := auth.NewService(users, secret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Error("failed to create auth service", "err", err)
		os.Exit(1)
	}

	// ---- HTTP server ----
	srv := server.New(cfg.Addr(), log, routes.AppDeps{
		Home:     handler.NewHomeHandler(),
		Auth:     handler.NewAuthHandler(authSvc),
		Message:  handler.NewMessageHandler(msgSvc),
		Verifier: authSvc,
	})

	go func() {
		log.Info("http server listening", "addr", cfg.Addr())
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// resolveJWTSecret prefers the SSM parameter when one is configured and
// falls back to the inline environment secret.
func resolveJWTSecret(ctx context.Context, cfg *config.Config, awsCfg aws.Config) ([]byte, error) {
	if cfg.Auth.JWTSecretParam != "" {
		store, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
		if err != nil {
			return nil, err
		}
		secret, err := store.GetSecret(ctx, cfg.Auth.JWTSecretParam)
		if err != nil {
			return nil, err
		}
		return []byte(secret), nil
	}
	if cfg.Auth.JWTSecret != "" {
		return []byte(cfg.Auth.JWTSecret), nil
	}
	return nil, errors.New("either JWT_SECRET or JWT_SECRET_SSM_PARAM must be set")
}

// seedUsers builds the fixed development accounts. A persistent UserStore
// implementation can replace this without touching the auth service.
func seedUsers() (auth.UserStore, error) {
	alice, err := auth.NewUser("alice", "alice@example.com", "@Abc123", "USER")
	if err != nil {
		return nil, err
	}
	bob, err := auth.NewUser("bob", "bob@example.com", "123!abC", "ADMIN")
	if err != nil {
		return nil, err
	}
	return auth.NewMemoryUserStore(alice, bob), nil
}
