package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cinechat/backend/internal/config"
	"github.com/cinechat/backend/internal/handler"
	authService "github.com/cinechat/backend/internal/service/auth"
	"github.com/cinechat/backend/internal/service/catalog"
	chatService "github.com/cinechat/backend/internal/service/chat"
	mongodb "github.com/cinechat/backend/internal/store/mongo"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	st, err := mongodb.Connect(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database)
	cancel()
	if err != nil {
		log.Fatalf("failed to connect storage: %v", err)
	}
	log.Println("storage connected")
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Disconnect(disconnectCtx); err != nil {
			log.Printf("storage disconnect: %v", err)
		}
	}()

	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, cfg.Catalog.Timeout)
	resolver := catalog.NewResolver(catalogClient)

	authSvc := authService.NewService(st, cfg.Auth.JWTSecret)
	chatSvc := chatService.NewService(st, resolver)

	router := handler.NewRouter(authSvc, chatSvc, st, cfg.Server.FrontOrigin, cfg.Auth.SecureCookie)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("cinechat backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
