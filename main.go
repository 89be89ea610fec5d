package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"social-graph/config"
	"social-graph/handlers"
	"social-graph/logger"
	socialpb "social-graph/proto/social"
	"social-graph/repo"
	"social-graph/service"
	"social-graph/util"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "social-graph:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Env); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Get()

	// --- Repo layer ---
	store, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	// --- Service layer ---
	tokens := util.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	feed := &service.FeedService{Users: store, Graph: store, Favorites: store, Tweets: store}
	svc := handlers.Services{
		Followers: &service.FollowerService{Graph: store, Logger: log},
		Favorites: &service.FavoriteService{Favorites: store, Logger: log},
		Feed:      feed,
		Recs:      &service.RecommendationService{Users: store, Graph: store, DefaultLimit: cfg.RecommendationLimit},
		Accounts:  service.NewAccountService(store, util.NewBcryptHasher(0), tokens, log),
		Tweets:    &service.TweetService{Tweets: store, Feed: feed},
	}

	// --- gRPC server ---
	lis, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Address, err)
	}
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
		handlers.LoggingInterceptor(log),
		handlers.AuthInterceptor(tokens),
	))
	socialpb.RegisterSocialServiceServer(grpcServer, handlers.NewSocialHandler(svc, log))
	reflection.Register(grpcServer)

	// --- HTTP server ---
	var httpServer *http.Server
	if cfg.HTTPAddress != "" {
		if cfg.IsProduction() {
			gin.SetMode(gin.ReleaseMode)
		}
		httpServer = &http.Server{
			Addr:              cfg.HTTPAddress,
			Handler:           handlers.NewRouter(handlers.RouterDeps{Services: svc, Tokens: tokens, Store: store, Logger: log}),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Starting gRPC server", zap.String("addr", cfg.Address))
		return grpcServer.Serve(lis)
	})
	if httpServer != nil {
		g.Go(func() error {
			log.Info("Starting HTTP server", zap.String("addr", cfg.HTTPAddress))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	// --- graceful shutdown ---
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if httpServer != nil {
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				log.Error("HTTP server forced to shutdown", zap.Error(err))
			}
		}
		grpcServer.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	log.Info("Server exited")
	return nil
}

func openStore(cfg config.Config, log *zap.Logger) (repo.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreNeo4j:
		r, err := repo.NewNeo4jRepository(cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPass, log)
		if err != nil {
			return nil, fmt.Errorf("connect to Neo4j: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := r.EnsureSchema(ctx); err != nil {
			_ = r.Close(context.Background())
			return nil, fmt.Errorf("ensure Neo4j schema: %w", err)
		}
		return r, nil
	default:
		r, err := repo.NewSQLiteRepository(cfg.SQLitePath, log)
		if err != nil {
			return nil, fmt.Errorf("open SQLite: %w", err)
		}
		return r, nil
	}
}
