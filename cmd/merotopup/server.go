package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bishalghimire/merotopup-backend/internal/ai"
	"github.com/bishalghimire/merotopup-backend/internal/chat"
	"github.com/bishalghimire/merotopup-backend/internal/game"
	"github.com/bishalghimire/merotopup-backend/internal/logger"
	"github.com/bishalghimire/merotopup-backend/internal/order"
	"github.com/bishalghimire/merotopup-backend/internal/payment"
	"github.com/bishalghimire/merotopup-backend/internal/router"
	"github.com/bishalghimire/merotopup-backend/internal/store"
	"github.com/bishalghimire/merotopup-backend/internal/storage"
	firebase "github.com/bishalghimire/merotopup-backend/internal/storage/firebase"
	"github.com/bishalghimire/merotopup-backend/internal/user"
)

func main() {
	if err := run(); err != nil {
		panic(err)
	}
}

func run() error {
	cfg, err := NewConfig()
	if err != nil {
		log.Fatal(err)
	}
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := store.NewClient(cfg.StoreURL, store.Options{
		Timeout:     cfg.StoreTimeout,
		MaxAttempts: cfg.StoreAttempts,
		BaseDelay:   cfg.StoreRetryBase,
	})
	var st storage.Storage = firebase.NewFirebaseStorage(client)

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	defer cancelPing()
	if err := st.Ping(pingCtx); err != nil {
		log.Fatalf("Unable to reach document store: %v", err)
	}

	userSvc := user.NewService(st, []byte(cfg.JWTSecret), cfg.JWTTTL)
	userHandler := user.NewHandler(userSvc)

	tasks := order.NewTasks(cfg.TaskQueue)
	notifier := order.NewRelayNotifier(cfg.NotifyURL, cfg.StoreTimeout)
	orderSvc := order.NewService(st, tasks, notifier)
	orderHandler := order.NewHandler(orderSvc, userSvc)

	assistant := ai.NewClient(cfg.ModelAPIKey, cfg.ModelTimeout)
	chatHandler := chat.NewHandler(assistant, st, st)

	gameSvc := game.NewService(st)
	gameHandler := game.NewHandler(gameSvc)
	paymentHandler := payment.NewHandler()

	r := router.NewRouter(userHandler, orderHandler, chatHandler, gameHandler, paymentHandler, []byte(cfg.JWTSecret), st)

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go tasks.Run(ctx, cfg.TaskWorkers)

	go func() {
		log.Printf("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
	return nil
}
