package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"booky/internal/bootstrap"
	"booky/internal/config"
	apphttp "booky/internal/http"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("startup error: %v", err)
	}
	defer components.Close()

	router := apphttp.NewRouter(ctx, apphttp.RouterDeps{
		Catalog:  components.Catalog,
		ReadList: components.ReadList,
		Store:    components.Slots,
		HTTP:     cfg.HTTP,
	})

	if err := apphttp.Serve(ctx, cfg.Addr, router); err != nil {
		log.Printf("server error: %v", err)
		components.Close()
		os.Exit(1)
	}
}
