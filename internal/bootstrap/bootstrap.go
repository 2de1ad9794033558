// Package bootstrap builds the long-lived components shared by the HTTP
// server and the CLI from a loaded configuration.
package bootstrap

import (
	"context"
	"fmt"

	"booky/internal/catalog"
	"booky/internal/config"
	"booky/internal/platform/openlibrary"
	"booky/internal/readinglist"
	"booky/internal/store"
)

type Components struct {
	Config   config.Config
	Slots    store.Slots
	Catalog  *catalog.Service
	ReadList *readinglist.Store
}

// Open connects the slot store, reads the read list once and builds the
// catalog service. Close must be called when done.
func Open(ctx context.Context, cfg config.Config) (*Components, error) {
	slots, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, err
	}

	readList, err := readinglist.Open(ctx, slots)
	if err != nil {
		_ = slots.Close()
		return nil, fmt.Errorf("open read list: %w", err)
	}

	client := openlibrary.NewClient(OpenLibraryConfig(cfg))

	return &Components{
		Config:   cfg,
		Slots:    slots,
		Catalog:  catalog.NewService(client),
		ReadList: readList,
	}, nil
}

func OpenLibraryConfig(cfg config.Config) openlibrary.Config {
	ol := cfg.OpenLibrary
	return openlibrary.Config{
		BaseURL:     ol.BaseURL,
		CoversURL:   ol.CoversURL,
		UserAgent:   ol.UserAgent,
		RPS:         ol.RPS,
		MaxRetries:  ol.MaxRetries,
		Timeout:     ol.Timeout,
		EscapeQuery: ol.EscapeQuery,
	}
}

func (c *Components) Close() error {
	return c.Slots.Close()
}
