package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"

	"booky/internal/config"
	"booky/internal/readinglist"
	"booky/internal/store"
)

// seed loads a read list exported from the browser (the JSON value of its
// "read" key) into the configured store.
func main() {
	var (
		file    = flag.String("file", "", "JSON file to import, - for stdin")
		replace = flag.Bool("replace", false, "drop the existing read list first")
	)
	flag.Parse()

	if *file == "" {
		log.Fatal("-file is required")
	}

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	in := io.Reader(os.Stdin)
	if *file != "-" {
		f, err := os.Open(*file)
		if err != nil {
			log.Fatalf("Failed to open %s: %v", *file, err)
		}
		defer f.Close()
		in = f
	}

	ctx := context.Background()
	slots, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer slots.Close()

	n, err := seed(ctx, slots, in, *replace)
	if err != nil {
		log.Fatalf("Failed to seed read list: %v", err)
	}
	log.Printf("Successfully imported %d books!", n)
}

func seed(ctx context.Context, slots readinglist.Slots, in io.Reader, replace bool) (int, error) {
	entries, err := readinglist.DecodeEntries(in)
	if err != nil {
		return 0, err
	}

	rl, err := readinglist.Open(ctx, slots)
	if err != nil {
		return 0, err
	}
	if replace {
		err = rl.ReplaceAll(ctx, entries)
	} else {
		err = rl.AppendAll(ctx, entries)
	}
	if err != nil {
		return 0, err
	}
	log.Printf("read list now holds %d books", rl.Len())
	return len(entries), nil
}
