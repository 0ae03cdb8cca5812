// Command blobcat writes a byte range of a file to stdout, or prints its
// digest or OCI descriptor.
//
// The file is stat'ed once when the blob is created. With -check-delay the
// read is postponed, which makes it easy to observe the staleness check by
// editing the file in the meantime.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/meigma/fsblob"
)

const (
	modeCat        = "cat"
	modeDigest     = "digest"
	modeDescriptor = "descriptor"
)

type config struct {
	path       string
	mode       string
	start      int64
	end        int64
	typ        string
	detect     bool
	chunkSize  int
	checkDelay time.Duration
	verbose    bool
}

func main() {
	cfg := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, fsblob.ErrNotReadable) {
			log.Fatalf("%s changed since it was opened: %v", cfg.path, err)
		}
		log.Fatal(err)
	}
}

func parseFlags() config {
	var cfg config
	flag.StringVar(&cfg.mode, "mode", modeCat, "mode: cat, digest, descriptor")
	flag.Int64Var(&cfg.start, "start", 0, "range start; negative counts from the end")
	flag.Int64Var(&cfg.end, "end", -1, "range end (exclusive); -1 means end of file, other negatives count from the end")
	flag.StringVar(&cfg.typ, "type", "", "MIME type reported by descriptor mode")
	flag.BoolVar(&cfg.detect, "detect-type", false, "sniff the MIME type when -type is empty")
	flag.IntVar(&cfg.chunkSize, "chunk-size", fsblob.DefaultChunkSize, "read chunk size in bytes")
	flag.DurationVar(&cfg.checkDelay, "delay", 0, "wait this long between opening and reading the file")
	flag.BoolVar(&cfg.verbose, "v", false, "debug logging to stderr")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: blobcat [flags] <file>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	cfg.path = flag.Arg(0)
	return cfg
}

func run(ctx context.Context, cfg config, stdout, stderr io.Writer) error {
	logger := slog.New(slog.DiscardHandler)
	if cfg.verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	b, err := fsblob.BlobFrom(cfg.path,
		fsblob.FromWithType(cfg.typ),
		fsblob.FromWithDetectType(cfg.detect),
		fsblob.FromWithChunkSize(cfg.chunkSize),
		fsblob.FromWithLogger(logger),
	)
	if err != nil {
		return err
	}

	end := cfg.end
	if end == -1 {
		end = b.Size()
	}
	b = b.Slice(cfg.start, end, fsblob.WithType(b.Type()), fsblob.WithLogger(logger))

	if cfg.checkDelay > 0 {
		select {
		case <-time.After(cfg.checkDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	switch cfg.mode {
	case modeCat:
		rc := b.Reader(ctx)
		defer rc.Close()
		_, err := io.Copy(stdout, rc)
		return err
	case modeDigest:
		dgst, err := b.Digest(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, dgst)
		return err
	case modeDescriptor:
		desc, err := b.Descriptor(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(desc)
	default:
		return fmt.Errorf("unknown mode %q", cfg.mode)
	}
}
