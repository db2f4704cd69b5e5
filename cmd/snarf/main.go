// Command snarf resolves and downloads remote resources to disk.
//
// Usage:
//
//	snarf [flags] URL [URL...]
//
// URLs are processed sequentially over one shared connection pool; a
// failed URL does not stop the rest. Flag defaults can come from a
// YAML config file (--config) or SNARF_* environment variables.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/awalker/snarf/client"
	"github.com/awalker/snarf/client/download"
)

// Exit codes
const (
	ExitSuccess        = 0
	ExitGeneralError   = 1
	ExitInvalidArgs    = 2
	ExitDownloadFailed = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("snarf", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: snarf [flags] URL [URL...]")
		flags.PrintDefaults()
	}

	flags.StringP("dir", "d", "", "destination directory (default: current directory)")
	flags.StringP("output", "o", "", "explicit filename, single URL only")
	flags.String("temp-dir", "", "directory for in-flight temp files (default: platform temp)")
	flags.StringSliceP("agent", "A", nil, "identity candidates, tried in order ('' sends no User-Agent)")
	flags.StringSliceP("header", "H", nil, "extra request header as 'Key: Value', repeatable")
	flags.Bool("no-clobber", false, "fail when the destination file already exists")
	flags.Bool("ignore-date", false, "do not apply the server's Last-Modified timestamp")
	flags.Bool("block", false, "mark the downloaded file as an untrusted internet download")
	flags.BoolP("quiet", "q", false, "suppress progress reporting")
	flags.Bool("passthru", false, "print the final path of each downloaded file")
	flags.Duration("timeout", 0, "overall per-request timeout (0 = transport defaults)")
	flags.String("config", "", "YAML config file providing flag defaults")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return ExitSuccess
		}
		return ExitInvalidArgs
	}

	urls := flags.Args()
	if len(urls) == 0 {
		flags.Usage()
		return ExitInvalidArgs
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		fmt.Fprintf(stderr, "snarf: %v\n", err)
		return ExitGeneralError
	}

	if cfg.Output != "" && len(urls) > 1 {
		fmt.Fprintln(stderr, "snarf: --output requires exactly one URL")
		return ExitInvalidArgs
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	header, err := parseHeaders(cfg.Headers)
	if err != nil {
		fmt.Fprintf(stderr, "snarf: %v\n", err)
		return ExitInvalidArgs
	}

	opts := []client.Option{client.WithLogger(logger)}
	if cfg.Timeout > 0 {
		opts = append(opts, client.WithTimeout(cfg.Timeout))
	}

	c, err := client.Build(opts...)
	if err != nil {
		fmt.Fprintf(stderr, "snarf: building client: %v\n", err)
		return ExitGeneralError
	}

	reqs := make([]download.Request, 0, len(urls))
	for _, u := range urls {
		reqs = append(reqs, download.Request{
			URL:           u,
			Dir:           cfg.Dir,
			Filename:      cfg.Output,
			Identities:    cfg.Agents,
			Header:        header,
			TempDir:       cfg.TempDir,
			IgnoreDate:    cfg.IgnoreDate,
			MarkUntrusted: cfg.Block,
			NoClobber:     cfg.NoClobber,
			NoProgress:    cfg.Quiet,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := c.DownloadAll(ctx, reqs)

	if cfg.Passthru {
		for _, r := range results {
			if r != nil {
				fmt.Fprintln(stdout, r.Path)
			}
		}
	}

	if err != nil {
		logger.Error("one or more downloads failed", "error", err)
		return ExitDownloadFailed
	}

	return ExitSuccess
}

// parseHeaders converts repeated 'Key: Value' strings into a header map.
func parseHeaders(raw []string) (http.Header, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	header := http.Header{}
	for _, h := range raw {
		key, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("malformed header %q, want 'Key: Value'", h)
		}
		header.Add(strings.TrimSpace(key), strings.TrimSpace(value))
	}

	return header, nil
}
