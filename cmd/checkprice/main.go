// checkprice reads one product page the way the tracker does and prints what
// it found.
//
//	go run ./cmd/checkprice [-prefix URL] <url>
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"price_tracker/internal/domain/entity"
	"price_tracker/internal/domain/service/tracking"
	"price_tracker/internal/infrastructure/shop"
	"price_tracker/pkg/contextx"
	"price_tracker/pkg/httpx"
	"price_tracker/pkg/logx"
)

func main() {
	prefix := flag.String("prefix", shop.DefaultURLPrefix, "accepted product URL prefix")
	timeout := flag.Duration("timeout", 30*time.Second, "HTTP timeout")
	verbose := flag.Bool("v", false, "log HTTP traffic")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <url>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}

	log, _ := logx.NewLogger(logx.Options{Level: level})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ctx = contextx.WithLogger(ctx, log)

	product, err := check(ctx, strings.Join(flag.Args(), " "), *prefix, *timeout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}

	fmt.Printf("%s - %s %s\n", product.Name, tracking.FormatPrice(product.Price), product.Currency)
}

func check(ctx context.Context, raw, prefix string, timeout time.Duration) (entity.Product, error) {
	client := &http.Client{
		Timeout: timeout,
		Transport: httpx.NewLoggingRoundTripper(
			http.DefaultTransport,
			httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
			httpx.WithLogFieldMaxLen(2048),
		),
	}

	url, ok := shop.NewValidator(client, prefix, shop.Options{}).Validate(ctx, raw)
	if !ok {
		return entity.Product{}, fmt.Errorf("invalid url")
	}

	product := shop.NewClient(client, shop.Options{}).Details(ctx, url)
	if product.Failed() {
		return entity.Product{}, fmt.Errorf("could not read product details from %s", url)
	}

	return product, nil
}
