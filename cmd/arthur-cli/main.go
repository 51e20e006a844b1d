// Command arthur-cli is a worked example of the Writer/Reader lifecycle: it
// encodes a newline-delimited JSON message stream into an ARTHUR-framed file,
// or decodes one back to JSON, exercising the config/logging/metrics wiring
// around the pure codec in pkg/arthur.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"

	"github.com/handikong/arthur/pkg/arthur"
	"github.com/handikong/arthur/pkg/arthur/arthurmetrics"
	"github.com/handikong/arthur/pkg/config"
	"github.com/handikong/arthur/pkg/logger"
	"github.com/handikong/arthur/pkg/xerr"
)

// Cfg mirrors config/arthur-cli.yaml; config.LoadAndWatch hot-reloads it, but
// every field is read once at startup, so a reload does not affect a running
// invocation.
type Cfg struct {
	LogLevel    string `mapstructure:"log_level"`
	MetricsAddr string `mapstructure:"metrics_addr"`
	BufferSize  int    `mapstructure:"buffer_size"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mode := flag.String("mode", "", "encode | decode")
	in := flag.String("in", "", "input path")
	out := flag.String("out", "", "output path")
	flag.Parse()

	cfg := &Cfg{LogLevel: "info", MetricsAddr: "", BufferSize: 1 << 20}
	if _, err := config.LoadAndWatch("arthur-cli", cfg); err != nil {
		// No config file is fine for a one-shot CLI invocation; defaults apply.
		cfg = &Cfg{LogLevel: "info", BufferSize: 1 << 20}
	}

	logger.Init("arthur-cli", cfg.LogLevel)
	defer logger.Sync()

	runID := uuid.New().String()
	logCtx := context.WithValue(ctx, logger.TraceIdKey, runID)

	recorder := arthurmetrics.NewPromRecorder()
	recorder.MustRegister()
	if cfg.MetricsAddr != "" {
		go serveMetrics(logCtx, cfg.MetricsAddr)
	}

	if *mode == "" || *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "usage: arthur-cli -mode=encode|decode -in=PATH -out=PATH")
		os.Exit(2)
	}

	var err error
	switch *mode {
	case "encode":
		err = runEncode(logCtx, *in, *out, cfg.BufferSize, recorder)
	case "decode":
		err = runDecode(logCtx, *in, *out, recorder)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		logger.Error(logCtx, "arthur-cli failed", zap.Error(err))
		os.Exit(1)
	}
}

func runEncode(ctx context.Context, in, out string, bufSize int, recorder arthurmetrics.Recorder) error {
	src, err := os.Open(in)
	if err != nil {
		return xerr.FromArthurError(err)
	}
	defer src.Close()

	dst, err := os.Create(out)
	if err != nil {
		return xerr.FromArthurError(err)
	}
	w := arthur.NewWriter(dst, arthur.WithWriterMetrics(recorder), arthur.WithWriterBufferSize(bufSize))

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	n := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var r record
		if err := json.Unmarshal(line, &r); err != nil {
			_ = w.Close()
			_ = dst.Close()
			return fmt.Errorf("line %d: %w", n+1, err)
		}
		msg, err := toMessage(r)
		if err != nil {
			_ = w.Close()
			_ = dst.Close()
			return fmt.Errorf("line %d: %w", n+1, err)
		}
		if err := w.Write(msg); err != nil {
			_ = w.Close()
			_ = dst.Close()
			return xerr.FromArthurError(err)
		}
		n++
	}
	if err := scanner.Err(); err != nil {
		_ = w.Close()
		_ = dst.Close()
		return err
	}

	stats := w.Stats()
	logger.Info(ctx, "encoded stream",
		zap.Int("records", n),
		zap.Uint64("bytes_written", stats.BytesWritten),
	)
	if err := w.Close(); err != nil {
		return xerr.FromArthurError(err)
	}
	return dst.Close()
}

func runDecode(ctx context.Context, in, out string, recorder arthurmetrics.Recorder) error {
	src, err := os.Open(in)
	if err != nil {
		return xerr.FromArthurError(err)
	}
	r := arthur.NewReader(src, arthur.WithReaderMetrics(recorder))

	dst, err := os.Create(out)
	if err != nil {
		_ = src.Close()
		return xerr.FromArthurError(err)
	}
	enc := json.NewEncoder(dst)

	n := 0
	for {
		msg, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			_ = r.Close()
			_ = dst.Close()
			return xerr.FromArthurError(err)
		}
		if err := enc.Encode(fromMessage(msg)); err != nil {
			_ = r.Close()
			_ = dst.Close()
			return err
		}
		n++
	}

	stats := r.Stats()
	logger.Info(ctx, "decoded stream",
		zap.Int("records", n),
		zap.Uint64("bytes_read", stats.BytesRead),
	)
	if err := r.Close(); err != nil {
		return xerr.FromArthurError(err)
	}
	return dst.Close()
}

func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error(ctx, "metrics server stopped", zap.Error(err))
	}
}
