// Command pinyin-lsp runs the pinyin-to-hanzi completion server over
// stdio, speaking the Language Server Protocol.
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/anath2/pinyin-lsp/internal/config"
	"github.com/anath2/pinyin-lsp/internal/lspserver"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	srv, err := lspserver.NewServer(cfg.DBPath, cfg.MigrationsDir, logger)
	if err != nil {
		logger.Fatal("failed to initialize server", zap.Error(err))
	}

	logger.Info("pinyin-lsp starting", zap.String("db_path", cfg.DBPath))

	stream := jsonrpc2.NewStream(stdrwc{})
	if err := srv.Serve(context.Background(), stream); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	// Logs must never land on stdout: that stream carries LSP JSON-RPC
	// traffic. Route them to stderr instead.
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// stdrwc adapts stdin/stdout to io.ReadWriteCloser for jsonrpc2.NewStream.
type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdrwc) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}
