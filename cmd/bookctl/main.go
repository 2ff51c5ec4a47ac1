package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path"
	"runtime"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"bookcatalog/internal/books"
	"bookcatalog/internal/logger"
)

func getEnvOrDefault(key, default_ string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}

	return default_
}

func getBoolEnv(key string) bool {
	if val := strings.ToLower(os.Getenv(key)); val == "yes" || val == "on" || val == "true" {
		return true
	}

	return false
}

var (
	apiUrl    = getEnvOrDefault("BOOKS_API_URL", "http://localhost:8000")
	logLevel  = strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info"))
	httpTrace = getBoolEnv("HTTP_TRACE")
)

func main() {
	_, thisFile, _, _ := runtime.Caller(0)

	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(logLevel))
	if err != nil {
		lvl = slog.LevelInfo
	}
	logger.SetupSLog(lvl, path.Dir(path.Dir(path.Dir(thisFile))), books.RequestIdKey)

	if err != nil {
		slog.Error("Invalid log level specified in LOG_LEVEL, one of debug, info, warn or error expected")
		os.Exit(1)
	}

	base, err := url.Parse(apiUrl)
	if err != nil || base.Scheme == "" || base.Host == "" {
		slog.Error("Invalid URL in BOOKS_API_URL: " + apiUrl)
		os.Exit(1)
	}

	client := &http.Client{}
	if httpTrace {
		client.Transport = logger.NewHTTPTracer(nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{
		repo:   books.NewHTTPRepository(base, client, slog.Default()),
		base:   base,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	code := a.run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
