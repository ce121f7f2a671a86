package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/updates"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gramfold/pkg/normalize"
)

const (
	envConfigFile           = "GRAMWATCH_CONFIG_FILE"
	defaultConfigFilePath   = "config/gramwatch.json"
	alternateConfigFilePath = "bin/config/gramwatch.json"

	defaultSessionFile     = ".cache/gramwatch/session.json"
	defaultReplyDepth      = 1
	defaultStickerCacheTTL = time.Hour
)

type appConfig struct {
	logLevel zapcore.Level

	appID    int
	appHash  string
	phone    string
	password string

	sessionFile     string
	replyDepth      int
	stickerCacheTTL time.Duration
}

type fileConfig struct {
	LogLevel        string `json:"log_level"`
	AppID           int    `json:"app_id"`
	AppHash         string `json:"app_hash"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	SessionFile     string `json:"session_file"`
	ReplyDepth      *int   `json:"reply_depth"`
	StickerCacheTTL string `json:"sticker_cache_ttl"`
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logConfig := zap.NewProductionConfig()
	logConfig.Level = zap.NewAtomicLevelAt(cfg.logLevel)
	logConfig.OutputPaths = []string{"stderr"}
	logger, err := logConfig.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	sessionStorage, err := newSessionStorage(cfg.sessionFile)
	if err != nil {
		return fmt.Errorf("new session storage: %w", err)
	}

	dispatcher := tg.NewUpdateDispatcher()
	gaps := updates.New(updates.Config{
		Handler: dispatcher,
		Logger:  logger.Named("gaps"),
	})
	client := telegram.NewClient(cfg.appID, cfg.appHash, telegram.Options{
		Logger:         logger.Named("client"),
		UpdateHandler:  gaps,
		SessionStorage: sessionStorage,
	})

	fetcher := normalize.NewAPIFetcher(client.API())
	resolver := normalize.NewMemoStickerSetResolver(
		normalize.NewAPIStickerSetResolver(client.API()),
		cfg.stickerCacheTTL,
	)
	normalizer := normalize.NewMessageNormalizer(
		normalize.WithMediaNormalizer(normalize.NewMediaNormalizer(
			normalize.WithStickerSetResolver(resolver),
			normalize.WithMediaLogger(logger.Named("media")),
		)),
		normalize.WithFetcher(fetcher),
		normalize.WithLogger(logger.Named("normalize")),
	)
	fetcher.Bind(normalizer)

	w := &watcher{
		normalizer: normalizer,
		replyDepth: cfg.replyDepth,
		out:        json.NewEncoder(os.Stdout),
		logger:     logger.Named("watch"),
	}
	w.register(dispatcher)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = client.Run(ctx, func(ctx context.Context) error {
		flow := auth.NewFlow(
			auth.Constant(cfg.phone, cfg.password, auth.CodeAuthenticatorFunc(promptCode)),
			auth.SendCodeOptions{},
		)
		if err := client.Auth().IfNecessary(ctx, flow); err != nil {
			return fmt.Errorf("authenticate: %w", err)
		}

		self, err := client.Self(ctx)
		if err != nil {
			return fmt.Errorf("get self: %w", err)
		}
		logger.Info("watching updates", zap.Int64("user_id", self.ID))

		return gaps.Run(ctx, client.API(), self.ID, updates.AuthOptions{IsBot: self.Bot})
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run client: %w", err)
	}

	return nil
}

func loadConfig() (appConfig, error) {
	configFile, err := resolveConfigFilePath()
	if err != nil {
		return appConfig{}, err
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return appConfig{}, fmt.Errorf("read config file %s: %w", configFile, err)
	}

	cfg, err := parseConfig(data)
	if err != nil {
		return appConfig{}, fmt.Errorf("parse config file %s: %w", configFile, err)
	}

	return cfg, nil
}

func resolveConfigFilePath() (string, error) {
	if configFile := strings.TrimSpace(os.Getenv(envConfigFile)); configFile != "" {
		return configFile, nil
	}

	for _, candidate := range []string{defaultConfigFilePath, alternateConfigFilePath} {
		info, err := os.Stat(candidate)
		if err == nil {
			if info.IsDir() {
				return "", fmt.Errorf("config file %s is a directory", candidate)
			}
			return candidate, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("stat config file %s: %w", candidate, err)
		}
	}

	return "", fmt.Errorf(
		"config file not found; create %s or %s, or set %s",
		defaultConfigFilePath,
		alternateConfigFilePath,
		envConfigFile,
	)
}

func parseConfig(data []byte) (appConfig, error) {
	var parsed fileConfig
	if err := json.Unmarshal(data, &parsed); err != nil {
		return appConfig{}, fmt.Errorf("unmarshal: %w", err)
	}

	cfg := appConfig{
		logLevel:        zapcore.InfoLevel,
		appID:           parsed.AppID,
		appHash:         strings.TrimSpace(parsed.AppHash),
		phone:           strings.TrimSpace(parsed.Phone),
		password:        parsed.Password,
		sessionFile:     strings.TrimSpace(parsed.SessionFile),
		replyDepth:      defaultReplyDepth,
		stickerCacheTTL: defaultStickerCacheTTL,
	}

	if level := strings.TrimSpace(parsed.LogLevel); level != "" {
		parsedLevel, err := zapcore.ParseLevel(level)
		if err != nil {
			return appConfig{}, fmt.Errorf("parse log_level: %w", err)
		}
		cfg.logLevel = parsedLevel
	}
	if parsed.ReplyDepth != nil {
		if *parsed.ReplyDepth < 0 {
			return appConfig{}, fmt.Errorf("reply_depth must be >= 0")
		}
		cfg.replyDepth = *parsed.ReplyDepth
	}
	if ttl := strings.TrimSpace(parsed.StickerCacheTTL); ttl != "" {
		parsedTTL, err := time.ParseDuration(ttl)
		if err != nil {
			return appConfig{}, fmt.Errorf("parse sticker_cache_ttl: %w", err)
		}
		if parsedTTL <= 0 {
			return appConfig{}, fmt.Errorf("parse sticker_cache_ttl: must be > 0")
		}
		cfg.stickerCacheTTL = parsedTTL
	}
	if cfg.sessionFile == "" {
		cfg.sessionFile = defaultSessionFile
	}

	if cfg.appID <= 0 {
		return appConfig{}, fmt.Errorf("app_id must be > 0")
	}
	if cfg.appHash == "" {
		return appConfig{}, fmt.Errorf("app_hash is required")
	}
	if cfg.phone == "" {
		return appConfig{}, fmt.Errorf("phone is required")
	}

	return cfg, nil
}

func newSessionStorage(path string) (*session.FileStorage, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve absolute session file path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}

	return &session.FileStorage{Path: absPath}, nil
}

func promptCode(ctx context.Context, sentCode *tg.AuthSentCode) (string, error) {
	fmt.Fprint(os.Stderr, "login code: ")
	code, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read login code: %w", err)
	}

	return strings.TrimSpace(code), nil
}
