package app

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"tooltrack/db"
	"tooltrack/storage"
	"tooltrack/token"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Ctx = gin.Context
type H = gin.H

// App aggregates the process-wide dependencies.
type App struct {
	Router  *gin.Engine
	DB      *gorm.DB
	RDB     *redis.Client
	Storage *storage.Gateway
	Issuer  *token.Issuer
	Config  Config
}

type Config struct {
	RedisAddr string
	RedisPwd  string
	WebOrigin string

	TokenTTL     time.Duration
	BorrowPeriod time.Duration
	UploadDir    string

	Storage storage.Config
}

func MustNew() *App {
	// Missing .env is fine in deployed environments.
	_ = godotenv.Load()

	cfg := loadConfig()

	// The signing key is operational secret material; refuse to run without it.
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	dbConn := db.ConnectDB()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	gw, err := storage.NewGateway(cfg.Storage)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	r := gin.Default()
	useCORS(r, cfg.WebOrigin)

	return &App{
		Router:  r,
		DB:      dbConn,
		RDB:     rdb,
		Storage: gw,
		Issuer:  token.NewIssuer([]byte(secret), cfg.TokenTTL),
		Config:  cfg,
	}
}

func (a *App) Close() { _ = a.RDB.Close() }

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}

	ttl := 30 * time.Minute
	if secs, err := strconv.Atoi(get("TOKEN_TTL_SECONDS", "")); err == nil && secs > 0 {
		ttl = time.Duration(secs) * time.Second
	}

	// Approval policy: how long a borrower keeps a tool before it is due.
	borrow := 48 * time.Hour
	if hrs, err := strconv.Atoi(get("BORROW_PERIOD_HOURS", "")); err == nil && hrs > 0 {
		borrow = time.Duration(hrs) * time.Hour
	}

	return Config{
		RedisAddr: get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:  os.Getenv("REDIS_PASSWORD"),
		WebOrigin: get("WEB_ORIGIN", "http://localhost:5173"),

		TokenTTL:     ttl,
		BorrowPeriod: borrow,
		UploadDir:    get("UPLOAD_DIR", "uploads"),

		Storage: storage.Config{
			Endpoint:  get("S3_ENDPOINT", "127.0.0.1:9000"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			UseSSL:    strings.EqualFold(get("S3_USE_SSL", "false"), "true"),
			Bucket:    get("S3_BUCKET", "tooltrack"),
			KeyPrefix: get("S3_KEY_PREFIX", "tooltrack/"),
		},
	}
}
