package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

func Load() App {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := App{
		Port:                   getenv("APP_PORT", "8080"),
		DatabaseURL:            must("DATABASE_URL"),
		JWTSecret:              getenv("JWT_SECRET", "local_dev_secret"),
		FCMServerKey:           os.Getenv("FCM_SERVER_KEY"),
		Env:                    getenv("APP_ENV", "dev"),
		AllowDuplicateRequests: os.Getenv("ALLOW_DUPLICATE_REQUESTS") == "true",
		ReminderSchedule:       getenv("REMINDER_SCHEDULE", "0 8 * * *"),
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}
