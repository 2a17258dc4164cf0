package config

type App struct {
	Port         string `env:"APP_PORT" default:"8080"`
	DatabaseURL  string `env:"DATABASE_URL,required"`
	JWTSecret    string `env:"JWT_SECRET,required"`
	FCMServerKey string `env:"FCM_SERVER_KEY"`
	Env          string `env:"APP_ENV" default:"dev"`

	// Borrow policy: allow a user to hold more than one open request
	// (Pending or Approved) for the same book.
	AllowDuplicateRequests bool `env:"ALLOW_DUPLICATE_REQUESTS" default:"false"`

	// Cron spec for the due/overdue reminder scan.
	ReminderSchedule string `env:"REMINDER_SCHEDULE" default:"0 8 * * *"`
}
