package config

type App struct {
	Port         string  `env:"APP_PORT" default:"8080"`
	DatabaseURL  string  `env:"DATABASE_URL,required"`
	JWTSecret    string  `env:"JWT_SECRET,required"`
	RedisAddr    string  `env:"REDIS_ADDR" default:"localhost:6379"`
	MailerURL    string  `env:"MAILER_URL"`
	MailerAPIKey string  `env:"MAILER_API_KEY"`
	ShippingCost float64 `env:"SHIPPING_COST" default:"5"`
	Env          string  `env:"APP_ENV" default:"dev"`

	// pricing knobs
	VolumeThreshold  int64   `env:"VOLUME_ITEM_THRESHOLD" default:"5"`
	VolumePct        float64 `env:"VOLUME_DISCOUNT_PCT" default:"5"`
	LoyaltyThreshold int64   `env:"LOYALTY_ORDER_THRESHOLD" default:"10"`
	LoyaltyPct       float64 `env:"LOYALTY_DISCOUNT_PCT" default:"10"`
}
