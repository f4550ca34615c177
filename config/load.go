package config

import (
	"log/slog"
	"os"
	"strconv"
)

func Load() App {
	cfg := App{
		Port:         getenv("APP_PORT", "8080"),
		DatabaseURL:  must("DATABASE_URL"),
		JWTSecret:    getenv("JWT_SECRET", "local_dev_secret"),
		RedisAddr:    getenv("REDIS_ADDR", "localhost:6379"),
		MailerURL:    os.Getenv("MAILER_URL"),
		MailerAPIKey: os.Getenv("MAILER_API_KEY"),
		ShippingCost: getfloat("SHIPPING_COST", 5),
		Env:          getenv("APP_ENV", "dev"),

		VolumeThreshold:  getint("VOLUME_ITEM_THRESHOLD", 5),
		VolumePct:        getfloat("VOLUME_DISCOUNT_PCT", 5),
		LoyaltyThreshold: getint("LOYALTY_ORDER_THRESHOLD", 10),
		LoyaltyPct:       getfloat("LOYALTY_DISCOUNT_PCT", 10),
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		slog.Warn("bad float env, using default", "key", k, "value", v)
	}
	return def
}

func getint(k string, def int64) int64 {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
		slog.Warn("bad int env, using default", "key", k, "value", v)
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
