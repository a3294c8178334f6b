package config

import "os"

type Config struct {
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	RedisURL         string
	JWTSecret        string
	ServerPort       string
	VAPIDPublicKey   string
	VAPIDPrivateKey  string
	VAPIDSubscriber  string
	ReminderInterval string
	ReminderLead     string
}

func Load() *Config {
	return &Config{
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", "postgres"),
		DBName:           getEnv("DB_NAME", "robeurope"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:        getEnv("JWT_SECRET", "super-secret-key-change-me"),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		VAPIDPublicKey:   getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey:  getEnv("VAPID_PRIVATE_KEY", ""),
		VAPIDSubscriber:  getEnv("VAPID_SUBSCRIBER", "mailto:admin@localhost"),
		ReminderInterval: getEnv("REMINDER_INTERVAL_MINUTES", "30"),
		ReminderLead:     getEnv("REMINDER_LEAD_HOURS", "24"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
