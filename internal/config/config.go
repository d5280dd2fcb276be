package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port              string
	AppEnv            string
	MongoURI          string
	MongoDB           string
	LogLevel          string
	StaticDir         string
	StaticPrecompress bool
	RateLimitRPS      float64
	RateLimitBurst    int
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	return &Config{
		Port:              v.GetString("PORT"),
		AppEnv:            v.GetString("APP_ENV"),
		MongoURI:          v.GetString("MONGODB_URI"),
		MongoDB:           v.GetString("MONGODB_DATABASE"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		StaticDir:         v.GetString("STATIC_DIR"),
		StaticPrecompress: v.GetBool("STATIC_PRECOMPRESS"),
		RateLimitRPS:      v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:    v.GetInt("RATE_LIMIT_BURST"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "todos")
	v.SetDefault("LOG_LEVEL", "debug")
	v.SetDefault("STATIC_DIR", "")
	v.SetDefault("STATIC_PRECOMPRESS", false)
	v.SetDefault("RATE_LIMIT_RPS", 0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
