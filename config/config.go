package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	AppName     string
	Debug       bool
	Server      Server
	Database    Database
	Redis       Redis
	Gemini      Gemini
	JWT         JWT
	Mail        Mail
	Leaderboard Leaderboard
}

type Server struct {
	Port           string
	CORSOrigins    []string
	MaxUploadMB    int64
	UploadDir      string
	GinMode        string
	ShutdownWait   time.Duration
	WSRequireToken bool // refuse websocket connections that only pass user_id
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Gemini struct {
	ApiKey         string
	QuizModel      string
	FlashcardModel string
}

type JWT struct {
	Secret     string
	Expiration time.Duration
}

type Mail struct {
	SendGridApiKey string
	From           string
	ResetCodeTTL   time.Duration
}

type Leaderboard struct {
	CacheTTL time.Duration
	Size     int
}

var configFile = pflag.String("config", ".env", "path to the env file to load")

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "StudyBuddy")
	v.SetDefault("DEBUG", true)
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("MAX_UPLOAD_MB", 10)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SHUTDOWN_WAIT", 10*time.Second)
	v.SetDefault("WS_REQUIRE_TOKEN", false)
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("GEMINI_QUIZ_MODEL", "gemini-2.0-flash")
	v.SetDefault("GEMINI_FLASHCARD_MODEL", "gemini-1.5-pro-latest")
	v.SetDefault("JWT_EXPIRATION", 24*time.Hour)
	v.SetDefault("MAIL_FROM", "noreply@studybuddy.local")
	v.SetDefault("RESET_CODE_TTL", 15*time.Minute)
	v.SetDefault("LEADERBOARD_CACHE_TTL", time.Minute)
	v.SetDefault("LEADERBOARD_SIZE", 10)
}

// NewConfig expects pflag.Parse to have been called by main.
func NewConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(*configFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Str("file", *configFile).Msg("Error reading config file")
	}

	return load(v), nil
}

func load(v *viper.Viper) *Config {
	var config Config

	config.AppName = v.GetString("APP_NAME")
	config.Debug = v.GetBool("DEBUG")

	config.Server.Port = v.GetString("SERVER_PORT")
	config.Server.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))
	config.Server.MaxUploadMB = v.GetInt64("MAX_UPLOAD_MB")
	config.Server.UploadDir = v.GetString("UPLOAD_DIR")
	config.Server.GinMode = v.GetString("GIN_MODE")
	config.Server.ShutdownWait = v.GetDuration("SHUTDOWN_WAIT")
	config.Server.WSRequireToken = v.GetBool("WS_REQUIRE_TOKEN")

	config.Database.Host = v.GetString("DATABASE_HOST")
	config.Database.Port = v.GetString("DATABASE_PORT")
	config.Database.User = v.GetString("DATABASE_USER")
	config.Database.Password = v.GetString("DATABASE_PASSWORD")
	config.Database.Name = v.GetString("DATABASE_NAME")
	config.Database.SSLMode = v.GetString("DATABASE_SSLMODE")

	config.Redis.Addr = v.GetString("REDIS_ADDR")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")

	config.Gemini.ApiKey = v.GetString("GEMINI_API_KEY")
	config.Gemini.QuizModel = v.GetString("GEMINI_QUIZ_MODEL")
	config.Gemini.FlashcardModel = v.GetString("GEMINI_FLASHCARD_MODEL")

	config.JWT.Secret = v.GetString("JWT_SECRET")
	config.JWT.Expiration = v.GetDuration("JWT_EXPIRATION")

	config.Mail.SendGridApiKey = v.GetString("SENDGRID_API_KEY")
	config.Mail.From = v.GetString("MAIL_FROM")
	config.Mail.ResetCodeTTL = v.GetDuration("RESET_CODE_TTL")

	config.Leaderboard.CacheTTL = v.GetDuration("LEADERBOARD_CACHE_TTL")
	config.Leaderboard.Size = v.GetInt("LEADERBOARD_SIZE")

	if config.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET is not set. Tokens are signed with an insecure development key.")
		config.JWT.Secret = "studybuddy-dev-secret"
	}

	log.Info().
		Str("port", config.Server.Port).
		Str("database", config.Database.Host+"/"+config.Database.Name).
		Str("redis", config.Redis.Addr).
		Bool("gemini", config.Gemini.ApiKey != "").
		Bool("sendgrid", config.Mail.SendGridApiKey != "").
		Msg("Config loaded")
	return &config
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
