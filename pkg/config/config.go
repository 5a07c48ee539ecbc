package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Academic AcademicConfig
	Backup   BackupConfig
	Export   ExportConfig
	CORS     CORSConfig
	Log      LogConfig
}

// AcademicConfig carries the registrar business-rule knobs.
type AcademicConfig struct {
	MaxCreditsPerSemester int
	MinCourseCredits      int
	MaxCourseCredits      int
}

// BackupConfig controls timestamped data backups.
type BackupConfig struct {
	Directory         string
	KeepCount         int
	WorkerConcurrency int
	WorkerRetries     int
	RetryDelay        time.Duration
}

// ExportConfig controls CSV/PDF export output.
type ExportConfig struct {
	Directory string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Academic = AcademicConfig{
		MaxCreditsPerSemester: v.GetInt("MAX_CREDITS_PER_SEMESTER"),
		MinCourseCredits:      v.GetInt("MIN_COURSE_CREDITS"),
		MaxCourseCredits:      v.GetInt("MAX_COURSE_CREDITS"),
	}

	cfg.Backup = BackupConfig{
		Directory:         v.GetString("BACKUP_DIR"),
		KeepCount:         v.GetInt("BACKUP_KEEP_COUNT"),
		WorkerConcurrency: v.GetInt("BACKUP_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("BACKUP_WORKER_RETRIES"),
		RetryDelay:        parseDuration(v.GetString("BACKUP_RETRY_DELAY"), time.Second),
	}

	cfg.Export = ExportConfig{
		Directory: v.GetString("EXPORT_DIR"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("MAX_CREDITS_PER_SEMESTER", 18)
	v.SetDefault("MIN_COURSE_CREDITS", 1)
	v.SetDefault("MAX_COURSE_CREDITS", 6)

	v.SetDefault("BACKUP_DIR", "./backups")
	v.SetDefault("BACKUP_KEEP_COUNT", 10)
	v.SetDefault("BACKUP_WORKER_CONCURRENCY", 1)
	v.SetDefault("BACKUP_WORKER_RETRIES", 3)
	v.SetDefault("BACKUP_RETRY_DELAY", "1s")

	v.SetDefault("EXPORT_DIR", "./exports")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
