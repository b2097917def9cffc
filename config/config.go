package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "change-this-secret-key"

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	API      APIConfig
	CORS     CORSConfig
	Storage  StorageConfig
	Log      LogConfig
	Live     LiveConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Port            string
	Env             string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	// Driver is "postgres" or "memory"
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type APIConfig struct {
	// Public form submissions (donations, contact) per client IP
	FormsPerMinute int
	FormsBurst     int
	// Login attempts per email
	LoginPerSecond int
	LoginBurst     int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type StorageConfig struct {
	// Driver is "local" or "s3"
	Driver         string
	LocalPath      string
	PublicPrefix   string
	MaxUploadBytes int64

	S3Endpoint     string
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
	S3UsePathStyle bool
	S3PublicURL    string
}

type LogConfig struct {
	Level  string
	Pretty bool
}

type LiveConfig struct {
	CacheTTL time.Duration
}

// AdminConfig seeds the first back-office account
type AdminConfig struct {
	Email       string
	Password    string
	DisplayName string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Env:             env,
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "sanctuary"),
			Password: getEnv("DB_PASSWORD", "sanctuary_password"),
			DBName:   getEnv("DB_NAME", "sanctuary_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  getBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", defaultJWTSecret),
			ExpiryHours: getInt("JWT_EXPIRY_HOURS", 168),
		},
		API: APIConfig{
			FormsPerMinute: getInt("RATE_LIMIT_FORMS_PER_MINUTE", 10),
			FormsBurst:     getInt("RATE_LIMIT_FORMS_BURST", 5),
			LoginPerSecond: getInt("RATE_LIMIT_LOGIN_PER_SECOND", 1),
			LoginBurst:     getInt("RATE_LIMIT_LOGIN_BURST", 5),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Storage: StorageConfig{
			Driver:         getEnv("STORAGE_DRIVER", "local"),
			LocalPath:      getEnv("STORAGE_LOCAL_PATH", "./uploads"),
			PublicPrefix:   getEnv("STORAGE_PUBLIC_PREFIX", "/uploads"),
			MaxUploadBytes: int64(getInt("STORAGE_MAX_UPLOAD_MB", 10)) << 20,
			S3Endpoint:     getEnv("S3_ENDPOINT", ""),
			S3Region:       getEnv("S3_REGION", "us-east-1"),
			S3Bucket:       getEnv("S3_BUCKET", ""),
			S3AccessKey:    getEnv("S3_ACCESS_KEY_ID", ""),
			S3SecretKey:    getEnv("S3_SECRET_ACCESS_KEY", ""),
			S3UsePathStyle: getBool("S3_USE_PATH_STYLE", false),
			S3PublicURL:    getEnv("S3_PUBLIC_URL", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getBool("LOG_PRETTY", env != "production"),
		},
		Live: LiveConfig{
			CacheTTL: getDuration("LIVE_CACHE_TTL", 30*time.Second),
		},
		Admin: AdminConfig{
			Email:       getEnv("ADMIN_EMAIL", ""),
			Password:    getEnv("ADMIN_PASSWORD", ""),
			DisplayName: getEnv("ADMIN_DISPLAY_NAME", "Administrator"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == defaultJWTSecret && c.IsProduction() {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	switch c.Database.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET must be set when STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if (c.Admin.Email == "") != (c.Admin.Password == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return b
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
