package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type DB struct {
	Driver     string
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
	DbPATH     string
	Migrations string
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
	URLExpiry  time.Duration
}

type Session struct {
	Backend       string
	SecretKey     string
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
}

type Log struct {
	Level  string
	Format string
}

type Config struct {
	ServerPort    int
	DB            DB
	MinIO         MinIO
	Session       Session
	Log           Log
	MaxUploadSize int64
	SentryDSN     string
	SeedOnStart   bool
}

var defaults = map[string]interface{}{
	"server.port":        8080,
	"log.level":          "info",
	"log.format":         "text",
	"db.driver":          "postgres",
	"db.host":            "localhost",
	"db.port":            "5432",
	"db.user":            "postgres",
	"db.password":        "password",
	"db.name":            "helpconnect",
	"db.sslmode":         "disable",
	"db.path":            "helpconnect.db",
	"migrations.dir":     "migrations",
	"session.backend":    "memory",
	"session.secret_key": "",
	"session.ttl":        "24h",
	"redis.addr":         "localhost:6379",
	"redis.password":     "",
	"minio.endpoint":     "localhost:9000",
	"minio.access_key":   "minioadmin",
	"minio.secret_key":   "minioadmin",
	"minio.bucket_name":  "attachments",
	"minio.use_ssl":      false,
	"minio.region":       "us-east-1",
	"minio.url_expiry":   "7d",
	"max.upload_size":    "10485760",
	"sentry.dsn":         "",
	"seed.on_start":      true,
}

// newViper builds a viper instance where every key can be overridden by an
// upper-cased, underscore-joined environment variable (db.host -> DB_HOST).
func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if strings.HasSuffix(value, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(value, "d"))
		if err != nil || days <= 0 {
			return fallback
		}
		return time.Duration(days) * 24 * time.Hour
	}
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

func parseMaxUploadSize(value string) int64 {
	size, err := strconv.ParseInt(value, 10, 64)
	if err != nil || size <= 0 {
		return 10 * 1024 * 1024
	}
	return size
}

func loadDB(v *viper.Viper) DB {
	return DB{
		Driver:     strings.ToLower(v.GetString("db.driver")),
		DbHOST:     v.GetString("db.host"),
		DbPORT:     v.GetString("db.port"),
		DbUSER:     v.GetString("db.user"),
		DbPASSWORD: v.GetString("db.password"),
		DbNAME:     v.GetString("db.name"),
		DbSSLMODE:  v.GetString("db.sslmode"),
		DbPATH:     v.GetString("db.path"),
		Migrations: v.GetString("migrations.dir"),
	}
}

func loadMinIO(v *viper.Viper) MinIO {
	return MinIO{
		Endpoint:   v.GetString("minio.endpoint"),
		AccessKey:  v.GetString("minio.access_key"),
		SecretKey:  v.GetString("minio.secret_key"),
		BucketName: v.GetString("minio.bucket_name"),
		UseSSL:     v.GetBool("minio.use_ssl"),
		Region:     v.GetString("minio.region"),
		URLExpiry:  parseDuration(v.GetString("minio.url_expiry"), 7*24*time.Hour),
	}
}

func loadSession(v *viper.Viper) Session {
	return Session{
		Backend:       strings.ToLower(v.GetString("session.backend")),
		SecretKey:     v.GetString("session.secret_key"),
		TTL:           parseDuration(v.GetString("session.ttl"), 24*time.Hour),
		RedisAddr:     v.GetString("redis.addr"),
		RedisPassword: v.GetString("redis.password"),
	}
}

// LoadConfig reads .env, an optional YAML file and the environment, in that
// order of increasing precedence.
func LoadConfig(file string) *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env file not found, using environment variables")
	}

	v := newViper()
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			logrus.WithError(err).WithField("file", file).Warn("config file not loaded")
		}
	}

	return &Config{
		ServerPort:    v.GetInt("server.port"),
		DB:            loadDB(v),
		MinIO:         loadMinIO(v),
		Session:       loadSession(v),
		Log:           Log{Level: v.GetString("log.level"), Format: v.GetString("log.format")},
		MaxUploadSize: parseMaxUploadSize(v.GetString("max.upload_size")),
		SentryDSN:     v.GetString("sentry.dsn"),
		SeedOnStart:   v.GetBool("seed.on_start"),
	}
}
