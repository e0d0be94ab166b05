package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceHost string
	ServicePort int
	Env         string // dev или prod: в dev ошибки БД отдаются клиенту с деталями
	JWT         JWTConfig
	Redis       RedisConfig
	Database    DatabaseConfig
	MinIO       MinIOConfig
	Auction     AuctionConfig
}

type JWTConfig struct {
	Token         string
	ExpiresIn     time.Duration
	SigningMethod jwt.SigningMethod
}

type RedisConfig struct {
	Host        string
	Password    string
	Port        int
	User        string
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AuctionConfig - параметры ядра торгов.
// Timezone - единый гражданский часовой пояс, вся математика расписаний
// привязана к нему, а не к поясу хоста
type AuctionConfig struct {
	Timezone             string
	StatusSweepInterval  time.Duration
	RankingSweepInterval time.Duration
	ShortlistSize        int
}

const (
	envRedisHost = "REDIS_HOST"
	envRedisPort = "REDIS_PORT"
	envRedisUser = "REDIS_USER"
	envRedisPass = "REDIS_PASSWORD"

	envDBHost = "DB_HOST"
	envDBPort = "DB_PORT"
	envDBUser = "DB_USER"
	envDBPass = "DB_PASSWORD"
	envDBName = "DB_NAME"

	envMinioEndpoint  = "MINIO_ENDPOINT"
	envMinioAccessKey = "MINIO_ACCESS_KEY"
	envMinioSecretKey = "MINIO_SECRET_KEY"
	envMinioBucket    = "MINIO_BUCKET"
)

func NewConfig() (*Config, error) {
	var err error

	configName := "config"
	_ = godotenv.Load()
	if os.Getenv("CONFIG_NAME") != "" {
		configName = os.Getenv("CONFIG_NAME")
	}

	viper.SetConfigName(configName)
	viper.SetConfigType("toml")
	viper.AddConfigPath("config")
	viper.AddConfigPath(".")
	viper.WatchConfig()

	err = viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = viper.Unmarshal(cfg)
	if err != nil {
		return nil, err
	}

	// инициализация JWT конфигурации
	cfg.JWT = JWTConfig{
		Token:         os.Getenv("JWT_SECRET"),
		ExpiresIn:     time.Hour,
		SigningMethod: jwt.SigningMethodHS256,
	}
	if cfg.JWT.Token == "" {
		cfg.JWT.Token = "test"
	}

	// инициализация Redis конфигурации из env
	cfg.Redis.Host = os.Getenv(envRedisHost)
	cfg.Redis.Port, err = strconv.Atoi(os.Getenv(envRedisPort))
	if err != nil {
		return nil, fmt.Errorf("redis port must be int value: %w", err)
	}
	cfg.Redis.Password = os.Getenv(envRedisPass)
	cfg.Redis.User = os.Getenv(envRedisUser)
	cfg.Redis.DialTimeout = 10 * time.Second
	cfg.Redis.ReadTimeout = 10 * time.Second

	// инициализация подключения к БД из env
	cfg.Database.Host = os.Getenv(envDBHost)
	cfg.Database.Port = os.Getenv(envDBPort)
	cfg.Database.User = os.Getenv(envDBUser)
	cfg.Database.Password = os.Getenv(envDBPass)
	cfg.Database.Name = os.Getenv(envDBName)
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	// MinIO из env
	cfg.MinIO.Endpoint = os.Getenv(envMinioEndpoint)
	cfg.MinIO.AccessKey = os.Getenv(envMinioAccessKey)
	cfg.MinIO.SecretKey = os.Getenv(envMinioSecretKey)
	cfg.MinIO.Bucket = os.Getenv(envMinioBucket)
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = "auction-documents"
	}

	// Параметры ядра торгов по умолчанию
	if cfg.Auction.Timezone == "" {
		cfg.Auction.Timezone = "Asia/Kolkata"
	}
	if cfg.Auction.StatusSweepInterval <= 0 {
		cfg.Auction.StatusSweepInterval = 30 * time.Second
	}
	if cfg.Auction.RankingSweepInterval <= 0 {
		cfg.Auction.RankingSweepInterval = 5 * time.Second
	}
	if cfg.Auction.ShortlistSize <= 0 {
		cfg.Auction.ShortlistSize = 5
	}

	log.Info("config parsed")

	return cfg, nil
}

// DSN собирает строку подключения Postgres для GORM
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
