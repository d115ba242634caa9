package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name        string
	Env         string
	FrontendURL string `mapstructure:"frontendurl"`
	HTTP        HTTP
	Admin       AdminHTTP
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

func (j JWT) TTL() time.Duration { return time.Duration(j.AccessTokenTTLMin) * time.Minute }

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type SMTP struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

type AMQP struct {
	URL   string
	Queue string
}

type Auth struct {
	BcryptCost       int
	ResetTokenTTLMin int
	// RequireActive rejects artwork mutations from accounts an admin has not activated yet.
	RequireActive bool
}

func (a Auth) ResetTTL() time.Duration { return time.Duration(a.ResetTokenTTLMin) * time.Minute }

type Limits struct {
	RPS         float64
	Burst       int
	Concurrency int64
	MaxBodyMB   int64
	TimeoutSec  int
}

type Bootstrap struct {
	Email    string
	Password string
	Name     string
}

type Config struct {
	App       App
	Log       Log
	JWT       JWT
	DB        DB
	Redis     Redis `mapstructure:"redis"`
	SMTP      SMTP
	AMQP      AMQP
	Auth      Auth
	Limits    Limits
	Bootstrap Bootstrap
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "artmarket")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.frontendurl", "http://localhost:5173")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 5000)
	v.SetDefault("app.http.readtimeoutsec", 10)
	v.SetDefault("app.http.writetimeoutsec", 15)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 5001)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file.filename", "logs/app.log")
	v.SetDefault("log.file.maxsizemb", 100)
	v.SetDefault("log.file.maxbackups", 7)
	v.SetDefault("log.file.maxagedays", 30)

	v.SetDefault("jwt.issuer", "artmarket")
	v.SetDefault("jwt.accesstokenttlmin", 7*24*60)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:artmarket.db?_foreign_keys=on")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 5)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")

	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.fromname", "Art Market")
	v.SetDefault("amqp.queue", "artmarket.events")

	v.SetDefault("auth.bcryptcost", 10)
	v.SetDefault("auth.resettokenttlmin", 10)

	// 100 requests per 15 minutes per IP
	v.SetDefault("limits.rps", 100.0/(15*60))
	v.SetDefault("limits.burst", 100)
	v.SetDefault("limits.concurrency", 300)
	v.SetDefault("limits.maxbodymb", 10)
	v.SetDefault("limits.timeoutsec", 10)

	v.SetDefault("bootstrap.name", "Super Admin")

	// keys without a useful default still need registering so APP_* env vars reach Unmarshal
	for k, zero := range map[string]any{
		"jwt.secret": "", "log.json": false, "log.file.enable": false, "log.file.compress": false,
		"db.username": "", "db.password": "",
		"redis.addr": "", "redis.password": "", "redis.db": 0,
		"smtp.host": "", "smtp.username": "", "smtp.password": "", "smtp.fromemail": "",
		"amqp.url": "", "auth.requireactive": false,
		"bootstrap.email": "", "bootstrap.password": "",
	} {
		v.SetDefault(k, zero)
	}
}

// Load reads the YAML file at path (or CONFIG_PATH, or ./configs/config.local.yaml)
// and applies APP_* environment overrides. A missing file is not an error:
// defaults plus environment are enough to boot.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func MustLoad(path string) *Config {
	c, err := Load(path)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return c
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("jwt.secret is required")
	}
	if c.JWT.AccessTokenTTLMin <= 0 {
		return errors.New("jwt.accessTokenTTLMin must be positive")
	}
	if c.Auth.ResetTokenTTLMin <= 0 {
		return errors.New("auth.resetTokenTTLMin must be positive")
	}
	return nil
}
