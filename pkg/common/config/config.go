package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ServerConfig struct {
	Address  string `mapstructure:"address"`
	LogLevel string `mapstructure:"logLevel"`
}

type SecurityConfig struct {
	MaxBodySize    int64    `mapstructure:"maxBodySize"` // bytes
	AllowedMethods []string `mapstructure:"allowedMethods"`
}

type TimeoutConfig struct {
	RequestTimeout int `mapstructure:"requestTimeout"` // seconds
}

type CORSConfig struct {
	AllowOrigins     []string      `mapstructure:"allowOrigins"`
	AllowMethods     []string      `mapstructure:"allowMethods"`
	AllowHeaders     []string      `mapstructure:"allowHeaders"`
	ExposeHeaders    []string      `mapstructure:"exposeHeaders"`
	AllowCredentials bool          `mapstructure:"allowCredentials"`
	MaxAge           time.Duration `mapstructure:"maxAge"`
	TrustedDomains   []string      `mapstructure:"trustedDomains"`
}

// JWTAuthConfig signs the session cookie token. ExpireDuration doubles as the
// session lifetime.
type JWTAuthConfig struct {
	Secret         string        `mapstructure:"secret"`
	ExpireDuration time.Duration `mapstructure:"expireDuration"`
	Issuer         string        `mapstructure:"issuer"`
	SigningMethod  string        `mapstructure:"signingMethod"`
}

type MiddlewareConfig struct {
	Security SecurityConfig `mapstructure:"security"`
	JWT      JWTAuthConfig  `mapstructure:"jwt"`
	Timeout  TimeoutConfig  `mapstructure:"timeout"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

type SessionConfig struct {
	CookieName string `mapstructure:"cookieName"`
	Secure     bool   `mapstructure:"secure"`
	HashCost   int    `mapstructure:"hashCost"` // bcrypt cost for stored passwords
}

type RedisConfig struct {
	URL string `mapstructure:"url"` // empty selects the in-process session store
}

type DatabaseConfig struct {
	Driver      string `mapstructure:"driver"` // mysql, postgres or sqlite
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"` // file path / DSN for sqlite
	UseUnixSock bool   `mapstructure:"useUnixSock"`
	MinPoolSize int    `mapstructure:"minPoolSize"`
	MaxPoolSize int    `mapstructure:"maxPoolSize"`
	LogLevel    string `mapstructure:"logLevel"` // GORM log level
}

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Middleware MiddlewareConfig `mapstructure:"middleware"`
	Session    SessionConfig    `mapstructure:"session"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Env        string           `mapstructure:"env"`
}

// DevJWTSecret 仅用于本地开发，生产环境拒绝启动
const DevJWTSecret = "dev-secret-change-me-in-production"

var defaults = map[string]interface{}{
	"server.address":  ":8080",
	"server.logLevel": "info",

	"database.driver":      "mysql",
	"database.host":        "localhost",
	"database.port":        3306,
	"database.username":    "root",
	"database.password":    "",
	"database.dbname":      "dofe_project",
	"database.useUnixSock": false,
	"database.minPoolSize": 5,
	"database.maxPoolSize": 50,
	"database.logLevel":    "warn",

	"middleware.security.maxBodySize":    int64(1 << 20),
	"middleware.security.allowedMethods": []string{"GET", "POST", "HEAD"},
	"middleware.jwt.secret":              DevJWTSecret,
	"middleware.jwt.expireDuration":      24 * time.Hour,
	"middleware.jwt.issuer":              "dofe-blog",
	"middleware.jwt.signingMethod":       "HS256",
	"middleware.timeout.requestTimeout":  15,
	"middleware.cors.allowOrigins":       []string{"http://localhost:8080"},
	"middleware.cors.allowMethods":       []string{"GET", "POST", "OPTIONS"},
	"middleware.cors.allowHeaders":       []string{"Content-Type", "X-Requested-With"},
	"middleware.cors.exposeHeaders":      []string{"Content-Length"},
	"middleware.cors.allowCredentials":   true,
	"middleware.cors.maxAge":             12 * time.Hour,
	"middleware.cors.trustedDomains":     []string{"localhost"},

	"session.cookieName": "session",
	"session.secure":     false,
	"session.hashCost":   10,

	"redis.url": "",

	"env": "development",
}

// env names kept stable for existing deployments
var envBindings = map[string]string{
	"server.address":                    "SERVER_ADDR",
	"server.logLevel":                   "LOG_LEVEL",
	"env":                               "APP_ENV",
	"middleware.security.maxBodySize":   "MAX_BODY_SIZE",
	"middleware.timeout.requestTimeout": "REQUEST_TIMEOUT",
	"middleware.jwt.secret":             "JWT_SECRET",
	"middleware.jwt.expireDuration":     "JWT_EXPIRATION",
	"middleware.jwt.issuer":             "JWT_ISSUER",
	"middleware.jwt.signingMethod":      "JWT_ALGORITHM",
	"middleware.cors.allowOrigins":      "CORS_ALLOW_ORIGINS",
	"middleware.cors.trustedDomains":    "CORS_TRUSTED_DOMAINS",
	"database.driver":                   "DB_DRIVER",
	"database.host":                     "DB_HOST",
	"database.port":                     "DB_PORT",
	"database.username":                 "DB_USER",
	"database.password":                 "DB_PASSWORD",
	"database.dbname":                   "DB_NAME",
	"database.useUnixSock":              "DB_SOCKET",
	"database.minPoolSize":              "DB_MIN_POOL",
	"database.maxPoolSize":              "DB_MAX_POOL",
	"database.logLevel":                 "DB_LOG_LEVEL",
	"session.cookieName":                "SESSION_COOKIE",
	"session.secure":                    "SESSION_SECURE",
	"session.hashCost":                  "BCRYPT_COST",
	"redis.url":                         "REDIS_URL",
}

// IsProd 判断当前是否生产环境
func (c *Config) IsProd() bool {
	return c.Env == "production"
}

// Load 加载配置（优先级：环境变量 > 配置文件 > 默认值）
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		hlog.Warnf("Failed to load .env file: %v", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if path := os.Getenv("APP_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("..")
		v.AddConfigPath("/etc/dofe-blog")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		hlog.Debugf("Config file not found; using environment variables and defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// 生产环境必须显式配置签名密钥
	if cfg.IsProd() {
		secret := strings.TrimSpace(cfg.Middleware.JWT.Secret)
		if secret == "" || secret == DevJWTSecret {
			return nil, errors.New("JWT_SECRET must be set in production")
		}
	}

	cfg.Middleware.JWT.SigningMethod = normalizeAlgorithm(cfg.Middleware.JWT.SigningMethod)
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	cfg.Database.LogLevel = strings.ToLower(cfg.Database.LogLevel)

	return &cfg, nil
}

// normalizeAlgorithm 只允许 HMAC 系列算法，非法值回退到 HS256
func normalizeAlgorithm(v string) string {
	algorithm := strings.ToUpper(strings.ReplaceAll(v, " ", ""))
	switch algorithm {
	case "HS256", "HS384", "HS512":
		return algorithm
	default:
		hlog.Warnf("Unsupported JWT algorithm: %s", v)
		return "HS256"
	}
}

// HlogLevel maps the configured server log level onto hlog.
func (c *Config) HlogLevel() hlog.Level {
	switch strings.ToLower(c.Server.LogLevel) {
	case "trace":
		return hlog.LevelTrace
	case "debug":
		return hlog.LevelDebug
	case "warn":
		return hlog.LevelWarn
	case "error":
		return hlog.LevelError
	default:
		return hlog.LevelInfo
	}
}

// GormConfig 统一的 GORM 配置：驱动错误翻译、UTC 时间、日志级别
func (c *Config) GormConfig() *gorm.Config {
	gormConfig := &gorm.Config{
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
	switch c.Database.LogLevel {
	case "silent":
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	case "error":
		gormConfig.Logger = logger.Default.LogMode(logger.Error)
	case "warn":
		gormConfig.Logger = logger.Default.LogMode(logger.Warn)
	case "info":
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	return gormConfig
}

// Dialector 根据驱动类型构造 GORM 方言
func (c *Config) Dialector() (gorm.Dialector, error) {
	switch c.Database.Driver {
	case "", "mysql":
		return gormmysql.Open(c.mysqlDSN()), nil
	case "postgres":
		return postgres.Open(c.postgresDSN()), nil
	case "sqlite":
		return sqlite.Open(sqliteDSN(c.Database.DBName)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
}

func (c *Config) mysqlDSN() string {
	dsn := mysql.NewConfig()
	dsn.User = c.Database.Username
	dsn.Passwd = c.Database.Password
	dsn.DBName = c.Database.DBName
	dsn.ParseTime = true
	dsn.Loc = time.UTC
	// RowsAffected 统计匹配行而不是变更行，否则内容未变的更新会被当成不存在
	dsn.ClientFoundRows = true
	dsn.Params = map[string]string{"charset": "utf8mb4"}

	// 自动切换连接方式
	if c.Database.UseUnixSock {
		dsn.Net = "unix"
		dsn.Addr = c.Database.Host // 这里host存储的是socket路径
	} else {
		dsn.Net = "tcp"
		dsn.Addr = fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
	}
	return dsn.FormatDSN()
}

func (c *Config) postgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		c.Database.Host,
		c.Database.Port,
		c.Database.Username,
		c.Database.Password,
		c.Database.DBName)
}

// sqliteDSN 开启外键约束，否则 posts.user_id 不受约束
func sqliteDSN(name string) string {
	if strings.Contains(name, "?") {
		return name + "&_foreign_keys=1"
	}
	return name + "?_foreign_keys=1"
}

func (c *Config) InitDB() (*gorm.DB, error) {
	dialector, err := c.Dialector()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, c.GormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(c.Database.MinPoolSize)
	sqlDB.SetMaxOpenConns(c.Database.MaxPoolSize)

	return db, nil
}
