package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Log      LogConfig      `mapstructure:"log"`
	Task     TaskConfig     `mapstructure:"task"`
}

type ServerConfig struct {
	Port         string   `mapstructure:"port"`
	Mode         string   `mapstructure:"mode"` // gin 模式: debug / release / test
	AllowOrigins []string `mapstructure:"allow_origins"`

	LoginCooldown time.Duration `mapstructure:"login_cooldown"` // 同一 IP 两次登录的最小间隔
}

type DatabaseConfig struct {
	Driver      string `mapstructure:"driver"` // postgres | sqlite
	DSN         string `mapstructure:"dsn"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
	LogLevel    string `mapstructure:"log_level"` // silent / error / warn / info
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
	Issuer string        `mapstructure:"issuer"`
}

type StorageConfig struct {
	Provider  string `mapstructure:"provider"` // local | s3
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Endpoint  string `mapstructure:"endpoint"` // S3 兼容服务端点；本地存储时为访问URL前缀
	CDNDomain string `mapstructure:"cdn_domain"`
	BasePath  string `mapstructure:"base_path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type TaskConfig struct {
	ImageCleanupCron  string        `mapstructure:"image_cleanup_cron"`
	ImageCleanupGrace time.Duration `mapstructure:"image_cleanup_grace"`
}

// Load 加载配置
// 优先级: 环境变量(SKY_ 前缀) > 配置文件 > 默认值；.env 存在时先载入环境变量
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SKY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验必要配置
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("不支持的数据库驱动: %s", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn 不能为空")
	}
	// 签名密钥不提供默认值，须通过配置文件或 SKY_JWT_SECRET 设置
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret 不能为空")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("jwt.ttl 必须大于 0")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.allow_origins", []string{"*"})
	v.SetDefault("server.login_cooldown", time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "sky_takeout.db")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("jwt.ttl", 2*time.Hour)
	v.SetDefault("jwt.issuer", "sky_takeout")

	v.SetDefault("storage.provider", "local")
	v.SetDefault("storage.base_path", "./uploads")
	v.SetDefault("storage.endpoint", "http://localhost:8080/uploads")

	v.SetDefault("log.level", "info")

	v.SetDefault("task.image_cleanup_cron", "0 30 3 * * *")
	v.SetDefault("task.image_cleanup_grace", 24*time.Hour)
}
