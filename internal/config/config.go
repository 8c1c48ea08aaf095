package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 汇总运行服务所需的基础配置
type Config struct {
	Server   Server
	Database Database
	Session  Session
	GenAI    GenAI
}

// Server HTTP 服务配置
type Server struct {
	ListenAddr string
	GinMode    string
	Debug      bool
}

// Database 数据库连接配置。Driver 为 postgres 时使用 Host/Port/User/Password/Name，
// 为 sqlite 时只使用 Path。
type Database struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	StartupWait     time.Duration
}

// Session 会话 Cookie 配置
type Session struct {
	Secret     string
	CookieName string
}

// GenAI 向量生成所用的外部模型配置
type GenAI struct {
	APIKey         string
	EmbeddingModel string
}

// DSN 返回当前驱动对应的连接串
func (d Database) DSN() string {
	switch d.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			d.Host, d.Port, d.User, d.Password, d.Name)
	default:
		// sqlite 走本地文件，同时打开外键约束
		return d.Path + "?_fk=1"
	}
}

// Load 从环境变量读取配置，缺失项使用安全默认值。
// 环境变量以 TANKA_ 为前缀，层级用下划线连接，如 TANKA_DATABASE_HOST。
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("tanka")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.listenaddr", ":8080")
	v.SetDefault("server.ginmode", "release")
	v.SetDefault("server.debug", false)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "tanka_user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.name", "tanka_db")
	v.SetDefault("database.path", "tankapool.db")
	v.SetDefault("database.maxopenconns", 10)
	v.SetDefault("database.maxidleconns", 5)
	v.SetDefault("database.connmaxlifetime", time.Hour)
	v.SetDefault("database.startupwait", 30*time.Second)

	v.SetDefault("session.secret", "tankapool-dev-secret")
	v.SetDefault("session.cookiename", "tankapool_session")

	v.SetDefault("genai.apikey", "")
	v.SetDefault("genai.embeddingmodel", "text-embedding-004")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
