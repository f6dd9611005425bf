package client

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 客户端启动配置：默认值 <- .env <- 环境变量 <- 命令行
type Config struct {
	ServerURL     string
	Room          string
	Name          string
	LogFile       string
	LogLevel      string
	AdminAddr     string // 为空则不启动调试 HTTP
	InputInterval time.Duration
	SchemaOut     string // 非空时导出协议 schema 后退出
}

func DefaultConfig() Config {
	return Config{
		ServerURL:     "ws://localhost:8000/ws",
		LogFile:       "client.log",
		LogLevel:      "info",
		InputInterval: DefaultInputInterval,
	}
}

// LoadConfig 依次叠加 .env 文件、环境变量与命令行参数
func LoadConfig(args []string, envFile string) (Config, error) {
	cfg := DefaultConfig()
	if envFile != "" {
		// godotenv.Load 不覆盖已存在的环境变量，因此真实环境优先于 .env
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.applyFlags(args); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"LT_SERVER_URL": &c.ServerURL,
		"LT_ROOM":       &c.Room,
		"LT_NAME":       &c.Name,
		"LT_LOG_FILE":   &c.LogFile,
		"LT_LOG_LEVEL":  &c.LogLevel,
		"LT_ADMIN_ADDR": &c.AdminAddr,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	if raw, ok := lookup("LT_INPUT_MS"); ok && raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid LT_INPUT_MS=%q: %w", raw, err)
		}
		c.InputInterval = time.Duration(ms) * time.Millisecond
	}
	return nil
}

func (c *Config) applyFlags(args []string) error {
	fs := flag.NewFlagSet("livingtemple", flag.ContinueOnError)
	fs.StringVar(&c.ServerURL, "url", c.ServerURL, "server websocket url, e.g. ws://localhost:8000/ws")
	fs.StringVar(&c.Room, "room", c.Room, "room code to join")
	fs.StringVar(&c.Name, "name", c.Name, "player name")
	fs.StringVar(&c.LogFile, "log", c.LogFile, "log file path")
	fs.StringVar(&c.LogLevel, "level", c.LogLevel, "log level: debug|info|warn|error")
	fs.StringVar(&c.AdminAddr, "admin", c.AdminAddr, "debug http listen address, e.g. 127.0.0.1:6060")
	fs.DurationVar(&c.InputInterval, "input", c.InputInterval, "input sample interval")
	fs.StringVar(&c.SchemaOut, "schema", c.SchemaOut, "write the protocol json schema to this path and exit")
	return fs.Parse(args)
}

// Validate 检查 URL 与采样周期
func (c Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server url %q: %w", c.ServerURL, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("invalid server url %q: scheme must be ws or wss", c.ServerURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid server url %q: missing host", c.ServerURL)
	}
	if c.InputInterval <= 0 {
		return fmt.Errorf("input interval must be positive, got %s", c.InputInterval)
	}
	return nil
}
