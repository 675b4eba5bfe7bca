package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Addr string `yaml:"-"` // 不从配置文件读取，而是在加载后计算
	} `yaml:"server"`
	API struct {
		Key string `yaml:"key"` // 共享密钥，64位十六进制；优先从环境变量读取
	} `yaml:"api"`
	Cache struct {
		TTLSec        int `yaml:"ttl_sec"`        // 推荐结果缓存有效期（秒）
		SweepInterval int `yaml:"sweep_interval"` // 过期条目清理间隔（秒）
	} `yaml:"cache"`
	Recommend struct {
		DefaultPerPage int `yaml:"default_per_page"` // 默认每页条数
		MaxPerPage     int `yaml:"max_per_page"`     // 每页条数上限
	} `yaml:"recommend"`
	Analytics struct {
		Driver            string `yaml:"driver"`              // memory / mysql
		ExportURL         string `yaml:"export_url"`          // 统计快照上报地址，为空则不上报
		ExportIntervalSec int    `yaml:"export_interval_sec"` // 上报间隔（秒）
		ExportRetryMax    int    `yaml:"export_retry_max"`    // 上报失败重试次数
	} `yaml:"analytics"`
	Log struct {
		Level    string `yaml:"level"`
		Format   string `yaml:"format"`
		Output   string `yaml:"output"`
		FilePath string `yaml:"file_path"`
	} `yaml:"log"`

	DB struct {
		Host            string `yaml:"host"`
		Port            int    `yaml:"port"`
		Username        string `yaml:"username"`
		Password        string `yaml:"password"`
		Database        string `yaml:"database"`
		Charset         string `yaml:"charset"`
		ParseTime       bool   `yaml:"parse_time"`
		DSN             string `yaml:"-"`                 // 不从配置文件读取，而是在加载后计算
		MaxOpenConns    int    `yaml:"max_open_conns"`    // 最大打开连接数
		MaxIdleConns    int    `yaml:"max_idle_conns"`    // 最大空闲连接数
		ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // 连接最大生命周期（分钟）
	} `yaml:"database"`
	Scheduler struct {
		CheckIntervalSec int `yaml:"check_interval_sec"` // 调度器检查间隔（秒）
	} `yaml:"scheduler"`
}

// 缓存与分页默认值
const (
	DefaultCacheTTLSec = 300
	DefaultPerPage     = 10
	MaxPerPage         = 50
)

func Load() *Config {
	// 首先尝试加载.env文件中的环境变量
	_ = godotenv.Load() // 忽略错误，如果.env文件不存在，继续使用系统环境变量

	var cfg Config

	// 尝试从config.yaml文件加载配置
	if data, err := os.ReadFile("config.yaml"); err == nil {
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			log.Printf("Error loading config.yaml: %v, falling back to environment variables", err)
			return loadFromEnv()
		}
		log.Println("Loading configuration from config.yaml")
		applyEnvOverrides(&cfg)
		applyDefaults(&cfg)
		return &cfg
	}

	// 如果config.yaml不存在，则完全从环境变量加载配置
	return loadFromEnv()
}

// applyEnvOverrides 从环境变量中加载敏感信息，覆盖配置文件中的值
func applyEnvOverrides(cfg *Config) {
	// 数据库用户名和密码
	if envUsername := os.Getenv("DATABASE_USERNAME"); envUsername != "" {
		cfg.DB.Username = envUsername
	}
	if envPassword := os.Getenv("DATABASE_PASSWORD"); envPassword != "" {
		cfg.DB.Password = envPassword
	}

	// API共享密钥
	if envKey := os.Getenv("API_KEY"); envKey != "" {
		cfg.API.Key = envKey
	}

	// 统计上报地址
	if envURL := os.Getenv("ANALYTICS_EXPORT_URL"); envURL != "" {
		cfg.Analytics.ExportURL = envURL
	}
}

// applyDefaults 填充计算字段和默认值
func applyDefaults(cfg *Config) {
	cfg.Server.Addr = fmt.Sprintf(":%d", cfg.Server.Port)

	if cfg.Cache.TTLSec <= 0 {
		cfg.Cache.TTLSec = DefaultCacheTTLSec
	}
	if cfg.Cache.SweepInterval <= 0 {
		cfg.Cache.SweepInterval = 60
	}
	if cfg.Recommend.DefaultPerPage <= 0 {
		cfg.Recommend.DefaultPerPage = DefaultPerPage
	}
	if cfg.Recommend.MaxPerPage <= 0 {
		cfg.Recommend.MaxPerPage = MaxPerPage
	}
	if cfg.Analytics.Driver == "" {
		cfg.Analytics.Driver = "memory"
	}
	if cfg.Analytics.ExportIntervalSec <= 0 {
		cfg.Analytics.ExportIntervalSec = 600
	}
	if cfg.Analytics.ExportRetryMax <= 0 {
		cfg.Analytics.ExportRetryMax = 3
	}
	if cfg.Scheduler.CheckIntervalSec <= 0 {
		cfg.Scheduler.CheckIntervalSec = 30
	}

	// 计算 DB.DSN 字段
	if cfg.DB.DSN == "" && cfg.DB.Host != "" {
		if cfg.DB.Charset == "" {
			cfg.DB.Charset = "utf8mb4"
		}
		parseTime := ""
		if cfg.DB.ParseTime {
			parseTime = "&parseTime=true"
		}
		cfg.DB.DSN = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s%s",
			cfg.DB.Username,
			cfg.DB.Password,
			cfg.DB.Host,
			cfg.DB.Port,
			cfg.DB.Database,
			cfg.DB.Charset,
			parseTime)
	}
}

// loadFromEnv 当config.yaml不可用时，从环境变量构建最小配置
func loadFromEnv() *Config {
	var cfg Config

	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}

	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		cfg.DB.DSN = dsn
	}
	if driver := os.Getenv("ANALYTICS_DRIVER"); driver != "" {
		cfg.Analytics.Driver = driver
	}
	if ttl := os.Getenv("CACHE_TTL_SEC"); ttl != "" {
		if v, err := strconv.Atoi(ttl); err == nil {
			cfg.Cache.TTLSec = v
		}
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	log.Println("配置从环境变量加载，部分配置可能缺失")
	return &cfg
}
