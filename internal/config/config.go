package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DB     DBConfig
	Server ServerConfig
	Redis  RedisConfig
	SMTP   SMTPConfig
	Tasks  TasksConfig
	Logger LoggerConfig
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SMTPConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Sender string `yaml:"sender"`
}

// TasksConfig holds the artifact destinations for scheduled jobs.
type TasksConfig struct {
	BackupDir    string `yaml:"backup_dir"`
	ExportDir    string `yaml:"export_dir"`
	ReportDir    string `yaml:"report_dir"`
	ExportFormat string `yaml:"export_format"` // "csv" or "json"
	Workers      int    `yaml:"workers"`
}

type LoggerConfig struct {
	Level string
	Env   string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	viper.SetDefault("db.path", "quiz_master.db")
	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 10)
	viper.SetDefault("server.write_timeout", 10)
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("smtp.host", "localhost")
	viper.SetDefault("smtp.port", 1025)
	viper.SetDefault("smtp.sender", "noreply@quizmaster.local")
	viper.SetDefault("tasks.backup_dir", "backups")
	viper.SetDefault("tasks.export_dir", "exports")
	viper.SetDefault("tasks.report_dir", "reports")
	viper.SetDefault("tasks.export_format", "csv")
	viper.SetDefault("tasks.workers", 2)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		DB: DBConfig{
			Path: viper.GetString("db.path"),
		},
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		SMTP: SMTPConfig{
			Host:   viper.GetString("smtp.host"),
			Port:   viper.GetInt("smtp.port"),
			Sender: viper.GetString("smtp.sender"),
		},
		Tasks: TasksConfig{
			BackupDir:    viper.GetString("tasks.backup_dir"),
			ExportDir:    viper.GetString("tasks.export_dir"),
			ReportDir:    viper.GetString("tasks.report_dir"),
			ExportFormat: viper.GetString("tasks.export_format"),
			Workers:      viper.GetInt("tasks.workers"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
	}

	// Override with environment variables if set
	if path := os.Getenv("DB_PATH"); path != "" {
		config.DB.Path = path
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if smtpHost := os.Getenv("SMTP_HOST"); smtpHost != "" {
		config.SMTP.Host = smtpHost
	}
	if sender := os.Getenv("SMTP_SENDER"); sender != "" {
		config.SMTP.Sender = sender
	}

	return config, nil
}

// SMTPAddr returns the host:port address of the SMTP server.
func (c *Config) SMTPAddr() string {
	return fmt.Sprintf("%s:%d", c.SMTP.Host, c.SMTP.Port)
}
