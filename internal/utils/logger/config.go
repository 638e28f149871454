// internal/utils/logger/config.go
package logger

import "io"

type Config struct {
	LogFile     string    `mapstructure:"file"`
	MaxSize     int       `mapstructure:"max_size"`    // мегабайты
	MaxAge      int       `mapstructure:"max_age"`     // дни
	MaxBackups  int       `mapstructure:"max_backups"` // количество файлов
	Compress    bool      `mapstructure:"compress"`    // сжимать ротированные файлы
	Development bool      `mapstructure:"development"`
	Console     io.Writer `mapstructure:"-"` // по умолчанию stderr
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		LogFile:     "simward.log",
		MaxSize:     100,  // 100 MB
		MaxAge:      7,    // 7 дней
		MaxBackups:  3,    // 3 файла
		Compress:    true, // сжимать старые логи
		Development: false,
	}
}
