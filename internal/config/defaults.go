package config

import (
	"github.com/spf13/viper"

	"github.com/moffa90/go-posnet/stream"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 5)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)

	v.SetDefault("reader.max_capacity", stream.DefaultMaxCapacity)

	v.SetDefault("device.address", "")
	v.SetDefault("device.dial_timeout", "5s")

	v.SetDefault("metrics.addr", "")
}
