package worker

import (
	"hotels-sync/internal/dbconn"
)

type Config struct {
	Db  dbconn.Config `mapstructure:"db"`
	Api struct {
		Timezone string `mapstructure:"timezone"`
	} `mapstructure:"api"`
	Debug bool `mapstructure:"debug"`
	Jobs  []struct {
		Job      string `mapstructure:"job"`
		Interval int    `mapstructure:"interval"`
		Days     int    `mapstructure:"days"`
	} `mapstructure:"jobs"`
}
