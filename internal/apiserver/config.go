package apiserver

import (
	"hotels-sync/internal/dbconn"
)

// Config defines the configuration structure for the tablet API server
type Config struct {
	Db   dbconn.Config `mapstructure:"db"`
	Http struct {
		ServerName string `mapstructure:"server_name"`
		Listen     string `mapstructure:"listen"`
		BasicAuth  bool   `mapstructure:"basic_auth"`
		Debug      bool   `mapstructure:"debug"`
		Timeout    int    `mapstructure:"timeout"`
		Users      []struct {
			User     string `mapstructure:"user"`
			Password string `mapstructure:"password"`
		} `mapstructure:"users"`
	} `mapstructure:"http"`
	Api struct {
		ProductName   string `mapstructure:"product_name"`
		Timezone      string `mapstructure:"timezone"`
		OtpDigits     int    `mapstructure:"otp_digits"`
		TimestampAuth bool   `mapstructure:"timestamp_auth"`
	} `mapstructure:"api"`
	Extras struct {
		BuildingID uint `mapstructure:"building_id"`
		ServiceID  uint `mapstructure:"service_id"`
	} `mapstructure:"extras"`
}
