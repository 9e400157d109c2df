package dbconn

import (
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotels-sync/internal/models"
)

// Config is the "db" block shared by every binary
type Config struct {
	Driver string `mapstructure:"driver"`
	Debug  bool   `mapstructure:"debug"`
	Mysql  struct {
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Host     string `mapstructure:"host"`
		Database string `mapstructure:"database"`
	} `mapstructure:"mysql"`
	Postgres struct {
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Database string `mapstructure:"database"`
		SslMode  string `mapstructure:"sslmode"`
	} `mapstructure:"postgres"`
	Sqlite struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"sqlite"`
}

// mysqlDSN keeps the session in UTC: calendar dates are stored as UTC
// midnight and must not be shifted by the host zone on the way in.
func mysqlDSN(cfg Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.Mysql.User, cfg.Mysql.Password, cfg.Mysql.Host, cfg.Mysql.Database)
}

func dialector(cfg Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		if cfg.Mysql.User == "" || cfg.Mysql.Host == "" || cfg.Mysql.Database == "" {
			return nil, fmt.Errorf("missing connection info")
		}

		return mysql.Open(mysqlDSN(cfg)), nil

	case "postgres":
		if cfg.Postgres.User == "" || cfg.Postgres.Host == "" || cfg.Postgres.Database == "" {
			return nil, fmt.Errorf("missing connection info")
		}

		port := cfg.Postgres.Port
		if port == 0 {
			port = 5432
		}
		sslmode := cfg.Postgres.SslMode
		if sslmode == "" {
			sslmode = "disable"
		}
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
			cfg.Postgres.Host, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, port, sslmode)
		return postgres.Open(dsn), nil

	case "sqlite":
		if cfg.Sqlite.Path == "" {
			return nil, fmt.Errorf("missing connection info")
		}
		return sqlite.Open(cfg.Sqlite.Path), nil

	default:
		return nil, fmt.Errorf("unknown db driver %s", cfg.Driver)
	}
}

// Open connects to the configured database. Constraint violations are
// translated to gorm.ErrDuplicatedKey.
func Open(cfg Config) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if cfg.Debug {
		db.Logger = db.Logger.LogMode(logger.Info)
	}

	return db, nil
}

// OpenAndMigrate opens the database and brings the schema up to date
func OpenAndMigrate(cfg Config) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	err = models.AutoMigrate(db)
	if err != nil {
		return nil, err
	}

	log.Printf("dbconn: connected to %s database", cfg.Driver)
	return db, nil
}
