package dbconn

import (
	"strings"
	"testing"
)

func TestOpenUnknownDriver(t *testing.T) {
	var cfg Config
	cfg.Driver = "oracle"

	_, err := Open(cfg)
	if err == nil || !strings.Contains(err.Error(), "unknown db driver oracle") {
		t.Fatalf("expected unknown driver error, got %v", err)
	}
}

func TestOpenMissingConnectionInfo(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "sqlite"} {
		var cfg Config
		cfg.Driver = driver

		_, err := Open(cfg)
		if err == nil || err.Error() != "missing connection info" {
			t.Fatalf("%s: expected missing connection info, got %v", driver, err)
		}
	}
}

func TestOpenAndMigrateSqlite(t *testing.T) {
	var cfg Config
	cfg.Driver = "sqlite"
	cfg.Sqlite.Path = "file:dbconn_migrate?mode=memory&cache=shared"

	db, err := OpenAndMigrate(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, table := range []string{"work_tablet", "work_activities_rooms", "work_timestamps", "api_log", "work_tablet_buildings"} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("expected table %s", table)
		}
	}
}

func TestMysqlDSNKeepsDatesInUTC(t *testing.T) {
	var cfg Config
	cfg.Mysql.User = "hotels"
	cfg.Mysql.Password = "secret"
	cfg.Mysql.Host = "db:3306"
	cfg.Mysql.Database = "hotels"

	dsn := mysqlDSN(cfg)
	if dsn != "hotels:secret@tcp(db:3306)/hotels?charset=utf8mb4&parseTime=True&loc=UTC" {
		t.Fatalf("unexpected dsn %s", dsn)
	}
	if strings.Contains(dsn, "loc=Local") {
		t.Fatalf("dates would be shifted by the host zone: %s", dsn)
	}
}
