// Package testkit opens throwaway SQLite databases seeded with a small
// hotel catalog for package tests.
package testkit

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hotels-sync/internal/dbconn"
	"hotels-sync/internal/models"
)

// Now is the reference instant of the fixtures, aligned on a TOTP step
var Now = time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC)

// TabletGuid is the secret of the enabled fixture tablet
var TabletGuid = uuid.MustParse("3f2b6c1e-8a4d-4e7b-9c2a-5d1e0f7a6b3c")

const (
	TabletID         = 7
	DisabledTabletID = 8
	ContractID       = 3
	EndedContractID  = 4
	OtherContractID  = 5
	RoomID           = 10
	OtherRoomID      = 11
	AnnexRoomID      = 12
	ServiceID        = 2
	ExtraServiceID   = 5
	ExtrasBuildingID = 4
	EnterDirectionID = 1
	ExitDirectionID  = 2
	OtherDirectionID = 3
)

// OpenDB returns a migrated in-memory database private to the test
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	var cfg dbconn.Config
	cfg.Driver = "sqlite"
	cfg.Sqlite.Path = fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := dbconn.OpenAndMigrate(cfg)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDb, err := db.DB()
	if err != nil {
		t.Fatalf("test database handle: %v", err)
	}
	// one connection keeps the shared cache free of table locks
	sqlDb.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDb.Close() })

	return db
}

// OpenFileDB returns a migrated database file private to the test, served
// by a pool of connections so concurrent writers really race.
func OpenFileDB(t testing.TB, conns int) *gorm.DB {
	t.Helper()

	var cfg dbconn.Config
	cfg.Driver = "sqlite"
	cfg.Sqlite.Path = fmt.Sprintf("file:%s?_busy_timeout=10000&_journal_mode=WAL&_txlock=immediate",
		filepath.Join(t.TempDir(), "hotels.db"))

	db, err := dbconn.OpenAndMigrate(cfg)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDb, err := db.DB()
	if err != nil {
		t.Fatalf("test database handle: %v", err)
	}
	sqlDb.SetMaxOpenConns(conns)
	t.Cleanup(func() { sqlDb.Close() })

	return db
}

func date(y int, m time.Month, d int) datatypes.Date {
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func create(t testing.TB, db *gorm.DB, values ...interface{}) {
	t.Helper()
	for _, v := range values {
		err := db.Create(v).Error
		if err != nil {
			t.Fatalf("seed %T: %v", v, err)
		}
	}
}

// Seed fills db with two structures, their buildings and rooms, three
// contracts and two tablets (7 enabled on buildings 1 and 2, 8 disabled).
func Seed(t testing.TB, db *gorm.DB) {
	t.Helper()

	create(t, db,
		&models.Country{ID: 1, Name: "Italy"},
		&models.Region{ID: 1, Name: "Sicily", CountryID: 1},
		&models.Location{ID: 1, Name: "Milazzo", RegionID: 1, Province: "ME"},
		&models.Location{ID: 2, Name: "Messina", RegionID: 1, Province: "ME"},
		&models.Company{ID: 1, Name: "Muflone Hotels"},
		&models.Brand{ID: 1, Name: "Seaside"},
		&models.Structure{ID: 1, Name: "Hotel Miramare", Address: "Via Marina 1", LocationID: 1, BrandID: 1, CompanyID: 1},
		&models.Structure{ID: 2, Name: "Residence Capo", Address: "Via Capo 9", LocationID: 2, BrandID: 1, CompanyID: 1},
		&models.Building{ID: 1, StructureID: 1, Name: "Main", Address: "Lungomare 3", LocationID: 1},
		&models.Building{ID: 2, StructureID: 1, Name: "Annex", LocationID: 1},
		&models.Building{ID: 3, StructureID: 2, Name: "Capo", LocationID: 2},
		&models.Building{ID: ExtrasBuildingID, StructureID: 1, Name: "Extras", LocationID: 1, Extras: true},
		&models.RoomType{ID: 1, Name: "Double"},
		&models.BedType{ID: 1, Name: "King"},
		&models.Room{ID: RoomID, BuildingID: 1, Name: "101", RoomTypeID: 1, BedTypeID: 1},
		&models.Room{ID: OtherRoomID, BuildingID: 1, Name: "102", RoomTypeID: 1, BedTypeID: 1},
		&models.Room{ID: AnnexRoomID, BuildingID: 2, Name: "201", RoomTypeID: 1, BedTypeID: 1},
		&models.Room{ID: 13, BuildingID: 3, Name: "301", RoomTypeID: 1, BedTypeID: 1},
		&models.Room{ID: 21, BuildingID: ExtrasBuildingID, Name: "Extra 2", RoomTypeID: 1, BedTypeID: 1},
		&models.Room{ID: 20, BuildingID: ExtrasBuildingID, Name: "Extra 1", RoomTypeID: 1, BedTypeID: 1},
		&models.Service{ID: ServiceID, Name: "Cleaning", RoomService: true, ShowInApp: true},
		&models.Service{ID: ExtraServiceID, Name: "Breakfast", ExtraService: true},
		&models.Employee{ID: 1, FirstName: "Mario", LastName: "Rossi", Genre: models.GenreMale},
		&models.Employee{ID: 2, FirstName: "Anna", LastName: "Bianchi", Genre: models.GenreFemale},
		&models.ContractType{ID: 1, Name: "Full time", DailyHours: 8, WeeklyHours: 40},
		&models.JobType{ID: 1, Name: "Housekeeper"},
		&models.TimestampDirection{ID: EnterDirectionID, Name: "ENTER", ShortCode: "E", TypeEnter: true},
		&models.TimestampDirection{ID: ExitDirectionID, Name: "EXIT", ShortCode: "U", TypeExit: true},
		&models.TimestampDirection{ID: OtherDirectionID, Name: "HOLIDAY", ShortCode: "F", Description: "Holiday"},
	)

	var b1, b2, b3 models.Building
	db.First(&b1, 1)
	db.First(&b2, 2)
	db.First(&b3, 3)

	ended := date(2023, 12, 31)
	create(t, db,
		&models.Contract{ID: ContractID, EmployeeID: 1, CompanyID: 1, ContractTypeID: 1, JobTypeID: 1,
			RollNumber: "R-3", StartDate: date(2023, 1, 1), Enabled: true,
			Guid: uuid.MustParse("0b7c51b2-1d0e-4c8e-9e57-2f3a40b1d001"), Buildings: []models.Building{b1}},
		&models.Contract{ID: EndedContractID, EmployeeID: 2, CompanyID: 1, ContractTypeID: 1, JobTypeID: 1,
			RollNumber: "R-4", StartDate: date(2023, 6, 1), EndDate: &ended, Enabled: true,
			Guid: uuid.MustParse("0b7c51b2-1d0e-4c8e-9e57-2f3a40b1d002"), Buildings: []models.Building{b2, b3}},
		&models.Contract{ID: OtherContractID, EmployeeID: 1, CompanyID: 1, ContractTypeID: 1, JobTypeID: 1,
			RollNumber: "R-5", StartDate: date(2024, 1, 1), Enabled: true,
			Guid: uuid.MustParse("0b7c51b2-1d0e-4c8e-9e57-2f3a40b1d003"), Buildings: []models.Building{b3}},
		&models.Tablet{ID: TabletID, Description: "Reception", Enabled: true, Guid: TabletGuid,
			Buildings: []models.Building{b1, b2}},
		&models.Tablet{ID: DisabledTabletID, Description: "Broken", Enabled: false,
			Guid: uuid.MustParse("9d1f6c0a-2b3e-4f5a-8c7d-6e5f4a3b2c1d"), Buildings: []models.Building{b1}},
	)
}

// Count returns the number of rows of model matching the conditions
func Count(t testing.TB, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	err := db.Model(model).Where(query, args...).Count(&n).Error
	if err != nil {
		t.Fatalf("count %T: %v", model, err)
	}
	return n
}
