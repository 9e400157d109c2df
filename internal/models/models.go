package models

import (
	"time"

	"gorm.io/datatypes"
)

// Country is the top level of the location hierarchy
type Country struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `json:"description"`
}

func (Country) TableName() string { return "locations_countries" }

// Region belongs to a Country
type Region struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	Name        string   `gorm:"size:255;not null;uniqueIndex:uq_region_name_country" json:"name"`
	CountryID   uint     `gorm:"not null;uniqueIndex:uq_region_name_country" json:"country_id"`
	Country     *Country `json:"country,omitempty"`
	Description string   `json:"description"`
}

func (Region) TableName() string { return "locations_regions" }

// Location is a town or city inside a Region
type Location struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:255;not null;uniqueIndex:uq_location_region_name" json:"name"`
	RegionID    uint    `gorm:"not null;uniqueIndex:uq_location_region_name" json:"region_id"`
	Region      *Region `json:"region,omitempty"`
	Province    string  `gorm:"size:255" json:"province"`
	Description string  `json:"description"`
}

func (Location) TableName() string { return "locations_locations" }

// Company owns structures and employs through contracts
type Company struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	VatNumber   string `gorm:"size:255" json:"vat_number"`
}

func (Company) TableName() string { return "hotels_companies" }

// Brand groups structures under a commercial name
type Brand struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description string `json:"description"`
}

func (Brand) TableName() string { return "hotels_brands" }

// Structure is a hotel or inn, the root of the Structure/Building/Room catalog
type Structure struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	LocationID  uint      `json:"location_id"`
	Location    *Location `json:"location,omitempty"`
	BrandID     uint      `json:"brand_id"`
	Brand       *Brand    `json:"brand,omitempty"`
	CompanyID   uint      `json:"company_id"`
	Company     *Company  `json:"company,omitempty"`
}

func (Structure) TableName() string { return "hotels_structures" }

// Building is a part of a Structure holding rooms
type Building struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	StructureID uint       `gorm:"index" json:"structure_id"`
	Structure   *Structure `json:"structure,omitempty"`
	Name        string     `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description string     `json:"description"`
	Address     string     `json:"address"`
	LocationID  uint       `json:"location_id"`
	Location    *Location  `json:"location,omitempty"`
	Extras      bool       `json:"extras"`
	Rooms       []Room     `json:"rooms,omitempty"`
}

func (Building) TableName() string { return "hotels_buildings" }

type RoomType struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `json:"description"`
}

func (RoomType) TableName() string { return "hotels_roomtypes" }

type BedType struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description string `json:"description"`
}

func (BedType) TableName() string { return "hotels_bed_types" }

// Room belongs to a Building
type Room struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	BuildingID      uint      `gorm:"not null;uniqueIndex:uq_room_building_name" json:"building_id"`
	Name            string    `gorm:"size:255;not null;uniqueIndex:uq_room_building_name" json:"name"`
	Description     string    `json:"description"`
	RoomTypeID      uint      `json:"room_type_id"`
	RoomType        *RoomType `json:"room_type,omitempty"`
	BedTypeID       uint      `json:"bed_type_id"`
	BedType         *BedType  `json:"bed_type,omitempty"`
	SeatsBase       uint      `json:"seats_base"`
	SeatsAdditional uint      `json:"seats_additional"`
}

func (Room) TableName() string { return "hotels_rooms" }

// Service is something done in a room (cleaning, linen change, extras)
type Service struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description  string `json:"description"`
	RoomService  bool   `json:"room_service"`
	ExtraService bool   `json:"extra_service"`
	ShowInApp    bool   `json:"show_in_app"`
}

func (Service) TableName() string { return "hotels_services" }

// DateOf returns the calendar day of t (in t's location) as a UTC date,
// so the same day always maps to the same stored value.
func DateOf(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// TimeOf returns the wall clock of t truncated to the second
func TimeOf(t time.Time) datatypes.Time {
	return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0)
}

// FormatDate prints a date as YYYY-MM-DD regardless of the location it was scanned in
func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format(time.DateOnly)
}

// dayNumber flattens a date into a sortable integer
func dayNumber(d datatypes.Date) int {
	y, m, day := time.Time(d).Date()
	return y*10000 + int(m)*100 + day
}
