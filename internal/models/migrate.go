package models

import (
	"log"

	"gorm.io/gorm"
)

// All lists every model in dependency order
func All() []interface{} {
	return []interface{}{
		&Country{}, &Region{}, &Location{},
		&Company{}, &Brand{}, &Structure{}, &Building{},
		&RoomType{}, &BedType{}, &Room{}, &Service{},
		&Employee{}, &ContractType{}, &JobType{}, &Contract{},
		&Tablet{}, &TimestampDirection{},
		&Activity{}, &ActivityRoom{}, &Timestamp{},
		&AttendanceShift{}, &ApiLog{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	for _, m := range All() {
		err := db.AutoMigrate(m)
		if err != nil {
			log.Printf("failed to automigrate database %v", err)
			return err
		}
	}

	return nil
}
