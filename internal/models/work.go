package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	GenreMale    = "male"
	GenreFemale  = "female"
	GenreUnknown = "unknown"
)

// Employee is a person working under one or more contracts
type Employee struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	FirstName   string `gorm:"size:255;not null" json:"first_name"`
	LastName    string `gorm:"size:255;not null" json:"last_name"`
	Description string `json:"description"`
	Genre       string `gorm:"size:10;not null" json:"genre"`
	TaxCode     string `gorm:"size:255" json:"tax_code"`
}

func (Employee) TableName() string { return "work_employees" }

// ContractType carries the working hour norms of a contract
type ContractType struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description string `json:"description"`
	DailyHours  uint   `json:"daily_hours"`
	WeeklyHours uint   `json:"weekly_hours"`
}

func (ContractType) TableName() string { return "work_contracttype" }

type JobType struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description string `json:"description"`
}

func (JobType) TableName() string { return "work_jobtype" }

// Contract links an Employee to a Company for a validity window and a
// set of buildings.
type Contract struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	EmployeeID     uint            `gorm:"not null;uniqueIndex:uq_contract_roll;uniqueIndex:uq_contract_period" json:"employee_id"`
	Employee       *Employee       `json:"employee,omitempty"`
	CompanyID      uint            `gorm:"not null;uniqueIndex:uq_contract_roll;uniqueIndex:uq_contract_period" json:"company_id"`
	Company        *Company        `json:"company,omitempty"`
	Description    string          `json:"description"`
	ContractTypeID uint            `json:"contract_type_id"`
	ContractType   *ContractType   `json:"contract_type,omitempty"`
	JobTypeID      uint            `json:"job_type_id"`
	JobType        *JobType        `json:"job_type,omitempty"`
	RollNumber     string          `gorm:"size:255;not null;uniqueIndex:uq_contract_roll" json:"roll_number"`
	StartDate      datatypes.Date  `gorm:"not null;uniqueIndex:uq_contract_period" json:"start_date"`
	EndDate        *datatypes.Date `gorm:"uniqueIndex:uq_contract_period" json:"end_date"`
	Level          uint            `json:"level"`
	Enabled        bool            `json:"enabled"`
	Associated     bool            `json:"associated"`
	Guid           uuid.UUID       `gorm:"type:char(36);not null;uniqueIndex" json:"guid"`
	Buildings      []Building      `gorm:"many2many:work_contract_buildings" json:"buildings,omitempty"`
}

func (Contract) TableName() string { return "work_contracts" }

// Active reports whether the contract is enabled and today falls inside
// its validity window.
func (c *Contract) Active(today time.Time) bool {
	day := dayNumber(DateOf(today))
	if !c.Enabled || dayNumber(c.StartDate) > day {
		return false
	}
	return c.EndDate == nil || dayNumber(*c.EndDate) >= day
}

// Tablet is a field device. Its Guid seeds the one-time password and is
// never changed after creation.
type Tablet struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Description string     `json:"description"`
	Enabled     bool       `gorm:"column:status;not null" json:"enabled"`
	Guid        uuid.UUID  `gorm:"type:char(36);not null;uniqueIndex" json:"guid"`
	Buildings   []Building `gorm:"many2many:work_tablet_buildings" json:"buildings,omitempty"`
}

func (Tablet) TableName() string { return "work_tablet" }

// TimestampDirection is the kind of a clock event (enter, exit or other
// like holidays or sick leave).
type TimestampDirection struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	ShortCode   string `gorm:"size:3" json:"short_code"`
	Description string `json:"description"`
	TypeEnter   bool   `json:"type_enter"`
	TypeExit    bool   `json:"type_exit"`
}

func (TimestampDirection) TableName() string { return "work_timestamp_directions" }

// Activity is the work record of a contract for one day
type Activity struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ContractID uint           `gorm:"not null;uniqueIndex:uq_activity_contract_date" json:"contract_id"`
	Contract   *Contract      `json:"contract,omitempty"`
	Date       datatypes.Date `gorm:"not null;uniqueIndex:uq_activity_contract_date" json:"date"`
	Rooms      []ActivityRoom `json:"rooms,omitempty"`
}

func (Activity) TableName() string { return "work_activities" }

// ActivityRoom is a service performed in a room during an Activity
type ActivityRoom struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ActivityID  uint   `gorm:"not null;uniqueIndex:uq_activity_room_service" json:"activity_id"`
	RoomID      uint   `gorm:"not null;uniqueIndex:uq_activity_room_service" json:"room_id"`
	ServiceID   uint   `gorm:"not null;uniqueIndex:uq_activity_room_service" json:"service_id"`
	ServiceQty  uint   `gorm:"not null" json:"service_qty"`
	Description string `json:"description"`
}

func (ActivityRoom) TableName() string { return "work_activities_rooms" }

// Timestamp is a single clock event
type Timestamp struct {
	ID          uint                `gorm:"primaryKey" json:"id"`
	ContractID  uint                `gorm:"not null;uniqueIndex:uq_timestamp" json:"contract_id"`
	Contract    *Contract           `json:"contract,omitempty"`
	DirectionID uint                `gorm:"not null;uniqueIndex:uq_timestamp" json:"direction_id"`
	Direction   *TimestampDirection `json:"direction,omitempty"`
	Date        datatypes.Date      `gorm:"not null;uniqueIndex:uq_timestamp" json:"date"`
	Time        datatypes.Time      `gorm:"not null;uniqueIndex:uq_timestamp" json:"time"`
	Description string              `json:"description"`
}

func (Timestamp) TableName() string { return "work_timestamps" }

// AttendanceShift is one reconciled line of the offline attendance report:
// an Enter paired with the following Exit, or an other-direction event.
type AttendanceShift struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	ContractID       uint            `gorm:"not null;uniqueIndex:uq_shift" json:"contract_id"`
	Date             datatypes.Date  `gorm:"not null;index;uniqueIndex:uq_shift" json:"date"`
	Seq              int             `gorm:"not null;uniqueIndex:uq_shift" json:"seq"`
	EnterTime        *datatypes.Time `json:"enter_time"`
	EnterDescription string          `json:"enter_description"`
	ExitTime         *datatypes.Time `json:"exit_time"`
	ExitDescription  string          `json:"exit_description"`
	OtherTime        *datatypes.Time `json:"other_time"`
	DurationSeconds  int64           `json:"duration_seconds"`
	Notes            string          `json:"notes"`
	CreatedAt        time.Time       `json:"created_at"`
}

func (AttendanceShift) TableName() string { return "work_attendance_shifts" }
