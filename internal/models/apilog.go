package models

import (
	"gorm.io/datatypes"
)

// ApiLog is the audit row written for every tablet API call
type ApiLog struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Date          datatypes.Date `gorm:"not null;index" json:"date"`
	Time          datatypes.Time `gorm:"not null" json:"time"`
	MessageLevel  uint           `gorm:"not null" json:"message_level"`
	Method        string         `gorm:"size:255" json:"method"`
	Path          string         `gorm:"size:255" json:"path"`
	RawURI        string         `json:"raw_uri"`
	URLName       string         `gorm:"size:255" json:"url_name"`
	FuncName      string         `gorm:"size:255" json:"func_name"`
	RemoteAddr    string         `gorm:"size:255" json:"remote_addr"`
	ForwardedFor  string         `gorm:"size:255" json:"forwarded_for"`
	UserAgent     string         `gorm:"size:255" json:"user_agent"`
	ClientAgent   string         `gorm:"size:255" json:"client_agent"`
	ClientVersion string         `gorm:"size:255" json:"client_version"`
	User          string         `gorm:"size:255" json:"user"`
	TabletID      uint           `gorm:"index" json:"tablet_id"`
	Kwargs        datatypes.JSON `json:"kwargs"`
	Args          datatypes.JSON `json:"args"`
	Extra         string         `json:"extra"`
	ApiVersion    uint           `json:"api_version"`
}

func (ApiLog) TableName() string { return "api_log" }
