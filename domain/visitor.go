package domain

import (
	"time"
)

// Visitor is a lightweight request-level tracking row written by the
// visitor-tracking middleware. Best effort only, no invariants.
type Visitor struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	IPAddress string    `gorm:"column:ip_address;type:text" json:"ip_address"`
	Location  string    `gorm:"column:location;type:text" json:"location"`
	UserAgent string    `gorm:"column:user_agent;type:text" json:"user_agent"`
	URLPath   string    `gorm:"column:url_path;type:text" json:"url_path"`
	Method    string    `gorm:"column:method;type:text" json:"method"`
	Referrer  string    `gorm:"column:referrer;type:text" json:"referrer"`
	VisitDate time.Time `gorm:"column:visit_date;index" json:"visit_date"`
}

func (Visitor) TableName() string {
	return "visitors"
}
