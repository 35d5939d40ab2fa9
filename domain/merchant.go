package domain

import (
	"time"
)

// MerchantProfile carries the business-facing fields a MERCHANT user needs to
// sell: public brand name, pickup location and the WhatsApp contact customers
// use to close a purchase (the marketplace has no cart or checkout).
type MerchantProfile struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint      `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	BusinessName   string    `gorm:"column:business_name;type:text;not null" json:"business_name"`
	Location       string    `gorm:"column:location;type:text" json:"location"`
	WhatsappNumber string    `gorm:"column:whatsapp_number;type:text" json:"whatsapp_number"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
}

func (MerchantProfile) TableName() string {
	return "merchant_profiles"
}
