package domain

import (
	"time"
)

// CREATE TABLE public.products (
//     id               BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     merchant_id      BIGINT NOT NULL REFERENCES merchant_profiles(id) ON DELETE CASCADE,
//     category_id      BIGINT NULL REFERENCES categories(id) ON DELETE SET NULL,
//     name             TEXT NOT NULL,
//     description      TEXT,
//     original_price   NUMERIC NOT NULL,
//     clearance_price  NUMERIC NOT NULL,
//     image_url        TEXT,
//     whatsapp_link    TEXT,
//     created_at       TIMESTAMPTZ DEFAULT NOW()
// );

type Product struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	MerchantID     uint64    `gorm:"column:merchant_id;not null;index" json:"merchant_id"`
	CategoryID     *uint64   `gorm:"column:category_id;index" json:"category_id,omitempty"`
	Name           string    `gorm:"column:name;type:text;not null" json:"name"`
	Description    string    `gorm:"column:description;type:text" json:"description"`
	OriginalPrice  float64   `gorm:"column:original_price;type:numeric;not null" json:"original_price"`
	ClearancePrice float64   `gorm:"column:clearance_price;type:numeric;not null" json:"clearance_price"`
	ImageURL       string    `gorm:"column:image_url;type:text" json:"image_url"`
	WhatsappLink   string    `gorm:"column:whatsapp_link;type:text" json:"whatsapp_link"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`

	Admissions []AdmissionRecord `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
