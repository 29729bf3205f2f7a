package models

import (
	"time"

	"github.com/angelmondragon/storefront/pkg/enums"
)

// Product is a catalog entry. Price keeps the display text entered by admins
// (for example "₹1,499"); it is parsed into a decimal wherever money is computed.
type Product struct {
	ID          uint          `gorm:"column:id;primaryKey;autoIncrement"`
	Title       string        `gorm:"column:title;not null;index:products_title_idx"`
	Price       string        `gorm:"column:price;not null"`
	Image       string        `gorm:"column:image;not null"`
	Section     enums.Section `gorm:"column:section;not null;index:products_section_idx"`
	Description string        `gorm:"column:description;not null"`
	InStock     bool          `gorm:"column:in_stock;not null"`
	CreatedAt   time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
