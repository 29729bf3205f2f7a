package models

import (
	"time"

	"github.com/angelmondragon/storefront/pkg/enums"
)

// Address is a shipping address owned by an account. At most one per account is default.
type Address struct {
	ID          uint              `gorm:"column:id;primaryKey;autoIncrement"`
	AccountID   uint              `gorm:"column:account_id;not null;index:addresses_account_id_idx"`
	Name        string            `gorm:"column:name;not null"`
	Phone       string            `gorm:"column:phone;not null"`
	Line1       string            `gorm:"column:line1;not null"`
	Line2       string            `gorm:"column:line2"`
	City        string            `gorm:"column:city;not null"`
	State       string            `gorm:"column:state;not null"`
	PostalCode  string            `gorm:"column:postal_code;not null"`
	Landmark    string            `gorm:"column:landmark"`
	AddressType enums.AddressType `gorm:"column:address_type;not null"`
	IsDefault   bool              `gorm:"column:is_default;not null"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
}
