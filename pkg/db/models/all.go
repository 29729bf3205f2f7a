package models

// All lists every persisted model, in dependency order, for gorm AutoMigrate.
func All() []any {
	return []any{
		&Product{},
		&Account{},
		&CartLine{},
		&WishlistEntry{},
		&Address{},
		&Order{},
		&OrderLine{},
	}
}
