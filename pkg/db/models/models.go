package models

// All lists every persisted model in dependency order, for AutoMigrate in
// tests and sqlite-backed development runs.
func All() []any {
	return []any{
		&User{},
		&Address{},
		&Restaurant{},
		&MenuItem{},
		&Review{},
	}
}
