package models

// All returns every model in migration order.
func All() []any {
	return []any{
		&Role{},
		&User{},
		&Category{},
		&Article{},
		&Comment{},
		&Like{},
		&Task{},
	}
}
