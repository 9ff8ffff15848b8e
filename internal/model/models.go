package model

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&Follow{},
		&Fan{},
		&Tag{},
		&Post{},
		&Comment{},
		&Like{},
		&Notification{},
		&Writer{},
		&Book{},
	}
}
