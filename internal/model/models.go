package model

// All returns every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&PasswordResetToken{},
		&LoginHistory{},
		&Owner{},
		&Agency{},
		&Property{},
		&PropertyLocation{},
		&PropertyImage{},
		&PropertyVideo{},
		&Review{},
		&Settings{},
		&Slider{},
		&UserSupport{},
	}
}
