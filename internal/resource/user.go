package resource

import (
	"time"

	"aqarat_backend/internal/model"
)

type User struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Address   string    `json:"address"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUser(u *model.User) User {
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// UsersPage is the admin user listing.
type UsersPage struct {
	Users       []User     `json:"users"`
	Pagination  Pagination `json:"pagination"`
	AdminsTotal int64      `json:"admins_total"`
}

func NewUsersPage(users []model.User, page, perPage int, total, admins int64) UsersPage {
	out := UsersPage{
		Users:       make([]User, 0, len(users)),
		Pagination:  NewPagination(page, perPage, total, len(users)),
		AdminsTotal: admins,
	}
	for i := range users {
		out.Users = append(out.Users, NewUser(&users[i]))
	}
	return out
}
