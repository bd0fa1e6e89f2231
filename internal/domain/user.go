package domain

import (
	"strings"
	"time"
)

// Role 封闭枚举，不接受任意字符串
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleHotelManager Role = "HOTEL_MANAGER"
	RoleCustomer     Role = "CUSTOMER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHotelManager, RoleCustomer:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole 大小写不敏感；兼容 "ROLE_" 前缀
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "ROLE_"))
	if !r.Valid() {
		return "", InvalidArgument("unknown role: " + s)
	}
	return r, nil
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Principal 当前操作人（由传输层显式传入，不走全局上下文）
type Principal struct {
	ID   string
	Role Role
}

func (u *User) Principal() Principal { return Principal{ID: u.ID, Role: u.Role} }

func (p Principal) Is(r Role) bool { return p.Role == r }

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
