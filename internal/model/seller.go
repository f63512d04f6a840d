package model

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleSeller Role = "SELLER"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSeller
}

type Seller struct {
	BaseModel
	Name     string  `db:"name" json:"name"`
	Username string  `db:"username" json:"username"`
	Email    string  `db:"email" json:"email"`
	Phone    *string `db:"phone" json:"phone"`
	Role     Role    `db:"role" json:"role"`
}
