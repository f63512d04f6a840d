package model

type Customer struct {
	BaseModel
	Name    string  `db:"name" json:"name"`
	Address *string `db:"address" json:"address"`
	Phone   *string `db:"phone" json:"phone"`
	Email   *string `db:"email" json:"email"`
}
