package model

type PosStatus string

const (
	PosStatusOpen       PosStatus = "OPEN"
	PosStatusClose      PosStatus = "CLOSE"
	PosStatusRenovation PosStatus = "RENOVATION"
)

func (s PosStatus) Valid() bool {
	switch s {
	case PosStatusOpen, PosStatusClose, PosStatusRenovation:
		return true
	}
	return false
}

type PointOfSale struct {
	BaseModel
	Name        string    `db:"name" json:"name"`
	Address     string    `db:"address" json:"address"`
	Phone       string    `db:"phone" json:"phone"`
	Description *string   `db:"description" json:"description"`
	Status      PosStatus `db:"status" json:"status"`
}
