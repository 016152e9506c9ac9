package models

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleManager  Role = "MANAGER"
)

type User struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"not null" json:"name"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	Phone string `json:"phone"`
	Role  Role   `gorm:"type:VARCHAR(20);default:'CUSTOMER'" json:"role"`
}

func (u *User) IsManager() bool {
	return u.Role == RoleManager
}
