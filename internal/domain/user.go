package domain

// User is an account that can obtain API tokens. Users are removed with a
// real delete.
type User struct {
	AuditModel
	Username     string `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:255" json:"email"`
	FirstName    string `gorm:"size:150" json:"first_name"`
	PasswordHash string `gorm:"size:255" json:"-"`
	IsActive     bool   `gorm:"not null" json:"is_active"`
}
