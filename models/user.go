package models

import (
	"time"
)

const (
	RoleMentor  = "mentor"
	RoleStudent = "student"
)

// User is the contact record for mentors and students. Credentials and
// sign-in live in a separate identity service; this app only needs names and
// email addresses for notifications.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"unique"`
	Role      string    `json:"role"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
