package model

import "time"

// UserDetail holds contact details collected from a user during a
// conversation. A new row is appended on every turn; the most recent
// row wins when details are looked up.
type UserDetail struct {
	ID          int64     `json:"-" gorm:"primaryKey;autoIncrement"`
	UserID      string    `json:"user_id" gorm:"type:varchar(64);index;not null"`
	Name        string    `json:"name" gorm:"type:varchar(255)"`
	PhoneNumber string    `json:"phone_number" gorm:"type:varchar(64)"`
	Email       string    `json:"email" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for UserDetail.
func (UserDetail) TableName() string {
	return "user_details"
}

// HasAny reports whether at least one contact field is non-empty.
func (u *UserDetail) HasAny() bool {
	return u.Name != "" || u.PhoneNumber != "" || u.Email != ""
}
