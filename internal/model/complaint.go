// Package model provides data models for the support desk service.
package model

import "time"

// Complaint status values.
const (
	ComplaintStatusPending  = "Pending"
	ComplaintStatusNotFound = "Not Found"
)

// Complaint represents a support ticket raised by a user.
type Complaint struct {
	ID               int64     `json:"-" gorm:"primaryKey;autoIncrement"`
	ComplaintID      string    `json:"complaint_id" gorm:"type:varchar(64);index;not null"`
	Name             string    `json:"name" gorm:"type:varchar(255);not null"`
	PhoneNumber      string    `json:"phone_number" gorm:"type:varchar(64);not null"`
	Email            string    `json:"email" gorm:"type:varchar(255);not null"`
	ComplaintDetails string    `json:"complaint_details" gorm:"type:text;not null"`
	Status           string    `json:"status" gorm:"type:varchar(32);not null"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for Complaint.
func (Complaint) TableName() string {
	return "complaints"
}
