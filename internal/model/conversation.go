package model

import "time"

// ConversationRecord stores one chatbot turn for analytics and for
// building the transcript window of later turns.
type ConversationRecord struct {
	ID               int64     `json:"-" gorm:"primaryKey;autoIncrement"`
	UserID           string    `json:"user_id" gorm:"type:varchar(64);index;not null"`
	UserText         string    `json:"user_text" gorm:"type:text;not null"`
	ComplaintDetails string    `json:"complaint_details" gorm:"type:text"`
	Response         string    `json:"response" gorm:"type:text;not null"`
	FollowupFlag     int       `json:"followup_flag" gorm:"not null"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for ConversationRecord.
func (ConversationRecord) TableName() string {
	return "conversation_analytics"
}
