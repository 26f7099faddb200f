package model

// ChatRequest is the inbound payload for a chatbot turn.
type ChatRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	UserText string `json:"user_text" binding:"required"`
}

// BotReply is a structured chatbot reply carrying the textual response
// and, when a ticket was raised or looked up, the complaint payload.
// A turn that only asks a follow-up question is returned as a bare
// string instead of a BotReply.
type BotReply struct {
	Response         string `json:"response"`
	ComplaintDetails any    `json:"complaint_details"`
}

// NewComplaintRequest is the inbound payload for creating a complaint.
type NewComplaintRequest struct {
	Name             string `json:"name" binding:"required"`
	PhoneNumber      string `json:"phone_number" binding:"required"`
	Email            string `json:"email" binding:"required"`
	ComplaintDetails string `json:"complaint_details" binding:"required"`
}
