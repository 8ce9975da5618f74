package waitlist

import (
	"github.com/AryanCoding77/muscle-ai-waitlist/internal/models"
)

// Messages shown verbatim to whoever submitted the form.
const (
	MessageFieldsRequired = "Name and email are required"
	MessageAlreadyJoined  = "This email is already on our waitlist!"
	MessageJoinFailed     = "Failed to join waitlist. Please try again."
	MessageJoined         = "Successfully joined the waitlist!"
)

// JoinWaitlistRequest only checks presence. Whitespace and email format are accepted as typed.
type JoinWaitlistRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

type JoinWaitlistResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ========================================
// Mappers
// ========================================

func ToWaitlistEntryModel(req *JoinWaitlistRequest, email string) *models.WaitlistEntry {
	if req == nil {
		return nil
	}
	return &models.WaitlistEntry{
		Name:  req.Name,
		Email: email,
	}
}
