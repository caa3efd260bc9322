package dto

import "github.com/google/uuid"

type CreateReportRequest struct {
	ReportedUserID    *uuid.UUID `json:"reported_user_id"`
	ReportedMessageID *uuid.UUID `json:"reported_message_id"`
	Reason            string     `json:"reason"`
}

type ProcessReportRequest struct {
	Status    string `json:"status"`
	AdminNote string `json:"admin_note"`
}

type CreateReviewRequest struct {
	ReviewedID uuid.UUID  `json:"reviewed_id"`
	TripID     *uuid.UUID `json:"trip_id"`
	Rating     int        `json:"rating"`
	Comment    string     `json:"comment"`
}

type UpdateReviewRequest struct {
	Rating  *int   `json:"rating"`
	Comment string `json:"comment"`
}

type SendMessageRequest struct {
	RecipientID uuid.UUID `json:"recipient_id"`
	Body        string    `json:"body"`
}
