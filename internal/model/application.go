package model

import (
	"time"

	"github.com/google/uuid"
)

// Application pipeline statuses. Every application starts as applied;
// recruiters move it through the rest of the pipeline. Accepted and
// rejected are not terminal, a recruiter may still move an application
// back into the pipeline.
const (
	ApplicationStatusApplied      = "applied"
	ApplicationStatusScreening    = "screening"
	ApplicationStatusInterviewing = "interviewing"
	ApplicationStatusRejected     = "rejected"
	ApplicationStatusAccepted     = "accepted"
)

// ApplicationStatuses lists every status an application can hold.
var ApplicationStatuses = []string{
	ApplicationStatusApplied,
	ApplicationStatusScreening,
	ApplicationStatusInterviewing,
	ApplicationStatusRejected,
	ApplicationStatusAccepted,
}

// ValidApplicationStatus reports whether s is a member of the status enum.
func ValidApplicationStatus(s string) bool {
	for _, status := range ApplicationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Application represents a candidate's submission against a job listing.
// The composite unique index enforces one application per candidate per job.
type Application struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	JobID uint `gorm:"not null;index;uniqueIndex:idx_job_candidate" json:"job_id"`
	Job   Job  `gorm:"foreignKey:JobID;references:ID" json:"-"`

	CandidateID uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_job_candidate" json:"candidate_id"`
	Candidate   CandidateProfile `gorm:"foreignKey:CandidateID;references:UserID" json:"-"`

	Status string  `gorm:"type:text" json:"status"`
	Notes  *string `gorm:"type:text" json:"notes,omitempty"`

	AppliedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"applied_at"`

	ResumeID *int `json:"resume_id"`
	Resume   File `gorm:"foreignKey:ResumeID;references:ID" json:"-"`

	CoverLetterID *int `json:"cover_letter_id"`
	CoverLetter   File `gorm:"foreignKey:CoverLetterID;references:ID" json:"-"`

	// Deleting an application always cascades to its reminders.
	Reminders []Reminder `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"reminders,omitempty"`
}

// ApplicationReviewEntry is the shape returned to a listing's reviewer,
// the application with the applicant's profile attached.
type ApplicationReviewEntry struct {
	Application
	Candidate CandidateProfile `json:"candidate"`
}
