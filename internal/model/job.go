package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Job listing statuses. Listings that are not open are hidden from the
// public listing endpoint.
const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
)

// ValidJobStatus reports whether s is a known job status.
func ValidJobStatus(s string) bool {
	return s == JobStatusOpen || s == JobStatusClosed
}

// EditableJobInfo is the part of a job listing that the owning recruiter can edit.
type EditableJobInfo struct {
	CompanyName string         `gorm:"type:text" json:"company_name"`
	Title       string         `gorm:"type:text" json:"title"`
	Desc        string         `gorm:"type:text" json:"desc"`
	Experience  string         `gorm:"type:text" json:"experience"`
	Location    string         `gorm:"type:text" json:"location"`
	Type        string         `gorm:"type:text" json:"type"`
	Salary      string         `gorm:"type:text" json:"salary"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	Status      string         `gorm:"type:text;default:'open'" json:"status"`
}

// Job is gorm model for store job listing data in DB
type Job struct {
	ID          uint             `gorm:"primaryKey;autoIncrement;->" json:"id"`
	RecruiterID uuid.UUID        `gorm:"type:uuid;not null;index;<-:create" json:"recruiter_id"`
	Recruiter   RecruiterProfile `gorm:"foreignKey:RecruiterID;references:UserID" json:"recruiter"`
	EditableJobInfo
	PostedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"posted_at"`

	// Deleting a job always cascades to its applications.
	Applications []Application `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"applications,omitempty"`
	Skills       []Skill       `gorm:"many2many:job_skills" json:"skills,omitempty"`
}

// JobResponse is the listing response shape with a per-viewer applied flag.
type JobResponse struct {
	ID          uint             `json:"id"`
	RecruiterID uuid.UUID        `json:"recruiter_id"`
	Recruiter   RecruiterProfile `json:"recruiter"`
	PostedAt    time.Time        `json:"posted_at"`
	UserApplied bool             `json:"user_applied"`
	Skills      []Skill          `json:"skills,omitempty"`
	EditableJobInfo
}

// ToJobResponse converts a Job to a JobResponse for the given viewer,
// marking whether that viewer already applied.
func (j *Job) ToJobResponse(viewer User) (JobResponse, error) {
	var resp JobResponse

	b, err := json.Marshal(j)
	if err != nil {
		return resp, err
	}
	if err := json.Unmarshal(b, &resp); err != nil {
		return resp, err
	}

	applied := false
	if viewer.Role == RoleCandidate {
		for _, application := range j.Applications {
			if application.CandidateID == viewer.ID {
				applied = true
				break
			}
		}
	}
	resp.UserApplied = applied

	return resp, nil
}
