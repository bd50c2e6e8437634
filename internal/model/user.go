// Package model contain gorm model for recording data to database
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Roles an account can hold. Role gates which endpoints a user may call.
const (
	// RoleAdmin can manage every resource
	RoleAdmin = "admin"
	// RoleRecruiter can post jobs and review applications on them
	RoleRecruiter = "recruiter"
	// RoleCandidate can browse jobs and apply to them
	RoleCandidate = "candidate"
)

// User is the base account record shared by every role.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Username  string    `gorm:"unique;not null" json:"username"`
	Email     *string   `gorm:"unique" json:"email"`
	Password  string    `json:"-"`
	GoogleId  string    `json:"-"`
	Role      string    `gorm:"type:text;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GoogleUserInfo is the shape decoded from Google's userinfo endpoint.
type GoogleUserInfo struct {
	GID       string `json:"sub"`
	FirstName string `json:"given_name"`
	LastName  string `json:"family_name"`
	Email     string `json:"email"`
}

// UserModel is implemented by role profile models so OAuth login can
// create or load either profile type through one code path.
type UserModel interface {
	FillGoogleInfo(info GoogleUserInfo)
	GetID() uuid.UUID
}

// EditableCandidateInfo is the part of a candidate profile the owner may edit.
type EditableCandidateInfo struct {
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Tel       *string        `json:"tel"`
	SoftSkill pq.StringArray `gorm:"type:text[]" json:"soft_skill"`
}

// CandidateProfile holds candidate-facing data keyed by the base user id.
type CandidateProfile struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user"`
	EditableCandidateInfo
	// ResumeID points at the candidate's default resume file, set by upload.
	ResumeID      *int `json:"resume_id"`
	Resume        File `gorm:"foreignKey:ResumeID;references:ID" json:"-"`
	CoverLetterID *int `json:"cover_letter_id"`
	CoverLetter   File `gorm:"foreignKey:CoverLetterID;references:ID" json:"-"`
}

// FillGoogleInfo populates a fresh candidate profile from Google user info.
func (cp *CandidateProfile) FillGoogleInfo(info GoogleUserInfo) {
	cp.User = User{
		Email:    &info.Email,
		GoogleId: info.GID,
		Username: info.Email,
		Role:     RoleCandidate,
	}
	cp.FirstName = info.FirstName
	cp.LastName = info.LastName
}

// GetID returns the base user id of the profile.
func (cp *CandidateProfile) GetID() uuid.UUID {
	return cp.UserID
}

// EditableRecruiterInfo is the part of a recruiter profile the owner may edit.
type EditableRecruiterInfo struct {
	CompanyName string  `json:"company_name"`
	Overview    string  `json:"overview"`
	Industry    string  `json:"industry"`
	Website     *string `json:"website"`
	Tel         *string `json:"tel"`
}

// RecruiterProfile holds recruiter-facing data keyed by the base user id.
type RecruiterProfile struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user"`
	EditableRecruiterInfo
	Jobs []Job `gorm:"foreignKey:RecruiterID" json:"-"`
}

// FillGoogleInfo populates a fresh recruiter profile from Google user info.
func (rp *RecruiterProfile) FillGoogleInfo(info GoogleUserInfo) {
	rp.User = User{
		Email:    &info.Email,
		GoogleId: info.GID,
		Username: info.Email,
		Role:     RoleRecruiter,
	}
	rp.CompanyName = info.FirstName
}

// GetID returns the base user id of the profile.
func (rp *RecruiterProfile) GetID() uuid.UUID {
	return rp.UserID
}
