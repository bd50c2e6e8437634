package model

// CandidateResponse is returned by auth endpoints when the account is a candidate.
type CandidateResponse struct {
	User        CandidateProfile `json:"user"`
	AccessToken string           `json:"access_token"`
}

// RecruiterResponse is returned by auth endpoints when the account is a recruiter.
type RecruiterResponse struct {
	User        RecruiterProfile `json:"user"`
	AccessToken string           `json:"access_token"`
}

// AdminResponse is returned by auth endpoints when the account is an admin.
type AdminResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}
