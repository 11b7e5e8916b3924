package models

import "time"

// Role constants
const (
	RoleVolunteer = "volunteer"
	RoleNGO       = "ngo"
	RoleAdmin     = "admin"
)

// User represents a platform user in Firestore
// @Description User account and volunteer profile
type User struct {
	ID          string `json:"id" firestore:"-" example:"user@example.com"`
	Email       string `json:"email" firestore:"email" example:"user@example.com"`
	DisplayName string `json:"displayName" firestore:"displayName" example:"Aisyah Rahman"`
	Password    string `json:"-" firestore:"password"` // Hashed, never sent to client
	Provider    string `json:"provider" firestore:"provider" example:"email"` // "email" or "google"
	GoogleID    string `json:"-" firestore:"googleId,omitempty"`
	Role        string `json:"role" firestore:"role" example:"volunteer"` // volunteer, ngo, admin

	// Match profile fields, merged in by the assessment pipeline
	Skills       []string `json:"skills,omitempty" firestore:"skills,omitempty"`
	Interests    []string `json:"interests,omitempty" firestore:"interests,omitempty"`
	Availability string   `json:"availability,omitempty" firestore:"availability,omitempty"`
	Location     string   `json:"location,omitempty" firestore:"location,omitempty"`
	Causes       []string `json:"causes,omitempty" firestore:"causes,omitempty"`

	Points                int       `json:"points,omitempty" firestore:"points,omitempty"`
	MatchProfileEmbedding []float64 `json:"-" firestore:"matchProfileEmbedding,omitempty"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// MatchProfile assembles the stored profile fields into a MatchProfile.
func (u *User) MatchProfile() MatchProfile {
	return MatchProfile{
		Skills:       u.Skills,
		Interests:    u.Interests,
		Availability: u.Availability,
		Location:     u.Location,
		Causes:       u.Causes,
	}
}

// RegisterRequest represents registration request
// @Description User registration request
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email" example:"user@example.com"`
	Password    string `json:"password" binding:"required,min=6" example:"password123"`
	DisplayName string `json:"displayName" binding:"required" example:"Aisyah Rahman"`
	Role        string `json:"role,omitempty" example:"volunteer"`
}

// LoginRequest represents login request
// @Description User login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// GoogleAuthRequest represents Google SSO authentication request
// @Description Google SSO authentication request
type GoogleAuthRequest struct {
	IDToken string `json:"idToken" binding:"required" example:"eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// UpdateProfileRequest represents profile update request
// @Description Profile update request; empty fields are left untouched
type UpdateProfileRequest struct {
	DisplayName  string   `json:"displayName,omitempty" example:"Aisyah R."`
	Skills       []string `json:"skills,omitempty"`
	Interests    []string `json:"interests,omitempty"`
	Availability string   `json:"availability,omitempty" example:"weekends"`
	Location     string   `json:"location,omitempty" example:"Selangor"`
	Causes       []string `json:"causes,omitempty"`
}

// AuthResponse represents authentication response
// @Description Authentication response with JWT token
type AuthResponse struct {
	Token   string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	User    *User  `json:"user"`
	Message string `json:"message,omitempty" example:"Login successful"`
}

// ProfileResponse represents user profile response
// @Description User profile response
type ProfileResponse struct {
	User    *User  `json:"user"`
	Message string `json:"message,omitempty" example:"Profile updated successfully"`
}
