package models

import "time"

// Listing represents a volunteer opportunity in Firestore. Records are
// created and updated by NGOs through the main app; this service only reads
// them, except for the catalog maintenance job which fills in tags and
// embeddings.
type Listing struct {
	ID               string    `json:"id" firestore:"-"`
	Title            string    `json:"title" firestore:"title"`
	Description      string    `json:"description,omitempty" firestore:"description,omitempty"`
	OrganizationID   string    `json:"organizationId,omitempty" firestore:"organizationId,omitempty"`
	OrganizationName string    `json:"organizationName,omitempty" firestore:"organizationName,omitempty"`
	Location         string    `json:"location,omitempty" firestore:"location,omitempty"`
	Category         string    `json:"category,omitempty" firestore:"category,omitempty"`
	Tags             []string  `json:"tags,omitempty" firestore:"tags,omitempty"`
	SkillsRequired   []string  `json:"skillsRequired,omitempty" firestore:"skillsRequired,omitempty"`
	SlotsTotal       int       `json:"slotsTotal,omitempty" firestore:"slotsTotal,omitempty"`
	SlotsFilled      int       `json:"slotsFilled,omitempty" firestore:"slotsFilled,omitempty"`
	StartTime        time.Time `json:"startTime,omitempty" firestore:"startTime,omitempty"`
	EndTime          time.Time `json:"endTime,omitempty" firestore:"endTime,omitempty"`
	Embedding        []float64 `json:"-" firestore:"embedding,omitempty"`
	UpdatedAt        time.Time `json:"updatedAt,omitempty" firestore:"updatedAt,omitempty"`
}

// SlotsLeft returns the remaining capacity, never negative.
func (l *Listing) SlotsLeft() int {
	left := l.SlotsTotal - l.SlotsFilled
	if left < 0 {
		return 0
	}
	return left
}

// MatchResult is a scored listing surfaced to the user. Derived, not
// persisted (the top 3 may ride along in chat responses).
type MatchResult struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	OrganizationName string `json:"organizationName,omitempty"`
	Location         string `json:"location,omitempty"`
	MatchScore       int    `json:"matchScore"`
	MatchExplanation string `json:"matchExplanation"`
}

// Alert is an emergency or community alert, either hand-curated or
// generated from news by the alert pipeline (Source == "ai").
type Alert struct {
	ID        string    `json:"id" firestore:"-"`
	Title     string    `json:"title" firestore:"title"`
	Body      string    `json:"body,omitempty" firestore:"body,omitempty"`
	Type      string    `json:"type" firestore:"type"`
	Region    string    `json:"region,omitempty" firestore:"region,omitempty"`
	Severity  string    `json:"severity,omitempty" firestore:"severity,omitempty"`
	Source    string    `json:"-" firestore:"source,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty" firestore:"createdAt,omitempty"`
	ExpiresAt time.Time `json:"-" firestore:"expiresAt,omitempty"`
}

// AidResource is a nearby-aid record (food bank, shelter, supply point).
type AidResource struct {
	ID          string    `json:"id" firestore:"-"`
	Title       string    `json:"title" firestore:"title"`
	Category    string    `json:"category,omitempty" firestore:"category,omitempty"`
	Location    string    `json:"location,omitempty" firestore:"location,omitempty"`
	Urgency     string    `json:"urgency,omitempty" firestore:"urgency,omitempty"`
	Description string    `json:"description,omitempty" firestore:"description,omitempty"`
	CreatedAt   time.Time `json:"-" firestore:"createdAt,omitempty"`
}

// DonationDrive is an ongoing donation campaign.
type DonationDrive struct {
	ID          string    `json:"id" firestore:"-"`
	Title       string    `json:"title" firestore:"title"`
	Description string    `json:"description,omitempty" firestore:"description,omitempty"`
	Location    string    `json:"location,omitempty" firestore:"location,omitempty"`
	ItemsNeeded []string  `json:"itemsNeeded,omitempty" firestore:"itemsNeeded,omitempty"`
	NGOID       string    `json:"-" firestore:"ngoId,omitempty"`
	EndDate     time.Time `json:"endDate,omitempty" firestore:"endDate,omitempty"`
	CreatedAt   time.Time `json:"-" firestore:"createdAt,omitempty"`
}

// Attendance records a volunteer showing up for a listing.
type Attendance struct {
	ID           string    `json:"id" firestore:"-"`
	UserID       string    `json:"userId" firestore:"userId"`
	ListingID    string    `json:"listingId,omitempty" firestore:"listingId,omitempty"`
	ListingTitle string    `json:"listingTitle,omitempty" firestore:"listingTitle,omitempty"`
	Hours        float64   `json:"hours,omitempty" firestore:"hours,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty" firestore:"createdAt,omitempty"`
}

// Donation records a monetary donation to a drive.
type Donation struct {
	ID        string    `json:"id" firestore:"-"`
	UserID    string    `json:"userId" firestore:"userId"`
	DriveID   string    `json:"driveId,omitempty" firestore:"driveId,omitempty"`
	Amount    float64   `json:"amount" firestore:"amount"`
	CreatedAt time.Time `json:"createdAt,omitempty" firestore:"createdAt,omitempty"`
}
