package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/onlyvolunteer/backend/config"
	"github.com/onlyvolunteer/backend/models"
)

// Firestore collection names
const (
	usersCollection       = "users"
	listingsCollection    = "volunteer_listings"
	alertsCollection      = "alerts"
	aidCollection         = "aid_resources"
	drivesCollection      = "donation_drives"
	attendancesCollection = "attendances"
	donationsCollection   = "donations"
	rateLimitsCollection  = "rate_limits"
	chatCollection        = "chat_sessions"
	messagesSubcollection = "messages"
)

// ErrUserNotFound is returned when a user lookup misses.
var ErrUserNotFound = errors.New("user not found")

// Client wraps Firestore operations
type Client struct {
	client *firestore.Client
}

// NewClient creates a new Firestore client
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	client, err := firestore.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &Client{client: client}, nil
}

// Close closes the Firestore client
func (c *Client) Close() error {
	return c.client.Close()
}

// CreateUser creates a new user. The email doubles as the document ID for
// uniqueness.
func (c *Client) CreateUser(ctx context.Context, user *models.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	docRef := c.client.Collection(usersCollection).Doc(user.Email)

	_, err := docRef.Get(ctx)
	if err == nil {
		return errors.New("user with this email already exists")
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to check user existence: %w", err)
	}

	if _, err = docRef.Set(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = user.Email
	return nil
}

// GetUser retrieves a user by document ID
func (c *Client) GetUser(ctx context.Context, userID string) (*models.User, error) {
	doc, err := c.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to parse user data: %w", err)
	}

	user.ID = doc.Ref.ID
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (c *Client) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return c.GetUser(ctx, email)
}

// GetUserByGoogleID retrieves a user by Google ID
func (c *Client) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	iter := c.client.Collection(usersCollection).Where("googleId", "==", googleID).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if isIteratorDone(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to parse user data: %w", err)
	}

	user.ID = doc.Ref.ID
	return &user, nil
}

// UpdateUser merge-writes a partial field set onto the user document
func (c *Client) UpdateUser(ctx context.Context, userID string, updates map[string]interface{}) error {
	updates["updatedAt"] = time.Now()

	docRef := c.client.Collection(usersCollection).Doc(userID)
	if _, err := docRef.Set(ctx, updates, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// SaveMatchProfile merge-writes the assessed profile onto the user record.
// Empty optional fields are unset with a delete sentinel so a re-assessment
// can clear stale answers.
func (c *Client) SaveMatchProfile(ctx context.Context, userID string, profile models.MatchProfile, embedding []float64) error {
	updates := map[string]interface{}{
		"skills":       sliceOrDelete(profile.Skills),
		"interests":    sliceOrDelete(profile.Interests),
		"availability": stringOrDelete(profile.Availability),
		"location":     stringOrDelete(profile.Location),
		"causes":       sliceOrDelete(profile.Causes),
	}
	if len(embedding) > 0 {
		updates["matchProfileEmbedding"] = embedding
	}

	return c.UpdateUser(ctx, userID, updates)
}

// DeleteUser deletes a user
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	if _, err := c.client.Collection(usersCollection).Doc(userID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func sliceOrDelete(values []string) interface{} {
	if len(values) == 0 {
		return firestore.Delete
	}
	return values
}

func stringOrDelete(value string) interface{} {
	if value == "" {
		return firestore.Delete
	}
	return value
}
