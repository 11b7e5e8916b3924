package storage

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/onlyvolunteer/backend/models"
)

// ConversationHistory returns the last few messages for a user, oldest
// first, ready to replay as model chat history.
func (c *Client) ConversationHistory(ctx context.Context, userID string, limit int) ([]models.ChatTurn, error) {
	ref := c.client.Collection(chatCollection).Doc(userID).Collection(messagesSubcollection)
	iter := ref.OrderBy("timestamp", firestore.Desc).Limit(limit).Documents(ctx)
	defer iter.Stop()

	var turns []models.ChatTurn
	for {
		doc, err := iter.Next()
		if isIteratorDone(err) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query conversation: %w", err)
		}

		var turn models.ChatTurn
		if err := doc.DataTo(&turn); err != nil {
			continue
		}
		if turn.Content == "" {
			continue
		}
		if turn.Role != models.ChatRoleUser && turn.Role != models.ChatRoleModel {
			turn.Role = models.ChatRoleUser
		}
		turns = append(turns, turn)
	}

	// reverse to chronological order
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// AppendMessage adds one message to the user's conversation. Called twice
// per exchange, once for each side.
func (c *Client) AppendMessage(ctx context.Context, userID, role, content string) error {
	ref := c.client.Collection(chatCollection).Doc(userID).Collection(messagesSubcollection).NewDoc()
	_, err := ref.Set(ctx, map[string]interface{}{
		"role":      role,
		"content":   content,
		"timestamp": firestore.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// GetRateCounter reads the fixed-window counter for a rate-limit key. A
// missing document yields a zero counter, not an error.
func (c *Client) GetRateCounter(ctx context.Context, key string) (*models.RateCounter, error) {
	doc, err := c.client.Collection(rateLimitsCollection).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return &models.RateCounter{}, nil
		}
		return nil, fmt.Errorf("failed to get rate counter: %w", err)
	}

	var counter models.RateCounter
	if err := doc.DataTo(&counter); err != nil {
		return nil, fmt.Errorf("failed to parse rate counter: %w", err)
	}
	return &counter, nil
}

// PutRateCounter merge-writes the counter after a request is admitted.
func (c *Client) PutRateCounter(ctx context.Context, key string, counter *models.RateCounter) error {
	docRef := c.client.Collection(rateLimitsCollection).Doc(key)
	_, err := docRef.Set(ctx, map[string]interface{}{
		"minuteWindow": counter.MinuteWindow,
		"minuteCount":  counter.MinuteCount,
		"hourWindow":   counter.HourWindow,
		"hourCount":    counter.HourCount,
		"updatedAt":    firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update rate counter: %w", err)
	}
	return nil
}
