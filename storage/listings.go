package storage

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/onlyvolunteer/backend/models"
)

// UpcomingListings fetches listings whose start time is in the future.
func (c *Client) UpcomingListings(ctx context.Context, limit int) ([]models.Listing, error) {
	query := c.client.Collection(listingsCollection).
		Where("startTime", ">", time.Now()).
		Limit(limit)
	return c.collectListings(ctx, query)
}

// RecentListings fetches listings without a time filter, used as a fallback
// when nothing upcoming exists.
func (c *Client) RecentListings(ctx context.Context, limit int) ([]models.Listing, error) {
	query := c.client.Collection(listingsCollection).Limit(limit)
	return c.collectListings(ctx, query)
}

// ListingsByOrganization fetches all listings owned by an organization.
func (c *Client) ListingsByOrganization(ctx context.Context, orgID string) ([]models.Listing, error) {
	query := c.client.Collection(listingsCollection).Where("organizationId", "==", orgID)
	return c.collectListings(ctx, query)
}

// ListingsMissingTags fetches listings the catalog sweep still needs to tag.
func (c *Client) ListingsMissingTags(ctx context.Context, limit int) ([]models.Listing, error) {
	all, err := c.RecentListings(ctx, limit)
	if err != nil {
		return nil, err
	}
	missing := make([]models.Listing, 0)
	for _, l := range all {
		if len(l.Tags) == 0 || len(l.Embedding) == 0 {
			missing = append(missing, l)
		}
	}
	return missing, nil
}

// UpdateListingCatalog writes generated tags and the content embedding back
// onto a listing.
func (c *Client) UpdateListingCatalog(ctx context.Context, listingID string, tags []string, embedding []float64) error {
	updates := map[string]interface{}{
		"updatedAt": time.Now(),
	}
	if len(tags) > 0 {
		updates["tags"] = tags
	}
	if len(embedding) > 0 {
		updates["embedding"] = embedding
	}
	if len(updates) == 1 {
		return nil
	}

	docRef := c.client.Collection(listingsCollection).Doc(listingID)
	if _, err := docRef.Set(ctx, updates, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to update listing %s: %w", listingID, err)
	}
	return nil
}

func (c *Client) collectListings(ctx context.Context, query firestore.Query) ([]models.Listing, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var listings []models.Listing
	for {
		doc, err := iter.Next()
		if isIteratorDone(err) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query listings: %w", err)
		}

		var listing models.Listing
		if err := doc.DataTo(&listing); err != nil {
			continue
		}
		listing.ID = doc.Ref.ID
		listings = append(listings, listing)
	}
	return listings, nil
}

// RecentAlerts fetches the newest alerts, expired or not; callers filter.
func (c *Client) RecentAlerts(ctx context.Context, limit int) ([]models.Alert, error) {
	iter := c.client.Collection(alertsCollection).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var alerts []models.Alert
	for {
		doc, err := iter.Next()
		if isIteratorDone(err) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query alerts: %w", err)
		}

		var alert models.Alert
		if err := doc.DataTo(&alert); err != nil {
			continue
		}
		alert.ID = doc.Ref.ID
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

// AddAlert writes a new alert document.
func (c *Client) AddAlert(ctx context.Context, alert *models.Alert) error {
	alert.CreatedAt = time.Now()
	ref, _, err := c.client.Collection(alertsCollection).Add(ctx, alert)
	if err != nil {
		return fmt.Errorf("failed to add alert: %w", err)
	}
	alert.ID = ref.ID
	return nil
}

// DeleteGeneratedAlerts removes every alert written by the news pipeline,
// leaving hand-curated alerts (no source field) alone. Returns the number
// deleted.
func (c *Client) DeleteGeneratedAlerts(ctx context.Context) (int, error) {
	iter := c.client.Collection(alertsCollection).
		Where("source", "==", "ai").
		Documents(ctx)
	defer iter.Stop()

	deleted := 0
	for {
		doc, err := iter.Next()
		if isIteratorDone(err) {
			break
		}
		if err != nil {
			return deleted, fmt.Errorf("failed to query generated alerts: %w", err)
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return deleted, fmt.Errorf("failed to delete alert %s: %w", doc.Ref.ID, err)
		}
		deleted++
	}
	return deleted, nil
}

// RecentAidResources fetches the newest aid resources.
func (c *Client) RecentAidResources(ctx context.Context, limit int) ([]models.AidResource, error) {
	iter := c.client.Collection(aidCollection).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var resources []models.AidResource
	for {
		doc, err := iter.Next()
		if isIteratorDone(err) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query aid resources: %w", err)
		}

		var res models.AidResource
		if err := doc.DataTo(&res); err != nil {
			continue
		}
		res.ID = doc.Ref.ID
		resources = append(resources, res)
	}
	return resources, nil
}

// RecentDrives fetches the newest donation drives.
func (c *Client) RecentDrives(ctx context.Context, limit int) ([]models.DonationDrive, error) {
	query := c.client.Collection(drivesCollection).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit)
	return c.collectDrives(ctx, query)
}

// DrivesByNGO fetches all drives owned by an NGO.
func (c *Client) DrivesByNGO(ctx context.Context, ngoID string) ([]models.DonationDrive, error) {
	query := c.client.Collection(drivesCollection).Where("ngoId", "==", ngoID)
	return c.collectDrives(ctx, query)
}

func (c *Client) collectDrives(ctx context.Context, query firestore.Query) ([]models.DonationDrive, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var drives []models.DonationDrive
	for {
		doc, err := iter.Next()
		if isIteratorDone(err) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query drives: %w", err)
		}

		var drive models.DonationDrive
		if err := doc.DataTo(&drive); err != nil {
			continue
		}
		drive.ID = doc.Ref.ID
		drives = append(drives, drive)
	}
	return drives, nil
}

func isIteratorDone(err error) bool {
	return err == iterator.Done
}
