package storage

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	firestorepb "cloud.google.com/go/firestore/apiv1/firestorepb"

	"github.com/onlyvolunteer/backend/models"
)

// Firestore "in" filters accept at most 10 values; larger id sets are
// queried in chunks.
const inQueryChunkSize = 10

// AttendancesByUser fetches a user's newest attendance records. The ordered
// query needs a composite index; when it is missing the query falls back to
// an unordered read sorted in memory.
func (c *Client) AttendancesByUser(ctx context.Context, userID string, limit int) ([]models.Attendance, error) {
	ordered := c.client.Collection(attendancesCollection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit)
	records, err := c.collectAttendances(ctx, ordered)
	if err == nil {
		return records, nil
	}

	unordered := c.client.Collection(attendancesCollection).
		Where("userId", "==", userID).
		Limit(limit * 4)
	records, err = c.collectAttendances(ctx, unordered)
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// AllAttendancesByUser fetches every attendance record for a user.
func (c *Client) AllAttendancesByUser(ctx context.Context, userID string) ([]models.Attendance, error) {
	query := c.client.Collection(attendancesCollection).Where("userId", "==", userID)
	return c.collectAttendances(ctx, query)
}

// AttendancesForListings fetches attendance records across a set of
// listings, chunking the "in" filter.
func (c *Client) AttendancesForListings(ctx context.Context, listingIDs []string) ([]models.Attendance, error) {
	var all []models.Attendance
	for _, chunk := range chunkIDs(listingIDs) {
		query := c.client.Collection(attendancesCollection).Where("listingId", "in", chunk)
		records, err := c.collectAttendances(ctx, query)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return all, nil
}

func (c *Client) collectAttendances(ctx context.Context, query firestore.Query) ([]models.Attendance, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var records []models.Attendance
	for {
		doc, err := iter.Next()
		if isIteratorDone(err) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query attendances: %w", err)
		}

		var rec models.Attendance
		if err := doc.DataTo(&rec); err != nil {
			continue
		}
		rec.ID = doc.Ref.ID
		records = append(records, rec)
	}
	return records, nil
}

// DonationsByUser fetches all of a user's donations.
func (c *Client) DonationsByUser(ctx context.Context, userID string) ([]models.Donation, error) {
	query := c.client.Collection(donationsCollection).Where("userId", "==", userID)
	return c.collectDonations(ctx, query)
}

// DonationsForDrives fetches donations across a set of drives, chunking the
// "in" filter.
func (c *Client) DonationsForDrives(ctx context.Context, driveIDs []string) ([]models.Donation, error) {
	var all []models.Donation
	for _, chunk := range chunkIDs(driveIDs) {
		query := c.client.Collection(donationsCollection).Where("driveId", "in", chunk)
		records, err := c.collectDonations(ctx, query)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return all, nil
}

func (c *Client) collectDonations(ctx context.Context, query firestore.Query) ([]models.Donation, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var records []models.Donation
	for {
		doc, err := iter.Next()
		if isIteratorDone(err) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query donations: %w", err)
		}

		var rec models.Donation
		if err := doc.DataTo(&rec); err != nil {
			continue
		}
		rec.ID = doc.Ref.ID
		records = append(records, rec)
	}
	return records, nil
}

// CountUsers returns the total number of user documents.
func (c *Client) CountUsers(ctx context.Context) (int, error) {
	return c.countCollection(ctx, c.client.Collection(usersCollection).Query)
}

// CountOrganizations returns the number of NGO accounts.
func (c *Client) CountOrganizations(ctx context.Context) (int, error) {
	query := c.client.Collection(usersCollection).Where("role", "in", []string{models.RoleNGO, "org"})
	return c.countCollection(ctx, query)
}

// CountListings returns the total number of volunteer listings.
func (c *Client) CountListings(ctx context.Context) (int, error) {
	return c.countCollection(ctx, c.client.Collection(listingsCollection).Query)
}

// CountDrives returns the total number of donation drives.
func (c *Client) CountDrives(ctx context.Context) (int, error) {
	return c.countCollection(ctx, c.client.Collection(drivesCollection).Query)
}

func (c *Client) countCollection(ctx context.Context, query firestore.Query) (int, error) {
	results, err := query.NewAggregationQuery().WithCount("count").Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to run count aggregation: %w", err)
	}
	value, ok := results["count"].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("unexpected count aggregation result %T", results["count"])
	}
	return int(value.GetIntegerValue()), nil
}

func chunkIDs(ids []string) [][]string {
	var chunks [][]string
	for len(ids) > inQueryChunkSize {
		chunks = append(chunks, ids[:inQueryChunkSize])
		ids = ids[inQueryChunkSize:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}
