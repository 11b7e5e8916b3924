package orchestrator

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/onlyvolunteer/backend/models"
)

const recentAttendanceLimit = 5

// ContextStore provides the reads that context building needs.
type ContextStore interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	AttendancesByUser(ctx context.Context, userID string, limit int) ([]models.Attendance, error)
}

// BuildContext assembles the per-request view of a user: profile, role,
// recent volunteer activity, and the page they are on. Every read failure
// degrades to a sparser context instead of failing the request.
func BuildContext(ctx context.Context, store ContextStore, userID string, page models.PageContext) *models.UserContext {
	uc := &models.UserContext{
		UserID:                userID,
		Skills:                []string{},
		Interests:             []string{},
		RecentActivitySummary: []string{},
		PageContext:           page,
	}

	var (
		user        *models.User
		attendances []models.Attendance
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := store.GetUser(gctx, userID)
		if err != nil {
			log.Printf("[Context] User read failed for %s: %v", userID, err)
			return nil
		}
		user = u
		return nil
	})
	g.Go(func() error {
		a, err := store.AttendancesByUser(gctx, userID, recentAttendanceLimit)
		if err != nil {
			log.Printf("[Context] Attendance read failed for %s: %v", userID, err)
			return nil
		}
		attendances = a
		return nil
	})
	_ = g.Wait()

	if user != nil {
		uc.DisplayName = user.DisplayName
		uc.Email = user.Email
		uc.Role = user.Role
		uc.Location = user.Location
		if len(user.Skills) > 0 {
			uc.Skills = user.Skills
		}
		if len(user.Interests) > 0 {
			uc.Interests = user.Interests
		}
	}

	for _, a := range attendances {
		uc.TotalHours += a.Hours
		if a.ListingTitle != "" && len(uc.RecentActivitySummary) < 3 {
			uc.RecentActivitySummary = append(uc.RecentActivitySummary, "Volunteered: "+a.ListingTitle)
		}
	}
	return uc
}
