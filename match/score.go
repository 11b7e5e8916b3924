package match

import (
	"math"
	"strings"

	"github.com/onlyvolunteer/backend/models"
)

// The two rule-based scorers are deliberately kept as distinct named
// strategies. WeightedProfileScore ranks against availability tags and
// causes; CapacityAwareScore ranks against remaining slots. Callers choose
// one explicitly.

// Availability keyword families: a user availability phrase on the left
// matches any listing tag containing one of the keywords on the right.
var availabilityFamilies = map[string][]string{
	"weekend": {"weekend", "saturday", "sunday"},
	"weekday": {"weekday", "mon", "fri"},
	"evening": {"evening"},
}

// WeightedProfileScore scores a normalized profile against a listing using
// the weighted factors skills 35 / causes 25 / location 20 / availability
// 15 / tag overlap 5. Deterministic; rounds once at the end and clamps to
// [0, 100].
func WeightedProfileScore(profile *models.MatchProfile, listing *models.Listing) int {
	var score float64
	titleDesc := strings.ToLower(listing.Title + " " + listing.Description)

	// Skills (35%): fraction of required skills covered by a fuzzy match
	// against the user's skills. Without declared requirements, fall back
	// to skill-vs-tag matching for partial credit.
	if len(listing.SkillsRequired) > 0 {
		matched := 0
		for _, skill := range profile.Skills {
			for _, required := range listing.SkillsRequired {
				if containsEitherFold(skill, required) {
					matched++
					break
				}
			}
		}
		score += float64(matched) / float64(len(listing.SkillsRequired)) * 35
	} else if anyTagContainsAny(listing.Tags, profile.Skills) {
		score += 25
	} else {
		score += 15
	}

	// Causes (25%): causes against title+description or tags; interests
	// against title+description.
	causeMatch := false
	for _, cause := range profile.Causes {
		if strings.Contains(titleDesc, strings.ToLower(cause)) || anyTagContains(listing.Tags, cause) {
			causeMatch = true
			break
		}
	}
	if !causeMatch {
		for _, interest := range profile.Interests {
			if strings.Contains(titleDesc, strings.ToLower(interest)) {
				causeMatch = true
				break
			}
		}
	}
	if causeMatch {
		score += 25
	}

	// Location (20%): bidirectional substring when both declared, neutral
	// credit otherwise.
	if profile.Location != "" && listing.Location != "" {
		if containsEitherFold(profile.Location, listing.Location) {
			score += 20
		} else {
			score += 10
		}
	} else {
		score += 10
	}

	// Availability (15%): full credit when the user's availability keyword
	// matches a listing schedule tag; half-ish credit when either side
	// expresses an availability signal without a match.
	userAvail := strings.ToLower(profile.Availability)
	availMatch := false
	for family, keywords := range availabilityFamilies {
		if !strings.Contains(userAvail, family) {
			continue
		}
		for _, tag := range listing.Tags {
			tagLower := strings.ToLower(tag)
			for _, kw := range keywords {
				if strings.Contains(tagLower, kw) {
					availMatch = true
					break
				}
			}
			if availMatch {
				break
			}
		}
		if availMatch {
			break
		}
	}
	switch {
	case userAvail != "" && availMatch:
		score += 15
	case userAvail != "" || hasScheduleTag(listing.Tags):
		score += 7
	}

	// Tag overlap (5%): any listing tag containing a combined profile term.
	// Availability keywords count as terms so schedule tags overlap too.
	terms := make([]string, 0, len(profile.Skills)+len(profile.Interests)+len(profile.Causes)+3)
	terms = append(terms, profile.Skills...)
	terms = append(terms, profile.Interests...)
	terms = append(terms, profile.Causes...)
	for family := range availabilityFamilies {
		if strings.Contains(userAvail, family) {
			terms = append(terms, family)
		}
	}
	if anyTagContainsAny(listing.Tags, terms) {
		score += 5
	}

	return int(math.Round(math.Min(score, 100)))
}

// CapacityAwareScore is the alternate strategy used by the legacy matching
// tool: skills 40 / interest-category 25 / location 20 / remaining
// capacity 15. Skills require exact (case-insensitive) membership and the
// capacity factor rewards listings with open slots.
func CapacityAwareScore(profile *models.MatchProfile, listing *models.Listing) int {
	var score float64

	// Skills (40%)
	if len(listing.SkillsRequired) > 0 {
		matched := 0
		for _, skill := range profile.Skills {
			for _, required := range listing.SkillsRequired {
				if strings.EqualFold(skill, required) {
					matched++
					break
				}
			}
		}
		score += float64(matched) / float64(len(listing.SkillsRequired)) * 40
	} else {
		score += 20
	}

	// Interest vs category (25%)
	category := strings.ToLower(listing.Category)
	if category == "" {
		category = strings.ToLower(listing.Title)
	}
	for _, interest := range profile.Interests {
		if strings.Contains(category, strings.ToLower(interest)) {
			score += 25
			break
		}
	}

	// Location (20%)
	if profile.Location != "" && listing.Location != "" {
		if containsEitherFold(profile.Location, listing.Location) {
			score += 20
		} else {
			score += 10
		}
	}

	// Remaining capacity (15%)
	switch left := listing.SlotsLeft(); {
	case left > 5:
		score += 15
	case left > 0:
		score += 8
	}

	return int(math.Round(math.Min(score, 100)))
}

// containsEitherFold reports whether either string contains the other,
// case-insensitively.
func containsEitherFold(a, b string) bool {
	al, bl := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(al, bl) || strings.Contains(bl, al)
}

func anyTagContains(tags []string, term string) bool {
	termLower := strings.ToLower(term)
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), termLower) {
			return true
		}
	}
	return false
}

func anyTagContainsAny(tags []string, terms []string) bool {
	for _, term := range terms {
		if anyTagContains(tags, term) {
			return true
		}
	}
	return false
}

func hasScheduleTag(tags []string) bool {
	for _, tag := range tags {
		tagLower := strings.ToLower(tag)
		if strings.Contains(tagLower, "weekend") ||
			strings.Contains(tagLower, "weekday") ||
			strings.Contains(tagLower, "evening") {
			return true
		}
	}
	return false
}
