// Package matching holds the cross-case candidate matching heuristics and
// the volunteer proximity filter.
package matching

import (
	"math"
	"strings"
	"time"

	"github.com/findhope/findhope-api/geo"
	"github.com/findhope/findhope-api/models"
)

const (
	// maxAgeDifference is the widest age gap two cases may have and still match.
	maxAgeDifference = 5
	// maxDateDifferenceDays is the widest last-seen date gap for the date branch.
	maxDateDifferenceDays = 7
	// VolunteerRadiusKm is the alert radius around a sighting.
	VolunteerRadiusKm = 5
)

// dateLayout is the wire format for last_seen_date values.
const dateLayout = "2006-01-02"

// PotentialMatches returns the subset of candidates that plausibly describe
// the same person as the source case. Candidates are expected to already be
// restricted to the opposite case type with status active; this function only
// applies the attribute heuristics. The result carries no ordering.
func PotentialMatches(source models.Case, candidates []models.Case) []models.Case {
	matches := []models.Case{}
	for _, candidate := range candidates {
		if IsPotentialMatch(source, candidate) {
			matches = append(matches, candidate)
		}
	}
	return matches
}

// IsPotentialMatch reports whether two cases plausibly describe the same
// person: ages within 5 years (a missing age counts as zero), identical
// gender, and either overlapping last-seen locations or last-seen dates
// within 7 days of each other.
func IsPotentialMatch(source, candidate models.Case) bool {
	ageDiff := candidate.Age - source.Age
	if ageDiff < 0 {
		ageDiff = -ageDiff
	}
	if ageDiff > maxAgeDifference {
		return false
	}
	if candidate.Gender != source.Gender {
		return false
	}
	return similarLocation(source.LastSeenLocation, candidate.LastSeenLocation) ||
		datesWithinDays(source.LastSeenDate, candidate.LastSeenDate, maxDateDifferenceDays)
}

// similarLocation reports whether either location contains the other,
// ignoring case. Two blank locations say nothing about proximity and never
// satisfy the branch.
func similarLocation(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// datesWithinDays reports whether both dates parse and lie within the given
// number of days of each other. A missing or malformed date skips the branch
// rather than falsely matching.
func datesWithinDays(a, b string, days int) bool {
	ta, errA := time.Parse(dateLayout, a)
	tb, errB := time.Parse(dateLayout, b)
	if errA != nil || errB != nil {
		return false
	}
	diff := ta.Sub(tb).Hours() / 24
	return math.Abs(diff) <= float64(days)
}

// NearbyVolunteers returns the active volunteers whose registered coordinates
// lie within radiusKm of the given point. Volunteers without coordinates are
// excluded, as is any volunteer whose distance works out to NaN.
func NearbyVolunteers(volunteers []models.Volunteer, lat, lon, radiusKm float64) []models.Volunteer {
	nearby := []models.Volunteer{}
	for _, vol := range volunteers {
		if vol.Latitude == nil || vol.Longitude == nil {
			continue
		}
		d := geo.Distance(lat, lon, *vol.Latitude, *vol.Longitude)
		if d <= radiusKm {
			nearby = append(nearby, vol)
		}
	}
	return nearby
}
