// Package validity decides whether an institutional record should currently be
// shown. Expiry rules differ by record type; status is always computed from the
// record's date fields against an explicit instant, never stored.
package validity

import (
	"time"

	"github.com/campuslink/campuslink/models"
)

// IsActive reports whether topic is still visible at now. Pure and total: a
// record with no relevant date fields is always active, and a missing field is
// never an error.
func IsActive(topic models.Topic, now time.Time) bool {
	switch topic.Type {
	case models.TypeEvent, models.TypeExtracurricular:
		return !past(topic.EndDate, now)

	case models.TypeScholarship, models.TypeJob, models.TypeRecruitment:
		return !past(topic.ApplicationDeadline, now)

	case models.TypeNotification, models.TypeAdvertisement, models.TypeVolunteer, models.TypeInternship:
		// Either future date keeps the record alive; expiry requires every
		// present date field to be in the past.
		return eitherAlive(topic, now)

	default:
		return eitherAlive(topic, now)
	}
}

// Filter returns the topics from in that are active at now, preserving order.
func Filter(in []models.Topic, now time.Time) []models.Topic {
	out := make([]models.Topic, 0, len(in))
	for _, t := range in {
		if IsActive(t, now) {
			out = append(out, t)
		}
	}
	return out
}

func eitherAlive(topic models.Topic, now time.Time) bool {
	if !present(topic.EndDate) && !present(topic.ApplicationDeadline) {
		return true
	}
	if present(topic.EndDate) && !topic.EndDate.Before(now) {
		return true
	}
	if present(topic.ApplicationDeadline) && !topic.ApplicationDeadline.Before(now) {
		return true
	}
	return false
}

// past reports whether d is present and strictly before now. Absent or
// zero-valued dates (the unparseable-input case at the storage boundary) never
// expire a record.
func past(d *time.Time, now time.Time) bool {
	return present(d) && d.Before(now)
}

func present(d *time.Time) bool {
	return d != nil && !d.IsZero()
}
