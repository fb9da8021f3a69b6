package validity

import (
	"testing"
	"time"

	"github.com/campuslink/campuslink/models"
)

var now = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func ts(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func TestIsActive_NoDates(t *testing.T) {
	for _, typ := range models.TopicTypes {
		topic := models.Topic{Type: typ, Title: "no dates"}
		if !IsActive(topic, now) {
			t.Errorf("%s without date fields should be active", typ)
		}
	}
}

func TestIsActive_DeadlineTypes(t *testing.T) {
	for _, typ := range []models.TopicType{models.TypeScholarship, models.TypeJob, models.TypeRecruitment} {
		expired := models.Topic{Type: typ, ApplicationDeadline: ts(-24 * time.Hour)}
		if IsActive(expired, now) {
			t.Errorf("%s with past deadline should be expired", typ)
		}
		open := models.Topic{Type: typ, ApplicationDeadline: ts(24 * time.Hour)}
		if !IsActive(open, now) {
			t.Errorf("%s with future deadline should be active", typ)
		}
		// EndDate is irrelevant for deadline-driven types.
		endOnly := models.Topic{Type: typ, EndDate: ts(-48 * time.Hour)}
		if !IsActive(endOnly, now) {
			t.Errorf("%s with only a past end date should stay active", typ)
		}
	}
}

func TestIsActive_EndDateTypes(t *testing.T) {
	for _, typ := range []models.TopicType{models.TypeEvent, models.TypeExtracurricular} {
		over := models.Topic{Type: typ, EndDate: ts(-time.Hour)}
		if IsActive(over, now) {
			t.Errorf("%s past its end date should be expired", typ)
		}
		running := models.Topic{Type: typ, EndDate: ts(time.Hour)}
		if !IsActive(running, now) {
			t.Errorf("%s before its end date should be active", typ)
		}
	}
}

func TestIsActive_EitherFutureRule(t *testing.T) {
	for _, typ := range []models.TopicType{models.TypeNotification, models.TypeAdvertisement, models.TypeVolunteer, models.TypeInternship} {
		mixed := models.Topic{Type: typ, EndDate: ts(-24 * time.Hour), ApplicationDeadline: ts(24 * time.Hour)}
		if !IsActive(mixed, now) {
			t.Errorf("%s with one future date should be active", typ)
		}
		bothPast := models.Topic{Type: typ, EndDate: ts(-24 * time.Hour), ApplicationDeadline: ts(-time.Hour)}
		if IsActive(bothPast, now) {
			t.Errorf("%s with every date in the past should be expired", typ)
		}
		onePast := models.Topic{Type: typ, EndDate: ts(-24 * time.Hour)}
		if IsActive(onePast, now) {
			t.Errorf("%s whose only date is past should be expired", typ)
		}
	}
}

func TestIsActive_UnknownTypeGenericRule(t *testing.T) {
	topic := models.Topic{Type: "legacy", EndDate: ts(-time.Hour), ApplicationDeadline: ts(-time.Hour)}
	if IsActive(topic, now) {
		t.Error("unknown type with all dates past should be expired")
	}
	topic.ApplicationDeadline = ts(time.Hour)
	if !IsActive(topic, now) {
		t.Error("unknown type with one future date should be active")
	}
}

func TestIsActive_ZeroDateTreatedAsAbsent(t *testing.T) {
	var zero time.Time
	topic := models.Topic{Type: models.TypeScholarship, ApplicationDeadline: &zero}
	if !IsActive(topic, now) {
		t.Error("zero-valued deadline should behave like an absent one")
	}
}

func TestIsActive_Deterministic(t *testing.T) {
	topic := models.Topic{Type: models.TypeEvent, EndDate: ts(time.Minute)}
	first := IsActive(topic, now)
	for i := 0; i < 100; i++ {
		if IsActive(topic, now) != first {
			t.Fatal("IsActive must be deterministic for identical inputs")
		}
	}
}

func TestFilter(t *testing.T) {
	topics := []models.Topic{
		{ID: "a", Type: models.TypeScholarship, ApplicationDeadline: ts(time.Hour)},
		{ID: "b", Type: models.TypeScholarship, ApplicationDeadline: ts(-time.Hour)},
		{ID: "c", Type: models.TypeNotification},
	}
	got := Filter(topics, now)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("unexpected filter result: %+v", got)
	}
}
