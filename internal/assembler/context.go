// Package assembler renders retrieved topics and the static contact directory
// into the bounded textual context handed to the language model, and builds
// the deterministic message sequence for one exchange.
package assembler

import (
	"fmt"
	"strings"
	"time"

	"github.com/campuslink/campuslink/models"
	"github.com/campuslink/campuslink/provider"
)

// NoContextSentinel is returned by FormatContext for an empty topic list.
const NoContextSentinel = "No relevant information was found in the portal records."

const (
	blockDelimiter = "\n---\n"
	dateLayout     = "02 Jan 2006"
)

var typeLabels = map[models.TopicType]string{
	models.TypeEvent:           "Event",
	models.TypeScholarship:     "Scholarship",
	models.TypeNotification:    "Notification",
	models.TypeJob:             "Job",
	models.TypeAdvertisement:   "Advertisement",
	models.TypeInternship:      "Internship",
	models.TypeRecruitment:     "Recruitment",
	models.TypeVolunteer:       "Volunteer",
	models.TypeExtracurricular: "Extracurricular",
}

// FormatContext renders topics as numbered blocks with present-only fields in
// a fixed order. Absent fields are omitted entirely. Deterministic: identical
// input yields identical output.
func FormatContext(topics []models.Topic) string {
	if len(topics) == 0 {
		return NoContextSentinel
	}

	blocks := make([]string, 0, len(topics))
	for i, t := range topics {
		var b strings.Builder
		fmt.Fprintf(&b, "[%d] %s: %s\n", i+1, typeLabel(t.Type), t.Title)
		writeField(&b, "Description", t.Description)
		writeField(&b, "Department", t.DepartmentName)
		writeDate(&b, "Start date", t.StartDate)
		writeDate(&b, "End date", t.EndDate)
		writeDate(&b, "Application deadline", t.ApplicationDeadline)
		writeField(&b, "Location", t.Location)
		writeField(&b, "Organizer", t.Organizer)
		writeField(&b, "Requirements", t.Requirements)
		writeField(&b, "Value", t.Value)
		writeField(&b, "Provider", t.Provider)
		writeField(&b, "Eligibility", t.Eligibility)
		writeField(&b, "Application process", t.ApplicationProcess)
		writeField(&b, "Company", t.Company)
		writeField(&b, "Position", t.Position)
		writeField(&b, "Salary", t.Salary)
		writeField(&b, "Contact", t.ContactInfo)
		if t.IsImportant {
			b.WriteString("[IMPORTANT]\n")
		}
		if !t.CreatedAt.IsZero() {
			fmt.Fprintf(&b, "Posted: %s\n", t.CreatedAt.Format(dateLayout))
		}
		blocks = append(blocks, strings.TrimRight(b.String(), "\n"))
	}
	return strings.Join(blocks, blockDelimiter)
}

func writeField(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

func writeDate(b *strings.Builder, label string, d *time.Time) {
	if d == nil || d.IsZero() {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, d.Format(dateLayout))
}

func typeLabel(t models.TopicType) string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

// contactTriggers are matched as substrings of the lowercased question.
var contactTriggers = []string{
	"contact", "email", "phone", "room", "address", "meet",
	"liên hệ", "lien he", "điện thoại", "dien thoai",
	"phòng", "phong", "địa chỉ", "dia chi", "gặp", "gap",
}

// ContactDirectory returns the formatted static directory block when the
// question mentions contact-related words, else the empty string.
func ContactDirectory(question string, departments []models.Department) string {
	q := strings.ToLower(question)
	triggered := false
	for _, w := range contactTriggers {
		if strings.Contains(q, w) {
			triggered = true
			break
		}
	}
	if !triggered || len(departments) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Contact directory:\n")
	for _, d := range departments {
		fmt.Fprintf(&b, "- %s", d.Name)
		if d.Email != "" {
			fmt.Fprintf(&b, " | email: %s", d.Email)
		}
		if d.Phone != "" {
			fmt.Fprintf(&b, " | phone: %s", d.Phone)
		}
		if d.Room != "" {
			fmt.Fprintf(&b, " | room: %s", d.Room)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

const systemTemplate = `You are the assistant of a student information portal. Answer using the information below.

%s

Response rules:
1. Prefer the provided records over general knowledge; say so when the records do not cover the question.
2. When several records match, enumerate them all.
3. Always state application deadlines and end dates when present.
4. Flag any record whose dates have passed as expired.
5. Answer in the language the question was asked in.`

// BuildMessages assembles the deterministic message sequence for the language
// model: system instruction (contact block, if any, ahead of the topic
// context), then the windowed history, then the new question.
func BuildMessages(contactBlock, topicContext string, history []models.ChatMessage, question string) []provider.Message {
	var ctx string
	if contactBlock != "" {
		ctx = contactBlock + "\n\n" + topicContext
	} else {
		ctx = topicContext
	}

	messages := make([]provider.Message, 0, len(history)+2)
	messages = append(messages, provider.Message{
		Role:    models.RoleSystem,
		Content: fmt.Sprintf(systemTemplate, ctx),
	})
	for _, m := range history {
		messages = append(messages, provider.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, provider.Message{Role: models.RoleUser, Content: question})
	return messages
}
