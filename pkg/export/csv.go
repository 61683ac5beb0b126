package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/stats"
)

// ErrTooManyRows is returned when an export would exceed the row limit
var ErrTooManyRows = errors.New("export exceeds the row limit")

// MultiChoiceSeparator joins the picked choices of a multiple choice answer
const MultiChoiceSeparator = "; "

// SurveyFilename returns "<conference>-<survey>-<suffix>" with both names slugged
func SurveyFilename(conference *model.Conference, survey *model.Survey, suffix string) string {
	return fmt.Sprintf("%s-%s-%s", nameSlug(conference.Name, "conference"), nameSlug(survey.Title, "survey"), suffix)
}

// AttendeesFilename returns "<conference>-attendees.csv"
func AttendeesFilename(conference *model.Conference) string {
	return nameSlug(conference.Name, "conference") + "-attendees.csv"
}

func nameSlug(name, fallback string) string {
	if s := slug.Make(name); s != "" {
		return s
	}
	return fallback
}

// SurveyCSV writes one row per respondent and one column per question.
// Respondents are ordered by their first answer. limit <= 0 means no limit.
func SurveyCSV(w io.Writer, survey *model.Survey, attendees []model.Attendee, responses []model.Response, limit int) error {
	questions := append([]model.Question(nil), survey.Questions...)
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].Position < questions[j].Position })

	type row struct {
		attendeeID  uint
		submittedAt time.Time
		answers     map[uint][]byte
	}
	rows := map[uint]*row{}
	var order []*row
	for _, r := range responses {
		rr, ok := rows[r.AttendeeID]
		if !ok {
			rr = &row{attendeeID: r.AttendeeID, submittedAt: r.CreatedAt, answers: map[uint][]byte{}}
			rows[r.AttendeeID] = rr
			order = append(order, rr)
		}
		if r.CreatedAt.Before(rr.submittedAt) {
			rr.submittedAt = r.CreatedAt
		}
		rr.answers[r.QuestionID] = r.Value
	}
	if limit > 0 && len(order) > limit {
		return fmt.Errorf("%w: %d respondents, limit %d", ErrTooManyRows, len(order), limit)
	}
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].submittedAt.Equal(order[j].submittedAt) {
			return order[i].attendeeID < order[j].attendeeID
		}
		return order[i].submittedAt.Before(order[j].submittedAt)
	})

	byID := make(map[uint]*model.Attendee, len(attendees))
	for i := range attendees {
		byID[attendees[i].ID] = &attendees[i]
	}

	cw := csv.NewWriter(w)
	header := []string{"Attendee", "Email", "Submitted At"}
	for _, q := range questions {
		header = append(header, q.Text)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range order {
		name, email := "", ""
		if a, ok := byID[r.attendeeID]; ok {
			name, email = a.Name, a.Email
		}
		record := []string{name, email, r.submittedAt.UTC().Format(time.RFC3339)}
		for i := range questions {
			value, ok := r.answers[questions[i].ID]
			if !ok {
				record = append(record, "")
				continue
			}
			record = append(record, strings.Join(stats.AnswerStrings(&questions[i], value), MultiChoiceSeparator))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// AttendeesCSV writes the attendee list of a conference
func AttendeesCSV(w io.Writer, attendees []model.Attendee, limit int) error {
	if limit > 0 && len(attendees) > limit {
		return fmt.Errorf("%w: %d attendees, limit %d", ErrTooManyRows, len(attendees), limit)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Name", "Email", "Status", "Failed Login Attempts", "Locked Until", "Last Login", "Registered At"}); err != nil {
		return err
	}
	for _, a := range attendees {
		record := []string{
			a.Name,
			a.Email,
			a.Status.String(),
			fmt.Sprint(a.FailedLoginAttempts),
			formatOptional(a.LockedUntil),
			formatOptional(a.LastLoginAt),
			a.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
