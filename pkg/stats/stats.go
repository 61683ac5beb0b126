package stats

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
)

// Bucket counts one possible answer
type Bucket struct {
	Value      string  `json:"value"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type TextAnswer struct {
	AttendeeID uint      `json:"attendeeId"`
	Value      string    `json:"value"`
	CreatedAt  time.Time `json:"createdAt"`
}

// QuestionStats aggregates the answers to one question. Which fields are
// set depends on the question type.
type QuestionStats struct {
	QuestionID    uint               `json:"questionId"`
	Text          string             `json:"text"`
	Type          model.QuestionType `json:"type"`
	Required      bool               `json:"required"`
	ResponseCount int                `json:"responseCount"`
	Distribution  []Bucket           `json:"distribution,omitempty"`
	Average       *float64           `json:"average,omitempty"`
	Min           *int               `json:"min,omitempty"`
	Max           *int               `json:"max,omitempty"`
	TextAnswers   []TextAnswer       `json:"textAnswers,omitempty"`
}

type SurveyStats struct {
	SurveyID         uint            `json:"surveyId"`
	Title            string          `json:"title"`
	IsActive         bool            `json:"isActive"`
	TotalAttendees   int64           `json:"totalAttendees"`
	TotalRespondents int             `json:"totalRespondents"`
	ResponseRate     float64         `json:"responseRate"`
	LastResponseAt   *time.Time      `json:"lastResponseAt,omitempty"`
	Questions        []QuestionStats `json:"questions"`
}

// Survey recomputes the statistics of survey from every stored answer.
// totalAttendees is the number of attendees registered for the conference.
func Survey(survey *model.Survey, responses []model.Response, totalAttendees int64) *SurveyStats {
	byQuestion := make(map[uint][]model.Response, len(survey.Questions))
	respondents := make(map[uint]bool)
	var last time.Time
	for _, r := range responses {
		byQuestion[r.QuestionID] = append(byQuestion[r.QuestionID], r)
		respondents[r.AttendeeID] = true
		if r.CreatedAt.After(last) {
			last = r.CreatedAt
		}
	}

	out := &SurveyStats{
		SurveyID:         survey.ID,
		Title:            survey.Title,
		IsActive:         survey.IsActive,
		TotalAttendees:   totalAttendees,
		TotalRespondents: len(respondents),
		ResponseRate:     percentage(len(respondents), int(totalAttendees)),
		Questions:        make([]QuestionStats, 0, len(survey.Questions)),
	}
	if !last.IsZero() {
		out.LastResponseAt = &last
	}

	questions := append([]model.Question(nil), survey.Questions...)
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].Position < questions[j].Position })
	for i := range questions {
		out.Questions = append(out.Questions, Question(&questions[i], byQuestion[questions[i].ID]))
	}
	return out
}

// Question aggregates the answers to q. Answers that no longer decode for
// the question type are skipped.
func Question(q *model.Question, responses []model.Response) QuestionStats {
	qs := QuestionStats{
		QuestionID: q.ID,
		Text:       q.Text,
		Type:       q.Type,
		Required:   q.Required,
	}
	opts, _ := q.ParsedOptions()

	switch q.Type {
	case model.QuestionTypeSingleChoice, model.QuestionTypeMultipleChoice:
		counts := make(map[string]int, len(opts.Choices))
		for _, r := range responses {
			picked := AnswerStrings(q, r.Value)
			if len(picked) == 0 {
				continue
			}
			qs.ResponseCount++
			for _, p := range picked {
				counts[p]++
			}
		}
		qs.Distribution = buckets(opts.Choices, counts, qs.ResponseCount)

	case model.QuestionTypeYesNo:
		counts := map[string]int{}
		for _, r := range responses {
			var b bool
			if json.Unmarshal(r.Value, &b) != nil {
				continue
			}
			qs.ResponseCount++
			counts[yesNo(b)]++
		}
		qs.Distribution = buckets([]string{"yes", "no"}, counts, qs.ResponseCount)

	case model.QuestionTypeRating:
		lo, hi := opts.RatingRange()
		counts := map[string]int{}
		sum := 0
		for _, r := range responses {
			var v float64
			if json.Unmarshal(r.Value, &v) != nil {
				continue
			}
			n := int(v)
			qs.ResponseCount++
			sum += n
			counts[strconv.Itoa(n)]++
			if qs.Min == nil || n < *qs.Min {
				qs.Min = intPtr(n)
			}
			if qs.Max == nil || n > *qs.Max {
				qs.Max = intPtr(n)
			}
		}
		scale := make([]string, 0, hi-lo+1)
		for v := lo; v <= hi; v++ {
			scale = append(scale, strconv.Itoa(v))
		}
		qs.Distribution = buckets(scale, counts, qs.ResponseCount)
		if qs.ResponseCount > 0 {
			avg := round2(float64(sum) / float64(qs.ResponseCount))
			qs.Average = &avg
		}

	case model.QuestionTypeText:
		for _, r := range responses {
			var s string
			if json.Unmarshal(r.Value, &s) != nil || s == "" {
				continue
			}
			qs.ResponseCount++
			qs.TextAnswers = append(qs.TextAnswers, TextAnswer{AttendeeID: r.AttendeeID, Value: s, CreatedAt: r.CreatedAt})
		}
		sort.SliceStable(qs.TextAnswers, func(i, j int) bool {
			return qs.TextAnswers[i].CreatedAt.After(qs.TextAnswers[j].CreatedAt)
		})
	}
	return qs
}

// AnswerStrings returns a stored answer as display strings: the picked
// choices, "yes"/"no", the rating or the text.
func AnswerStrings(q *model.Question, value []byte) []string {
	switch q.Type {
	case model.QuestionTypeMultipleChoice:
		var picked []string
		if json.Unmarshal(value, &picked) != nil {
			return nil
		}
		return picked
	case model.QuestionTypeYesNo:
		var b bool
		if json.Unmarshal(value, &b) != nil {
			return nil
		}
		return []string{yesNo(b)}
	case model.QuestionTypeRating:
		var v float64
		if json.Unmarshal(value, &v) != nil {
			return nil
		}
		return []string{strconv.Itoa(int(v))}
	default:
		var s string
		if json.Unmarshal(value, &s) != nil || s == "" {
			return nil
		}
		return []string{s}
	}
}

func buckets(values []string, counts map[string]int, total int) []Bucket {
	out := make([]Bucket, 0, len(values))
	for _, v := range values {
		out = append(out, Bucket{
			Value:      v,
			Count:      counts[v],
			Percentage: percentage(counts[v], total),
		})
	}
	return out
}

// percentage returns part/total as a percentage rounded to one decimal
func percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)*1000/float64(total)) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func intPtr(v int) *int {
	return &v
}
