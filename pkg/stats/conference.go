package stats

import "github.com/pmcoe-ai1/conference-app/pkg/model"

type SurveySummary struct {
	SurveyID    uint   `json:"surveyId"`
	Title       string `json:"title"`
	IsActive    bool   `json:"isActive"`
	Respondents int64  `json:"respondents"`
}

type ConferenceStats struct {
	ConferenceID      uint             `json:"conferenceId"`
	TotalAttendees    int64            `json:"totalAttendees"`
	AttendeesByStatus map[string]int64 `json:"attendeesByStatus"`
	SurveyCount       int              `json:"surveyCount"`
	// TotalResponses counts submitted surveys, one per attendee and survey
	TotalResponses int64           `json:"totalResponses"`
	Surveys        []SurveySummary `json:"surveys"`
}

// Conference summarizes attendee counts by status and per-survey respondents.
// Every attendee status appears in the result, zero-filled.
func Conference(conferenceID uint, byStatus map[string]int64, surveys []model.Survey, respondents map[uint]int64) *ConferenceStats {
	out := &ConferenceStats{
		ConferenceID:      conferenceID,
		AttendeesByStatus: make(map[string]int64, len(model.AttendeeStatusValues())),
		SurveyCount:       len(surveys),
		Surveys:           make([]SurveySummary, 0, len(surveys)),
	}
	for _, s := range model.AttendeeStatusValues() {
		n := byStatus[s.String()]
		out.AttendeesByStatus[s.String()] = n
		out.TotalAttendees += n
	}
	for _, s := range surveys {
		n := respondents[s.ID]
		out.TotalResponses += n
		out.Surveys = append(out.Surveys, SurveySummary{
			SurveyID:    s.ID,
			Title:       s.Title,
			IsActive:    s.IsActive,
			Respondents: n,
		})
	}
	return out
}
