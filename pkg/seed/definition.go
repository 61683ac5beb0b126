package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
)

// Definition is a conference described in YAML:
//
//	owner: org@example.com
//	conference:
//	  name: GopherCon EU
//	  url_code: GOPHER26
//	  start_date: 2026-06-01
//	surveys:
//	  - title: Day one
//	    active: true
//	    questions:
//	      - text: Which track did you follow?
//	        type: single_choice
//	        required: true
//	        choices: [Go, Rust]
//	      - text: Rate the venue
//	        type: rating
type Definition struct {
	Owner      string        `yaml:"owner"`
	Conference ConferenceDef `yaml:"conference"`
	Surveys    []SurveyDef   `yaml:"surveys"`
}

type ConferenceDef struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Location    string     `yaml:"location"`
	StartDate   *time.Time `yaml:"start_date"`
	EndDate     *time.Time `yaml:"end_date"`
	URLCode     string     `yaml:"url_code"`
	// Active defaults to true
	Active *bool `yaml:"active"`
}

type SurveyDef struct {
	Title       string        `yaml:"title"`
	Description string        `yaml:"description"`
	Active      bool          `yaml:"active"`
	Questions   []QuestionDef `yaml:"questions"`
}

type QuestionDef struct {
	Text      string             `yaml:"text"`
	Type      model.QuestionType `yaml:"type"`
	Required  bool               `yaml:"required"`
	Choices   []string           `yaml:"choices,omitempty"`
	Min       *int               `yaml:"min,omitempty"`
	Max       *int               `yaml:"max,omitempty"`
	MaxLength int                `yaml:"max_length,omitempty"`
}

// Parse decodes and validates a definition. Unknown keys are rejected.
func Parse(r io.Reader) (*Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("conference definition is empty")
		}
		return nil, fmt.Errorf("failed to parse conference definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks the definition without touching the database
func (d *Definition) Validate() error {
	var problems []string
	if model.NormalizeEmail(d.Owner) == "" {
		problems = append(problems, "owner is required")
	}
	if strings.TrimSpace(d.Conference.Name) == "" {
		problems = append(problems, "conference.name is required")
	}
	if code := d.Conference.URLCode; code != "" && len(model.NormalizeURLCode(code)) != model.URLCodeLength {
		problems = append(problems, fmt.Sprintf("conference.url_code must be %d characters", model.URLCodeLength))
	}
	if s, e := d.Conference.StartDate, d.Conference.EndDate; s != nil && e != nil && e.Before(*s) {
		problems = append(problems, "conference.end_date is before start_date")
	}

	titles := map[string]bool{}
	active := 0
	for i, s := range d.Surveys {
		if strings.TrimSpace(s.Title) == "" {
			problems = append(problems, fmt.Sprintf("surveys[%d].title is required", i))
		}
		if titles[s.Title] {
			problems = append(problems, fmt.Sprintf("surveys[%d]: duplicate title %q", i, s.Title))
		}
		titles[s.Title] = true
		if s.Active {
			active++
		}
		for j, q := range s.Questions {
			question, err := q.toModel(0, j+1)
			if err == nil {
				err = question.ValidateOptions()
			}
			if err != nil {
				problems = append(problems, fmt.Sprintf("surveys[%d].questions[%d]: %v", i, j, err))
			} else if strings.TrimSpace(q.Text) == "" {
				problems = append(problems, fmt.Sprintf("surveys[%d].questions[%d].text is required", i, j))
			}
		}
	}
	if active > 1 {
		problems = append(problems, "at most one survey can be active")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid conference definition: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (q QuestionDef) toModel(surveyID uint, position int) (*model.Question, error) {
	opts := model.QuestionOptions{
		Choices:   q.Choices,
		Min:       q.Min,
		Max:       q.Max,
		MaxLength: q.MaxLength,
	}
	raw, err := json.Marshal(opts)
	if err != nil {
		return nil, err
	}
	return &model.Question{
		SurveyID: surveyID,
		Text:     strings.TrimSpace(q.Text),
		Type:     q.Type,
		Options:  raw,
		Required: q.Required,
		Position: position,
	}, nil
}
