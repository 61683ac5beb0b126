package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
	gormstore "github.com/pmcoe-ai1/conference-app/pkg/server/store/gorm"
)

var errDryRun = errors.New("dry run rollback")

// Result summarizes what a load changed
type Result struct {
	ConferenceID      uint   `json:"conference_id"`
	URLCode           string `json:"url_code"`
	ConferenceCreated bool   `json:"conference_created"`
	SurveysCreated    int    `json:"surveys_created"`
	SurveysUpdated    int    `json:"surveys_updated"`
	QuestionsWritten  int    `json:"questions_written"`
	// SurveysLocked lists surveys whose questions were kept because they
	// already have responses
	SurveysLocked  []string `json:"surveys_locked,omitempty"`
	ActiveSurveyID uint     `json:"active_survey_id,omitempty"`
	DryRun         bool     `json:"dry_run"`
}

// Loader applies conference definitions to the database
type Loader struct {
	db     *gorm.DB
	dryRun bool
}

// NewLoader creates a new conference definition loader
func NewLoader(db *gorm.DB) *Loader {
	return &Loader{db: db}
}

// WithDryRun sets whether to validate only without applying changes
func (l *Loader) WithDryRun(dryRun bool) *Loader {
	l.dryRun = dryRun
	return l
}

// LoadFile parses and loads the definition in path
func (l *Loader) LoadFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return l.LoadFromReader(ctx, f)
}

// LoadFromReader parses and loads a definition from an io.Reader
func (l *Loader) LoadFromReader(ctx context.Context, r io.Reader) (*Result, error) {
	def, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, def)
}

// Load applies def in one transaction. The conference is matched by url_code,
// or by name for the owner when no code is given. Surveys are matched by
// title; questions of a survey are replaced only while it has no responses.
func (l *Loader) Load(ctx context.Context, def *Definition) (*Result, error) {
	result := &Result{DryRun: l.dryRun}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admin, err := gormstore.NewAdminsStore(tx).FindAdminByEmail(ctx, model.NormalizeEmail(def.Owner))
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("owner %s is not an admin", def.Owner)
		}
		if err != nil {
			return err
		}

		conference, err := l.applyConference(ctx, tx, admin, def, result)
		if err != nil {
			return err
		}
		if err := l.applySurveys(ctx, tx, conference, def, result); err != nil {
			return err
		}

		if l.dryRun {
			return errDryRun
		}
		return nil
	})
	if errors.Is(err, errDryRun) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint("conference_id", result.ConferenceID).
		Str("url_code", result.URLCode).
		Int("surveys_created", result.SurveysCreated).
		Int("surveys_updated", result.SurveysUpdated).
		Msg("conference definition loaded")
	return result, nil
}

func (l *Loader) applyConference(ctx context.Context, tx *gorm.DB, admin *model.Admin, def *Definition, result *Result) (*model.Conference, error) {
	conferences := gormstore.NewConferencesStore(tx)
	d := def.Conference

	var existing model.Conference
	query := tx.Where("admin_id = ? AND name = ?", admin.ID, d.Name)
	if d.URLCode != "" {
		query = tx.Where("url_code = ?", model.NormalizeURLCode(d.URLCode))
	}
	err := query.First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	active := true
	if d.Active != nil {
		active = *d.Active
	}

	if err == nil {
		if existing.AdminID != admin.ID {
			return nil, fmt.Errorf("conference %s belongs to another admin", existing.URLCode)
		}
		existing.Name = d.Name
		existing.Description = d.Description
		existing.Location = d.Location
		existing.StartDate = d.StartDate
		existing.EndDate = d.EndDate
		existing.IsActive = active
		if err := conferences.UpdateConference(ctx, &existing); err != nil {
			return nil, err
		}
		result.ConferenceID = existing.ID
		result.URLCode = existing.URLCode
		return &existing, nil
	}

	conference := &model.Conference{
		AdminID:     admin.ID,
		Name:        d.Name,
		Description: d.Description,
		Location:    d.Location,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		URLCode:     model.NormalizeURLCode(d.URLCode),
		IsActive:    active,
	}
	if err := conferences.CreateConference(ctx, conference); err != nil {
		return nil, fmt.Errorf("failed to create conference: %w", err)
	}
	result.ConferenceID = conference.ID
	result.URLCode = conference.URLCode
	result.ConferenceCreated = true
	return conference, nil
}

func (l *Loader) applySurveys(ctx context.Context, tx *gorm.DB, conference *model.Conference, def *Definition, result *Result) error {
	surveys := gormstore.NewSurveysStore(tx)
	responses := gormstore.NewResponsesStore(tx)

	existing, err := surveys.ListSurveys(ctx, conference.ID)
	if err != nil {
		return err
	}
	byTitle := make(map[string]*model.Survey, len(existing))
	for i := range existing {
		byTitle[existing[i].Title] = &existing[i]
	}

	var activate uint
	for _, sd := range def.Surveys {
		survey, ok := byTitle[sd.Title]
		if !ok {
			survey = &model.Survey{ConferenceID: conference.ID, Title: sd.Title, Description: sd.Description}
			for i, qd := range sd.Questions {
				q, err := qd.toModel(0, i+1)
				if err != nil {
					return err
				}
				survey.Questions = append(survey.Questions, *q)
			}
			if err := surveys.CreateSurvey(ctx, survey); err != nil {
				return fmt.Errorf("failed to create survey %q: %w", sd.Title, err)
			}
			result.SurveysCreated++
			result.QuestionsWritten += len(sd.Questions)
		} else {
			survey.Description = sd.Description
			if err := surveys.UpdateSurvey(ctx, survey); err != nil {
				return err
			}
			answered, err := responses.CountRespondents(ctx, survey.ID)
			if err != nil {
				return err
			}
			if answered > 0 {
				result.SurveysLocked = append(result.SurveysLocked, sd.Title)
			} else {
				if err := tx.Where("survey_id = ?", survey.ID).Delete(&model.Question{}).Error; err != nil {
					return err
				}
				for i, qd := range sd.Questions {
					q, err := qd.toModel(survey.ID, i+1)
					if err != nil {
						return err
					}
					if err := tx.Create(q).Error; err != nil {
						return err
					}
				}
				result.QuestionsWritten += len(sd.Questions)
			}
			result.SurveysUpdated++
		}
		if sd.Active {
			activate = survey.ID
		}
	}

	if activate != 0 {
		if _, err := surveys.ActivateSurvey(ctx, activate); err != nil {
			return err
		}
		result.ActiveSurveyID = activate
	}
	return nil
}
