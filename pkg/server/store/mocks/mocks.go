// Package mocks provides testify/mock implementations of the store
// interfaces for handler and service unit tests.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

var (
	_ store.AdminsStore         = (*AdminsStore)(nil)
	_ store.PasswordResetsStore = (*AdminsStore)(nil)
	_ store.ConferencesStore    = (*ConferencesStore)(nil)
	_ store.SurveysStore        = (*SurveysStore)(nil)
	_ store.QuestionsStore      = (*SurveysStore)(nil)
	_ store.AttendeesStore      = (*AttendeesStore)(nil)
	_ store.ResponsesStore      = (*ResponsesStore)(nil)
	_ store.DeliveriesStore     = (*DeliveriesStore)(nil)
	_ store.HealthStore         = (*HealthStore)(nil)
)

// AdminsStore mocks admin and password reset storage
type AdminsStore struct {
	mock.Mock
}

func (m *AdminsStore) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *AdminsStore) GetAdmin(ctx context.Context, id uint) (*model.Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *AdminsStore) FindAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *AdminsStore) UpdateAdminPassword(ctx context.Context, id uint, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *AdminsStore) CreatePasswordReset(ctx context.Context, reset *model.PasswordReset) error {
	args := m.Called(ctx, reset)
	return args.Error(0)
}

func (m *AdminsStore) FindPasswordReset(ctx context.Context, tokenHash string) (*model.PasswordReset, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PasswordReset), args.Error(1)
}

func (m *AdminsStore) RedeemPasswordReset(ctx context.Context, reset *model.PasswordReset, hash string, now time.Time) error {
	args := m.Called(ctx, reset, hash, now)
	return args.Error(0)
}

// ConferencesStore mocks conference storage
type ConferencesStore struct {
	mock.Mock
}

func (m *ConferencesStore) CreateConference(ctx context.Context, conference *model.Conference) error {
	args := m.Called(ctx, conference)
	return args.Error(0)
}

func (m *ConferencesStore) GetConference(ctx context.Context, id uint) (*model.Conference, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Conference), args.Error(1)
}

func (m *ConferencesStore) FindConferenceByURLCode(ctx context.Context, urlCode string) (*model.Conference, error) {
	args := m.Called(ctx, urlCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Conference), args.Error(1)
}

func (m *ConferencesStore) ListConferences(ctx context.Context, adminID uint) ([]model.Conference, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Conference), args.Error(1)
}

func (m *ConferencesStore) UpdateConference(ctx context.Context, conference *model.Conference) error {
	args := m.Called(ctx, conference)
	return args.Error(0)
}

func (m *ConferencesStore) DeleteConference(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// SurveysStore mocks survey and question storage
type SurveysStore struct {
	mock.Mock
}

func (m *SurveysStore) CreateSurvey(ctx context.Context, survey *model.Survey) error {
	args := m.Called(ctx, survey)
	return args.Error(0)
}

func (m *SurveysStore) GetSurvey(ctx context.Context, id uint) (*model.Survey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Survey), args.Error(1)
}

func (m *SurveysStore) ListSurveys(ctx context.Context, conferenceID uint) ([]model.Survey, error) {
	args := m.Called(ctx, conferenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Survey), args.Error(1)
}

func (m *SurveysStore) UpdateSurvey(ctx context.Context, survey *model.Survey) error {
	args := m.Called(ctx, survey)
	return args.Error(0)
}

func (m *SurveysStore) DeleteSurvey(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SurveysStore) ActivateSurvey(ctx context.Context, id uint) ([]uint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *SurveysStore) DeactivateSurvey(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SurveysStore) ActiveSurvey(ctx context.Context, conferenceID uint) (*model.Survey, error) {
	args := m.Called(ctx, conferenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Survey), args.Error(1)
}

func (m *SurveysStore) CreateQuestion(ctx context.Context, question *model.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *SurveysStore) GetQuestion(ctx context.Context, id uint) (*model.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Question), args.Error(1)
}

func (m *SurveysStore) UpdateQuestion(ctx context.Context, question *model.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *SurveysStore) DeleteQuestion(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SurveysStore) ReorderQuestions(ctx context.Context, surveyID uint, ids []uint) error {
	args := m.Called(ctx, surveyID, ids)
	return args.Error(0)
}

// AttendeesStore mocks attendee storage
type AttendeesStore struct {
	mock.Mock
}

func (m *AttendeesStore) CreateAttendee(ctx context.Context, attendee *model.Attendee) error {
	args := m.Called(ctx, attendee)
	return args.Error(0)
}

func (m *AttendeesStore) GetAttendee(ctx context.Context, id uint) (*model.Attendee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attendee), args.Error(1)
}

func (m *AttendeesStore) FindAttendee(ctx context.Context, conferenceID uint, email string) (*model.Attendee, error) {
	args := m.Called(ctx, conferenceID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attendee), args.Error(1)
}

func (m *AttendeesStore) ListAttendees(ctx context.Context, conferenceID uint, status *model.AttendeeStatus) ([]model.Attendee, error) {
	args := m.Called(ctx, conferenceID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Attendee), args.Error(1)
}

func (m *AttendeesStore) SaveAttendee(ctx context.Context, attendee *model.Attendee) error {
	args := m.Called(ctx, attendee)
	return args.Error(0)
}

func (m *AttendeesStore) RecordLoginFailure(ctx context.Context, id uint, maxAttempts int, lockUntil time.Time) (*model.Attendee, error) {
	args := m.Called(ctx, id, maxAttempts, lockUntil)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attendee), args.Error(1)
}

// OnRecordLoginFailure counts failures on a the way the GORM store does
func (m *AttendeesStore) OnRecordLoginFailure(a *model.Attendee) *mock.Call {
	return m.On("RecordLoginFailure", mock.Anything, a.ID, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			a.FailedLoginAttempts++
			if a.FailedLoginAttempts >= args.Int(2) && a.Status != model.AttendeeStatusLocked {
				until := args.Get(3).(time.Time)
				a.Status = model.AttendeeStatusLocked
				a.LockedUntil = &until
			}
		}).
		Return(a, nil)
}

func (m *AttendeesStore) DeleteAttendee(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *AttendeesStore) CountAttendeesByStatus(ctx context.Context, conferenceID uint) (map[string]int64, error) {
	args := m.Called(ctx, conferenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

// ResponsesStore mocks survey answer storage
type ResponsesStore struct {
	mock.Mock
}

func (m *ResponsesStore) SubmitResponses(ctx context.Context, surveyID, attendeeID uint, responses []model.Response) error {
	args := m.Called(ctx, surveyID, attendeeID, responses)
	return args.Error(0)
}

func (m *ResponsesStore) HasSubmitted(ctx context.Context, surveyID, attendeeID uint) (bool, error) {
	args := m.Called(ctx, surveyID, attendeeID)
	return args.Bool(0), args.Error(1)
}

func (m *ResponsesStore) ListSurveyResponses(ctx context.Context, surveyID uint) ([]model.Response, error) {
	args := m.Called(ctx, surveyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Response), args.Error(1)
}

func (m *ResponsesStore) CountRespondents(ctx context.Context, surveyID uint) (int64, error) {
	args := m.Called(ctx, surveyID)
	return args.Get(0).(int64), args.Error(1)
}

// DeliveriesStore mocks the password delivery queue table
type DeliveriesStore struct {
	mock.Mock
}

func (m *DeliveriesStore) CreateDelivery(ctx context.Context, delivery *model.PasswordQueue) error {
	args := m.Called(ctx, delivery)
	return args.Error(0)
}

func (m *DeliveriesStore) ClaimDelivery(ctx context.Context, id uint) (*model.PasswordQueue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PasswordQueue), args.Error(1)
}

func (m *DeliveriesStore) MarkSent(ctx context.Context, id uint, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *DeliveriesStore) MarkRetry(ctx context.Context, id uint, attempts int, lastErr string, next time.Time) error {
	args := m.Called(ctx, id, attempts, lastErr, next)
	return args.Error(0)
}

func (m *DeliveriesStore) MarkFailed(ctx context.Context, id uint, attempts int, lastErr string) error {
	args := m.Called(ctx, id, attempts, lastErr)
	return args.Error(0)
}

func (m *DeliveriesStore) ListPending(ctx context.Context) ([]model.PasswordQueue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PasswordQueue), args.Error(1)
}

func (m *DeliveriesStore) ListDue(ctx context.Context, now time.Time, limit int) ([]uint, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *DeliveriesStore) CancelPending(ctx context.Context, attendeeID uint, reason string) error {
	args := m.Called(ctx, attendeeID, reason)
	return args.Error(0)
}

// HealthStore mocks the database health check
type HealthStore struct {
	mock.Mock
}

func (m *HealthStore) CheckConnectivity(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
