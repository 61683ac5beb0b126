package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pmcoe-ai1/conference-app/pkg/audit"
	"github.com/pmcoe-ai1/conference-app/pkg/auth"
	"github.com/pmcoe-ai1/conference-app/pkg/authenticator"
	"github.com/pmcoe-ai1/conference-app/pkg/authenticator/authn"
	"github.com/pmcoe-ai1/conference-app/pkg/authenticator/authn_attendee"
	"github.com/pmcoe-ai1/conference-app/pkg/config"
	"github.com/pmcoe-ai1/conference-app/pkg/identity"
	"github.com/pmcoe-ai1/conference-app/pkg/mailer"
	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/server"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store/mocks"
)

func init() {
	audit.SetEnabled(false)
}

const (
	ownerID     = uint(1)
	otherID     = uint(2)
	ownerEmail  = "owner@example.com"
	attendeePW  = "Xk7pQ2mN4r"
	testJWTSalt = "endpoint-test-secret"
)

// mockScheduler records scheduled password deliveries
type mockScheduler struct {
	mock.Mock
}

func (m *mockScheduler) Schedule(ctx context.Context, attendee *model.Attendee, password string) (*model.PasswordQueue, error) {
	args := m.Called(ctx, attendee, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PasswordQueue), args.Error(1)
}

func (m *mockScheduler) Reschedule(ctx context.Context, attendee *model.Attendee, password string) (*model.PasswordQueue, error) {
	args := m.Called(ctx, attendee, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PasswordQueue), args.Error(1)
}

// recordingMailer keeps every message it is asked to send
type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (m *recordingMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

// testEnv is a server wired to testify mocks
type testEnv struct {
	srv         *server.Server
	admins      *mocks.AdminsStore
	conferences *mocks.ConferencesStore
	surveys     *mocks.SurveysStore
	attendees   *mocks.AttendeesStore
	responses   *mocks.ResponsesStore
	health      *mocks.HealthStore
	passwords   *mockScheduler
	mailer      *recordingMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.NewDefault()
	cfg.JWTSecret = testJWTSalt
	cfg.FrontendURL = "https://app.example"

	templates, err := mailer.NewTemplates()
	require.NoError(t, err)

	env := &testEnv{
		admins:      &mocks.AdminsStore{},
		conferences: &mocks.ConferencesStore{},
		surveys:     &mocks.SurveysStore{},
		attendees:   &mocks.AttendeesStore{},
		responses:   &mocks.ResponsesStore{},
		health:      &mocks.HealthStore{},
		passwords:   &mockScheduler{},
		mailer:      &recordingMailer{},
	}

	registry := authenticator.NewRegistry()
	registry.Register(authn.New(env.admins))
	registry.Register(authn_attendee.New(env.conferences, env.attendees, auth.Policy{
		MaxAttempts: cfg.MaxLoginAttempts,
		Duration:    cfg.LockoutDuration(),
	}))
	require.NoError(t, registry.Enable(authenticator.Admin))
	require.NoError(t, registry.Enable(authenticator.Attendee))

	env.srv = server.NewServer(server.Options{
		Config: cfg,
		Stores: server.Stores{
			Admins:         env.admins,
			PasswordResets: env.admins,
			Conferences:    env.conferences,
			Surveys:        env.surveys,
			Questions:      env.surveys,
			Attendees:      env.attendees,
			Responses:      env.responses,
			Health:         env.health,
		},
		Tokens:         auth.NewTokenIssuer(cfg.JWTSecret, time.Hour),
		Authenticators: registry,
		Passwords:      env.passwords,
		Mailer:         env.mailer,
		Templates:      templates,
	}, "127.0.0.1", "0")
	RegisterAll(env.srv)

	t.Cleanup(func() { env.srv.Hub.Close() })
	return env
}

func (e *testEnv) token(t *testing.T, id *identity.Identity) string {
	t.Helper()
	token, _, err := e.srv.Tokens.Issue(id)
	require.NoError(t, err)
	return token
}

func (e *testEnv) ownerToken(t *testing.T) string {
	return e.token(t, identity.NewAdmin(ownerID, ownerEmail))
}

func (e *testEnv) attendeeToken(t *testing.T, attendeeID, conferenceID uint) string {
	return e.token(t, identity.NewAttendee(attendeeID, conferenceID, "sam@example.com"))
}

// do sends a request through the router. body is JSON encoded unless it
// is already a string.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "192.0.2.10:4000"
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.srv.Router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (e *testEnv) expectConference(c *model.Conference) {
	e.conferences.On("GetConference", mock.Anything, c.ID).Return(c, nil)
}

func (e *testEnv) expectSurvey(s *model.Survey) {
	e.surveys.On("GetSurvey", mock.Anything, s.ID).Return(s, nil)
}

func ownedConference() *model.Conference {
	return &model.Conference{ID: 10, AdminID: ownerID, Name: "Go Summit", URLCode: "K7M2Q9XD", IsActive: true}
}

func foreignConference() *model.Conference {
	return &model.Conference{ID: 20, AdminID: otherID, Name: "Other Conf", URLCode: "ZZZZ2222", IsActive: true}
}

func ratingOptions() []byte {
	return []byte(`{"min":1,"max":5}`)
}

func choiceOptions() []byte {
	return []byte(`{"choices":["Go","Rust","Zig"]}`)
}

func sampleSurvey(active bool) *model.Survey {
	return &model.Survey{
		ID:           30,
		ConferenceID: 10,
		Title:        "Day 1 feedback",
		IsActive:     active,
		Questions: []model.Question{
			{ID: 101, SurveyID: 30, Text: "Rate the keynote", Type: model.QuestionTypeRating, Options: ratingOptions(), Required: true, Position: 1},
			{ID: 102, SurveyID: 30, Text: "Favourite language", Type: model.QuestionTypeSingleChoice, Options: choiceOptions(), Position: 2},
			{ID: 103, SurveyID: 30, Text: "Comments", Type: model.QuestionTypeText, Position: 3},
		},
	}
}

// MockDB wraps sqlmock behind a GORM handle for gorm-backed stores
type MockDB struct {
	Mock   sqlmock.Sqlmock
	GormDB *gorm.DB
}

func newMockDB(t *testing.T) *MockDB {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 db,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	return &MockDB{Mock: mock, GormDB: gormDB}
}

func assertStatus(t *testing.T, want int, rec *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, want, rec.Code, rec.Body.String())
}
