package gorm

import (
	"time"

	"gorm.io/datatypes"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

func (s *Suite) TestAdmins() {
	admins := NewAdminsStore(s.DB)
	admin := s.seedAdmin("Org@Example.com")

	found, err := admins.FindAdminByEmail(s.ctx, "org@example.COM ")
	s.Require().NoError(err)
	s.Equal(admin.ID, found.ID)
	s.Equal("org@example.com", found.Email)

	err = admins.CreateAdmin(s.ctx, &model.Admin{Email: "org@example.com", Name: "Dup", PasswordHash: "x"})
	s.ErrorIs(err, store.ErrConflict)

	_, err = admins.GetAdmin(s.ctx, 999)
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *Suite) TestPasswordReset() {
	admins := NewAdminsStore(s.DB)
	admin := s.seedAdmin("org@example.com")
	now := time.Now()

	reset := &model.PasswordReset{AdminID: admin.ID, TokenHash: "abc", ExpiresAt: now.Add(time.Hour)}
	s.Require().NoError(admins.CreatePasswordReset(s.ctx, reset))

	found, err := admins.FindPasswordReset(s.ctx, "abc")
	s.Require().NoError(err)
	s.True(found.Usable(now))

	s.Require().NoError(admins.RedeemPasswordReset(s.ctx, found, "new-hash", now))
	updated, err := admins.GetAdmin(s.ctx, admin.ID)
	s.Require().NoError(err)
	s.Equal("new-hash", updated.PasswordHash)

	s.ErrorIs(admins.RedeemPasswordReset(s.ctx, found, "other", now), store.ErrNotFound)
}

func (s *Suite) TestConferences() {
	conferences := NewConferencesStore(s.DB)
	admin := s.seedAdmin("org@example.com")
	other := s.seedAdmin("other@example.com")

	c := s.seedConference(admin.ID, "AAAA1111")
	s.seedConference(other.ID, "BBBB2222")

	err := conferences.CreateConference(s.ctx, &model.Conference{AdminID: admin.ID, Name: "Dup", URLCode: "AAAA1111"})
	s.ErrorIs(err, store.ErrConflict)

	byCode, err := conferences.FindConferenceByURLCode(s.ctx, "AAAA1111")
	s.Require().NoError(err)
	s.Equal(c.ID, byCode.ID)

	list, err := conferences.ListConferences(s.ctx, admin.ID)
	s.Require().NoError(err)
	s.Len(list, 1)

	c.Name = "Renamed"
	c.Location = "Berlin"
	s.Require().NoError(conferences.UpdateConference(s.ctx, c))
	got, err := conferences.GetConference(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal("Renamed", got.Name)
	s.Equal("Berlin", got.Location)
}

func (s *Suite) TestUpdateConference_URLCode() {
	conferences := NewConferencesStore(s.DB)
	admin := s.seedAdmin("org@example.com")
	c := s.seedConference(admin.ID, "AAAA1111")
	s.seedConference(admin.ID, "BBBB2222")

	c.URLCode = "CCCC3333"
	s.Require().NoError(conferences.UpdateConference(s.ctx, c))
	moved, err := conferences.FindConferenceByURLCode(s.ctx, "CCCC3333")
	s.Require().NoError(err)
	s.Equal(c.ID, moved.ID)
	_, err = conferences.FindConferenceByURLCode(s.ctx, "AAAA1111")
	s.ErrorIs(err, store.ErrNotFound)

	c.URLCode = "BBBB2222"
	s.ErrorIs(conferences.UpdateConference(s.ctx, c), store.ErrConflict)
	got, err := conferences.GetConference(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal("CCCC3333", got.URLCode)
}

func (s *Suite) TestConferences_GeneratedURLCode() {
	conferences := NewConferencesStore(s.DB)
	admin := s.seedAdmin("org@example.com")

	a := &model.Conference{AdminID: admin.ID, Name: "One"}
	b := &model.Conference{AdminID: admin.ID, Name: "Two"}
	s.Require().NoError(conferences.CreateConference(s.ctx, a))
	s.Require().NoError(conferences.CreateConference(s.ctx, b))

	s.Len(a.URLCode, model.URLCodeLength)
	s.NotEqual(a.URLCode, b.URLCode)
}

func (s *Suite) TestDeleteConferenceCascades() {
	admin := s.seedAdmin("org@example.com")
	c := s.seedConference(admin.ID, "AAAA1111")
	survey := s.seedSurvey(c.ID, "Day 1", model.Question{Text: "Rate it", Type: model.QuestionTypeRating})
	a := s.seedAttendee(c.ID, "guest@example.com")

	err := NewResponsesStore(s.DB).SubmitResponses(s.ctx, survey.ID, a.ID, []model.Response{
		{QuestionID: survey.Questions[0].ID, Value: model.AnswerValue(`4`)},
	})
	s.Require().NoError(err)

	s.Require().NoError(NewConferencesStore(s.DB).DeleteConference(s.ctx, c.ID))

	for _, m := range []interface{}{&model.Conference{}, &model.Survey{}, &model.Question{}, &model.Attendee{}, &model.Response{}} {
		var n int64
		s.Require().NoError(s.DB.Model(m).Count(&n).Error)
		s.Zero(n, "%T rows left", m)
	}

	s.ErrorIs(NewConferencesStore(s.DB).DeleteConference(s.ctx, c.ID), store.ErrNotFound)
}

func (s *Suite) TestActivateSurveyDeactivatesOthers() {
	surveys := NewSurveysStore(s.DB)
	admin := s.seedAdmin("org@example.com")
	c := s.seedConference(admin.ID, "AAAA1111")
	otherConf := s.seedConference(admin.ID, "BBBB2222")

	first := s.seedSurvey(c.ID, "First")
	second := s.seedSurvey(c.ID, "Second")
	elsewhere := s.seedSurvey(otherConf.ID, "Elsewhere")

	deactivated, err := surveys.ActivateSurvey(s.ctx, first.ID)
	s.Require().NoError(err)
	s.Empty(deactivated)
	_, err = surveys.ActivateSurvey(s.ctx, elsewhere.ID)
	s.Require().NoError(err)

	deactivated, err = surveys.ActivateSurvey(s.ctx, second.ID)
	s.Require().NoError(err)
	s.Equal([]uint{first.ID}, deactivated)

	active, err := surveys.ActiveSurvey(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(second.ID, active.ID)

	var n int64
	s.Require().NoError(s.DB.Model(&model.Survey{}).Where("conference_id = ? AND is_active = ?", c.ID, true).Count(&n).Error)
	s.Equal(int64(1), n)

	stillActive, err := surveys.ActiveSurvey(s.ctx, otherConf.ID)
	s.Require().NoError(err)
	s.Equal(elsewhere.ID, stillActive.ID)

	s.Require().NoError(surveys.DeactivateSurvey(s.ctx, second.ID))
	_, err = surveys.ActiveSurvey(s.ctx, c.ID)
	s.ErrorIs(err, store.ErrNotFound)

	_, err = surveys.ActivateSurvey(s.ctx, 999)
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *Suite) TestQuestions() {
	surveys := NewSurveysStore(s.DB)
	admin := s.seedAdmin("org@example.com")
	c := s.seedConference(admin.ID, "AAAA1111")
	survey := s.seedSurvey(c.ID, "Feedback",
		model.Question{Text: "Name a talk", Type: model.QuestionTypeText},
		model.Question{Text: "Would you return?", Type: model.QuestionTypeYesNo, Required: true},
	)
	s.Equal(1, survey.Questions[0].Position)
	s.Equal(2, survey.Questions[1].Position)

	q := &model.Question{SurveyID: survey.ID, Text: "Favourite language", Type: model.QuestionTypeSingleChoice,
		Options: datatypes.JSON(`{"choices":["Go","Rust"]}`)}
	s.Require().NoError(surveys.CreateQuestion(s.ctx, q))
	s.Equal(3, q.Position)

	ids := []uint{q.ID, survey.Questions[1].ID, survey.Questions[0].ID}
	s.Require().NoError(surveys.ReorderQuestions(s.ctx, survey.ID, ids))
	s.ErrorIs(surveys.ReorderQuestions(s.ctx, survey.ID, ids[:2]), store.ErrInvalidOrder)
	s.ErrorIs(surveys.ReorderQuestions(s.ctx, survey.ID, []uint{q.ID, q.ID, survey.Questions[0].ID}), store.ErrInvalidOrder)

	got, err := surveys.GetSurvey(s.ctx, survey.ID)
	s.Require().NoError(err)
	s.Require().Len(got.Questions, 3)
	s.Equal(ids[0], got.Questions[0].ID)
	s.Equal(model.QuestionTypeSingleChoice, got.Questions[0].Type)
	s.Equal(ids[2], got.Questions[2].ID)

	q.Text = "Favourite language?"
	s.Require().NoError(surveys.UpdateQuestion(s.ctx, q))

	a := s.seedAttendee(c.ID, "guest@example.com")
	s.Require().NoError(NewResponsesStore(s.DB).SubmitResponses(s.ctx, survey.ID, a.ID, []model.Response{
		{QuestionID: q.ID, Value: model.AnswerValue(`"Go"`)},
	}))

	s.ErrorIs(surveys.UpdateQuestion(s.ctx, q), store.ErrHasResponses)
	s.ErrorIs(surveys.DeleteQuestion(s.ctx, q.ID), store.ErrHasResponses)
	s.ErrorIs(surveys.CreateQuestion(s.ctx, &model.Question{SurveyID: survey.ID, Text: "Late", Type: model.QuestionTypeText}), store.ErrHasResponses)
	s.ErrorIs(surveys.CreateQuestion(s.ctx, &model.Question{SurveyID: 999, Text: "Orphan", Type: model.QuestionTypeText}), store.ErrNotFound)
}

func (s *Suite) TestAttendees() {
	attendees := NewAttendeesStore(s.DB)
	admin := s.seedAdmin("org@example.com")
	c := s.seedConference(admin.ID, "AAAA1111")
	other := s.seedConference(admin.ID, "BBBB2222")

	a := s.seedAttendee(c.ID, "Guest@Example.com")
	s.Equal(model.AttendeeStatusFirstLogin, a.Status)

	err := attendees.CreateAttendee(s.ctx, &model.Attendee{ConferenceID: c.ID, Email: "guest@example.com", Name: "Again", PasswordHash: "x"})
	s.ErrorIs(err, store.ErrConflict)

	// same email, different conference
	s.seedAttendee(other.ID, "guest@example.com")

	found, err := attendees.FindAttendee(s.ctx, c.ID, "GUEST@example.com")
	s.Require().NoError(err)
	s.Equal(a.ID, found.ID)

	until := time.Now().Add(30 * time.Minute).UTC()
	found.Status = model.AttendeeStatusLocked
	found.FailedLoginAttempts = 5
	found.LockedUntil = &until
	s.Require().NoError(attendees.SaveAttendee(s.ctx, found))

	reloaded, err := attendees.GetAttendee(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(model.AttendeeStatusLocked, reloaded.Status)
	s.Equal(5, reloaded.FailedLoginAttempts)
	s.Require().NotNil(reloaded.LockedUntil)
	s.WithinDuration(until, *reloaded.LockedUntil, time.Second)

	locked := model.AttendeeStatusLocked
	list, err := attendees.ListAttendees(s.ctx, c.ID, &locked)
	s.Require().NoError(err)
	s.Len(list, 1)

	counts, err := attendees.CountAttendeesByStatus(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(map[string]int64{"first_login": 0, "active": 0, "locked": 1}, counts)

	s.Require().NoError(attendees.DeleteAttendee(s.ctx, a.ID))
	_, err = attendees.GetAttendee(s.ctx, a.ID)
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *Suite) TestRecordLoginFailure() {
	attendees := NewAttendeesStore(s.DB)
	admin := s.seedAdmin("org@example.com")
	c := s.seedConference(admin.ID, "AAAA1111")
	a := s.seedAttendee(c.ID, "guest@example.com")
	until := time.Now().Add(30 * time.Minute).UTC()

	for want := 1; want < 3; want++ {
		stored, err := attendees.RecordLoginFailure(s.ctx, a.ID, 3, until)
		s.Require().NoError(err)
		s.Equal(want, stored.FailedLoginAttempts)
		s.Equal(model.AttendeeStatusFirstLogin, stored.Status)
		s.Nil(stored.LockedUntil)
	}

	stored, err := attendees.RecordLoginFailure(s.ctx, a.ID, 3, until)
	s.Require().NoError(err)
	s.Equal(3, stored.FailedLoginAttempts)
	s.Equal(model.AttendeeStatusLocked, stored.Status)
	s.Require().NotNil(stored.LockedUntil)
	s.WithinDuration(until, *stored.LockedUntil, time.Second)

	// a late failure is still counted but does not move the lock
	stored, err = attendees.RecordLoginFailure(s.ctx, a.ID, 3, until.Add(time.Hour))
	s.Require().NoError(err)
	s.Equal(4, stored.FailedLoginAttempts)
	s.WithinDuration(until, *stored.LockedUntil, time.Second)

	reloaded, err := attendees.GetAttendee(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(model.AttendeeStatusLocked, reloaded.Status)
	s.Equal(4, reloaded.FailedLoginAttempts)

	_, err = attendees.RecordLoginFailure(s.ctx, 999, 3, until)
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *Suite) TestSubmitResponsesTwice() {
	responses := NewResponsesStore(s.DB)
	admin := s.seedAdmin("org@example.com")
	c := s.seedConference(admin.ID, "AAAA1111")
	survey := s.seedSurvey(c.ID, "Feedback",
		model.Question{Text: "Rate", Type: model.QuestionTypeRating},
		model.Question{Text: "Again?", Type: model.QuestionTypeYesNo},
	)
	a := s.seedAttendee(c.ID, "guest@example.com")
	b := s.seedAttendee(c.ID, "other@example.com")

	answers := func() []model.Response {
		return []model.Response{
			{QuestionID: survey.Questions[0].ID, Value: model.AnswerValue(`5`)},
			{QuestionID: survey.Questions[1].ID, Value: model.AnswerValue(`true`)},
		}
	}

	submitted, err := responses.HasSubmitted(s.ctx, survey.ID, a.ID)
	s.Require().NoError(err)
	s.False(submitted)

	s.Require().NoError(responses.SubmitResponses(s.ctx, survey.ID, a.ID, answers()))
	s.ErrorIs(responses.SubmitResponses(s.ctx, survey.ID, a.ID, answers()), store.ErrAlreadySubmitted)
	s.Require().NoError(responses.SubmitResponses(s.ctx, survey.ID, b.ID, answers()[:1]))

	submitted, err = responses.HasSubmitted(s.ctx, survey.ID, a.ID)
	s.Require().NoError(err)
	s.True(submitted)

	list, err := responses.ListSurveyResponses(s.ctx, survey.ID)
	s.Require().NoError(err)
	s.Len(list, 3)

	n, err := responses.CountRespondents(s.ctx, survey.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), n)
}

func (s *Suite) TestScalarAnswersReadBack() {
	responses := NewResponsesStore(s.DB)
	admin := s.seedAdmin("org@example.com")
	c := s.seedConference(admin.ID, "AAAA1111")
	survey := s.seedSurvey(c.ID, "Feedback",
		model.Question{Text: "Rate", Type: model.QuestionTypeRating},
		model.Question{Text: "Again?", Type: model.QuestionTypeYesNo},
		model.Question{Text: "Track", Type: model.QuestionTypeText},
	)
	a := s.seedAttendee(c.ID, "guest@example.com")

	s.Require().NoError(responses.SubmitResponses(s.ctx, survey.ID, a.ID, []model.Response{
		{QuestionID: survey.Questions[0].ID, Value: model.AnswerValue(`5`)},
		{QuestionID: survey.Questions[1].ID, Value: model.AnswerValue(`false`)},
		{QuestionID: survey.Questions[2].ID, Value: model.AnswerValue(`"12"`)},
	}))

	list, err := responses.ListSurveyResponses(s.ctx, survey.ID)
	s.Require().NoError(err)
	got := map[uint]string{}
	for _, r := range list {
		got[r.QuestionID] = string(r.Value)
	}
	s.Equal(map[uint]string{
		survey.Questions[0].ID: `5`,
		survey.Questions[1].ID: `false`,
		survey.Questions[2].ID: `"12"`,
	}, got)
}

func (s *Suite) TestDeliveries() {
	deliveries := NewDeliveriesStore(s.DB)
	admin := s.seedAdmin("org@example.com")
	c := s.seedConference(admin.ID, "AAAA1111")
	a := s.seedAttendee(c.ID, "guest@example.com")
	now := time.Now().UTC()

	d := &model.PasswordQueue{AttendeeID: a.ID, Email: a.Email, EncryptedPassword: []byte("sealed"), ScheduledAt: now}
	s.Require().NoError(deliveries.CreateDelivery(s.ctx, d))

	pending, err := deliveries.ListPending(s.ctx)
	s.Require().NoError(err)
	s.Len(pending, 1)

	later := &model.PasswordQueue{AttendeeID: a.ID, Email: a.Email, EncryptedPassword: []byte("later"), ScheduledAt: now.Add(time.Hour)}
	s.Require().NoError(deliveries.CreateDelivery(s.ctx, later))
	due, err := deliveries.ListDue(s.ctx, now.Add(time.Minute), 10)
	s.Require().NoError(err)
	s.Equal([]uint{d.ID}, due)
	due, err = deliveries.ListDue(s.ctx, now.Add(2*time.Hour), 1)
	s.Require().NoError(err)
	s.Equal([]uint{d.ID}, due, "limit keeps the earliest")
	s.Require().NoError(deliveries.MarkFailed(s.ctx, later.ID, 0, "not needed"))

	claimed, err := deliveries.ClaimDelivery(s.ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(model.DeliveryStatusProcessing, claimed.Status)
	s.Equal([]byte("sealed"), claimed.EncryptedPassword)

	_, err = deliveries.ClaimDelivery(s.ctx, d.ID)
	s.ErrorIs(err, store.ErrNotFound, "a claimed delivery cannot be claimed twice")

	s.Require().NoError(deliveries.MarkRetry(s.ctx, d.ID, 1, "smtp timeout", now.Add(5*time.Second)))
	claimed, err = deliveries.ClaimDelivery(s.ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(1, claimed.Attempts)
	s.Equal("smtp timeout", claimed.LastError)

	s.Require().NoError(deliveries.MarkSent(s.ctx, d.ID, now))
	var sent model.PasswordQueue
	s.Require().NoError(s.DB.First(&sent, d.ID).Error)
	s.Equal(model.DeliveryStatusSent, sent.Status)
	s.Empty(sent.EncryptedPassword)
	s.NotNil(sent.SentAt)

	second := &model.PasswordQueue{AttendeeID: a.ID, Email: a.Email, EncryptedPassword: []byte("x"), ScheduledAt: now}
	s.Require().NoError(deliveries.CreateDelivery(s.ctx, second))
	s.Require().NoError(deliveries.CancelPending(s.ctx, a.ID, "superseded"))
	pending, err = deliveries.ListPending(s.ctx)
	s.Require().NoError(err)
	s.Empty(pending)

	s.Require().NoError(deliveries.MarkFailed(s.ctx, second.ID, 3, "gave up"))
}

func (s *Suite) TestHealth() {
	s.NoError(NewHealthStore(s.DB).CheckConnectivity(s.ctx))
}
