package integration

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/cucumber/godog"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
)

func (s *StepsContext) registerConferenceSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a conference "([^"]*)" with url code "([^"]*)" exists$`, s.aConferenceExists)

	// Attendee steps
	sc.Step(`^attendee "([^"]*)" registers for "([^"]*)"$`, s.attendeeRegistersFor)
	sc.Step(`^attendee "([^"]*)" is registered for "([^"]*)"$`, s.attendeeIsRegisteredFor)
	sc.Step(`^a password delivery for "([^"]*)" should be pending$`, s.aPasswordDeliveryShouldBePending)
	sc.Step(`^attendee "([^"]*)" logs in to "([^"]*)" with the generated password$`, s.attendeeLogsInWithGeneratedPassword)
	sc.Step(`^attendee "([^"]*)" logs in to "([^"]*)" with password "([^"]*)"$`, s.attendeeLogsIn)
	sc.Step(`^attendee "([^"]*)" fails to log in to "([^"]*)" (\d+) times?$`, s.attendeeFailsToLogIn)
	sc.Step(`^attendee "([^"]*)" changes the password to "([^"]*)"$`, s.attendeeChangesPassword)
	sc.Step(`^attendee "([^"]*)" should have status "([^"]*)"$`, s.attendeeShouldHaveStatus)

	// Survey steps
	sc.Step(`^a survey "([^"]*)" with a required rating question exists$`, s.aSurveyWithRatingQuestionExists)
	sc.Step(`^I activate the survey "([^"]*)"$`, s.iActivateTheSurvey)
	sc.Step(`^the survey "([^"]*)" should be active$`, s.theSurveyShouldBeActive)
	sc.Step(`^the survey "([^"]*)" should not be active$`, s.theSurveyShouldNotBeActive)
	sc.Step(`^attendee "([^"]*)" rates the survey "([^"]*)" with (\d+)$`, s.attendeeRatesTheSurvey)
	sc.Step(`^the survey "([^"]*)" should have (\d+) respondents?$`, s.theSurveyShouldHaveRespondents)
}

func (s *StepsContext) aConferenceExists(name, urlCode string) error {
	if err := s.doRequest("POST", "/api/conferences", map[string]interface{}{
		"name":    name,
		"urlCode": urlCode,
	}); err != nil {
		return err
	}
	if err := s.expectStatus(http.StatusCreated); err != nil {
		return err
	}
	id, err := s.responseField("id")
	if err != nil {
		return err
	}
	s.vars["conferenceId"] = id
	return nil
}

// Attendee steps

func (s *StepsContext) attendeeRegistersFor(email, urlCode string) error {
	// Registration is public
	s.authToken = ""
	return s.doRequest("POST", "/api/attendees/register", map[string]string{
		"urlCode": urlCode,
		"email":   email,
		"name":    email,
	})
}

func (s *StepsContext) attendeeIsRegisteredFor(email, urlCode string) error {
	if err := s.attendeeRegistersFor(email, urlCode); err != nil {
		return err
	}
	if err := s.expectStatus(http.StatusCreated); err != nil {
		return err
	}
	return s.aPasswordDeliveryShouldBePending(email)
}

// aPasswordDeliveryShouldBePending opens the queued password with the data
// key so later steps can log in with it.
func (s *StepsContext) aPasswordDeliveryShouldBePending(email string) error {
	var delivery model.PasswordQueue
	err := s.tc.DB.
		Where("email = ? AND status = ?", model.NormalizeEmail(email), model.DeliveryStatusPending).
		Order("id DESC").
		First(&delivery).Error
	if err != nil {
		return fmt.Errorf("no pending delivery for %s: %w", email, err)
	}

	password, err := s.tc.Cipher.Open(delivery.AAD(), delivery.EncryptedPassword)
	if err != nil {
		return fmt.Errorf("failed to open queued password: %w", err)
	}
	s.passwords[email] = string(password)
	return nil
}

func (s *StepsContext) attendeeLogsInWithGeneratedPassword(email, urlCode string) error {
	password, ok := s.passwords[email]
	if !ok {
		return fmt.Errorf("no generated password known for %s", email)
	}
	return s.attendeeLogsIn(email, urlCode, password)
}

func (s *StepsContext) attendeeLogsIn(email, urlCode, password string) error {
	s.authToken = ""
	if err := s.doRequest("POST", "/api/attendees/login", map[string]string{
		"urlCode":  urlCode,
		"email":    email,
		"password": password,
	}); err != nil {
		return err
	}
	return s.rememberToken(email, http.StatusOK)
}

func (s *StepsContext) attendeeFailsToLogIn(email, urlCode string, times int) error {
	for i := 0; i < times; i++ {
		if err := s.attendeeLogsIn(email, urlCode, "definitely-wrong"); err != nil {
			return err
		}
		if s.response.StatusCode == http.StatusOK {
			return fmt.Errorf("login with a wrong password succeeded")
		}
	}
	return nil
}

func (s *StepsContext) attendeeChangesPassword(email, newPassword string) error {
	if err := s.iActAs(email); err != nil {
		return err
	}
	if err := s.doRequest("POST", "/api/attendees/change-password", map[string]string{
		"currentPassword": s.passwords[email],
		"newPassword":     newPassword,
	}); err != nil {
		return err
	}
	if s.response.StatusCode == http.StatusOK {
		s.passwords[email] = newPassword
	}
	return nil
}

func (s *StepsContext) attendeeShouldHaveStatus(email, status string) error {
	var attendee model.Attendee
	if err := s.tc.DB.Where("email = ?", model.NormalizeEmail(email)).First(&attendee).Error; err != nil {
		return err
	}
	if attendee.Status.String() != status {
		return fmt.Errorf("expected %s to be %s, got %s", email, status, attendee.Status)
	}
	return nil
}

// Survey steps

func (s *StepsContext) aSurveyWithRatingQuestionExists(title string) error {
	if err := s.doRequest("POST", "/api/conferences/"+s.vars["conferenceId"]+"/surveys", map[string]interface{}{
		"title": title,
		"questions": []map[string]interface{}{
			{"text": "Rate the keynote", "type": "rating", "required": true, "options": map[string]int{"min": 1, "max": 5}},
			{"text": "Anything else?", "type": "text"},
		},
	}); err != nil {
		return err
	}
	if err := s.expectStatus(http.StatusCreated); err != nil {
		return err
	}

	id, err := s.responseField("id")
	if err != nil {
		return err
	}
	questionID, err := s.responseField("questions.0.id")
	if err != nil {
		return err
	}
	s.vars["survey:"+title] = id
	s.vars["question:"+title] = questionID
	return nil
}

func (s *StepsContext) surveyID(title string) (string, error) {
	id, ok := s.vars["survey:"+title]
	if !ok {
		return "", fmt.Errorf("unknown survey %q", title)
	}
	return id, nil
}

func (s *StepsContext) iActivateTheSurvey(title string) error {
	id, err := s.surveyID(title)
	if err != nil {
		return err
	}
	return s.doRequest("POST", "/api/surveys/"+id+"/activate", nil)
}

func (s *StepsContext) surveyActive(title string) (bool, error) {
	id, err := s.surveyID(title)
	if err != nil {
		return false, err
	}
	var survey model.Survey
	if err := s.tc.DB.First(&survey, "id = ?", id).Error; err != nil {
		return false, err
	}
	return survey.IsActive, nil
}

func (s *StepsContext) theSurveyShouldBeActive(title string) error {
	active, err := s.surveyActive(title)
	if err != nil {
		return err
	}
	if !active {
		return fmt.Errorf("survey %q is not active", title)
	}
	return nil
}

func (s *StepsContext) theSurveyShouldNotBeActive(title string) error {
	active, err := s.surveyActive(title)
	if err != nil {
		return err
	}
	if active {
		return fmt.Errorf("survey %q is active", title)
	}
	return nil
}

func (s *StepsContext) attendeeRatesTheSurvey(email, title string, rating int) error {
	if err := s.iActAs(email); err != nil {
		return err
	}
	surveyID, err := s.surveyID(title)
	if err != nil {
		return err
	}
	sid, _ := strconv.Atoi(surveyID)
	qid, _ := strconv.Atoi(s.vars["question:"+title])

	return s.doRequest("POST", "/api/responses", map[string]interface{}{
		"surveyId": sid,
		"answers":  []map[string]interface{}{{"questionId": qid, "value": rating}},
	})
}

func (s *StepsContext) theSurveyShouldHaveRespondents(title string, expected int) error {
	id, err := s.surveyID(title)
	if err != nil {
		return err
	}
	var count int64
	if err := s.tc.DB.Model(&model.Response{}).
		Where("survey_id = ?", id).
		Distinct("attendee_id").
		Count(&count).Error; err != nil {
		return err
	}
	if count != int64(expected) {
		return fmt.Errorf("expected %d respondents, got %d", expected, count)
	}
	return nil
}

func (s *StepsContext) expectStatus(status int) error {
	return s.theResponseStatusShouldBe(status)
}
