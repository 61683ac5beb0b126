package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
)

const defaultAdminPassword = "organizer-pass-1"

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
	// tokens by account email
	tokens map[string]string
	// generated attendee passwords by email
	passwords map[string]string
	// named values substituted into paths and bodies as {name}
	vars map[string]string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:        tc,
		tokens:    make(map[string]string),
		passwords: make(map[string]string),
		vars:      make(map[string]string),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^the conference server is running$`, s.theConferenceServerIsRunning)

	// Admin steps
	sc.Step(`^I register as admin "([^"]*)" with password "([^"]*)"$`, s.iRegisterAsAdmin)
	sc.Step(`^I log in as admin "([^"]*)" with password "([^"]*)"$`, s.iLogInAsAdmin)
	sc.Step(`^I am logged in as admin "([^"]*)"$`, s.iAmLoggedInAsAdmin)
	sc.Step(`^I act as "([^"]*)"$`, s.iActAs)
	sc.Step(`^I am not logged in$`, s.iAmNotLoggedIn)

	// Generic request steps
	sc.Step(`^I send a (GET|POST|PUT|DELETE) request to "([^"]*)"$`, s.iSendARequestTo)
	sc.Step(`^I send a (GET|POST|PUT|DELETE) request to "([^"]*)" with body:$`, s.iSendARequestWithBody)
	sc.Step(`^I save the response field "([^"]*)" as "([^"]*)"$`, s.iSaveTheResponseField)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, s.theResponseFieldShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, s.theResponseShouldContain)

	s.registerConferenceSteps(sc)
	s.registerTokenSteps(sc)
}

// Background steps

func (s *StepsContext) theConferenceServerIsRunning() error {
	// The server is started once by TestContext; scenarios only need clean tables
	return s.tc.Reset()
}

// Admin steps

func (s *StepsContext) iRegisterAsAdmin(email, password string) error {
	if err := s.doRequest("POST", "/api/auth/register", map[string]string{
		"email":    email,
		"name":     strings.Split(email, "@")[0],
		"password": password,
	}); err != nil {
		return err
	}
	return s.rememberToken(email, http.StatusCreated)
}

func (s *StepsContext) iLogInAsAdmin(email, password string) error {
	if err := s.doRequest("POST", "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}); err != nil {
		return err
	}
	return s.rememberToken(email, http.StatusOK)
}

func (s *StepsContext) iAmLoggedInAsAdmin(email string) error {
	if err := s.iRegisterAsAdmin(email, defaultAdminPassword); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusCreated {
		return fmt.Errorf("admin registration failed with %d: %s", s.response.StatusCode, s.responseBody)
	}
	return nil
}

func (s *StepsContext) iActAs(email string) error {
	token, ok := s.tokens[email]
	if !ok {
		return fmt.Errorf("no token for %s", email)
	}
	s.authToken = token
	return nil
}

func (s *StepsContext) iAmNotLoggedIn() error {
	s.authToken = ""
	return nil
}

// rememberToken keeps the token of a successful auth response and makes it current
func (s *StepsContext) rememberToken(email string, okStatus int) error {
	if s.response.StatusCode != okStatus {
		return nil
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return fmt.Errorf("failed to parse auth response: %w", err)
	}
	if body.Token == "" {
		return fmt.Errorf("auth response carries no token: %s", s.responseBody)
	}
	s.tokens[email] = body.Token
	s.authToken = body.Token
	return nil
}

// Generic request steps

func (s *StepsContext) iSendARequestTo(method, path string) error {
	return s.doRequest(method, s.expand(path), nil)
}

func (s *StepsContext) iSendARequestWithBody(method, path string, body *godog.DocString) error {
	return s.doRequest(method, s.expand(path), json.RawMessage(s.expand(body.Content)))
}

func (s *StepsContext) iSaveTheResponseField(field, name string) error {
	value, err := s.responseField(field)
	if err != nil {
		return err
	}
	s.vars[name] = value
	return nil
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseFieldShouldBe(field, expected string) error {
	value, err := s.responseField(field)
	if err != nil {
		return err
	}
	if value != s.expand(expected) {
		return fmt.Errorf("expected %s to be %q, got %q", field, expected, value)
	}
	return nil
}

func (s *StepsContext) theResponseShouldContain(text string) error {
	if !strings.Contains(string(s.responseBody), s.expand(text)) {
		return fmt.Errorf("expected response to contain %q, got: %s", text, s.responseBody)
	}
	return nil
}

// Helpers

// doRequest sends body as JSON with the current token and records the response
func (s *StepsContext) doRequest(method, path string, body interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.tc.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

// expand replaces {name} placeholders with saved values
func (s *StepsContext) expand(text string) string {
	for name, value := range s.vars {
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}
	return text
}

// responseField looks up a dotted path such as "attendee.id" or
// "questions.0.id" in the JSON response body.
func (s *StepsContext) responseField(path string) (string, error) {
	var node interface{}
	if err := json.Unmarshal(s.responseBody, &node); err != nil {
		return "", fmt.Errorf("response is not JSON: %s", s.responseBody)
	}

	for _, key := range strings.Split(path, ".") {
		switch v := node.(type) {
		case map[string]interface{}:
			next, ok := v[key]
			if !ok {
				return "", fmt.Errorf("field %q not found in %s", path, s.responseBody)
			}
			node = next
		case []interface{}:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(v) {
				return "", fmt.Errorf("bad index %q in %q", key, path)
			}
			node = v[i]
		default:
			return "", fmt.Errorf("field %q not found in %s", path, s.responseBody)
		}
	}

	switch v := node.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case nil:
		return "", nil
	default:
		data, err := json.Marshal(v)
		return string(data), err
	}
}
