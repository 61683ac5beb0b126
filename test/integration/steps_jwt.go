package integration

import (
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"
)

func (s *StepsContext) registerTokenSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I should receive a valid token for the "([^"]*)" role$`, s.iShouldReceiveAValidToken)
	sc.Step(`^I use a token for admin "([^"]*)" signed with "([^"]*)"$`, s.iUseATokenSignedWith)
	sc.Step(`^I use an expired token for admin "([^"]*)"$`, s.iUseAnExpiredToken)
	sc.Step(`^I use an attendee token of "([^"]*)" for conference (\d+)$`, s.iUseAnAttendeeTokenForConference)
}

// iShouldReceiveAValidToken checks the token in the last response against
// the server's signing secret.
func (s *StepsContext) iShouldReceiveAValidToken(role string) error {
	tokenString, err := s.responseField("token")
	if err != nil {
		return err
	}

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("token does not verify: %w", err)
	}

	if claims["role"] != role {
		return fmt.Errorf("expected role %q, got %v", role, claims["role"])
	}
	sub, _ := claims.GetSubject()
	if !strings.HasPrefix(sub, role+":") {
		return fmt.Errorf("subject %q does not belong to role %q", sub, role)
	}
	if role == "attendee" {
		if cid, ok := claims["cid"].(float64); !ok || cid == 0 {
			return fmt.Errorf("attendee token without conference: %v", claims)
		}
	}
	return nil
}

// adminSubject reads the subject of a token this scenario obtained for email
func (s *StepsContext) adminSubject(email string) (string, error) {
	token, ok := s.tokens[email]
	if !ok {
		return "", fmt.Errorf("no token for %s", email)
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", err
	}
	return claims.GetSubject()
}

func (s *StepsContext) signToken(claims jwt.MapClaims, secret string) error {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return err
	}
	s.authToken = signed
	return nil
}

func (s *StepsContext) iUseATokenSignedWith(email, secret string) error {
	sub, err := s.adminSubject(email)
	if err != nil {
		return err
	}
	now := time.Now()
	return s.signToken(jwt.MapClaims{
		"sub":  sub,
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	}, secret)
}

func (s *StepsContext) iUseAnExpiredToken(email string) error {
	sub, err := s.adminSubject(email)
	if err != nil {
		return err
	}
	issued := time.Now().Add(-2 * time.Hour)
	return s.signToken(jwt.MapClaims{
		"sub":  sub,
		"role": "admin",
		"iat":  issued.Unix(),
		"exp":  issued.Add(time.Hour).Unix(),
	}, testJWTSecret)
}

// iUseAnAttendeeTokenForConference re-signs an attendee's token for another
// conference, as a client tampering with its claims would.
func (s *StepsContext) iUseAnAttendeeTokenForConference(email string, conferenceID int) error {
	token, ok := s.tokens[email]
	if !ok {
		return fmt.Errorf("no token for %s", email)
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return err
	}
	claims["cid"] = conferenceID
	return s.signToken(claims, "not-the-server-secret")
}
