package common

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string) error
	AuthenticateAs(userID string) error
	SetAccessToken(token string)
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// DemoUserID is provisioned by a server running in in-memory mode.
const DemoUserID = "6f1a2b3c-4d5e-4f60-8192-a3b4c5d6e7f8"

// RegisterSteps registers background, authentication and assertion steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^the finhabit server is healthy$`, steps.serverIsHealthy)
	ctx.Step(`^I am authenticated as the demo user$`, steps.authenticatedAsDemoUser)
	ctx.Step(`^I am authenticated as user "([^"]*)"$`, steps.authenticatedAsUser)
	ctx.Step(`^I am not authenticated$`, steps.notAuthenticated)
	ctx.Step(`^I use the bearer token "([^"]*)"$`, steps.useBearerToken)

	ctx.Step(`^the response status should be (\d+)$`, steps.responseStatusShouldBe)
	ctx.Step(`^the error code should be "([^"]*)"$`, steps.errorCodeShouldBe)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) serverIsHealthy(ctx context.Context) error {
	if err := s.tc.GET("/health"); err != nil {
		return err
	}
	return s.responseStatusShouldBe(ctx, 200)
}

func (s *commonSteps) authenticatedAsDemoUser(ctx context.Context) error {
	return s.tc.AuthenticateAs(DemoUserID)
}

func (s *commonSteps) authenticatedAsUser(ctx context.Context, userID string) error {
	return s.tc.AuthenticateAs(userID)
}

func (s *commonSteps) notAuthenticated(ctx context.Context) error {
	s.tc.SetAccessToken("")
	return nil
}

func (s *commonSteps) useBearerToken(ctx context.Context, token string) error {
	s.tc.SetAccessToken(token)
	return nil
}

func (s *commonSteps) responseStatusShouldBe(ctx context.Context, expected int) error {
	if got := s.tc.GetLastResponseStatus(); got != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, got, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) errorCodeShouldBe(ctx context.Context, expected string) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &body); err != nil {
		return fmt.Errorf("error response is not JSON: %w", err)
	}
	if body.Error != expected {
		return fmt.Errorf("expected error code %q, got %q", expected, body.Error)
	}
	return nil
}
