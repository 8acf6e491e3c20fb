package mission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string) error
	POST(path string, body any) error
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	SaveMission(m map[string]any)
	SavedMission() map[string]any
}

// RegisterSteps registers mission allocation, progress and archive steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &missionSteps{tc: tc}

	ctx.Step(`^I request today's mission$`, steps.requestToday)
	ctx.Step(`^I save today's mission$`, steps.saveTodaysMission)
	ctx.Step(`^today's mission should be the saved mission$`, steps.todayShouldBeSaved)
	ctx.Step(`^I check the saved mission$`, steps.checkSaved)
	ctx.Step(`^I check the saved mission until it is completed$`, steps.checkUntilCompleted)
	ctx.Step(`^I uncheck the saved mission$`, steps.uncheckSaved)
	ctx.Step(`^I check a mission that does not exist$`, steps.checkUnknown)
	ctx.Step(`^I check mission "([^"]*)"$`, steps.checkByID)
	ctx.Step(`^I request the mission archive$`, steps.requestArchive)

	ctx.Step(`^the mission should be completed$`, steps.missionShouldBeCompleted)
	ctx.Step(`^the mission should not be completed$`, steps.missionShouldNotBeCompleted)
	ctx.Step(`^the mission progress should be (\d+)$`, steps.progressShouldBe)
	ctx.Step(`^the archive should contain the saved mission$`, steps.archiveShouldContainSaved)
	ctx.Step(`^the archive should not contain the saved mission$`, steps.archiveShouldNotContainSaved)
}

type missionSteps struct {
	tc TestContext
}

func (s *missionSteps) requestToday(ctx context.Context) error {
	return s.tc.GET("/api/mission/today")
}

func (s *missionSteps) saveTodaysMission(ctx context.Context) error {
	today, err := s.tc.GetResponseField("today")
	if err != nil {
		return err
	}
	m, ok := today.(map[string]any)
	if !ok {
		return errors.New("no mission assigned today")
	}
	s.tc.SaveMission(m)
	return nil
}

func (s *missionSteps) savedID() (string, error) {
	m := s.tc.SavedMission()
	if m == nil {
		return "", errors.New("no mission saved")
	}
	assignmentID, ok := m["assignment_id"].(string)
	if !ok {
		return "", errors.New("saved mission has no assignment_id")
	}
	return assignmentID, nil
}

func (s *missionSteps) todayShouldBeSaved(ctx context.Context) error {
	want, err := s.savedID()
	if err != nil {
		return err
	}
	today, err := s.tc.GetResponseField("today")
	if err != nil {
		return err
	}
	m, _ := today.(map[string]any)
	if m == nil || m["assignment_id"] != want {
		return fmt.Errorf("expected today's mission %s, got %v", want, today)
	}
	return nil
}

func (s *missionSteps) checkSaved(ctx context.Context) error {
	assignmentID, err := s.savedID()
	if err != nil {
		return err
	}
	return s.checkByID(ctx, assignmentID)
}

func (s *missionSteps) checkByID(ctx context.Context, assignmentID string) error {
	return s.tc.POST("/api/mission/"+assignmentID+"/check", nil)
}

func (s *missionSteps) checkUnknown(ctx context.Context) error {
	return s.checkByID(ctx, uuid.NewString())
}

func (s *missionSteps) checkUntilCompleted(ctx context.Context) error {
	target, ok := s.tc.SavedMission()["target_count"].(float64)
	if !ok {
		return errors.New("saved mission has no target_count")
	}
	for i := 0; i < int(target); i++ {
		if err := s.checkSaved(ctx); err != nil {
			return err
		}
		if status := s.tc.GetLastResponseStatus(); status != 200 {
			return fmt.Errorf("check %d returned %d: %s", i+1, status, s.tc.GetLastResponseBody())
		}
	}
	return nil
}

func (s *missionSteps) uncheckSaved(ctx context.Context) error {
	assignmentID, err := s.savedID()
	if err != nil {
		return err
	}
	return s.tc.POST("/api/mission/"+assignmentID+"/uncheck", nil)
}

func (s *missionSteps) requestArchive(ctx context.Context) error {
	return s.tc.GET("/api/mission/archive")
}

func (s *missionSteps) missionShouldBeCompleted(ctx context.Context) error {
	return s.expectCompleted(true)
}

func (s *missionSteps) missionShouldNotBeCompleted(ctx context.Context) error {
	return s.expectCompleted(false)
}

func (s *missionSteps) expectCompleted(want bool) error {
	completed, err := s.tc.GetResponseField("completed")
	if err != nil {
		return err
	}
	if completed != want {
		return fmt.Errorf("expected completed=%v, got %v", want, completed)
	}
	completedAt, err := s.tc.GetResponseField("completed_at")
	if err != nil {
		return err
	}
	if want != (completedAt != nil) {
		return fmt.Errorf("completed_at %v does not match completed=%v", completedAt, want)
	}
	return nil
}

func (s *missionSteps) progressShouldBe(ctx context.Context, expected int) error {
	progress, err := s.tc.GetResponseField("progress")
	if err != nil {
		return err
	}
	if got, ok := progress.(float64); !ok || int(got) != expected {
		return fmt.Errorf("expected progress %d, got %v", expected, progress)
	}
	return nil
}

func (s *missionSteps) archiveContainsSaved() (bool, error) {
	want, err := s.savedID()
	if err != nil {
		return false, err
	}
	var weeks []struct {
		WeekStart   string `json:"week_start"`
		WeekEnd     string `json:"week_end"`
		Assignments []struct {
			AssignmentID string `json:"assignment_id"`
		} `json:"assignments"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &weeks); err != nil {
		return false, fmt.Errorf("archive is not a JSON array: %w", err)
	}
	for _, week := range weeks {
		for _, a := range week.Assignments {
			if a.AssignmentID == want {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *missionSteps) archiveShouldContainSaved(ctx context.Context) error {
	found, err := s.archiveContainsSaved()
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("saved mission missing from archive: %s", s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *missionSteps) archiveShouldNotContainSaved(ctx context.Context) error {
	found, err := s.archiveContainsSaved()
	if err != nil {
		return err
	}
	if found {
		return errors.New("saved mission is still in the archive")
	}
	return nil
}
