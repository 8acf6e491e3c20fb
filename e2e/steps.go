package e2e

import (
	"github.com/cucumber/godog"

	"finhabit/e2e/steps/common"
	"finhabit/e2e/steps/mission"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Background, authentication and generic response assertions
	common.RegisterSteps(ctx, tc)

	mission.RegisterSteps(ctx, tc)
}
