package system

import (
	"fmt"
	"strings"

	"github.com/julianstephens/freeweek/internal/cli"
	"github.com/julianstephens/freeweek/internal/validation"
)

type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	result, err := validateSchedule(ctx)
	if err != nil {
		return err
	}
	ctx.Println(strings.TrimRight(result.FormatReport(), "\n"))
	if result.Count(validation.ConflictOverlappingClasses)+result.Count(validation.ConflictInvalidTime) > 0 {
		return fmt.Errorf("found %d conflict(s)", len(result.Conflicts))
	}
	return nil
}

func validateSchedule(ctx *cli.Context) (validation.ValidationResult, error) {
	people, err := ctx.Store.GetAllPeople(ctx.Ctx(), true)
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to get people: %w", err)
	}
	classes, err := ctx.Store.GetAllClasses(ctx.Ctx())
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to get classes: %w", err)
	}
	return validation.New(ctx.Settings().PersonalWindow).ValidateSchedule(people, classes), nil
}
