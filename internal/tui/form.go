package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/freeweek/internal/models"
	"github.com/julianstephens/freeweek/internal/schedule"
	"github.com/julianstephens/freeweek/internal/utils"
)

// NewClassForm builds the manual class entry form.
func NewClassForm(fm *ClassFormModel, owner string) *huh.Form {
	dayOptions := make([]huh.Option[models.Weekday], 0, 5)
	for d := models.Monday; d <= models.Friday; d++ {
		dayOptions = append(dayOptions, huh.NewOption(d.String(), d))
	}
	clock := func(s string) error {
		if _, err := utils.NormalizeClock(s); err != nil {
			return schedule.ErrTimeFormat
		}
		return nil
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Class title").
				Description("For "+owner).
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return schedule.ErrNoTitle
					}
					return nil
				}),
			huh.NewMultiSelect[models.Weekday]().
				Title("Days").
				Options(dayOptions...).
				Value(&fm.Days).
				Validate(func(days []models.Weekday) error {
					if len(days) == 0 {
						return schedule.ErrNoDays
					}
					return nil
				}),
			huh.NewInput().
				Title("Start").
				Placeholder("9:30am").
				Value(&fm.Start).
				Validate(clock),
			huh.NewInput().
				Title("End").
				Placeholder("10:20am").
				Value(&fm.End).
				Validate(func(s string) error {
					if err := clock(s); err != nil {
						return err
					}
					start, err := utils.NormalizeClock(fm.Start)
					if err != nil {
						return nil
					}
					end, _ := utils.NormalizeClock(s)
					startMin, _ := utils.ClockToMinutes(start)
					endMin, _ := utils.ClockToMinutes(end)
					if endMin <= startMin {
						return schedule.ErrEndBeforeStart
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

// saveClassForm stores the completed form as a new manual group.
func (m *Model) saveClassForm() error {
	if m.classForm == nil {
		return errors.New("no class form open")
	}
	source, meetings, err := schedule.NewManualGroup(schedule.ManualEntry{
		OwnerID: m.formOwner.ID,
		Title:   m.classForm.Title,
		Days:    m.classForm.Days,
		Start:   m.classForm.Start,
		End:     m.classForm.End,
	})
	if err != nil {
		return err
	}
	if err := m.store.SaveManualGroup(m.ctx, m.formOwner.ID, source, meetings); err != nil {
		return err
	}
	return m.reload()
}
