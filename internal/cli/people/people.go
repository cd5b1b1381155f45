package people

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/freeweek/internal/cli"
	"github.com/julianstephens/freeweek/internal/models"
)

type PersonAddCmd struct {
	Name string `arg:"" help:"Display name."`
	ID   string `help:"Explicit id (default: a generated UUID)."`
}

func (c *PersonAddCmd) Run(ctx *cli.Context) error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return errors.New("name must not be empty")
	}
	id := strings.TrimSpace(c.ID)
	if id == "" {
		id = uuid.NewString()
	}

	p := models.Person{
		ID:          id,
		DisplayName: name,
		CreatedAt:   ctx.CurrentTime().UTC().Format(time.RFC3339),
	}
	if err := ctx.Store.AddPerson(ctx.Ctx(), p); err != nil {
		return fmt.Errorf("failed to add person: %w", err)
	}

	ctx.Printf("Added %s (ID: %s)\n", p.DisplayName, p.ID)
	return nil
}

type PersonListCmd struct {
	All bool `help:"Include hidden people."`
}

func (c *PersonListCmd) Run(ctx *cli.Context) error {
	people, err := ctx.Store.GetAllPeople(ctx.Ctx(), c.All)
	if err != nil {
		return fmt.Errorf("failed to get people: %w", err)
	}
	if len(people) == 0 {
		ctx.Println("No people found. Add one with 'freeweek person add NAME'.")
		return nil
	}

	classes, err := ctx.Store.GetAllClasses(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("failed to get classes: %w", err)
	}
	counts := make(map[string]int)
	for _, m := range classes {
		counts[m.OwnerID]++
	}

	ctx.Println("People:")
	for _, p := range people {
		hidden := ""
		if p.Hidden {
			hidden = " [hidden]"
		}
		ctx.Printf("  %s%s (ID: %s) - %d class meeting(s)\n", p.Label(), hidden, p.ID, counts[p.ID])
	}
	return nil
}

type PersonRenameCmd struct {
	Person string `arg:"" help:"Person id or name."`
	Name   string `arg:"" help:"New display name."`
}

func (c *PersonRenameCmd) Run(ctx *cli.Context) error {
	p, err := ctx.ResolvePerson(ctx.Ctx(), c.Person)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return errors.New("name must not be empty")
	}
	if err := ctx.Store.RenamePerson(ctx.Ctx(), p.ID, name); err != nil {
		return fmt.Errorf("failed to rename person: %w", err)
	}
	ctx.Printf("Renamed %s to %s\n", p.Label(), name)
	return nil
}

// PersonHideCmd hides a person from the roster without deleting their classes.
type PersonHideCmd struct {
	Person string `arg:"" help:"Person id or name."`
	Show   bool   `help:"Show the person again instead."`
}

func (c *PersonHideCmd) Run(ctx *cli.Context) error {
	p, err := ctx.ResolvePerson(ctx.Ctx(), c.Person)
	if err != nil {
		return err
	}
	if err := ctx.Store.SetPersonHidden(ctx.Ctx(), p.ID, !c.Show); err != nil {
		return fmt.Errorf("failed to update person: %w", err)
	}
	if c.Show {
		ctx.Printf("%s is visible again\n", p.Label())
	} else {
		ctx.Printf("%s is hidden; 'freeweek person list --all' still shows them\n", p.Label())
	}
	return nil
}

type PersonDeleteCmd struct {
	Person string `arg:"" help:"Person id or name."`
}

func (c *PersonDeleteCmd) Run(ctx *cli.Context) error {
	p, err := ctx.ResolvePerson(ctx.Ctx(), c.Person)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.DeletePerson(ctx.Ctx(), p.ID); err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}

	ctx.Printf("Deleted %s (ID: %s) and their classes\n", p.Label(), p.ID)
	return nil
}
