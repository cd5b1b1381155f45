package imports

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/freeweek/internal/cli"
	"github.com/julianstephens/freeweek/internal/config"
	"github.com/julianstephens/freeweek/internal/models"
	"github.com/julianstephens/freeweek/internal/storage/sqlite"
)

const calendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//test//EN\r\n" +
	"BEGIN:VEVENT\r\nUID:1\r\nDTSTAMP:20240101T000000Z\r\nSUMMARY:CSE 142\r\n" +
	"DTSTART:20240101T090000\r\nDTEND:20240101T102000\r\n" +
	"RRULE:FREQ=WEEKLY;BYDAY=MO,WE\r\nEND:VEVENT\r\n" +
	"BEGIN:VEVENT\r\nUID:2\r\nDTSTAMP:20240101T000000Z\r\nSUMMARY:Quiz 1\r\n" +
	"DTSTART:20240102T090000\r\nDTEND:20240102T100000\r\nEND:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "freeweek.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	out := &bytes.Buffer{}
	return &cli.Context{
		Store:  store,
		Config: cfg,
		Out:    out,
		Now:    func() time.Time { return time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC) },
	}, out
}

func writeCalendar(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ana.ics")
	if err := os.WriteFile(path, []byte(calendar), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	bg := context.Background()
	if err := ctx.Store.AddPerson(bg, models.Person{ID: "ana", DisplayName: "Ana"}); err != nil {
		t.Fatal(err)
	}
	path := writeCalendar(t)

	if err := (&ImportCmd{Location: path, Person: "Ana", DryRun: true}).Run(ctx); err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Dry run: nothing was saved.") {
		t.Errorf("unexpected dry run output:\n%s", out)
	}
	if classes, _ := ctx.Store.GetClasses(bg, "ana"); len(classes) != 0 {
		t.Fatalf("dry run stored %d classes", len(classes))
	}

	out.Reset()
	if err := (&ImportCmd{Location: path, Person: "ana"}).Run(ctx); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Events: 2, kept 1 class meeting(s), skipped 1",
		"CSE 142 (Mon): weekly on Mon/Wed",
		"✓ Replaced imported classes for Ana",
		"Backup: freeweek-",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	classes, _ := ctx.Store.GetClasses(bg, "ana")
	if len(classes) != 1 || classes[0].Title != "CSE 142" {
		t.Errorf("unexpected stored classes %+v", classes)
	}
}

func TestImportCmd_Check(t *testing.T) {
	ctx, out := setupTestContext(t)
	if err := ctx.Store.AddPerson(context.Background(), models.Person{ID: "ana", DisplayName: "Ana"}); err != nil {
		t.Fatal(err)
	}
	if err := (&ImportCmd{Location: writeCalendar(t), Person: "ana", Check: true}).Run(ctx); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.Contains(out.String(), "Strict check:") || strings.Contains(out.String(), "Events:") {
		t.Errorf("--check should only print the lint:\n%s", out)
	}
}

func TestSyncCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	if err := ctx.Store.AddPerson(context.Background(), models.Person{ID: "ana", DisplayName: "Ana"}); err != nil {
		t.Fatal(err)
	}

	if err := (&SyncCmd{}).Run(ctx); err == nil {
		t.Error("expected an error without sources")
	}

	metricsFile := filepath.Join(t.TempDir(), "freeweek.prom")
	ctx.Config.MetricsFile = metricsFile
	ctx.Config.Sources = []config.Source{
		{Person: "ana", Path: writeCalendar(t)},
		{Person: "ghost", Path: writeCalendar(t)},
	}
	err := (&SyncCmd{}).Run(ctx)
	if err == nil {
		t.Error("expected sync to report the failing source")
	}
	if !strings.Contains(out.String(), "✓ ana: 1 class meeting(s)") {
		t.Errorf("the good source should still import:\n%s", out)
	}
	if _, err := os.Stat(metricsFile); err != nil {
		t.Errorf("expected the metrics file to be written: %v", err)
	}
}
