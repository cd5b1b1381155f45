package backups

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/freeweek/internal/cli"
	"github.com/julianstephens/freeweek/internal/config"
	"github.com/julianstephens/freeweek/internal/models"
	"github.com/julianstephens/freeweek/internal/storage"
	"github.com/julianstephens/freeweek/internal/storage/sqlite"
)

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

func TestBackupCreateListRestore(t *testing.T) {
	ctx, out := setupTestContext(t)
	bg := context.Background()

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No backups found.") {
		t.Errorf("unexpected list output:\n%s", out)
	}

	if err := ctx.Store.AddPerson(bg, models.Person{ID: "ana", DisplayName: "Ana"}); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Backup created: freeweek-") {
		t.Errorf("unexpected create output:\n%s", out)
	}

	backups, err := ctx.Backups().ListBackups()
	if err != nil || len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %d (%v)", len(backups), err)
	}
	name := filepath.Base(backups[0].Path)

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), name) {
		t.Errorf("list should show %s:\n%s", name, out)
	}

	// Changes after the snapshot are rolled back by the restore.
	if err := ctx.Store.AddPerson(bg, models.Person{ID: "ben", DisplayName: "Ben"}); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := (&BackupRestoreCmd{BackupFile: name, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("backup restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Database restored successfully") || !strings.Contains(out.String(), "Previous database saved as") {
		t.Errorf("unexpected restore output:\n%s", out)
	}

	if err := ctx.Store.Load(); err != nil {
		t.Fatalf("Load after restore failed: %v", err)
	}
	if _, err := ctx.Store.GetPerson(bg, "ana"); err != nil {
		t.Errorf("expected ana from the snapshot: %v", err)
	}
	if _, err := ctx.Store.GetPerson(bg, "ben"); !storage.IsNotFound(err) {
		t.Errorf("expected ben to be rolled back, got %v", err)
	}
}

func TestBackupRestore_Missing(t *testing.T) {
	ctx, _ := setupTestContext(t)
	err := (&BackupRestoreCmd{BackupFile: "freeweek-20240101-000000.db", Yes: true}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "backup file not found") {
		t.Errorf("expected a not found error, got %v", err)
	}
}
