package storage

import (
	"context"
	"database/sql"

	"github.com/julianstephens/freeweek/internal/models"
)

// ErrNotFound is returned (wrapped) when a person or group does not exist.
var ErrNotFound = sql.ErrNoRows

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// People
	AddPerson(ctx context.Context, p models.Person) error
	GetPerson(ctx context.Context, id string) (models.Person, error)
	GetAllPeople(ctx context.Context, includeHidden bool) ([]models.Person, error)
	RenamePerson(ctx context.Context, id, displayName string) error
	SetPersonHidden(ctx context.Context, id string, hidden bool) error
	// DeletePerson removes the person together with every class they own.
	DeletePerson(ctx context.Context, id string) error

	// Classes
	GetClasses(ctx context.Context, ownerIDs ...string) ([]models.ClassMeeting, error)
	GetAllClasses(ctx context.Context) ([]models.ClassMeeting, error)
	// ReplaceImportedClasses swaps the owner's ics rows for meetings in one
	// transaction. Manual rows are left alone.
	ReplaceImportedClasses(ctx context.Context, ownerID string, meetings []models.ClassMeeting) error
	// SaveManualGroup replaces every row carrying source with meetings.
	SaveManualGroup(ctx context.Context, ownerID, source string, meetings []models.ClassMeeting) error
	DeleteManualGroup(ctx context.Context, ownerID, source string) error

	// Utils
	GetConfigPath() string
}
