package repository

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no record exists for a kind and id
	ErrNotFound = errors.New("repository: record not found")
	// ErrConflict is returned when creating a record whose id already exists
	ErrConflict = errors.New("repository: record already exists")
	// ErrVersionConflict is returned when an update's expected version is stale
	ErrVersionConflict = errors.New("repository: version conflict")
)

// Kind names a collection of records
type Kind string

const (
	KindUser         Kind = "user"
	KindOrganization Kind = "organization"
	KindCandidate    Kind = "candidate"
	KindJob          Kind = "job"
	KindApplication  Kind = "application"
	KindInterview    Kind = "interview"
	KindContract     Kind = "contract"
	KindPayment      Kind = "payment"
	KindNotification Kind = "notification"
	KindShortlist    Kind = "shortlist_request"
)

// Kinds lists every collection in the store
var Kinds = []Kind{
	KindUser, KindOrganization, KindCandidate, KindJob, KindApplication,
	KindInterview, KindContract, KindPayment, KindNotification, KindShortlist,
}

// Record is one versioned JSON document
type Record struct {
	Kind      Kind
	ID        string
	Version   int64
	Data      []byte
	UpdatedAt time.Time
}

// Store persists versioned records. Implementations must be safe for concurrent use
type Store interface {
	// Get returns the latest committed record or ErrNotFound
	Get(ctx context.Context, kind Kind, id string) (Record, error)
	// Create inserts a record at version 1 or fails with ErrConflict
	Create(ctx context.Context, rec Record) (Record, error)
	// Update replaces a record only if its stored version equals expected
	Update(ctx context.Context, rec Record, expected int64) (Record, error)
	// List returns all records of a kind ordered by id
	List(ctx context.Context, kind Kind) ([]Record, error)
	Close() error
}
