package usecase

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/teerapatl/aqualog-api/internal/model"
	"github.com/teerapatl/aqualog-api/internal/repository"
)

// WaterUsecase defines the interface for water log use cases. Every
// operation is scoped to the calling user; entries belonging to anyone else
// are invisible or rejected.
type WaterUsecase interface {
	CreateEntry(ctx context.Context, userID bson.ObjectID, params CreateEntryParams) (*model.WaterEntry, error)
	ListEntries(ctx context.Context, userID bson.ObjectID, params repository.ListEntriesParams) ([]*model.WaterEntry, error)
	UpdateEntry(ctx context.Context, userID bson.ObjectID, entryID string, params repository.UpdateEntryParams) (*model.WaterEntry, error)
	DeleteEntry(ctx context.Context, userID bson.ObjectID, entryID string) error
	Stats(ctx context.Context, userID bson.ObjectID, from, to time.Time) (*repository.WaterStats, error)
}

// CreateEntryParams defines the parameters for logging an entry. A zero Date
// defaults to the current day.
type CreateEntryParams struct {
	Glasses int
	Date    time.Time
	Notes   string
}

var (
	ErrEntryNotFound = errors.New("water entry not found")
	ErrNotEntryOwner = errors.New("water entry belongs to another user")
)

type waterUsecase struct {
	entryRepo repository.WaterEntryRepository
}

// NewWaterUsecase creates a new instance of WaterUsecase.
func NewWaterUsecase(entryRepo repository.WaterEntryRepository) WaterUsecase {
	return &waterUsecase{entryRepo: entryRepo}
}

func (u *waterUsecase) CreateEntry(
	ctx context.Context,
	userID bson.ObjectID,
	params CreateEntryParams,
) (*model.WaterEntry, error) {
	date := params.Date
	if date.IsZero() {
		date = truncateToDay(time.Now())
	}

	return u.entryRepo.CreateEntry(ctx, &model.WaterEntry{
		UserID:  userID,
		Date:    date,
		Glasses: params.Glasses,
		Notes:   params.Notes,
	})
}

func (u *waterUsecase) ListEntries(
	ctx context.Context,
	userID bson.ObjectID,
	params repository.ListEntriesParams,
) ([]*model.WaterEntry, error) {
	return u.entryRepo.ListEntries(ctx, userID, params)
}

func (u *waterUsecase) UpdateEntry(
	ctx context.Context,
	userID bson.ObjectID,
	entryID string,
	params repository.UpdateEntryParams,
) (*model.WaterEntry, error) {
	if err := u.authorizeEntry(ctx, userID, entryID); err != nil {
		return nil, err
	}

	entry, err := u.entryRepo.UpdateEntry(ctx, entryID, params)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	return entry, nil
}

func (u *waterUsecase) DeleteEntry(ctx context.Context, userID bson.ObjectID, entryID string) error {
	if err := u.authorizeEntry(ctx, userID, entryID); err != nil {
		return err
	}

	if err := u.entryRepo.DeleteEntry(ctx, entryID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrEntryNotFound
		}
		return err
	}

	return nil
}

func (u *waterUsecase) Stats(
	ctx context.Context,
	userID bson.ObjectID,
	from, to time.Time,
) (*repository.WaterStats, error) {
	return u.entryRepo.AggregateStats(ctx, userID, from, to)
}

// authorizeEntry verifies the entry exists and is owned by the caller.
func (u *waterUsecase) authorizeEntry(ctx context.Context, userID bson.ObjectID, entryID string) error {
	entry, err := u.entryRepo.GetEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrEntryNotFound
		}
		return err
	}

	if entry.UserID != userID {
		return ErrNotEntryOwner
	}

	return nil
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
