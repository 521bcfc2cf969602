package usecase_test

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/teerapatl/aqualog-api/internal/model"
	"github.com/teerapatl/aqualog-api/internal/repository"
)

// fakeUserRepository is an in-memory UserRepository mirroring the error
// contract of the Mongo implementation.
type fakeUserRepository struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*model.User)}
}

func (f *fakeUserRepository) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Email == user.Email {
			return nil, mongo.CommandError{Code: 11000, Message: "duplicate key error"}
		}
	}

	now := time.Now()
	user.ID = bson.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	copied := *user
	f.users[user.ID.Hex()] = &copied

	return user, nil
}

func (f *fakeUserRepository) GetUser(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	copied := *user
	return &copied, nil
}

func (f *fakeUserRepository) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserRepository) UpdateProfile(
	_ context.Context,
	id string,
	params repository.UpdateProfileParams,
) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.Avatar != nil {
		user.Avatar = *params.Avatar
	}
	user.UpdatedAt = time.Now()

	copied := *user
	return &copied, nil
}

func (f *fakeUserRepository) AddProviderBinding(
	_ context.Context,
	id string,
	binding model.ProviderBinding,
	avatar string,
) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	user.Providers = append(user.Providers, binding)
	user.AuthProvider = binding.Provider
	if avatar != "" {
		user.Avatar = avatar
	}
	user.UpdatedAt = time.Now()

	copied := *user
	return &copied, nil
}

func (f *fakeUserRepository) SetResetDigest(
	_ context.Context,
	id string,
	digest string,
	expiresAt time.Time,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}

	user.ResetPasswordDigest = digest
	user.ResetPasswordExpiresAt = &expiresAt

	return nil
}

func (f *fakeUserRepository) GetUserByResetDigest(_ context.Context, digest string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.ResetPasswordDigest == digest &&
			user.ResetPasswordExpiresAt != nil &&
			user.ResetPasswordExpiresAt.After(time.Now()) {
			copied := *user
			return &copied, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserRepository) ConsumeResetDigest(
	_ context.Context,
	digest string,
	passwordHash string,
) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.ResetPasswordDigest == digest &&
			user.ResetPasswordExpiresAt != nil &&
			user.ResetPasswordExpiresAt.After(time.Now()) {
			user.PasswordHash = passwordHash
			user.ResetPasswordDigest = ""
			user.ResetPasswordExpiresAt = nil
			user.UpdatedAt = time.Now()

			copied := *user
			return &copied, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

// expireResetDigest backdates a stored reset digest for expiry tests.
func (f *fakeUserRepository) expireResetDigest(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if user, ok := f.users[id]; ok && user.ResetPasswordExpiresAt != nil {
		past := time.Now().Add(-time.Minute)
		user.ResetPasswordExpiresAt = &past
	}
}

// fakeWaterEntryRepository is an in-memory WaterEntryRepository.
type fakeWaterEntryRepository struct {
	mu      sync.Mutex
	entries map[string]*model.WaterEntry
}

func newFakeWaterEntryRepository() *fakeWaterEntryRepository {
	return &fakeWaterEntryRepository{entries: make(map[string]*model.WaterEntry)}
}

func (f *fakeWaterEntryRepository) CreateEntry(
	_ context.Context,
	entry *model.WaterEntry,
) (*model.WaterEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	entry.ID = bson.NewObjectID()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	copied := *entry
	f.entries[entry.ID.Hex()] = &copied

	return entry, nil
}

func (f *fakeWaterEntryRepository) GetEntry(_ context.Context, id string) (*model.WaterEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.entries[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	copied := *entry
	return &copied, nil
}

func (f *fakeWaterEntryRepository) ListEntries(
	_ context.Context,
	userID bson.ObjectID,
	params repository.ListEntriesParams,
) ([]*model.WaterEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := []*model.WaterEntry{}
	for _, entry := range f.entries {
		if entry.UserID != userID {
			continue
		}
		if params.From != nil && entry.Date.Before(*params.From) {
			continue
		}
		if params.To != nil && entry.Date.After(*params.To) {
			continue
		}

		copied := *entry
		result = append(result, &copied)
	}

	return result, nil
}

func (f *fakeWaterEntryRepository) UpdateEntry(
	_ context.Context,
	id string,
	params repository.UpdateEntryParams,
) (*model.WaterEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.entries[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	if params.Glasses != nil {
		entry.Glasses = *params.Glasses
	}
	if params.Date != nil {
		entry.Date = *params.Date
	}
	if params.Notes != nil {
		entry.Notes = *params.Notes
	}
	entry.UpdatedAt = time.Now()

	copied := *entry
	return &copied, nil
}

func (f *fakeWaterEntryRepository) DeleteEntry(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.entries[id]; !ok {
		return mongo.ErrNoDocuments
	}

	delete(f.entries, id)
	return nil
}

func (f *fakeWaterEntryRepository) AggregateStats(
	_ context.Context,
	userID bson.ObjectID,
	from, to time.Time,
) (*repository.WaterStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := &repository.WaterStats{}
	for _, entry := range f.entries {
		if entry.UserID != userID || entry.Date.Before(from) || entry.Date.After(to) {
			continue
		}

		stats.TotalGlasses += entry.Glasses
		stats.Entries++
	}

	if stats.Entries > 0 {
		stats.AverageGlasses = float64(stats.TotalGlasses) / float64(stats.Entries)
	}

	return stats, nil
}

// fakeMailer records the reset emails the usecase hands to it.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentEmail
}

type sentEmail struct {
	to       []string
	subject  string
	htmlBody string
}

func (f *fakeMailer) SendHTML(to []string, subject, htmlBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, sentEmail{to: to, subject: subject, htmlBody: htmlBody})
	return nil
}

func (f *fakeMailer) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.sent)
}

func (f *fakeMailer) lastBody() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].htmlBody
}
