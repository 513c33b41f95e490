package ati

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SKR-SG/ASP/internal/entity"
	"github.com/SKR-SG/ASP/pkg/logger"
)

type fakeContactLister struct {
	contacts []Contact
	err      error
	calls    int
}

func (f *fakeContactLister) Contacts(ctx context.Context) ([]Contact, error) {
	f.calls++
	return f.contacts, f.err
}

type fakeLogistCache struct {
	byName   map[string]*entity.Logist
	upserted map[string]int64
}

func newFakeLogistCache() *fakeLogistCache {
	return &fakeLogistCache{
		byName:   make(map[string]*entity.Logist),
		upserted: make(map[string]int64),
	}
}

func (f *fakeLogistCache) FindByName(ctx context.Context, name string) (*entity.Logist, error) {
	return f.byName[name], nil
}

func (f *fakeLogistCache) Upsert(ctx context.Context, name string, contactID int64) error {
	f.upserted[name] = contactID
	return nil
}

func TestContactDirectoryResolveFromCache(t *testing.T) {
	api := &fakeContactLister{}
	cache := newFakeLogistCache()
	cache.byName["Кравченко Сергей"] = &entity.Logist{Name: "Кравченко Сергей", ContactID: 777}

	dir := NewContactDirectory(api, cache, logger.Nop())

	id, err := dir.Resolve(context.Background(), "Кравченко Сергей")
	require.NoError(t, err)
	assert.Equal(t, int64(777), id)
	assert.Zero(t, api.calls, "cached names must not hit the API")
}

func TestContactDirectoryResolveFromAPI(t *testing.T) {
	api := &fakeContactLister{contacts: []Contact{
		{ContactID: 101, Name: "Иванов Петр"},
		{ContactID: 102, Name: "Кравченко Сергей"},
	}}
	cache := newFakeLogistCache()
	dir := NewContactDirectory(api, cache, logger.Nop())

	id, err := dir.Resolve(context.Background(), "кравченко")
	require.NoError(t, err)
	assert.Equal(t, int64(102), id)
	assert.Equal(t, int64(102), cache.upserted["Кравченко Сергей"], "discovery must be persisted")
}

func TestContactDirectoryNotFound(t *testing.T) {
	api := &fakeContactLister{contacts: []Contact{{ContactID: 1, Name: "Иванов"}}}
	dir := NewContactDirectory(api, newFakeLogistCache(), logger.Nop())

	_, err := dir.Resolve(context.Background(), "Сидоров")
	assert.True(t, errors.Is(err, ErrContactNotFound))
}

func TestContactDirectorySyncAll(t *testing.T) {
	api := &fakeContactLister{contacts: []Contact{
		{ContactID: 1, Name: "Иванов"},
		{ID: 2, Name: "Петров"},
		{ContactID: 3, Name: "  "}, // nameless contacts are skipped
	}}
	cache := newFakeLogistCache()
	dir := NewContactDirectory(api, cache, logger.Nop())

	synced, err := dir.SyncAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, synced)
	assert.Equal(t, int64(2), cache.upserted["Петров"])
}
