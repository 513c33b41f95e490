package ati

import (
	"context"
	"fmt"
	"strings"

	"github.com/SKR-SG/ASP/internal/entity"
	"github.com/SKR-SG/ASP/pkg/logger"
)

// ContactLister is the slice of the marketplace API the directory needs.
type ContactLister interface {
	Contacts(ctx context.Context) ([]Contact, error)
}

// logistCache is the local mapping store the directory reads and extends.
type logistCache interface {
	FindByName(ctx context.Context, name string) (*entity.Logist, error)
	Upsert(ctx context.Context, name string, contactID int64) error
}

// ContactDirectory resolves logistician display names to marketplace
// contact ids, caching discoveries in the logists table.
type ContactDirectory struct {
	api    ContactLister
	cache  logistCache
	logger logger.Logger
}

// NewContactDirectory creates a directory.
func NewContactDirectory(api ContactLister, cache logistCache, log logger.Logger) *ContactDirectory {
	return &ContactDirectory{api: api, cache: cache, logger: log}
}

// Resolve returns the contact id for a display name: local table first,
// then the ATI contact list, persisting a fresh discovery for reuse.
// ErrContactNotFound is a valid terminal result.
func (d *ContactDirectory) Resolve(ctx context.Context, name string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("%w: empty name", ErrContactNotFound)
	}

	logist, err := d.cache.FindByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if logist != nil {
		return logist.ContactID, nil
	}

	contacts, err := d.api.Contacts(ctx)
	if err != nil {
		return 0, err
	}

	lowered := strings.ToLower(name)
	for i := range contacts {
		if strings.Contains(strings.ToLower(contacts[i].Name), lowered) {
			id := contacts[i].EffectiveID()
			if err := d.cache.Upsert(ctx, contacts[i].Name, id); err != nil {
				d.logger.Warnf(ctx, "[Contacts] failed to cache contact %q: %v", contacts[i].Name, err)
			}
			return id, nil
		}
	}

	return 0, fmt.Errorf("%w: %s", ErrContactNotFound, name)
}

// SyncAll refreshes the whole logists table from the ATI contact list.
func (d *ContactDirectory) SyncAll(ctx context.Context) (int, error) {
	contacts, err := d.api.Contacts(ctx)
	if err != nil {
		return 0, err
	}

	synced := 0
	for i := range contacts {
		name := strings.TrimSpace(contacts[i].Name)
		if name == "" {
			d.logger.Warnf(ctx, "[Contacts] skipping contact without name: id=%d", contacts[i].EffectiveID())
			continue
		}
		if err := d.cache.Upsert(ctx, name, contacts[i].EffectiveID()); err != nil {
			d.logger.Warnf(ctx, "[Contacts] failed to upsert %q: %v", name, err)
			continue
		}
		synced++
	}

	return synced, nil
}
