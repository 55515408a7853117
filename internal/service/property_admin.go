package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mateuschrist/taxdeed-api/internal/models"
	"github.com/mateuschrist/taxdeed-api/internal/property"
	"github.com/mateuschrist/taxdeed-api/internal/repository"
)

var ErrPropertyNotFound = errors.New("property not found")

// AdminEdit is an operator change to the admin-owned fields.
type AdminEdit struct {
	Status property.Field[string] `json:"status"`
	Notes  property.Field[string] `json:"notes"`
}

// PropertyAdminService serves the operator view of a single property.
type PropertyAdminService struct {
	Repo     repository.PropertyRepository
	Defaults property.AuctionDefaults
	Logger   *zap.Logger

	Now func() time.Time
}

// Get returns the stored row with auction defaults filled in for display.
// The stored row itself is not changed.
func (s *PropertyAdminService) Get(ctx context.Context, id uint64) (*models.Property, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("property service not configured")
	}
	item, err := s.Repo.GetPropertyByID(ctx, id)
	if err != nil {
		return nil, storageErr("get property", err)
	}
	if item == nil {
		return nil, ErrPropertyNotFound
	}
	s.Defaults.Apply(item)
	return item, nil
}

// Edit updates status and notes. removed is reserved for reconciliation.
func (s *PropertyAdminService) Edit(ctx context.Context, id uint64, edit AdminEdit) (*models.Property, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("property service not configured")
	}
	update := repository.PropertyAdminUpdate{UpdatedAt: s.now()}
	if edit.Status.Set {
		st := strings.ToLower(strings.TrimSpace(edit.Status.Value))
		if !edit.Status.Valid || st == "" {
			return nil, invalidInput("status cannot be empty")
		}
		if !models.ValidStatus(st) || st == models.StatusRemoved {
			return nil, invalidInput("status %q not allowed", edit.Status.Value)
		}
		current, err := s.Repo.GetPropertyByID(ctx, id)
		if err != nil {
			return nil, storageErr("get property", err)
		}
		if current == nil {
			return nil, ErrPropertyNotFound
		}
		// An inactive row keeps status removed until it is ingested again.
		if !current.IsActive {
			return nil, invalidInput("property %d is removed; status cannot be edited", id)
		}
		update.Status = &st
	}
	if edit.Notes.Set {
		if edit.Notes.Valid {
			update.Notes = edit.Notes.Ptr()
		} else {
			update.ClearNotes = true
		}
	}
	item, err := s.Repo.UpdatePropertyAdmin(ctx, id, update)
	if err != nil {
		return nil, storageErr("update property", err)
	}
	if item == nil {
		return nil, ErrPropertyNotFound
	}
	if s.Logger != nil {
		s.Logger.Info("property edited",
			zap.Uint64("id", id),
			zap.String("status", item.Status),
		)
	}
	s.Defaults.Apply(item)
	return item, nil
}

func (s *PropertyAdminService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
