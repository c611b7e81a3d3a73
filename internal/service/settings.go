package service

import (
	"context"
	"log/slog"

	"admin_go/internal/backend"
	"admin_go/internal/domain"
	"admin_go/internal/infra/storage"

	"github.com/go-playground/validator/v10"
)

// SettingsService loads and saves platform settings. Saves validate
// locally before touching the backend; the last known-good snapshot is
// cached in local storage so the form can render while offline.
type SettingsService struct {
	api      *backend.Client
	store    *storage.Storage
	validate *validator.Validate
	logger   *slog.Logger
}

func NewSettingsService(api *backend.Client, store *storage.Storage, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		api:      api,
		store:    store,
		validate: validator.New(),
		logger:   logger.With("module", "settings"),
	}
}

// Load fetches current settings from the backend and refreshes the
// local snapshot. On transport failure it falls back to the snapshot so
// the panel still has something to show.
func (s *SettingsService) Load(ctx context.Context) (domain.Settings, error) {
	settings, err := s.api.GetSettings(ctx)
	if err != nil {
		if cached, cacheErr := s.store.LoadSettingsSnapshot(); cacheErr == nil && cached != nil {
			s.logger.Warn("serving cached settings, backend unreachable", "error", err)
			return *cached, nil
		}
		return domain.Settings{}, err
	}

	if err := s.store.SaveSettingsSnapshot(settings); err != nil {
		s.logger.Warn("could not cache settings snapshot", "error", err)
	}
	return *settings, nil
}

// Save validates the full settings struct and writes it to the backend.
// The payload always carries every field; there is no partial update.
func (s *SettingsService) Save(ctx context.Context, settings domain.Settings) error {
	if err := s.validate.Struct(settings); err != nil {
		return &domain.PreconditionError{
			Resource: "settings",
			Reason:   "all fields are required and must be well formed",
		}
	}
	if !settings.Sane() {
		return &domain.PreconditionError{
			Resource: "settings",
			Reason:   "buy price must be at least the sell price and both must be positive",
		}
	}

	if err := s.api.UpdateSettings(ctx, &settings); err != nil {
		return err
	}

	if err := s.store.SaveSettingsSnapshot(&settings); err != nil {
		s.logger.Warn("could not cache settings snapshot", "error", err)
	}
	s.logger.Info("platform settings updated",
		"buy", settings.BuyPrice.String(), "sell", settings.SellPrice.String())
	return nil
}
