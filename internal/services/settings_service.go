package services

import (
	"context"
	"fmt"
	"time"

	"innkeeper/internal/cache"
	applog "innkeeper/internal/log"
	"innkeeper/internal/storage"
)

const settingsCacheKey = "hotel_settings"

// SettingsService serves the single property configuration row. Reads go
// through a small TTL cache since every printed document needs the row.
type SettingsService struct {
	store  SettingsStore
	cache  *cache.LRUCache[storage.HotelSettings]
	logger *applog.Logger
}

func NewSettingsService(store SettingsStore, ttl time.Duration, logger *applog.Logger) *SettingsService {
	return &SettingsService{
		store:  store,
		cache:  cache.NewLRUCache[storage.HotelSettings](1, ttl),
		logger: logger.WithComponent(applog.ComponentCache),
	}
}

// Cache exposes the underlying cache so main can register it for cleanup.
func (s *SettingsService) Cache() *cache.LRUCache[storage.HotelSettings] {
	return s.cache
}

func (s *SettingsService) Get(ctx context.Context) (storage.HotelSettings, error) {
	if cached, ok := s.cache.Get(settingsCacheKey); ok {
		return cached, nil
	}

	settings, err := s.store.GetHotelSettings(ctx)
	if err != nil {
		return storage.HotelSettings{}, fmt.Errorf("load hotel settings: %w", err)
	}
	s.cache.Set(settingsCacheKey, settings)
	return settings, nil
}

func (s *SettingsService) Update(ctx context.Context, settings storage.HotelSettings) error {
	if settings.HotelName == "" {
		return fmt.Errorf("hotel name cannot be empty")
	}
	if settings.CurrencyCode == "" {
		settings.CurrencyCode = "USD"
	}

	if err := s.store.UpdateHotelSettings(ctx, settings); err != nil {
		return fmt.Errorf("update hotel settings: %w", err)
	}
	s.cache.Delete(settingsCacheKey)
	s.logger.InfoContext(ctx, "Hotel settings updated")
	return nil
}
