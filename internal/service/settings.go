package service

import (
	"context"
	"fmt"

	"pixoonair/internal/models"
	"pixoonair/internal/repository"
)

// Keys used in the settings store.
const (
	keyTargetDeviceName = "appSettings.targetDeviceName"
	keyGifFileID        = "appSettings.gifFileId"
	keyGifFileURL       = "appSettings.gifFileUrl"
	keyGifFileType      = "appSettings.gifFileType"
)

type SettingsService struct {
	repo repository.SettingsRepo
}

func NewSettingsService(repo repository.SettingsRepo) *SettingsService {
	return &SettingsService{repo: repo}
}

// LoadSettings reads every key from the store, falling back to defaults for
// keys that were never saved. Nothing is cached.
func (s *SettingsService) LoadSettings(ctx context.Context) (models.AppSettings, error) {
	out := models.DefaultAppSettings()

	fields := []struct {
		key string
		dst *string
	}{
		{keyTargetDeviceName, &out.TargetDeviceName},
		{keyGifFileID, &out.GifFileID},
		{keyGifFileURL, &out.GifFileURL},
	}
	for _, f := range fields {
		v, ok, err := s.repo.Get(ctx, f.key)
		if err != nil {
			return models.AppSettings{}, fmt.Errorf("load settings: %w", err)
		}
		if ok {
			*f.dst = v
		}
	}

	v, ok, err := s.repo.Get(ctx, keyGifFileType)
	if err != nil {
		return models.AppSettings{}, fmt.Errorf("load settings: %w", err)
	}
	if ok {
		// unknown stored values keep the default
		if typ, err := models.ParseGifFileType(v); err == nil {
			out.GifFileType = typ
		}
	}
	return out, nil
}

// SaveSettings validates and writes all four keys in one transaction.
func (s *SettingsService) SaveSettings(ctx context.Context, in models.AppSettings) error {
	typ, err := models.ParseGifFileType(string(in.GifFileType))
	if err != nil {
		return err
	}
	err = s.repo.SetMany(ctx, []repository.Setting{
		{Key: keyTargetDeviceName, Value: in.TargetDeviceName},
		{Key: keyGifFileID, Value: in.GifFileID},
		{Key: keyGifFileURL, Value: in.GifFileURL},
		{Key: keyGifFileType, Value: string(typ)},
	})
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
