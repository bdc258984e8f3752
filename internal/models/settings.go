package models

import (
	"errors"
	"fmt"
)

// GifFileType selects which on-air media source is played.
type GifFileType string

const (
	GifFileTypeID  GifFileType = "id"
	GifFileTypeURL GifFileType = "url"
)

// ErrInvalidGifFileType is returned for a media source type other than id or url.
var ErrInvalidGifFileType = errors.New("invalid gif file type")

// DefaultGifFileID is played when no media id has been saved yet.
const DefaultGifFileID = "group1/M00/AD/F8/L1ghbmAJ7TmEfZ4QAAAAALoykrw2568328"

// ParseGifFileType validates a stored or submitted media source type.
func ParseGifFileType(s string) (GifFileType, error) {
	switch GifFileType(s) {
	case GifFileTypeID, GifFileTypeURL:
		return GifFileType(s), nil
	default:
		return "", fmt.Errorf("%w %q: must be id or url", ErrInvalidGifFileType, s)
	}
}

// AppSettings is the user configuration read on every display action.
type AppSettings struct {
	TargetDeviceName string      `json:"targetDeviceName"`
	GifFileID        string      `json:"gifFileId"`
	GifFileURL       string      `json:"gifFileUrl"`
	GifFileType      GifFileType `json:"gifFileType"` // id | url
}

// DefaultAppSettings returns the values used for keys that were never saved.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		GifFileID:   DefaultGifFileID,
		GifFileType: GifFileTypeID,
	}
}
