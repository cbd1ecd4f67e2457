// Package store persists visa records and reminder settings in a diskv
// key-value store. Values are JSON; the visa list lives under a single key
// and is replaced wholesale on every write.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/visado/pkg/remind"
	"tableflip.dev/visado/pkg/visa"
)

// Keys. The settings-* keys each hold one JSON scalar or array; visas-all
// holds the full record list.
const (
	keyOnboarded = "settings-onboarded"
	keyEnabled   = "settings-enabled"
	keyHour      = "settings-hour"
	keyMinute    = "settings-minute"
	keyOffsets   = "settings-offsets"
	keyVisas     = "visas-all"
)

// Persistence is the durable storage contract. Read or write failures are
// the one hard error class in the system and surface to the caller.
type Persistence interface {
	ListVisas(ctx context.Context) ([]*visa.Record, error)
	SaveVisas(ctx context.Context, records []*visa.Record) error
	LoadSettings(ctx context.Context) (remind.Settings, error)
	SaveSettings(ctx context.Context, s remind.Settings) error
	Onboarded(ctx context.Context) (bool, error)
	SetOnboarded(ctx context.Context) error
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) ListVisas(_ context.Context) ([]*visa.Record, error) {
	if !p.d.Has(keyVisas) {
		return nil, nil
	}
	data, err := p.d.Read(keyVisas)
	if err != nil {
		return nil, fmt.Errorf("store: read visas: %w", err)
	}
	var records []*visa.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("store: decode visas: %w", err)
	}
	return records, nil
}

func (p *persistence) SaveVisas(_ context.Context, records []*visa.Record) error {
	if records == nil {
		records = []*visa.Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("store: encode visas: %w", err)
	}
	if err := p.d.Write(keyVisas, data); err != nil {
		return fmt.Errorf("store: write visas: %w", err)
	}
	return nil
}

// LoadSettings reads the settings keys, falling back to documented defaults
// for missing keys, and sanitizes the result. An offsets value that is not a
// JSON integer array falls back to the default list rather than failing.
func (p *persistence) LoadSettings(_ context.Context) (remind.Settings, error) {
	s := remind.DefaultSettings()

	if data, ok, err := p.readKey(keyEnabled); err != nil {
		return remind.Settings{}, err
	} else if ok {
		if err := json.Unmarshal(data, &s.Enabled); err != nil {
			s.Enabled = true
		}
	}
	if data, ok, err := p.readKey(keyHour); err != nil {
		return remind.Settings{}, err
	} else if ok {
		if err := json.Unmarshal(data, &s.Hour); err != nil {
			s.Hour = -1 // out of range; Sanitize restores the default
		}
	}
	if data, ok, err := p.readKey(keyMinute); err != nil {
		return remind.Settings{}, err
	} else if ok {
		if err := json.Unmarshal(data, &s.Minute); err != nil {
			s.Minute = -1
		}
	}
	if data, ok, err := p.readKey(keyOffsets); err != nil {
		return remind.Settings{}, err
	} else if ok {
		var offsets []int
		if err := json.Unmarshal(data, &offsets); err != nil {
			offsets = nil // Sanitize falls back to the defaults
		}
		s.OffsetsDays = offsets
	}

	return s.Sanitize(), nil
}

func (p *persistence) SaveSettings(_ context.Context, s remind.Settings) error {
	writes := []struct {
		key   string
		value interface{}
	}{
		{keyEnabled, s.Enabled},
		{keyHour, s.Hour},
		{keyMinute, s.Minute},
		{keyOffsets, s.OffsetsDays},
	}
	for _, w := range writes {
		data, err := json.Marshal(w.value)
		if err != nil {
			return fmt.Errorf("store: encode %s: %w", w.key, err)
		}
		if err := p.d.Write(w.key, data); err != nil {
			return fmt.Errorf("store: write %s: %w", w.key, err)
		}
	}
	return nil
}

func (p *persistence) Onboarded(_ context.Context) (bool, error) {
	data, ok, err := p.readKey(keyOnboarded)
	if err != nil || !ok {
		return false, err
	}
	var done bool
	if err := json.Unmarshal(data, &done); err != nil {
		return false, nil
	}
	return done, nil
}

func (p *persistence) SetOnboarded(_ context.Context) error {
	if err := p.d.Write(keyOnboarded, []byte("true")); err != nil {
		return fmt.Errorf("store: write %s: %w", keyOnboarded, err)
	}
	return nil
}

func (p *persistence) readKey(key string) ([]byte, bool, error) {
	if !p.d.Has(key) {
		return nil, false, nil
	}
	data, err := p.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("store: read %s: %w", key, err)
	}
	return data, true, nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}
