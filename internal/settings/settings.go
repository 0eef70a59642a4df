// Package settings reads the alert settings file. Every Load reads the file
// again and any failure degrades to defaults, so a broken file never stops
// alerting.
package settings

import (
	"path/filepath"
	"strings"

	"codeberg.org/mutker/sysalert/internal/logger"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const defaultFormat = "json"

// Store is a file backed settings resource.
type Store struct {
	path string
	fs   afero.Fs
	log  logger.Logger
}

type Option func(*Store)

// WithFs reads the settings file from fs instead of the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(s *Store) {
		s.fs = fs
	}
}

func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path: path,
		fs:   afero.NewOsFs(),
		log:  logger.New("settings"),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load reads the settings file. It never fails: a missing or malformed file
// yields an empty Snapshot that answers every lookup with its default.
func (s *Store) Load() *Snapshot {
	if s.path == "" {
		return &Snapshot{}
	}

	v := viper.New()
	v.SetFs(s.fs)
	v.SetConfigFile(s.path)
	if filepath.Ext(s.path) == "" {
		v.SetConfigType(defaultFormat)
	}

	if err := v.ReadInConfig(); err != nil {
		s.log.Debug().Err(err).Str("path", s.path).Msg("Settings unavailable, using defaults")
		return &Snapshot{}
	}

	return &Snapshot{v: v}
}

// Snapshot is one read of the settings file. Keys are case-insensitive.
type Snapshot struct {
	v *viper.Viper
}

func (s *Snapshot) lookup(key string) (any, bool) {
	if s == nil || s.v == nil || !s.v.IsSet(key) {
		return nil, false
	}

	return s.v.Get(key), true
}

func (s *Snapshot) GetBool(key string, def bool) bool {
	return Get(s, key, def)
}

func (s *Snapshot) GetFloat(key string, def float64) float64 {
	return Get(s, key, def)
}

// Get returns the value for key converted to the type of def, or def when the
// key is absent or does not convert. Only bool and float64 are supported.
func Get[T any](s *Snapshot, key string, def T) T {
	raw, ok := s.lookup(key)
	if !ok {
		return def
	}

	var (
		out any
		err error
	)

	switch any(def).(type) {
	case bool:
		out, err = toBool(raw)
	case float64:
		out, err = cast.ToFloat64E(raw)
	default:
		return def
	}

	if err != nil {
		return def
	}

	return out.(T)
}

// toBool accepts the common truthy spellings found in hand edited files.
func toBool(raw any) (bool, error) {
	if str, ok := raw.(string); ok {
		switch strings.ToLower(strings.TrimSpace(str)) {
		case "yes", "on":
			return true, nil
		case "no", "off":
			return false, nil
		}
	}

	return cast.ToBoolE(raw)
}
