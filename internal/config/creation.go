package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"

	"github.com/vietanh2810/gametables-api/internal/domain"
)

type creationConfig struct {
	FrontendEnabled    bool           `mapstructure:"frontend_enabled"`
	AllowedContent     []string       `mapstructure:"allowed_content"`
	AccessLevel        string         `mapstructure:"access_level"`
	AllowedRoles       []string       `mapstructure:"allowed_roles"`
	RequiredPermission string         `mapstructure:"required_permission"`
	PriorityTiers      []priorityTier `mapstructure:"priority_tiers"`
}

type priorityTier struct {
	Type       string `mapstructure:"type"`
	Value      string `mapstructure:"value"`
	DaysBefore int    `mapstructure:"days_before"`
}

// CreationSource holds the current global creation settings. Readers take a
// Snapshot per request; a reload swaps the whole value at once.
type CreationSource struct {
	v *viper.Viper

	mu       sync.RWMutex
	settings domain.CreationSettings
}

func NewCreationSource(v *viper.Viper) (*CreationSource, error) {
	s := &CreationSource{v: v}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// StaticCreationSource serves fixed settings, for tests and tools.
func StaticCreationSource(settings domain.CreationSettings) *CreationSource {
	return &CreationSource{settings: settings}
}

func (s *CreationSource) Snapshot() domain.CreationSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := s.settings
	settings.AllowedContent = append([]domain.ContentType(nil), s.settings.AllowedContent...)
	settings.AllowedRoles = append([]string(nil), s.settings.AllowedRoles...)
	settings.PriorityTiers = append([]domain.CreationPriorityTier(nil), s.settings.PriorityTiers...)
	return settings
}

// Reload re-parses the creation section. Invalid settings leave the previous
// ones in place.
func (s *CreationSource) Reload() error {
	if s.v == nil {
		return nil
	}

	// Per key getters so defaults apply to keys missing from the file.
	raw := creationConfig{
		FrontendEnabled:    s.v.GetBool("creation.frontend_enabled"),
		AllowedContent:     s.v.GetStringSlice("creation.allowed_content"),
		AccessLevel:        s.v.GetString("creation.access_level"),
		AllowedRoles:       s.v.GetStringSlice("creation.allowed_roles"),
		RequiredPermission: s.v.GetString("creation.required_permission"),
	}
	if err := s.v.UnmarshalKey("creation.priority_tiers", &raw.PriorityTiers); err != nil {
		return fmt.Errorf("v.UnmarshalKey(creation.priority_tiers) -> %w", err)
	}
	settings, err := raw.toDomain()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	return nil
}

func (c creationConfig) toDomain() (domain.CreationSettings, error) {
	level := domain.CreationAccessLevel(c.AccessLevel)
	if !level.IsValid() {
		return domain.CreationSettings{}, fmt.Errorf("creation.access_level %q -> %w", c.AccessLevel, domain.ErrInvalidAccessLevel)
	}

	settings := domain.CreationSettings{
		FrontendCreationEnabled: c.FrontendEnabled,
		AccessLevel:             level,
		AllowedRoles:            c.AllowedRoles,
		RequiredPermission:      c.RequiredPermission,
	}
	for _, content := range c.AllowedContent {
		settings.AllowedContent = append(settings.AllowedContent, domain.ContentType(content))
	}
	for i, t := range c.PriorityTiers {
		tier, err := domain.NewCreationPriorityTier(domain.TierType(t.Type), t.Value, t.DaysBefore)
		if err != nil {
			return domain.CreationSettings{}, fmt.Errorf("creation.priority_tiers[%d] -> %w", i, err)
		}
		settings.PriorityTiers = append(settings.PriorityTiers, tier)
	}
	return settings, nil
}
