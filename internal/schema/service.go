package schema

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/pdf-extractor/constants"
	"github.com/joseph-ayodele/pdf-extractor/internal/common"
	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
)

// FieldPatch carries a partial field edit; nil members are left unchanged.
type FieldPatch struct {
	Name        *string              `json:"name,omitempty"`
	Key         *string              `json:"key,omitempty"`
	Type        *constants.FieldType `json:"type,omitempty"`
	Description *string              `json:"description,omitempty"`
	Required    *bool                `json:"required,omitempty"`
}

// Service is the in-memory schema registry. Built-in schemas are always
// present and read-only.
type Service struct {
	mu      sync.RWMutex
	order   []string
	configs map[string]entity.ParserConfig
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		configs: map[string]entity.ParserConfig{},
		logger:  logger,
		now:     time.Now,
	}
	for _, cfg := range Defaults() {
		s.order = append(s.order, cfg.ID)
		s.configs[cfg.ID] = cfg
	}
	return s
}

// List returns every schema, built-ins first, then in creation order.
func (s *Service) List() []entity.ParserConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.ParserConfig, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.configs[id].Clone())
	}
	return out
}

func (s *Service) Get(id string) (entity.ParserConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.configs[id]
	if !ok {
		return entity.ParserConfig{}, notFound(id)
	}
	return cfg.Clone(), nil
}

// Create registers a new user schema under a fresh id.
func (s *Service) Create(name string, fields []entity.Field) (entity.ParserConfig, error) {
	cfg := entity.ParserConfig{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Fields:    normalizeFields(fields),
		CreatedAt: s.now().UTC(),
	}
	if err := ValidateConfig(cfg); err != nil {
		return entity.ParserConfig{}, err
	}

	s.mu.Lock()
	s.order = append(s.order, cfg.ID)
	s.configs[cfg.ID] = cfg
	s.mu.Unlock()

	s.logDuplicates(cfg)
	s.logger.Info("schema.create.ok", "schema_id", cfg.ID, "fields", len(cfg.Fields))
	return cfg.Clone(), nil
}

// Update replaces name and field list in place; id and creation time are kept.
func (s *Service) Update(id, name string, fields []entity.Field) (entity.ParserConfig, error) {
	return s.mutate(id, func(cfg *entity.ParserConfig) error {
		cfg.Name = strings.TrimSpace(name)
		cfg.Fields = normalizeFields(fields)
		return nil
	})
}

func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, ok := s.configs[id]
	if !ok {
		return notFound(id)
	}
	if cfg.IsDefault {
		return readOnly(id)
	}
	delete(s.configs, id)
	s.order = slices.DeleteFunc(s.order, func(x string) bool { return x == id })
	s.logger.Info("schema.delete.ok", "schema_id", id)
	return nil
}

// AddField appends a blank optional text field.
func (s *Service) AddField(schemaID string) (entity.Field, error) {
	field := entity.Field{ID: uuid.New().String(), Type: constants.FieldText}
	_, err := s.mutate(schemaID, func(cfg *entity.ParserConfig) error {
		cfg.Fields = append(cfg.Fields, field)
		return nil
	})
	if err != nil {
		return entity.Field{}, err
	}
	return field, nil
}

func (s *Service) UpdateField(schemaID, fieldID string, patch FieldPatch) (entity.Field, error) {
	var updated entity.Field
	_, err := s.mutate(schemaID, func(cfg *entity.ParserConfig) error {
		idx := slices.IndexFunc(cfg.Fields, func(f entity.Field) bool { return f.ID == fieldID })
		if idx < 0 {
			return common.NewAppError("NOT_FOUND", fmt.Sprintf("field %s not found in schema %s", fieldID, schemaID), common.ErrNotFound)
		}
		f := &cfg.Fields[idx]
		if patch.Name != nil {
			f.Name = *patch.Name
		}
		if patch.Key != nil {
			f.Key = strings.TrimSpace(*patch.Key)
		}
		if patch.Type != nil {
			f.Type = *patch.Type
		}
		if patch.Description != nil {
			f.Description = *patch.Description
		}
		if patch.Required != nil {
			f.Required = *patch.Required
		}
		updated = *f
		return nil
	})
	if err != nil {
		return entity.Field{}, err
	}
	return updated, nil
}

func (s *Service) RemoveField(schemaID, fieldID string) error {
	_, err := s.mutate(schemaID, func(cfg *entity.ParserConfig) error {
		before := len(cfg.Fields)
		cfg.Fields = slices.DeleteFunc(cfg.Fields, func(f entity.Field) bool { return f.ID == fieldID })
		if len(cfg.Fields) == before {
			return common.NewAppError("NOT_FOUND", fmt.Sprintf("field %s not found in schema %s", fieldID, schemaID), common.ErrNotFound)
		}
		return nil
	})
	return err
}

// Import upserts user schemas by id, as loaded from a seed file. Built-in ids
// cannot be overridden.
func (s *Service) Import(configs []entity.ParserConfig) error {
	for _, cfg := range configs {
		cfg.Name = strings.TrimSpace(cfg.Name)
		cfg.Fields = normalizeFields(cfg.Fields)
		cfg.IsDefault = false
		if cfg.ID == "" {
			cfg.ID = uuid.New().String()
		}
		if cfg.CreatedAt.IsZero() {
			cfg.CreatedAt = s.now().UTC()
		}
		if err := ValidateConfig(cfg); err != nil {
			return fmt.Errorf("schema %q: %w", cfg.ID, err)
		}

		s.mu.Lock()
		existing, ok := s.configs[cfg.ID]
		switch {
		case ok && existing.IsDefault:
			s.mu.Unlock()
			return readOnly(cfg.ID)
		case !ok:
			s.order = append(s.order, cfg.ID)
		}
		s.configs[cfg.ID] = cfg
		s.mu.Unlock()

		s.logDuplicates(cfg)
	}
	s.logger.Info("schema.import.ok", "count", len(configs))
	return nil
}

func (s *Service) mutate(id string, fn func(cfg *entity.ParserConfig) error) (entity.ParserConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.configs[id]
	if !ok {
		return entity.ParserConfig{}, notFound(id)
	}
	if cur.IsDefault {
		return entity.ParserConfig{}, readOnly(id)
	}
	next := cur.Clone()
	if err := fn(&next); err != nil {
		return entity.ParserConfig{}, err
	}
	if err := ValidateConfig(next); err != nil {
		return entity.ParserConfig{}, err
	}
	s.configs[id] = next
	s.logDuplicates(next)
	return next.Clone(), nil
}

func (s *Service) logDuplicates(cfg entity.ParserConfig) {
	if dups := cfg.DuplicateKeys(); len(dups) > 0 {
		s.logger.Warn("schema.duplicate_keys", "schema_id", cfg.ID, "keys", dups)
	}
}

// ValidateConfig applies the save rules: a non-blank name, at least one field,
// known field types and no field key that collides with record metadata.
func ValidateConfig(cfg entity.ParserConfig) error {
	v := common.NewValidator().
		Field("name", cfg.Name, common.Required, common.MaxLength(200)).
		Field("fields", cfg.Fields, common.MinItems(1))
	for i, f := range cfg.Fields {
		v.Field(fmt.Sprintf("fields[%d].type", i), string(f.Type), common.OneOf(constants.FieldTypes()...))
		v.Field(fmt.Sprintf("fields[%d].key", i), f.Key, common.NoneOf(entity.ReservedKeys()...))
	}
	return common.ValidateAndReturnError(v)
}

func normalizeFields(fields []entity.Field) []entity.Field {
	out := make([]entity.Field, len(fields))
	for i, f := range fields {
		if f.ID == "" {
			f.ID = uuid.New().String()
		}
		if f.Type == "" {
			f.Type = constants.FieldText
		}
		f.Key = strings.TrimSpace(f.Key)
		out[i] = f
	}
	return out
}

func notFound(id string) error {
	return common.NewAppError("NOT_FOUND", "schema "+id+" not found", common.ErrNotFound)
}

func readOnly(id string) error {
	return common.NewAppError("SCHEMA_READ_ONLY", "built-in schema "+id+" cannot be modified", common.ErrForbidden)
}
