package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/frangdelsolar/cms-modelform/pkg/record"
	"github.com/frangdelsolar/cms-modelform/pkg/render"
	"github.com/frangdelsolar/cms-modelform/pkg/schema"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("session: closed")

// SubmitFunc receives the current form data when the user saves.
type SubmitFunc func(ctx context.Context, data *record.Record) error

// Form is the snapshot a renderer consumes.
type Form struct {
	Schema      schema.Definition `json:"schema"`
	FormData    *record.Record    `json:"formData"`
	UISchema    render.UISchema   `json:"uiSchema"`
	ExtraErrors render.ErrorMap   `json:"extraErrors"`
	RemovedKeys schema.KeySet     `json:"removedKeys"`
}

// Session holds the sanitized state of one edit operation. It is safe for
// concurrent use.
type Session struct {
	mu     sync.RWMutex
	opts   options
	logger zerolog.Logger

	definition schema.Definition
	removed    schema.KeySet
	dateFields []string

	data     *record.Record
	uiSchema render.UISchema
	errors   render.ErrorMap
	closed   bool
}

// Open sanitizes doc and rec and starts a session. A nil rec starts an empty
// create form. Schema problems are returned wrapping schema.ErrInvalidSchema.
func Open(doc *schema.Node, rec *record.Record, opts ...Option) (*Session, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	result, err := schema.Sanitize(doc)
	if err != nil {
		cfg.logger.Error().Err(err).Msg("schema sanitization failed")
		return nil, fmt.Errorf("session: %w", err)
	}

	s := &Session{
		opts:       cfg,
		definition: result.Definition,
		removed:    result.RemovedKeys,
		errors:     make(render.ErrorMap),
	}
	ptr, _ := doc.Ref()
	s.logger = cfg.logger.With().Str("model", ptr).Logger()
	if cfg.coerceDates {
		s.dateFields = result.Definition.DateFields()
	}
	s.setData(rec)

	s.logger.Debug().
		Strs("removed_keys", s.removed.Names()).
		Int("fields", s.data.Len()).
		Msg("session opened")
	return s, nil
}

func (s *Session) setData(rec *record.Record) {
	if len(s.dateFields) > 0 {
		rec = record.ParseDates(rec, s.dateFields...)
	}
	s.data = record.Sanitize(rec, s.removed)
	s.uiSchema = render.UIHints(s.data)
}

// Definition returns the sanitized schema.
func (s *Session) Definition() (schema.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return schema.Definition{}, ErrClosed
	}
	return s.definition, nil
}

// RemovedKeys returns the properties stripped from the schema.
func (s *Session) RemovedKeys() (schema.KeySet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return schema.KeySet{}, ErrClosed
	}
	return s.removed, nil
}

// Data returns a copy of the current form data.
func (s *Session) Data() (*record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.data.Clone(), nil
}

// Errors returns a copy of the current error map.
func (s *Session) Errors() (render.ErrorMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.errors.Clone(), nil
}

// Update replaces the form data with rec, sanitized against the session's
// removed keys. Renderers call it on every change.
func (s *Session) Update(rec *record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.setData(rec)
	return nil
}

// ReportFailures recomputes the error map from the validator's latest
// failures and returns it.
func (s *Session) ReportFailures(failures []render.ValidationFailure) (render.ErrorMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	aggregated := render.Aggregate(failures)
	if skipped := len(failures) - aggregated.Count(); skipped > 0 {
		s.logger.Warn().Int("skipped", skipped).Msg("ignored malformed validation failures")
	}
	if s.opts.messagePolicy != nil {
		aggregated = render.SanitizeMessages(aggregated, s.opts.messagePolicy)
	}
	s.errors = aggregated

	s.logger.Debug().
		Int("fields", len(aggregated)).
		Int("messages", aggregated.Count()).
		Msg("validation failures aggregated")
	return aggregated.Clone(), nil
}

// Form snapshots the session for a renderer.
func (s *Session) Form() (Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Form{}, ErrClosed
	}
	return Form{
		Schema:      s.definition,
		FormData:    s.data.Clone(),
		UISchema:    cloneUISchema(s.uiSchema),
		ExtraErrors: s.errors.Clone(),
		RemovedKeys: s.removed,
	}, nil
}

// Submit hands a copy of the current form data to fn.
func (s *Session) Submit(ctx context.Context, fn SubmitFunc) error {
	if fn == nil {
		return errors.New("session: submit handler is nil")
	}
	data, err := s.Data()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(ctx, data); err != nil {
		s.logger.Error().Err(err).Msg("submit failed")
		return fmt.Errorf("session: submit: %w", err)
	}
	s.logger.Info().Int("fields", data.Len()).Msg("form submitted")
	return nil
}

// Close ends the session and discards its state. Closing twice is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.definition = schema.Definition{}
	s.removed = schema.KeySet{}
	s.data = nil
	s.uiSchema = nil
	s.errors = nil
	s.logger.Debug().Msg("session closed")
	return nil
}

func cloneUISchema(in render.UISchema) render.UISchema {
	out := make(render.UISchema, len(in))
	for field, hints := range in {
		copied := make(map[string]string, len(hints))
		for key, value := range hints {
			copied[key] = value
		}
		out[field] = copied
	}
	return out
}
