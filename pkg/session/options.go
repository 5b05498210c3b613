package session

import (
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
)

// Option configures a Session.
type Option func(*options)

type options struct {
	logger        zerolog.Logger
	coerceDates   bool
	messagePolicy *bluemonday.Policy
}

func defaultOptions() options {
	return options{logger: zerolog.Nop()}
}

// WithLogger routes session lifecycle events to logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDateCoercion parses RFC 3339 strings in properties declared with
// format "date-time" or "date" as dates before normalization.
func WithDateCoercion() Option {
	return func(o *options) {
		o.coerceDates = true
	}
}

// WithMessagePolicy sanitizes error messages with policy before they reach
// the renderer. Pass nil to use the strict policy.
func WithMessagePolicy(policy *bluemonday.Policy) Option {
	return func(o *options) {
		if policy == nil {
			policy = bluemonday.StrictPolicy()
		}
		o.messagePolicy = policy
	}
}
