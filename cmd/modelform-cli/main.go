package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/frangdelsolar/cms-modelform/internal/loader"
	"github.com/frangdelsolar/cms-modelform/internal/logging"
	"github.com/frangdelsolar/cms-modelform/internal/prompt"
	"github.com/frangdelsolar/cms-modelform/pkg/openapi"
	"github.com/frangdelsolar/cms-modelform/pkg/record"
	"github.com/frangdelsolar/cms-modelform/pkg/render"
	"github.com/frangdelsolar/cms-modelform/pkg/schema"
	"github.com/frangdelsolar/cms-modelform/pkg/session"
	"github.com/frangdelsolar/cms-modelform/pkg/validation"
)

type config struct {
	schemaPath  string
	openapiPath string
	model       string
	recordPath  string
	errorsPath  string
	output      string
	interactive bool
	check       bool
	stripHTML   bool
	coerceDates bool
	timeout     time.Duration
	logLevel    string
	logFile     string
}

func main() {
	cfg := config{}
	flag.StringVar(&cfg.schemaPath, "schema", "", "JSON Schema document (path or URL)")
	flag.StringVar(&cfg.openapiPath, "openapi", "", "OpenAPI document whose component schemas describe the models (path or URL)")
	flag.StringVar(&cfg.model, "model", "", "model to edit; overrides the schema's top-level $ref")
	flag.StringVar(&cfg.recordPath, "record", "", "record to edit (JSON or YAML); empty for a create form")
	flag.StringVar(&cfg.errorsPath, "errors", "", "validation failures as a JSON array of {Field, Error}")
	flag.StringVar(&cfg.output, "output", "", "output file (stdout if empty)")
	flag.BoolVar(&cfg.interactive, "interactive", false, "prompt for the model when none is selected")
	flag.BoolVar(&cfg.check, "check", false, "report whether the schema can drive a form instead of building one")
	flag.BoolVar(&cfg.stripHTML, "strip-html", true, "strip markup from validation messages")
	flag.BoolVar(&cfg.coerceDates, "coerce-dates", false, "treat RFC 3339 strings in date fields as dates")
	flag.DurationVar(&cfg.timeout, "timeout", 15*time.Second, "timeout for remote documents")
	flag.StringVar(&cfg.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	flag.StringVar(&cfg.logFile, "log-file", "", "also write JSON logs to this file")
	flag.Parse()

	logger, closeLog, err := logging.New(logging.Config{Level: cfg.logLevel, File: cfg.logFile, Console: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "modelform: logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = closeLog() }()

	if err := run(context.Background(), cfg, logger, prompt.NewSurveyDriver()); err != nil {
		logger.Error().Err(err).Msg("failed to prepare form")
		_ = closeLog()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, logger zerolog.Logger, driver prompt.Driver) error {
	if (cfg.schemaPath == "") == (cfg.openapiPath == "") {
		return errors.New("exactly one of -schema or -openapi is required")
	}

	l := loader.New(schema.NewLoaderOptions(schema.WithHTTPFallback(cfg.timeout)))

	doc, err := loadSchema(ctx, l, cfg, driver)
	if err != nil {
		return err
	}

	if cfg.check {
		result := validation.ValidateTree(doc)
		if err := writeOutput(cfg, logger, result); err != nil {
			return err
		}
		if !result.Valid {
			return fmt.Errorf("%w: schema cannot drive a form", schema.ErrInvalidSchema)
		}
		return nil
	}

	var rec *record.Record
	if cfg.recordPath != "" {
		raw, err := loadRaw(ctx, l, cfg.recordPath)
		if err != nil {
			return fmt.Errorf("record: %w", err)
		}
		if rec, err = record.Decode(raw); err != nil {
			return err
		}
	}

	opts := []session.Option{session.WithLogger(logger)}
	if cfg.stripHTML {
		opts = append(opts, session.WithMessagePolicy(render.StrictMessagePolicy()))
	}
	if cfg.coerceDates {
		opts = append(opts, session.WithDateCoercion())
	}

	s, err := session.Open(doc, rec, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if cfg.errorsPath != "" {
		raw, err := loadRaw(ctx, l, cfg.errorsPath)
		if err != nil {
			return fmt.Errorf("errors: %w", err)
		}
		failures, err := render.DecodeFailures(raw)
		if err != nil {
			return err
		}
		if _, err := s.ReportFailures(failures); err != nil {
			return err
		}
	}

	form, err := s.Form()
	if err != nil {
		return err
	}
	return writeOutput(cfg, logger, form)
}

func writeOutput(cfg config, logger zerolog.Logger, payload any) error {
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	encoded = append(encoded, '\n')

	if cfg.output == "" {
		_, err = os.Stdout.Write(encoded)
		return err
	}
	if err := os.WriteFile(cfg.output, encoded, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info().Str("output", cfg.output).Msg("output written")
	return nil
}

func loadSchema(ctx context.Context, l schema.Loader, cfg config, driver prompt.Driver) (*schema.Node, error) {
	if cfg.openapiPath != "" {
		raw, err := loadRaw(ctx, l, cfg.openapiPath)
		if err != nil {
			return nil, fmt.Errorf("openapi: %w", err)
		}
		model := cfg.model
		if model == "" {
			if !cfg.interactive {
				return nil, errors.New("-model is required with -openapi unless -interactive is set")
			}
			names, err := openapi.Models(ctx, raw)
			if err != nil {
				return nil, err
			}
			if model, err = prompt.ChooseModel(ctx, driver, names); err != nil {
				return nil, err
			}
		}
		return openapi.Document(ctx, raw, model)
	}

	raw, err := loadRaw(ctx, l, cfg.schemaPath)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	doc, err := schema.Decode(raw)
	if err != nil {
		return nil, err
	}

	model := cfg.model
	if model == "" {
		if _, ok := doc.Ref(); ok || !cfg.interactive {
			return doc, nil
		}
		if model, err = prompt.ChooseModel(ctx, driver, schema.DefinitionNames(doc)); err != nil {
			return nil, err
		}
	}
	ptr, ok := schema.Definitions(doc)[model]
	if !ok {
		return nil, fmt.Errorf("%w: model %q is not defined", schema.ErrInvalidSchema, model)
	}
	return schema.PointAt(doc, ptr)
}

func loadRaw(ctx context.Context, l schema.Loader, location string) ([]byte, error) {
	if location == "-" {
		return io.ReadAll(os.Stdin)
	}
	src, err := schema.ParseSource(location)
	if err != nil {
		return nil, err
	}
	doc, err := l.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return doc.Raw(), nil
}
