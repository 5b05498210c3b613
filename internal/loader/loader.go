package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/frangdelsolar/cms-modelform/pkg/schema"
)

// Loader implements schema.Loader by delegating to file, fs.FS or HTTP
// strategies.
type Loader struct {
	fs       fs.FS
	http     *http.Client
	timeout  time.Duration
	maxBytes int64
}

var _ schema.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options schema.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	maxBytes := options.MaxDocumentBytes
	if maxBytes <= 0 {
		maxBytes = schema.DefaultMaxDocumentBytes
	}

	return &Loader{
		fs:       options.FileSystem,
		http:     httpClient,
		timeout:  timeout,
		maxBytes: maxBytes,
	}
}

// Load fetches a document from src.
func (l *Loader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return schema.Document{}, errors.New("loader: source is nil")
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case schema.SourceKindFile:
		data, err = loadFile(ctx, src.Location(), l.maxBytes)
	case schema.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location(), l.maxBytes)
	case schema.SourceKindURL:
		if l.http == nil {
			return schema.Document{}, errors.New("loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout, l.maxBytes)
	default:
		err = fmt.Errorf("loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return schema.Document{}, err
	}

	return schema.NewDocument(src, data)
}

func checkSize(location string, size, limit int64) error {
	if size > limit {
		return fmt.Errorf("loader: %s exceeds %d bytes", location, limit)
	}
	return nil
}
