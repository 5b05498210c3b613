package loader

import (
	"context"
	"errors"
	"io/fs"
)

func loadFromFS(ctx context.Context, files fs.FS, name string, limit int64) ([]byte, error) {
	if name == "" {
		return nil, errors.New("loader: fs path is required")
	}
	if files == nil {
		return nil, errors.New("loader: fs is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(files, name)
	if err != nil {
		return nil, err
	}
	if err := checkSize(name, int64(len(data)), limit); err != nil {
		return nil, err
	}
	return data, nil
}
