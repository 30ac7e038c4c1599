package providers

import (
	"bytes"
	"context"
	"fmt"
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/i474232898/weather-station-report/internal/weather"
)

// FileSource reads station records from a local file.
type FileSource struct {
	path          string
	skipMalformed bool
}

// NewFileSource creates a source for the file at path.
func NewFileSource(path string, skipMalformed bool) *FileSource {
	return &FileSource{path: path, skipMalformed: skipMalformed}
}

func (s *FileSource) Name() string {
	return "file:" + s.path
}

// Fetch maps the file read-only and parses it.
func (s *FileSource) Fetch(ctx context.Context) (weather.Batch, error) {
	if err := ctx.Err(); err != nil {
		return weather.Batch{}, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return weather.Batch{}, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return weather.Batch{}, fmt.Errorf("stat %s: %w", s.path, err)
	}
	// Zero-length files cannot be mapped.
	if info.Size() == 0 {
		return weather.Batch{}, nil
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return weather.Batch{}, fmt.Errorf("mmap %s: %w", s.path, err)
	}
	defer data.Unmap()

	return ParseLines(bytes.NewReader(data), s.skipMalformed)
}
