package catalog

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"
)

type FileProviderConfig struct {
	Path    string `yaml:"path" mapstructure:"path" validate:"required"`
	Comment string `yaml:"comment" mapstructure:"comment" default:"#"`
}

// FileProvider reads one link per line from a file. Blank lines and lines
// starting with the comment prefix are skipped. The file is read on every
// call so edits show up on the next catalog reload.
type FileProvider struct {
	config *FileProviderConfig
}

// NewFileProvider creates a new FileProvider.
func NewFileProvider(settings map[string]any) (*FileProvider, error) {
	var config FileProviderConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	zlog.Debug().Msgf("file provider config: %+v", config)
	if err := validator.New().Struct(config); err != nil {
		zlog.Error().Msgf("file provider validation failed: %v", err)
		return nil, errors.Wrap(err, "validation failed")
	}
	return &FileProvider{config: &config}, nil
}

// Links reads the links from the file.
func (p *FileProvider) Links(ctx context.Context) ([]string, error) {
	f, err := os.Open(p.config.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open link file: path=%s", p.config.Path)
	}
	defer f.Close()

	var links []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, p.config.Comment) {
			continue
		}
		links = append(links, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read link file: path=%s", p.config.Path)
	}
	return links, nil
}

// Name returns the provider name.
func (p *FileProvider) Name() string {
	return "file"
}
