package optimizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/UnknownOlympus/waypoint/internal/models"
)

// BaselineSuffix names the optional baseline file stored next to a result file.
const BaselineSuffix = ".baseline.json"

// FileProvider serves a result set stored on disk. The request is ignored.
type FileProvider struct {
	path string
	log  *slog.Logger
}

// NewFileProvider creates a provider reading the result set at path.
func NewFileProvider(path string, log *slog.Logger) *FileProvider {
	return &FileProvider{path: path, log: log}
}

// Optimize returns the stored result set.
func (fp *FileProvider) Optimize(ctx context.Context, _ models.OptimizeRequest) ([]byte, error) {
	data, err := os.ReadFile(fp.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmptyResponse
	}

	fp.log.DebugContext(ctx, "Loaded result file", "path", fp.path, "bytes", len(data))

	return data, nil
}

// Baseline reads the sibling baseline file. A missing file means no baseline.
func (fp *FileProvider) Baseline(ctx context.Context, _ models.OptimizeRequest) (*models.Baseline, error) {
	path := BaselinePathFor(fp.path)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		fp.log.DebugContext(ctx, "No baseline file", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline file: %w", err)
	}

	var baseline models.Baseline
	if err = json.Unmarshal(data, &baseline); err != nil {
		return nil, fmt.Errorf("failed to decode baseline file: %w", err)
	}

	return &baseline, nil
}

// Insights is not available offline.
func (fp *FileProvider) Insights(context.Context, []models.VehicleRoute, *models.Baseline) ([]models.Insight, error) {
	return nil, ErrUnsupported
}

// Ask is not available offline.
func (fp *FileProvider) Ask(context.Context, string, []models.VehicleRoute, *models.Baseline) (string, error) {
	return "", ErrUnsupported
}

// BaselinePathFor returns the baseline file path for a result file, replacing a .json extension.
func BaselinePathFor(resultPath string) string {
	ext := filepath.Ext(resultPath)
	if strings.EqualFold(ext, ".json") {
		resultPath = strings.TrimSuffix(resultPath, ext)
	}
	return resultPath + BaselineSuffix
}
