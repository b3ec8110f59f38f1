package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/domain"
	tferrors "github.com/mrz1836/taskflow/internal/errors"
)

// maxConcurrentLoads bounds concurrent file reads in LoadDir.
const maxConcurrentLoads = 8

// Workflow is a custom, named step list loaded from a file. A workflow that
// names an industry can replace that industry's built-in template.
type Workflow struct {
	Name     string
	Industry string
	Steps    []domain.StepDefinition
}

// FileWorkflow represents the YAML/JSON structure of a custom workflow file.
type FileWorkflow struct {
	Name     string     `yaml:"name" json:"name"`
	Industry string     `yaml:"industry,omitempty" json:"industry,omitempty"`
	Steps    []FileStep `yaml:"steps" json:"steps"`
}

// FileStep represents a step in the YAML/JSON file.
type FileStep struct {
	Name   string `yaml:"name" json:"name"`
	Status string `yaml:"status" json:"status"`
}

// Loader loads custom workflows from files.
type Loader struct {
	basePath string
}

// NewLoader creates a new workflow loader.
// basePath is used to resolve relative paths (typically the project root).
func NewLoader(basePath string) *Loader {
	return &Loader{basePath: basePath}
}

// LoadFromFile loads a workflow from a YAML or JSON file.
// The format is auto-detected based on file extension (.json for JSON, otherwise YAML).
// A workflow without a name takes the file's base name.
func (l *Loader) LoadFromFile(path string) (*Workflow, error) {
	resolvedPath := l.resolvePath(path)

	data, err := os.ReadFile(resolvedPath) //nolint:gosec // Path is resolved from user config
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", tferrors.ErrWorkflowFileMissing, resolvedPath)
		}
		return nil, tferrors.Wrapf(err, "failed to read workflow %s", resolvedPath)
	}

	var fw FileWorkflow
	if isJSON(path) {
		err = json.Unmarshal(data, &fw)
	} else {
		err = yaml.Unmarshal(data, &fw)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", tferrors.ErrWorkflowParse, resolvedPath, err)
	}

	w := toWorkflow(&fw)
	if strings.TrimSpace(w.Name) == "" {
		w.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := ValidateSteps(w.Steps); err != nil {
		return nil, fmt.Errorf("workflow %q: %w", w.Name, err)
	}
	return w, nil
}

// LoadDir loads every *.yaml, *.yml and *.json file in dir concurrently.
// A missing directory yields no workflows. The first failing file fails the
// whole load. Results are sorted by name.
func (l *Loader) LoadDir(ctx context.Context, dir string) ([]*Workflow, error) {
	resolved := l.resolvePath(dir)
	entries, err := os.ReadDir(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, tferrors.Wrapf(err, "failed to list workflow directory %s", resolved)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml", ".json":
			files = append(files, filepath.Join(resolved, entry.Name()))
		}
	}

	loaded := make([]*Workflow, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			w, err := l.LoadFromFile(file)
			if err != nil {
				return err
			}
			loaded[i] = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(loaded, func(i, j int) bool { return loaded[i].Name < loaded[j].Name })
	return loaded, nil
}

// Marshal renders a step list as a YAML workflow file.
func Marshal(name, industry string, steps []domain.StepDefinition) ([]byte, error) {
	fw := FileWorkflow{Name: name, Industry: industry, Steps: make([]FileStep, len(steps))}
	for i, s := range steps {
		fw.Steps[i] = FileStep{Name: s.Name, Status: string(s.Status)}
	}
	return yaml.Marshal(&fw)
}

func (l *Loader) resolvePath(path string) string {
	if filepath.IsAbs(path) || l.basePath == "" {
		return path
	}
	return filepath.Join(l.basePath, path)
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func toWorkflow(f *FileWorkflow) *Workflow {
	w := &Workflow{
		Name:     strings.TrimSpace(f.Name),
		Industry: strings.TrimSpace(f.Industry),
		Steps:    make([]domain.StepDefinition, len(f.Steps)),
	}
	for i, s := range f.Steps {
		w.Steps[i] = domain.StepDefinition{
			Name:   strings.TrimSpace(s.Name),
			Status: constants.BoardStatus(strings.TrimSpace(s.Status)),
		}
	}
	return w
}
