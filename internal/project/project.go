package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kai-do/fire-department-response-times-analysis/internal/utils"
)

const (
	projectFileName = "project.json"
)

// Project represents an analysis project persisted on disk. It remembers
// which registry file the project is about and keeps a ledger of the
// tabulation and exploration runs performed against it.
type Project struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Runs        map[string]*Run `json:"runs"`
	Config      *ProjectConfig  `json:"config"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Not serialized: on-disk location of the project.json
	rootDir string `json:"-"`
}

// ProjectConfig holds per-project defaults. Empty fields inherit from the
// global configuration.
type ProjectConfig struct {
	Registry  string `json:"registry"`
	Delimiter string `json:"delimiter"`
	Clusters  int    `json:"clusters"`
}

// NewProject constructs an in-memory project. Call Save() to persist.
func NewProject(name, description, rootDir string) *Project {
	return &Project{
		Name:        name,
		Description: description,
		Runs:        make(map[string]*Run),
		Config:      &ProjectConfig{},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		rootDir:     rootDir,
	}
}

// LoadProject loads a project.json from the provided directory.
func LoadProject(dir string) (*Project, error) {
	path := filepath.Join(dir, projectFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("project not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read project: %w", err)
	}
	var p Project
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	p.rootDir = dir
	return &p, nil
}

// RootDir returns the on-disk project directory path.
func (p *Project) RootDir() string { return p.rootDir }

// Save writes project.json using atomic write.
func (p *Project) Save() error {
	if p.rootDir == "" {
		return errors.New("project root directory not set")
	}
	if err := utils.EnsureProjectDir(p.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	p.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(p)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(p.rootDir, projectFileName), data)
}

// AddRun records a completed run in the ledger and returns it.
func (p *Project) AddRun(r Run) *Run {
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now()
	if p.Runs == nil {
		p.Runs = make(map[string]*Run)
	}
	p.Runs[r.ID] = &r
	p.UpdatedAt = time.Now()
	return &r
}

func (p *Project) SetDescription(description string) {
	p.Description = strings.TrimSpace(description)
	p.UpdatedAt = time.Now()
}

// RecentRuns returns the ledger newest-first. Runs sharing a timestamp
// order by ID so listings stay stable.
func (p *Project) RecentRuns() []*Run {
	runs := make([]*Run, 0, len(p.Runs))
	for _, r := range p.Runs {
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].CreatedAt.After(runs[j].CreatedAt)
		}
		return runs[i].ID < runs[j].ID
	})
	return runs
}
