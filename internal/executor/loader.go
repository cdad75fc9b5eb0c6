package executor

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/toolsascode/revmig/internal/logger"
	"github.com/toolsascode/revmig/internal/registry"
	"github.com/toolsascode/revmig/internal/revision"
)

// RevisionFile is the on-disk YAML form of a revision
type RevisionFile struct {
	ID          string    `yaml:"id"`
	Revises     string    `yaml:"revises"`
	Description string    `yaml:"description,omitempty"`
	CreatedAt   time.Time `yaml:"created_at,omitempty"`
	Apply       []string  `yaml:"apply"`
	Revert      []string  `yaml:"revert"`
}

// ToRevision converts the file into a revision
func (f *RevisionFile) ToRevision(source string) *revision.Revision {
	return &revision.Revision{
		ID:          strings.TrimSpace(f.ID),
		Parent:      strings.TrimSpace(f.Revises),
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
		Source:      source,
		Apply:       revision.Statements(f.Apply),
		Revert:      revision.Statements(f.Revert),
	}
}

// {id}_{slug}.up.sql, the id may be overridden by a "-- revision:" header
var sqlFileRegex = regexp.MustCompile(`^([0-9A-Za-z]+)(?:_(.+))?\.up\.sql$`)

// Loader loads revision files from a directory
type Loader struct {
	dir  string
	base registry.Registry // revisions registered from code, copied into every load

	mu       sync.Mutex
	watcher  *fileWatcher
	watching bool
}

// NewLoader creates a revision loader. Revisions already registered in base
// (usually migrations.GlobalRegistry) are included in every load.
func NewLoader(dir string, base registry.Registry) *Loader {
	return &Loader{dir: dir, base: base}
}

// Dir returns the revisions directory
func (l *Loader) Dir() string {
	return l.dir
}

// Load builds a fresh registry from the base registry and the revision files
func (l *Loader) Load() (registry.Registry, error) {
	reg := registry.NewInMemoryRegistry()
	if l.base != nil {
		for _, rev := range l.base.GetAll() {
			if err := reg.Register(rev); err != nil {
				return nil, err
			}
		}
	}
	if err := l.LoadAll(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// LoadAll parses every revision file in the directory and registers it in reg.
// A file that cannot be parsed fails the whole load: a silently skipped
// revision would break the chain.
func (l *Loader) LoadAll(reg registry.Registry) error {
	if l.dir == "" {
		return nil
	}

	// Check if directory exists
	if _, err := os.Stat(l.dir); os.IsNotExist(err) {
		logger.Warnf("Revisions directory does not exist: %s", l.dir)
		return nil
	}

	var paths []string
	err := filepath.Walk(l.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if isRevisionFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error scanning revisions directory: %w", err)
	}
	sort.Strings(paths)

	var errs []error
	loaded := 0
	for _, path := range paths {
		rev, err := parseRevisionFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := reg.Register(rev); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		loaded++
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	logger.Infof("Loaded %d revision(s) from %s", loaded, l.dir)
	return nil
}

func isRevisionFile(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch {
	case strings.HasSuffix(name, ".yaml"), strings.HasSuffix(name, ".yml"):
		return true
	case strings.HasSuffix(name, ".up.sql"):
		return true
	}
	return false
}

func parseRevisionFile(path string) (*revision.Revision, error) {
	if strings.HasSuffix(path, ".up.sql") {
		return parseSQLPair(path)
	}
	return parseYAMLFile(path)
}

func parseYAMLFile(path string) (*revision.Revision, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read revision file %s: %w", path, err)
	}

	var file RevisionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse revision file %s: %w", path, err)
	}
	if strings.TrimSpace(file.ID) == "" {
		return nil, fmt.Errorf("revision file %s has no id", path)
	}
	return file.ToRevision(path), nil
}

// parseSQLPair reads <id>_<slug>.up.sql and its .down.sql sibling. Header
// comments at the top of the up file carry the metadata:
//
//	-- revision: 3f79f6dcc58d
//	-- revises: 1344cb533815
//	-- description: Add Site Registry product code
func parseSQLPair(upPath string) (*revision.Revision, error) {
	matches := sqlFileRegex.FindStringSubmatch(filepath.Base(upPath))
	if matches == nil {
		return nil, fmt.Errorf("revision file %s does not match <id>_<name>.up.sql", upPath)
	}

	upSQL, err := os.ReadFile(upPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read up file %s: %w", upPath, err)
	}

	downPath := strings.TrimSuffix(upPath, ".up.sql") + ".down.sql"
	downSQL, err := os.ReadFile(downPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read down file %s: %w", downPath, err)
	}

	rev := &revision.Revision{
		ID:          matches[1],
		Description: strings.ReplaceAll(matches[2], "_", " "),
		Source:      upPath,
		Apply:       revision.Statements{string(upSQL)},
		Revert:      revision.Statements{string(downSQL)},
	}

	headers := parseSQLHeaders(string(upSQL))
	if id := headers["revision"]; id != "" {
		rev.ID = id
	}
	rev.Parent = headers["revises"]
	if desc := headers["description"]; desc != "" {
		rev.Description = desc
	}
	if created := headers["created_at"]; created != "" {
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			rev.CreatedAt = t
		}
	}
	return rev, nil
}

// parseSQLHeaders reads "-- key: value" lines until the first non-comment line
func parseSQLHeaders(sql string) map[string]string {
	headers := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(sql))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "--") {
			break
		}
		key, value, ok := strings.Cut(strings.TrimSpace(strings.TrimPrefix(line, "--")), ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if value == "none" || value == "null" {
			value = ""
		}
		headers[key] = value
	}
	return headers
}

// StartWatching reloads the revisions whenever files in the directory change.
// onChange receives the new registry only if it forms a valid chain; invalid
// edits are logged and the previous registry stays in effect.
func (l *Loader) StartWatching(onChange func(registry.Registry)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.watching {
		return nil
	}

	w, err := newFileWatcher(l.dir, isRevisionFile, func() {
		reg, err := l.Load()
		if err != nil {
			logger.Errorf("Failed to reload revisions from %s: %v", l.dir, err)
			return
		}
		if _, err := reg.Chain(); err != nil {
			logger.Errorf("Ignoring revision change in %s: %v", l.dir, err)
			return
		}
		logger.Infof("Revisions in %s changed, reloaded %d revision(s)", l.dir, len(reg.GetAll()))
		onChange(reg)
	})
	if err != nil {
		return err
	}

	l.watcher = w
	l.watching = true
	logger.Infof("Watching %s for revision changes", l.dir)
	return nil
}

// StopWatching stops the background file watcher
func (l *Loader) StopWatching() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.watching {
		return
	}

	if err := l.watcher.Stop(); err != nil {
		logger.Warnf("Failed to stop revision watcher: %v", err)
	}
	l.watching = false
	logger.Info("Revision file watcher stopped")
}
