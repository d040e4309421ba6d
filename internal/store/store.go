package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Store reads and writes the canonical state document at a single
// path. The zero value is not usable; construct with New or Default.
type Store struct {
	fs   afero.Fs
	path string
}

// New returns a Store backed by fs, rooted at path. Production callers
// use Default; tests construct a Store directly over afero.NewMemMapFs().
func New(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Default returns a Store over the real filesystem at the canonical
// platform-specific path.
func Default() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return New(afero.NewOsFs(), path), nil
}

// Path returns the file this Store reads and writes.
func (s *Store) Path() string { return s.path }

// Load reads the state file. A missing file yields an empty, valid
// State rather than an error. The result always passes through
// Validate before being returned.
func (s *Store) Load() (*State, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		if os.IsPermission(err) {
			return nil, &PermissionError{Op: "reading", Path: s.path, Err: err}
		}
		return nil, &IoError{Op: "reading", Path: s.path, Err: err}
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return NewState(), nil
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, &ParseError{Path: s.path, Err: err}
	}

	return Validate(&st), nil
}

// Save validates and serializes state, writing it atomically: a
// temporary file in the same directory is written first, then renamed
// over the canonical path, so readers never observe a partial write.
func (s *Store) Save(state *State) error {
	state = Validate(state)

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return &IoError{Op: "marshaling", Path: s.path, Err: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		if os.IsPermission(err) {
			return &PermissionError{Op: "creating directory for", Path: dir, Err: err}
		}
		return &IoError{Op: "creating directory for", Path: dir, Err: err}
	}

	tmp, err := afero.TempFile(s.fs, dir, ".envhub-state-*.tmp")
	if err != nil {
		if os.IsPermission(err) {
			return &PermissionError{Op: "writing", Path: s.path, Err: err}
		}
		return &IoError{Op: "writing", Path: s.path, Err: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.fs.Remove(tmpPath)
		return &IoError{Op: "writing", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpPath)
		return &IoError{Op: "writing", Path: s.path, Err: err}
	}

	if err := s.fs.Rename(tmpPath, s.path); err != nil {
		s.fs.Remove(tmpPath)
		if os.IsPermission(err) {
			return &PermissionError{Op: "renaming", Path: s.path, Err: err}
		}
		return &IoError{Op: "renaming", Path: s.path, Err: err}
	}

	return nil
}

// Validate normalizes a document in place and returns it: it fills
// missing Profiles maps, clears a dangling ActiveProfile, and trims
// whitespace from alias, profile, and variable names. Unknown fields
// are left untouched.
func Validate(st *State) *State {
	if st == nil {
		return NewState()
	}
	if st.Apps == nil {
		st.Apps = map[string]*App{}
	}

	normalized := map[string]*App{}
	for alias, app := range st.Apps {
		if app == nil {
			continue
		}
		cleanAlias := trimmed(alias)
		if cleanAlias == "" {
			cleanAlias = alias
		}
		normalizeApp(app)
		normalized[cleanAlias] = app
	}
	st.Apps = normalized

	return st
}

func normalizeApp(app *App) {
	if app.Profiles == nil {
		app.Profiles = map[string]*Profile{}
	}

	normalized := map[string]*Profile{}
	for name, profile := range app.Profiles {
		if profile == nil {
			continue
		}
		cleanName := trimmed(name)
		if cleanName == "" {
			cleanName = name
		}
		normalizeProfile(profile)
		normalized[cleanName] = profile
	}
	app.Profiles = normalized

	if app.ActiveProfile != "" {
		if _, ok := app.Profiles[app.ActiveProfile]; !ok {
			app.ActiveProfile = ""
		}
	}
}

func normalizeProfile(p *Profile) {
	if p.Variables == nil {
		p.Variables = map[string]string{}
		return
	}
	normalized := make(map[string]string, len(p.Variables))
	for k, v := range p.Variables {
		cleanKey := trimmed(k)
		if cleanKey == "" {
			cleanKey = k
		}
		normalized[cleanKey] = v
	}
	p.Variables = normalized
}
