// Package store implements the canonical on-disk EnvHub state document:
// its types, JSON schema tolerance, validation, and atomic load/save.
package store

import (
	"encoding/json"
	"strings"
)

// State is the root document. Apps is required; Extra preserves any
// sibling top-level keys a newer or older version of this library wrote.
type State struct {
	Apps  map[string]*App
	Extra map[string]json.RawMessage
}

// App is a registered alias, keyed by alias name in State.Apps.
type App struct {
	TargetBinary  string
	ActiveProfile string
	Profiles      map[string]*Profile
	Installed     *bool
	InstallPath   string
	Extra         map[string]json.RawMessage
}

// Profile is a named set of environment variables plus optional
// prepended command arguments, keyed by profile name in App.Profiles.
type Profile struct {
	Variables   map[string]string
	CommandArgs []string
	Extra       map[string]json.RawMessage
}

// NewState returns an empty, valid State.
func NewState() *State {
	return &State{Apps: map[string]*App{}}
}

// NewApp returns an App with one empty profile named "default", active.
func NewApp(targetBinary string) *App {
	return &App{
		TargetBinary:  targetBinary,
		ActiveProfile: "default",
		Profiles: map[string]*Profile{
			"default": NewProfile(),
		},
	}
}

// NewProfile returns an empty profile ready to receive variables.
func NewProfile() *Profile {
	return &Profile{Variables: map[string]string{}}
}

// Clone returns a deep copy of the profile, used by AddProfile's
// optional copy-from parameter.
func (p *Profile) Clone() *Profile {
	clone := &Profile{
		Variables:   make(map[string]string, len(p.Variables)),
		CommandArgs: append([]string(nil), p.CommandArgs...),
	}
	for k, v := range p.Variables {
		clone.Variables[k] = v
	}
	if len(p.Extra) > 0 {
		clone.Extra = make(map[string]json.RawMessage, len(p.Extra))
		for k, v := range p.Extra {
			clone.Extra[k] = v
		}
	}
	return clone
}

// trimmed reports s with surrounding whitespace removed, used by
// Validate to normalize alias/profile/key names.
func trimmed(s string) string {
	return strings.TrimSpace(s)
}
