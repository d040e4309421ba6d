package store

import "encoding/json"

// MarshalJSON implements the Profile wire format: a "variables" object,
// an optional "command_args" list, plus any preserved unknown fields.
func (p *Profile) MarshalJSON() ([]byte, error) {
	fields := map[string]json.RawMessage{}

	vars := p.Variables
	if vars == nil {
		vars = map[string]string{}
	}
	raw, err := json.Marshal(vars)
	if err != nil {
		return nil, err
	}
	fields["variables"] = raw

	if len(p.CommandArgs) > 0 {
		raw, err := json.Marshal(p.CommandArgs)
		if err != nil {
			return nil, err
		}
		fields["command_args"] = raw
	}

	return mergeExtra(fields, p.Extra)
}

// UnmarshalJSON parses the Profile wire format, described in MarshalJSON.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var shadow struct {
		Variables   map[string]string `json:"variables"`
		CommandArgs []string          `json:"command_args"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}

	extra, err := splitExtra(data, "variables", "command_args")
	if err != nil {
		return err
	}

	p.Variables = shadow.Variables
	if p.Variables == nil {
		p.Variables = map[string]string{}
	}
	p.CommandArgs = shadow.CommandArgs
	p.Extra = extra
	return nil
}

// MarshalJSON implements the App wire format: required
// "target_binary" and "profiles", optional "active_profile",
// "installed", "install_path", plus any preserved unknown fields.
func (a *App) MarshalJSON() ([]byte, error) {
	fields := map[string]json.RawMessage{}

	raw, err := json.Marshal(a.TargetBinary)
	if err != nil {
		return nil, err
	}
	fields["target_binary"] = raw

	profiles := a.Profiles
	if profiles == nil {
		profiles = map[string]*Profile{}
	}
	raw, err = json.Marshal(profiles)
	if err != nil {
		return nil, err
	}
	fields["profiles"] = raw

	if a.ActiveProfile != "" {
		raw, err := json.Marshal(a.ActiveProfile)
		if err != nil {
			return nil, err
		}
		fields["active_profile"] = raw
	}

	if a.Installed != nil {
		raw, err := json.Marshal(*a.Installed)
		if err != nil {
			return nil, err
		}
		fields["installed"] = raw
	}

	if a.InstallPath != "" {
		raw, err := json.Marshal(a.InstallPath)
		if err != nil {
			return nil, err
		}
		fields["install_path"] = raw
	}

	return mergeExtra(fields, a.Extra)
}

// UnmarshalJSON parses the App wire format, tolerating documents from
// older schema versions that lack "installed" or "install_path".
func (a *App) UnmarshalJSON(data []byte) error {
	var shadow struct {
		TargetBinary  string              `json:"target_binary"`
		ActiveProfile string              `json:"active_profile"`
		Profiles      map[string]*Profile `json:"profiles"`
		Installed     *bool               `json:"installed"`
		InstallPath   string              `json:"install_path"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}

	extra, err := splitExtra(data, "target_binary", "active_profile", "profiles", "installed", "install_path")
	if err != nil {
		return err
	}

	a.TargetBinary = shadow.TargetBinary
	a.ActiveProfile = shadow.ActiveProfile
	a.Profiles = shadow.Profiles
	if a.Profiles == nil {
		a.Profiles = map[string]*Profile{}
	}
	a.Installed = shadow.Installed
	a.InstallPath = shadow.InstallPath
	a.Extra = extra
	return nil
}

// MarshalJSON implements the State wire format: a required "apps"
// object plus any preserved unknown top-level fields.
func (s *State) MarshalJSON() ([]byte, error) {
	fields := map[string]json.RawMessage{}

	apps := s.Apps
	if apps == nil {
		apps = map[string]*App{}
	}
	raw, err := json.Marshal(apps)
	if err != nil {
		return nil, err
	}
	fields["apps"] = raw

	return mergeExtra(fields, s.Extra)
}

// UnmarshalJSON parses the State wire format, described in MarshalJSON.
func (s *State) UnmarshalJSON(data []byte) error {
	var shadow struct {
		Apps map[string]*App `json:"apps"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}

	extra, err := splitExtra(data, "apps")
	if err != nil {
		return err
	}

	s.Apps = shadow.Apps
	if s.Apps == nil {
		s.Apps = map[string]*App{}
	}
	s.Extra = extra
	return nil
}
