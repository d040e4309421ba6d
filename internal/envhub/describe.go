package envhub

import (
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/envhub/envhub/internal/store"
)

// profileView and appView are read-only projections of the store
// types, shaped for human-facing export rather than the JSON wire
// format store uses for persistence.
type profileView struct {
	Name        string            `yaml:"name"`
	Variables   map[string]string `yaml:"variables,omitempty"`
	CommandArgs []string          `yaml:"command_args,omitempty"`
}

type appView struct {
	Alias         string        `yaml:"alias"`
	TargetBinary  string        `yaml:"target_binary"`
	ActiveProfile string        `yaml:"active_profile,omitempty"`
	Installed     bool          `yaml:"installed"`
	InstallPath   string        `yaml:"install_path,omitempty"`
	Profiles      []profileView `yaml:"profiles"`
}

// DescribeApp renders alias's registration as YAML, for UI "export" or
// "show config" affordances. It never round-trips back into the store;
// store documents stay JSON.
func (l *Library) DescribeApp(alias string) ([]byte, error) {
	app, err := l.GetApp(alias)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(toAppView(alias, app))
}

// DescribeAll renders every registered alias as a single YAML document.
func (l *Library) DescribeAll() ([]byte, error) {
	st, err := l.load()
	if err != nil {
		return nil, err
	}

	aliases := make([]string, 0, len(st.Apps))
	for alias := range st.Apps {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	views := make([]appView, 0, len(aliases))
	for _, alias := range aliases {
		views = append(views, toAppView(alias, st.Apps[alias]))
	}
	return yaml.Marshal(views)
}

func toAppView(alias string, app *store.App) appView {
	view := appView{
		Alias:         alias,
		TargetBinary:  app.TargetBinary,
		ActiveProfile: app.ActiveProfile,
		InstallPath:   app.InstallPath,
		Installed:     app.Installed != nil && *app.Installed,
	}

	names := make([]string, 0, len(app.Profiles))
	for name := range app.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := app.Profiles[name]
		view.Profiles = append(view.Profiles, profileView{
			Name:        name,
			Variables:   p.Variables,
			CommandArgs: p.CommandArgs,
		})
	}
	return view
}
