// Package workspace loads the YAML file declaring the user's projects and
// session templates. Parsing is deliberately dumb: resolution (working
// directories, environment merging) happens at spawn time in the engine.
package workspace

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template names a spawnable session: the command to run, where, and with
// which extra environment variables.
type Template struct {
	Name    string            `yaml:"name"`
	Title   string            `yaml:"title"`
	Command string            `yaml:"command"`
	Dir     string            `yaml:"dir"`
	Env     map[string]string `yaml:"env"`
}

// Project groups templates under a working tree. Opening a project spawns
// its template list sequentially.
type Project struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Path      string   `yaml:"path"`
	Templates []string `yaml:"templates"`
}

// Workspace is the parsed workspace file.
type Workspace struct {
	Projects  []Project  `yaml:"projects"`
	Templates []Template `yaml:"templates"`
}

// Load reads and validates the workspace file at path. A missing file is not
// an error: the dashboard starts empty and the user can still adopt nothing.
func Load(path string) (Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Workspace{}, nil
		}
		return Workspace{}, fmt.Errorf("read workspace: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates workspace YAML.
func Parse(data []byte) (Workspace, error) {
	var ws Workspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return Workspace{}, fmt.Errorf("parse workspace: %w", err)
	}
	if err := ws.validate(); err != nil {
		return Workspace{}, err
	}
	return ws, nil
}

// Template resolves a template by name.
func (w Workspace) Template(name string) (Template, bool) {
	for _, tpl := range w.Templates {
		if tpl.Name == name {
			return tpl, true
		}
	}
	return Template{}, false
}

// ProjectTemplates returns the project's templates in declaration order.
// Unknown references were rejected at load time.
func (w Workspace) ProjectTemplates(p Project) []Template {
	out := make([]Template, 0, len(p.Templates))
	for _, name := range p.Templates {
		if tpl, ok := w.Template(name); ok {
			out = append(out, tpl)
		}
	}
	return out
}

func (w Workspace) validate() error {
	seen := make(map[string]struct{}, len(w.Templates))
	for _, tpl := range w.Templates {
		name := strings.TrimSpace(tpl.Name)
		if name == "" {
			return fmt.Errorf("template with empty name")
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate template %q", name)
		}
		seen[name] = struct{}{}
		if strings.TrimSpace(tpl.Command) == "" {
			return fmt.Errorf("template %q: command required", name)
		}
	}
	ids := make(map[string]struct{}, len(w.Projects))
	for _, p := range w.Projects {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return fmt.Errorf("project with empty id")
		}
		if _, dup := ids[id]; dup {
			return fmt.Errorf("duplicate project %q", id)
		}
		ids[id] = struct{}{}
		for _, ref := range p.Templates {
			if _, ok := seen[ref]; !ok {
				return fmt.Errorf("project %q references unknown template %q", id, ref)
			}
		}
	}
	return nil
}
