package workload

import (
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"
)

// Workload is a named (schema, data, target-class) fixture used for one
// benchmark iteration. Immutable once registered.
type Workload struct {
	Name        string         `yaml:"name"`
	Schema      string         `yaml:"schema"`
	Data        map[string]any `yaml:"data"`
	TargetClass string         `yaml:"target_class"`
}

// LoadError reports a malformed or unreadable workload file. It fails
// only the file it names; already-registered workloads are unaffected.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("workload file %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Registry holds the workloads for a benchmark run. Populated at startup;
// iteration is finite and restartable.
type Registry struct {
	workloads []Workload
	byName    map[string]int
}

// NewRegistry returns a registry seeded with the builtin fixtures.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]int)}
	for _, w := range builtinWorkloads() {
		r.Add(w)
	}
	return r
}

// NewEmptyRegistry returns a registry with no workloads.
func NewEmptyRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Add registers a workload, replacing any previous one with the same name.
func (r *Registry) Add(w Workload) {
	if i, ok := r.byName[w.Name]; ok {
		r.workloads[i] = w
		return
	}
	r.byName[w.Name] = len(r.workloads)
	r.workloads = append(r.workloads, w)
}

// All returns the registered workloads in registration order. The slice
// and each workload's Data map are copies; callers cannot mutate registry
// state through them.
func (r *Registry) All() []Workload {
	out := make([]Workload, len(r.workloads))
	for i, w := range r.workloads {
		w.Data = maps.Clone(w.Data)
		out[i] = w
	}
	return out
}

// Get looks up a workload by name. The returned Data map is a copy.
func (r *Registry) Get(name string) (Workload, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Workload{}, false
	}
	w := r.workloads[i]
	w.Data = maps.Clone(w.Data)
	return w, true
}

// Len returns the number of registered workloads.
func (r *Registry) Len() int { return len(r.workloads) }

type workloadFile struct {
	Workloads []Workload `yaml:"workloads"`
}

// LoadFile registers workloads from a YAML file. On failure the registry
// is left unchanged and a *LoadError is returned.
func (r *Registry) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}

	var file workloadFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return &LoadError{Path: path, Err: err}
	}

	for i, w := range file.Workloads {
		if w.Name == "" {
			return &LoadError{Path: path, Err: fmt.Errorf("workload %d: missing name", i)}
		}
		if w.Schema == "" {
			return &LoadError{Path: path, Err: fmt.Errorf("workload %q: missing schema", w.Name)}
		}
		if w.TargetClass == "" {
			return &LoadError{Path: path, Err: fmt.Errorf("workload %q: missing target_class", w.Name)}
		}
	}
	for _, w := range file.Workloads {
		r.Add(w)
	}
	return nil
}
