// Package engine is a small reference implementation of the schema
// language being benchmarked: enough parse/view/validate behavior to give
// the in-process adapter a real collaborator. The harness itself never
// depends on these semantics; any library satisfying adapter.Engine can
// be swapped in.
package engine

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Schema is the parsed form of a schema document.
type Schema struct {
	ID      string           `yaml:"id"`
	Name    string           `yaml:"name"`
	Classes map[string]Class `yaml:"classes"`
	Slots   map[string]Slot  `yaml:"slots"`
}

// Class declares a set of slot names, optionally inheriting from a parent.
type Class struct {
	IsA   string   `yaml:"is_a"`
	Slots []string `yaml:"slots"`
}

// Slot constrains one field of a class instance.
type Slot struct {
	Range    string `yaml:"range"`
	Required bool   `yaml:"required"`
	Pattern  string `yaml:"pattern"`
}

// Engine satisfies the harness's in-process collaborator contract.
type Engine struct{}

// New returns a reference engine.
func New() *Engine { return &Engine{} }

// Parse decodes schema text and checks structural references.
func (e *Engine) Parse(schemaText string) (any, error) {
	var s Schema
	if err := yaml.Unmarshal([]byte(schemaText), &s); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("parse schema: missing name")
	}
	for cname, c := range s.Classes {
		if c.IsA != "" {
			if _, ok := s.Classes[c.IsA]; !ok {
				return nil, fmt.Errorf("class %s: unknown parent %s", cname, c.IsA)
			}
		}
		for _, slot := range c.Slots {
			if _, ok := s.Slots[slot]; !ok {
				return nil, fmt.Errorf("class %s: unknown slot %s", cname, slot)
			}
		}
	}
	return &s, nil
}

// BuildView flattens inheritance into per-class effective slots and
// compiles slot patterns, the introspection step performed once per
// schema before validation.
func (e *Engine) BuildView(schema any) (any, error) {
	s, ok := schema.(*Schema)
	if !ok {
		return nil, fmt.Errorf("build view: not a parsed schema: %T", schema)
	}
	return newView(s)
}

// Validate checks data against targetClass. A report is returned even
// when the data is invalid; only an execution fault (unknown class,
// unparsed schema) is an error.
func (e *Engine) Validate(data map[string]any, schema any, targetClass string) (any, error) {
	s, ok := schema.(*Schema)
	if !ok {
		return nil, fmt.Errorf("validate: not a parsed schema: %T", schema)
	}
	view, err := newView(s)
	if err != nil {
		return nil, err
	}
	return view.Validate(data, targetClass)
}

// View is the flattened, compiled form of a schema.
type View struct {
	schema   *Schema
	slots    map[string]map[string]Slot // class -> effective slots
	patterns map[string]*regexp.Regexp
}

func newView(s *Schema) (*View, error) {
	v := &View{
		schema:   s,
		slots:    make(map[string]map[string]Slot),
		patterns: make(map[string]*regexp.Regexp),
	}
	for cname := range s.Classes {
		effective, err := v.resolveSlots(cname, 0)
		if err != nil {
			return nil, err
		}
		v.slots[cname] = effective
	}
	for name, slot := range s.Slots {
		if slot.Pattern == "" {
			continue
		}
		re, err := regexp.Compile(slot.Pattern)
		if err != nil {
			return nil, fmt.Errorf("slot %s: bad pattern: %w", name, err)
		}
		v.patterns[name] = re
	}
	return v, nil
}

func (v *View) resolveSlots(cname string, depth int) (map[string]Slot, error) {
	if depth > len(v.schema.Classes) {
		return nil, fmt.Errorf("class %s: inheritance cycle", cname)
	}
	c := v.schema.Classes[cname]
	effective := make(map[string]Slot)
	if c.IsA != "" {
		parent, err := v.resolveSlots(c.IsA, depth+1)
		if err != nil {
			return nil, err
		}
		for name, slot := range parent {
			effective[name] = slot
		}
	}
	for _, name := range c.Slots {
		effective[name] = v.schema.Slots[name]
	}
	return effective, nil
}

// EffectiveSlots returns the flattened slots of a class.
func (v *View) EffectiveSlots(class string) (map[string]Slot, bool) {
	s, ok := v.slots[class]
	return s, ok
}
