package logicmodel

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/deepcopy"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/modelerr"
)

// GateLibrary is the set of gate templates of a project.
type GateLibrary struct {
	templates map[ObjectID]*GateTemplate
}

// NewGateLibrary creates an empty library.
func NewGateLibrary() *GateLibrary {
	return &GateLibrary{templates: make(map[ObjectID]*GateTemplate)}
}

// AddTemplate adds t. The template needs a valid ID not used by another
// template.
func (l *GateLibrary) AddTemplate(t *GateTemplate) error {
	if t == nil {
		return fmt.Errorf("library: add nil template: %w", modelerr.ErrInvalidReference)
	}
	if !t.HasValidID() {
		return fmt.Errorf("library: template %q has no object id: %w", t.Name(), modelerr.ErrInvalidReference)
	}
	if _, ok := l.templates[t.ID()]; ok {
		return fmt.Errorf("library: template %d exists: %w", t.ID(), modelerr.ErrDuplicateIdentity)
	}
	l.templates[t.ID()] = t
	return nil
}

// RemoveTemplate removes the template with the given ID. Gates using it keep
// their reference; LogicModel.RemoveTemplate detaches them.
func (l *GateLibrary) RemoveTemplate(id ObjectID) error {
	if _, ok := l.templates[id]; !ok {
		return fmt.Errorf("library: template %d: %w", id, modelerr.ErrLookupFailure)
	}
	delete(l.templates, id)
	return nil
}

// Template returns the template with the given ID.
func (l *GateLibrary) Template(id ObjectID) (*GateTemplate, error) {
	t, ok := l.templates[id]
	if !ok {
		return nil, fmt.Errorf("library: template %d: %w", id, modelerr.ErrLookupFailure)
	}
	return t, nil
}

// TemplateByName returns the template with the given name.
func (l *GateLibrary) TemplateByName(name string) (*GateTemplate, error) {
	for _, t := range l.templates {
		if t.Name() == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("library: template %q: %w", name, modelerr.ErrLookupFailure)
}

// ExistsTemplate reports whether a template with the given ID exists.
func (l *GateLibrary) ExistsTemplate(id ObjectID) bool {
	_, ok := l.templates[id]
	return ok
}

// IsNameInUse reports whether any template has the given name.
func (l *GateLibrary) IsNameInUse(name string) bool {
	_, err := l.TemplateByName(name)
	return err == nil
}

// TemplatePort searches all templates for the port with the given ID.
func (l *GateLibrary) TemplatePort(id ObjectID) (*GateTemplatePort, error) {
	for _, t := range l.templates {
		if p, err := t.Port(id); err == nil {
			return p, nil
		}
	}
	return nil, fmt.Errorf("library: template port %d: %w", id, modelerr.ErrLookupFailure)
}

// ExistsTemplatePort reports whether any template has a port with the given ID.
func (l *GateLibrary) ExistsTemplatePort(id ObjectID) bool {
	_, err := l.TemplatePort(id)
	return err == nil
}

// Templates returns the templates ordered by ID.
func (l *GateLibrary) Templates() []*GateTemplate {
	return sortedByID(l.templates)
}

// Len returns the number of templates.
func (l *GateLibrary) Len() int { return len(l.templates) }

func (l *GateLibrary) CloneShallow() deepcopy.Copyable {
	return &GateLibrary{templates: make(map[ObjectID]*GateTemplate, len(l.templates))}
}

func (l *GateLibrary) CloneDeepInto(dst deepcopy.Copyable, t *deepcopy.Table) error {
	clone, ok := dst.(*GateLibrary)
	if !ok {
		return deepcopy.Mismatch("*GateLibrary", dst)
	}
	for _, tmpl := range l.Templates() {
		tc, err := deepcopy.CloneWith(t, tmpl)
		if err != nil {
			return err
		}
		clone.templates[tc.ID()] = tc
	}
	return nil
}
