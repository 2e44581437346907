package libfile

import (
	"fmt"
	"io"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/logicmodel"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/modelerr"
)

type reserver interface {
	Reserve(logicmodel.ObjectID)
}

// Decode builds a gate library from a parsed file. Templates and ports
// without an explicit id get one from ids; explicit ids are reserved in ids
// when it supports reservation.
func Decode(f *File, ids logicmodel.IDAllocator) (*logicmodel.GateLibrary, error) {
	if f == nil {
		return nil, fmt.Errorf("libfile: nil file: %w", modelerr.ErrInvalidReference)
	}
	if ids == nil {
		return nil, fmt.Errorf("libfile: nil id allocator: %w", modelerr.ErrInvalidReference)
	}

	if r, ok := ids.(reserver); ok {
		for _, t := range f.Templates {
			if t.ID != nil {
				r.Reserve(logicmodel.ObjectID(*t.ID))
			}
			for _, p := range t.Ports() {
				if p.ID != nil {
					r.Reserve(logicmodel.ObjectID(*p.ID))
				}
			}
		}
	}

	lib := logicmodel.NewGateLibrary()
	seen := make(map[logicmodel.ObjectID]string)
	claim := func(id logicmodel.ObjectID, what string) error {
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("libfile: %s: id %d already used by %s: %w", what, id, prev, modelerr.ErrDuplicateIdentity)
		}
		seen[id] = what
		return nil
	}

	for _, decl := range f.Templates {
		tmpl, err := decodeTemplate(decl, ids, claim)
		if err != nil {
			return nil, err
		}
		if lib.IsNameInUse(tmpl.Name()) {
			return nil, fmt.Errorf("libfile: %s: template %q defined twice: %w", decl.Pos, tmpl.Name(), modelerr.ErrDuplicateIdentity)
		}
		if err := lib.AddTemplate(tmpl); err != nil {
			return nil, fmt.Errorf("libfile: %s: %w", decl.Pos, err)
		}
	}
	return lib, nil
}

func decodeTemplate(decl *Template, ids logicmodel.IDAllocator, claim func(logicmodel.ObjectID, string) error) (*logicmodel.GateTemplate, error) {
	if decl.Name == nil {
		return nil, fmt.Errorf("libfile: %s: template without name: %w", decl.Pos, modelerr.ErrMissingAttribute)
	}
	name := *decl.Name
	if decl.EndName != "" && decl.EndName != name {
		return nil, fmt.Errorf("libfile: %s: template %s closed as %s: %w", decl.Pos, name, decl.EndName, modelerr.ErrPreconditionViolation)
	}
	size := decl.size()
	if size == nil {
		return nil, fmt.Errorf("libfile: %s: template %s: size: %w", decl.Pos, name, modelerr.ErrMissingAttribute)
	}
	if size.Width <= 0 || size.Height <= 0 {
		return nil, fmt.Errorf("libfile: %s: template %s: size %gx%g: %w", decl.Pos, name, size.Width, size.Height, modelerr.ErrPreconditionViolation)
	}

	tmpl := logicmodel.NewGateTemplate(size.Width, size.Height)
	tmpl.SetName(name)
	tmpl.SetID(idOf(decl.ID, ids))
	if err := claim(tmpl.ID(), "template "+name); err != nil {
		return nil, err
	}
	for _, item := range decl.Items {
		switch {
		case item.LogicClass != nil:
			tmpl.SetLogicClass(*item.LogicClass)
		case item.Description != nil:
			tmpl.SetDescription(*item.Description)
		}
	}

	for _, pd := range decl.Ports() {
		port, err := decodePort(pd, name, ids)
		if err != nil {
			return nil, err
		}
		if err := claim(port.ID(), "port "+name+"."+port.Name()); err != nil {
			return nil, err
		}
		if _, dup := tmpl.PortByName(port.Name()); dup {
			return nil, fmt.Errorf("libfile: %s: port %s.%s defined twice: %w", pd.Pos, name, port.Name(), modelerr.ErrDuplicateIdentity)
		}
		if err := tmpl.AddPort(port); err != nil {
			return nil, fmt.Errorf("libfile: %s: %w", pd.Pos, err)
		}
	}
	return tmpl, nil
}

func decodePort(pd *PortDecl, template string, ids logicmodel.IDAllocator) (*logicmodel.GateTemplatePort, error) {
	if pd.Name == nil {
		return nil, fmt.Errorf("libfile: %s: port of %s without name: %w", pd.Pos, template, modelerr.ErrMissingAttribute)
	}
	if pd.Position == nil {
		return nil, fmt.Errorf("libfile: %s: port %s.%s: position: %w", pd.Pos, template, *pd.Name, modelerr.ErrMissingAttribute)
	}
	pt := logicmodel.PortTypeUndefined
	if pd.Direction != nil {
		var err error
		if pt, err = logicmodel.ParsePortType(*pd.Direction); err != nil {
			return nil, fmt.Errorf("libfile: %s: port %s.%s: %w", pd.Pos, template, *pd.Name, err)
		}
	}
	p := logicmodel.NewGateTemplatePort(pd.Position.X, pd.Position.Y, pt)
	p.SetName(*pd.Name)
	p.SetID(idOf(pd.ID, ids))
	return p, nil
}

func idOf(explicit *uint64, ids logicmodel.IDAllocator) logicmodel.ObjectID {
	if explicit != nil && *explicit != 0 {
		return logicmodel.ObjectID(*explicit)
	}
	return ids.Next()
}

// Load parses a library from r and decodes it.
func Load(name string, r io.Reader, ids logicmodel.IDAllocator) (*logicmodel.GateLibrary, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	f, err := p.Parse(name, r)
	if err != nil {
		return nil, err
	}
	return Decode(f, ids)
}
