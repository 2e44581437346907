package netlist

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/logicmodel"
)

// FromModel builds a netlist from the nets of a logic model. Gate ports
// become pins of their gate; markers become single-pin components.
func FromModel(m *logicmodel.LogicModel, cfg *Config) (*Netlist, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	nl := New(nil)
	pins := make(map[logicmodel.ObjectID]Pin)

	for _, g := range m.Gates() {
		value := ""
		if t := g.Template(); t != nil {
			value = t.Name()
		}
		if !cfg.ShouldExportTemplate(value) {
			continue
		}
		ref := gateRef(g, cfg)
		if !cfg.ShouldExportRef(ref) {
			continue
		}
		for _, p := range g.Ports() {
			pin := Pin{Ref: ref, Pin: portName(p), Value: value, ObjectID: p.ID()}
			nl.AddPin(pin)
			pins[p.ID()] = pin
		}
	}

	if cfg.IncludeMarkers {
		for _, mk := range m.Markers() {
			ref := mk.Name()
			if ref == "" {
				ref = fmt.Sprintf("M%d", mk.ID())
			}
			if !cfg.ShouldExportRef(ref) {
				continue
			}
			value := "EMarker"
			if mk.IsModulePort() {
				value = "ModulePort"
			}
			pin := Pin{Ref: ref, Pin: "1", Value: value, ObjectID: mk.ID()}
			nl.AddPin(pin)
			pins[mk.ID()] = pin
		}
	}

	for _, n := range m.Nets() {
		var first *Pin
		for _, id := range n.MemberIDs() {
			pin, ok := pins[id]
			if !ok {
				continue
			}
			if first == nil {
				first = &pin
				if n.Name() != "" {
					if err := nl.Name(pin, n.Name()); err != nil {
						return nil, err
					}
				}
				continue
			}
			if err := nl.Connect(*first, pin); err != nil {
				return nil, err
			}
		}
	}

	nl.Finalize(cfg.IncludeSingletons)
	return nl, nil
}

func gateRef(g *logicmodel.Gate, cfg *Config) string {
	if g.Name() != "" {
		return g.Name()
	}
	return fmt.Sprintf("%s%d", cfg.RefPrefix, g.ID())
}

func portName(p *logicmodel.GatePort) string {
	if p.Name() != "" {
		return p.Name()
	}
	if tp := p.TemplatePort(); tp != nil && tp.Name() != "" {
		return tp.Name()
	}
	return p.ID().String()
}
