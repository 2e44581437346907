package netlist

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/modelerr"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/sexp"
)

// WriteKiCad writes the finalized netlist in KiCad's S-expression netlist
// format (version D).
func (nl *Netlist) WriteKiCad(w io.Writer) error {
	if nl.Nets == nil {
		return fmt.Errorf("netlist: not finalized: %w", modelerr.ErrPreconditionViolation)
	}

	values := make(map[string]string)
	var refs []string
	for _, n := range nl.Nets {
		for _, p := range n.Pins {
			if _, ok := values[p.Ref]; !ok {
				refs = append(refs, p.Ref)
			}
			if p.Value != "" || values[p.Ref] == "" {
				values[p.Ref] = p.Value
			}
		}
	}
	slices.Sort(refs)

	comps := sexp.L("components")
	for _, ref := range refs {
		comp := sexp.L("comp", sexp.L("ref", sexp.Str(ref)))
		if v := values[ref]; v != "" {
			comp.Items = append(comp.Items, sexp.L("value", sexp.Str(v)))
		}
		comps.Items = append(comps.Items, comp)
	}

	nets := sexp.L("nets")
	for _, n := range nl.Nets {
		net := sexp.L("net", sexp.L("code", sexp.Int(n.Code)), sexp.L("name", sexp.Str(n.Name)))
		for _, p := range n.Pins {
			net.Items = append(net.Items, sexp.L("node", sexp.L("ref", sexp.Str(p.Ref)), sexp.L("pin", sexp.Str(p.Pin))))
		}
		nets.Items = append(nets.Items, net)
	}

	doc := sexp.L("export",
		sexp.L("version", sexp.Sym("D")),
		sexp.L("design", sexp.L("source", sexp.Str("degate logic model")), sexp.L("tool", sexp.Str("degate"))),
		comps,
		nets,
	)
	return sexp.Write(w, doc)
}

// ParseKiCad reads a KiCad S-expression netlist. The result is finalized
// with single-pin nets kept, and net codes and names are taken from the
// file.
func ParseKiCad(r io.Reader) (*Netlist, error) {
	nodes, err := sexp.Parse(r)
	if err != nil {
		return nil, err
	}
	var root *sexp.List
	for _, n := range nodes {
		if l, ok := n.(*sexp.List); ok && l.Head() == "export" {
			root = l
			break
		}
	}
	if root == nil {
		return nil, fmt.Errorf("netlist: no export section: %w", modelerr.ErrMissingAttribute)
	}

	values := make(map[string]string)
	if comps, ok := sexp.Find(root, "components"); ok {
		for _, comp := range sexp.FindAll(comps, "comp") {
			ref, ok := sexp.Value(comp, "ref")
			if !ok {
				return nil, fmt.Errorf("netlist: comp without ref: %w", modelerr.ErrMissingAttribute)
			}
			values[ref], _ = sexp.Value(comp, "value")
		}
	}

	nl := New(nil)
	var parsed []*Net
	if section, ok := sexp.Find(root, "nets"); ok {
		for _, n := range sexp.FindAll(section, "net") {
			net, err := parseNet(n, values)
			if err != nil {
				return nil, err
			}
			for i, p := range net.Pins {
				nl.AddPin(p)
				if i > 0 {
					if err := nl.Connect(net.Pins[0], p); err != nil {
						return nil, err
					}
				}
			}
			if len(net.Pins) > 0 {
				if err := nl.Name(net.Pins[0], net.Name); err != nil {
					return nil, err
				}
			}
			parsed = append(parsed, net)
		}
	}
	nl.Nets = parsed
	if nl.Nets == nil {
		nl.Nets = []*Net{}
	}
	return nl, nil
}

func parseNet(n *sexp.List, values map[string]string) (*Net, error) {
	codeStr, ok := sexp.Value(n, "code")
	if !ok {
		return nil, fmt.Errorf("netlist: net without code: %w", modelerr.ErrMissingAttribute)
	}
	code, err := strconv.Atoi(codeStr)
	if err != nil {
		return nil, fmt.Errorf("netlist: net code %q: %w", codeStr, err)
	}
	name, _ := sexp.Value(n, "name")
	net := &Net{Code: code, Name: name}

	for _, node := range sexp.FindAll(n, "node") {
		ref, ok := sexp.Value(node, "ref")
		if !ok {
			return nil, fmt.Errorf("netlist: net %d: node without ref: %w", code, modelerr.ErrMissingAttribute)
		}
		pin, ok := sexp.Value(node, "pin")
		if !ok {
			return nil, fmt.Errorf("netlist: net %d: node %s without pin: %w", code, ref, modelerr.ErrMissingAttribute)
		}
		net.Pins = append(net.Pins, Pin{Ref: ref, Pin: pin, Value: values[ref]})
	}
	slices.SortFunc(net.Pins, comparePins)
	return net, nil
}
