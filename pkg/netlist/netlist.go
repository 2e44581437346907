package netlist

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/logicmodel"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/modelerr"
)

// Pin is one connection point of the netlist: a port of a component.
type Pin struct {
	Ref      string              `json:"ref"`
	Pin      string              `json:"pin"`
	Value    string              `json:"value,omitempty"`
	ObjectID logicmodel.ObjectID `json:"object_id,omitempty"`
}

// Net is a connected set of pins.
type Net struct {
	Code int    `json:"code"`
	Name string `json:"name"`
	Pins []Pin  `json:"pins"`
}

// Netlist collects pin connectivity with a union-find structure. Nets are
// materialised by Finalize.
type Netlist struct {
	parent map[string]string
	rank   map[string]int
	names  map[string]string

	pins  []Pin
	byKey map[string]Pin

	// Nets holds the result of Finalize, ordered by Code.
	Nets []*Net
}

// New creates a netlist in which every pin is isolated.
func New(pins []Pin) *Netlist {
	nl := &Netlist{
		parent: make(map[string]string, len(pins)),
		rank:   make(map[string]int, len(pins)),
		names:  make(map[string]string),
		byKey:  make(map[string]Pin, len(pins)),
	}
	for _, p := range pins {
		nl.AddPin(p)
	}
	return nl
}

// AddPin adds an isolated pin. Adding a known pin is a no-op.
func (nl *Netlist) AddPin(p Pin) {
	key := pinKey(p)
	if _, ok := nl.byKey[key]; ok {
		return
	}
	nl.parent[key] = key
	nl.rank[key] = 0
	nl.byKey[key] = p
	nl.pins = append(nl.pins, p)
}

// Pins returns all pins in insertion order.
func (nl *Netlist) Pins() []Pin { return slices.Clone(nl.pins) }

// Connect puts a and b into the same net.
func (nl *Netlist) Connect(a, b Pin) error {
	ra, err := nl.root(a)
	if err != nil {
		return err
	}
	rb, err := nl.root(b)
	if err != nil {
		return err
	}
	if ra == rb {
		return nil
	}
	switch {
	case nl.rank[ra] < nl.rank[rb]:
		nl.parent[ra] = rb
	case nl.rank[ra] > nl.rank[rb]:
		nl.parent[rb] = ra
	default:
		nl.parent[rb] = ra
		nl.rank[ra]++
	}
	return nil
}

// Name attaches a net name to the net containing p. When several pins of
// one net carry names, the lexically smallest wins.
func (nl *Netlist) Name(p Pin, name string) error {
	key := pinKey(p)
	if _, ok := nl.byKey[key]; !ok {
		return fmt.Errorf("netlist: pin %s: %w", key, modelerr.ErrLookupFailure)
	}
	nl.names[key] = name
	return nil
}

// Find returns the representative pin of the net containing p.
func (nl *Netlist) Find(p Pin) (Pin, error) {
	root, err := nl.root(p)
	if err != nil {
		return Pin{}, err
	}
	return nl.byKey[root], nil
}

func (nl *Netlist) root(p Pin) (string, error) {
	key := pinKey(p)
	if _, ok := nl.parent[key]; !ok {
		return "", fmt.Errorf("netlist: pin %s: %w", key, modelerr.ErrLookupFailure)
	}
	root := key
	for nl.parent[root] != root {
		root = nl.parent[root]
	}
	for key != root {
		next := nl.parent[key]
		nl.parent[key] = root
		key = next
	}
	return root, nil
}

// Finalize groups pins into nets. Single-pin nets are dropped unless
// keepSingletons is set. Codes are assigned from 1 in order of each net's
// first pin.
func (nl *Netlist) Finalize(keepSingletons bool) {
	groups := make(map[string][]Pin)
	for _, p := range nl.pins {
		root, _ := nl.root(p)
		groups[root] = append(groups[root], p)
	}

	nl.Nets = make([]*Net, 0, len(groups))
	for root, pins := range groups {
		if len(pins) < 2 && !keepSingletons {
			continue
		}
		slices.SortFunc(pins, comparePins)
		nl.Nets = append(nl.Nets, &Net{Name: nl.netName(root), Pins: pins})
	}
	slices.SortFunc(nl.Nets, func(a, b *Net) int {
		return comparePins(a.Pins[0], b.Pins[0])
	})
	for i, n := range nl.Nets {
		n.Code = i + 1
		if n.Name == "" {
			n.Name = fmt.Sprintf("Net-%d", n.Code)
		}
	}
}

func (nl *Netlist) netName(root string) string {
	var best string
	for key, name := range nl.names {
		if r, _ := nl.root(nl.byKey[key]); r != root {
			continue
		}
		if best == "" || name < best {
			best = name
		}
	}
	return best
}

// NetCount returns the number of nets. Only valid after Finalize.
func (nl *Netlist) NetCount() int { return len(nl.Nets) }

// PinCount returns the number of pins in nets. Only valid after Finalize.
func (nl *Netlist) PinCount() int {
	n := 0
	for _, net := range nl.Nets {
		n += len(net.Pins)
	}
	return n
}

// Clone returns an independent copy.
func (nl *Netlist) Clone() *Netlist {
	c := New(nl.pins)
	for k, v := range nl.parent {
		c.parent[k] = v
	}
	for k, v := range nl.rank {
		c.rank[k] = v
	}
	for k, v := range nl.names {
		c.names[k] = v
	}
	if nl.Nets != nil {
		c.Nets = make([]*Net, len(nl.Nets))
		for i, n := range nl.Nets {
			c.Nets[i] = &Net{Code: n.Code, Name: n.Name, Pins: slices.Clone(n.Pins)}
		}
	}
	return c
}

// ExportJSON renders the finalized netlist as JSON.
func (nl *Netlist) ExportJSON() ([]byte, error) {
	if nl.Nets == nil {
		return nil, fmt.Errorf("netlist: not finalized: %w", modelerr.ErrPreconditionViolation)
	}
	out := struct {
		Version     string `json:"version"`
		NetCount    int    `json:"net_count"`
		PinCount    int    `json:"pin_count"`
		Nets        []*Net `json:"nets"`
		GeneratedBy string `json:"generated_by"`
	}{
		Version:     "1.0",
		NetCount:    nl.NetCount(),
		PinCount:    nl.PinCount(),
		Nets:        nl.Nets,
		GeneratedBy: "degate logic model",
	}
	return json.MarshalIndent(out, "", "  ")
}

func comparePins(a, b Pin) int {
	if c := strings.Compare(a.Ref, b.Ref); c != 0 {
		return c
	}
	return strings.Compare(a.Pin, b.Pin)
}

func pinKey(p Pin) string {
	return p.Ref + ":" + p.Pin
}
