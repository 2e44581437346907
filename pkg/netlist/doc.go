// Package netlist exports the connectivity of a logic model.
//
// A Netlist is a union-find over pins. It is filled either from a
// logicmodel.LogicModel (FromModel) or from a KiCad netlist file
// (ParseKiCad), and after Finalize it can be written as JSON or as a KiCad
// S-expression netlist.
//
// Example:
//
//	nl, err := netlist.FromModel(model, netlist.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	err = nl.WriteKiCad(os.Stdout)
//
// Pins are identified by component reference and pin name. Gates without a
// name are referenced as the RefPrefix followed by the gate's object ID;
// electrical markers become single-pin components with pin "1".
package netlist
