// Package dual implements forward-mode automatic differentiation over a
// small, named set of sensitivity variables ("fx_<pair>" in the fx
// package), plus a Gaussian-elimination linear solver that runs directly in
// the dual field so gradients propagate through matrix inversion exactly.
package dual

// VarID is an interned handle for a sensitivity variable name. Interning
// keeps Number comparisons and map keys cheap relative to carrying the raw
// string on every arithmetic result.
type VarID int32

// registry interns variable names to VarIDs. The package keeps a single
// process-wide registry: the core is single-threaded end to end (see the
// concurrency notes on fx.Rates.Update and fx.Forwards.Update), so a
// shared, lock-free table is
// safe and avoids threading a registry handle through every constructor.
type registry struct {
	names []string
	index map[string]VarID
}

func newRegistry() *registry {
	return &registry{index: make(map[string]VarID)}
}

func (r *registry) intern(name string) VarID {
	if id, ok := r.index[name]; ok {
		return id
	}
	id := VarID(len(r.names))
	r.names = append(r.names, name)
	r.index[name] = id
	return id
}

func (r *registry) name(id VarID) string {
	return r.names[id]
}

var global = newRegistry()

// Intern returns the stable VarID for a variable name, assigning one on
// first use.
func Intern(name string) VarID {
	return global.intern(name)
}

// Name returns the variable name an Intern call previously assigned to id.
func Name(id VarID) string {
	return global.name(id)
}
