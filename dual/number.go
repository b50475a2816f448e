package dual

import (
	"math"
	"sort"
)

// pair is a normalized unordered key into a Hessian map: A is always the
// smaller VarID so (v,w) and (w,v) hash identically.
type pair struct {
	A, B VarID
}

func makePair(v, w VarID) pair {
	if v <= w {
		return pair{v, w}
	}
	return pair{w, v}
}

// Number is a dual scalar: a real value plus, at order 1, its gradient with
// respect to a named set of variables, and at order 2, its Hessian. Entries
// absent from grad/hess are implicitly zero.
type Number struct {
	order int
	value float64
	grad  map[VarID]float64
	hess  map[pair]float64
}

// NewConstant lifts a plain float to an order-0 dual with no sensitivities.
func NewConstant(v float64) Number {
	return Number{value: v}
}

// NewVariable creates an order-`order` dual representing an independent
// variable: value v, gradient 1 with respect to its own name, zero
// elsewhere. order must be 0, 1, or 2.
func NewVariable(v float64, name string, order int) Number {
	n := Number{value: v, order: order}
	if order >= 1 {
		id := Intern(name)
		n.grad = map[VarID]float64{id: 1}
	}
	return n
}

func (n Number) Value() float64 { return n.value }
func (n Number) Order() int     { return n.order }

// Grad returns dn/dvar, or 0 if var does not appear in n.
func (n Number) Grad(id VarID) float64 {
	if n.grad == nil {
		return 0
	}
	return n.grad[id]
}

// GradByName is Grad keyed by variable name rather than interned VarID.
func (n Number) GradByName(name string) float64 {
	return n.Grad(Intern(name))
}

// Hess returns d2n/dv dw, or 0 if the pair does not appear in n.
func (n Number) Hess(v, w VarID) float64 {
	if n.hess == nil {
		return 0
	}
	return n.hess[makePair(v, w)]
}

// Vars returns the sorted set of variables with a (possibly zero, but
// present) gradient or Hessian entry on n.
func (n Number) Vars() []VarID {
	seen := make(map[VarID]struct{})
	for id := range n.grad {
		seen[id] = struct{}{}
	}
	for p := range n.hess {
		seen[p.A] = struct{}{}
		seen[p.B] = struct{}{}
	}
	ids := make([]VarID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// unionVars gathers every variable that could carry a nonzero chain-rule
// contribution from either operand: everything in either gradient plus
// everything referenced by either Hessian (the latter matters when combine
// has dropped an operand's zero gradient entry for a variable that its
// Hessian still names, e.g. x*x at x = 0).
func unionVars(a, b Number) []VarID {
	seen := make(map[VarID]struct{})
	for id := range a.grad {
		seen[id] = struct{}{}
	}
	for id := range b.grad {
		seen[id] = struct{}{}
	}
	for p := range a.hess {
		seen[p.A] = struct{}{}
		seen[p.B] = struct{}{}
	}
	for p := range b.hess {
		seen[p.A] = struct{}{}
		seen[p.B] = struct{}{}
	}
	ids := make([]VarID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	return ids
}

func maxOrder(a, b Number) int {
	if a.order > b.order {
		return a.order
	}
	return b.order
}

// combine builds the dual result of y = f(a, b) given the value of f and,
// for order >= 1, the first partials (fa, fb) and, for order 2, the second
// partials (faa, fbb, fab). Unary operations call this with b a constant
// and fb/fbb/fab zero.
func combine(a, b Number, value, fa, fb, faa, fbb, fab float64) Number {
	order := maxOrder(a, b)
	y := Number{value: value, order: order}
	if order == 0 {
		return y
	}
	y.grad = make(map[VarID]float64)
	vars := unionVars(a, b)
	for _, v := range vars {
		g := fa*a.Grad(v) + fb*b.Grad(v)
		if g != 0 {
			y.grad[v] = g
		}
	}
	if order == 1 {
		return y
	}
	y.hess = make(map[pair]float64)
	for i, v := range vars {
		for _, w := range vars[i:] {
			h := fa*a.Hess(v, w) + fb*b.Hess(v, w) +
				faa*a.Grad(v)*a.Grad(w) + fbb*b.Grad(v)*b.Grad(w) +
				fab*(a.Grad(v)*b.Grad(w)+a.Grad(w)*b.Grad(v))
			if h != 0 {
				y.hess[makePair(v, w)] = h
			}
		}
	}
	return y
}

// Add returns a + b.
func (a Number) Add(b Number) Number {
	return combine(a, b, a.value+b.value, 1, 1, 0, 0, 0)
}

// Sub returns a - b.
func (a Number) Sub(b Number) Number {
	return combine(a, b, a.value-b.value, 1, -1, 0, 0, 0)
}

// Mul returns a * b.
func (a Number) Mul(b Number) Number {
	return combine(a, b, a.value*b.value, b.value, a.value, 0, 0, 1)
}

// Div returns a / b.
func (a Number) Div(b Number) Number {
	v := a.value / b.value
	fa := 1 / b.value
	fb := -a.value / (b.value * b.value)
	fbb := 2 * a.value / (b.value * b.value * b.value)
	fab := -1 / (b.value * b.value)
	return combine(a, b, v, fa, fb, 0, fbb, fab)
}

// Neg returns -a.
func (a Number) Neg() Number {
	return combine(a, NewConstant(0), -a.value, -1, 0, 0, 0, 0)
}

// Pow returns a**p for a constant real exponent p.
func (a Number) Pow(p float64) Number {
	v := pow(a.value, p)
	fa := p * pow(a.value, p-1)
	faa := p * (p - 1) * pow(a.value, p-2)
	return combine(a, NewConstant(0), v, fa, 0, faa, 0, 0)
}

func pow(base, exp float64) float64 {
	return math.Pow(base, exp)
}

// UnaryOp returns the dual of y = f(a) given f's value and its first and
// second derivatives at a.value, using the same chain rule combine every
// other operation in this file is built on. It exists so collaborators
// outside this package (e.g. a curve's log-linear interpolation) can lift
// an arbitrary smooth scalar function onto a Number without reaching into
// unexported machinery.
func UnaryOp(a Number, f, fPrime, fDoublePrime func(float64) float64) Number {
	v := a.value
	return combine(a, NewConstant(0), f(v), fPrime(v), 0, fDoublePrime(v), 0, 0)
}

// AddFloat, SubFloat etc. let a plain float64 participate without an
// explicit NewConstant wrap at call sites; every constant still lifts into
// the dual field before combining, so arithmetic stays closed.
func (a Number) AddFloat(v float64) Number { return a.Add(NewConstant(v)) }
func (a Number) SubFloat(v float64) Number { return a.Sub(NewConstant(v)) }
func (a Number) MulFloat(v float64) Number { return a.Mul(NewConstant(v)) }
func (a Number) DivFloat(v float64) Number { return a.Div(NewConstant(v)) }

// LessThan compares real parts only; gradients play no part in ordering.
func (a Number) LessThan(b Number) bool { return a.value < b.value }

// SetOrder projects or extends n to the requested AD order. Raising the
// order does not synthesize new sensitivity information (there is none to
// recover); lowering it truncates gradient/Hessian data.
func SetOrder(n Number, order int) Number {
	if order == n.order {
		return n
	}
	out := Number{value: n.value, order: order}
	if order >= 1 && n.grad != nil {
		out.grad = make(map[VarID]float64, len(n.grad))
		for k, v := range n.grad {
			out.grad[k] = v
		}
	}
	if order >= 2 && n.hess != nil {
		out.hess = make(map[pair]float64, len(n.hess))
		for k, v := range n.hess {
			out.hess[k] = v
		}
	}
	return out
}

// FromFloat lifts a plain float to a dual at the given AD order with no
// named sensitivities, e.g. for curve discount-factor nodes that do not
// themselves depend on any fx_<pair> variable.
func FromFloat(v float64, order int) Number {
	return Number{value: v, order: order}
}
