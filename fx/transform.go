package fx

import (
	"gonum.org/v1/gonum/mat"
)

// Axis identifies which direction a path hop traverses the transformation
// matrix.
type Axis int

const (
	AxisRow Axis = iota
	AxisCol
)

// Hop is one step of a curve-chain path discovered by recursiveChain.
type Hop struct {
	Axis  Axis
	Index int
}

// buildTransform validates an fx_curves key set against a currency index
// and builds the q x q 0/1 transformation matrix T: rows are cash
// currencies, columns are collateral currencies, T[cash,coll]=1 iff
// fx_curves contains "<cash><coll>".
func buildTransform(op string, ci *currencyIndex, curves map[string]Curve) ([][]int, error) {
	q := ci.len()
	t := make([][]int, q)
	for i := range t {
		t[i] = make([]int, q)
	}
	ones := 0
	for key := range curves {
		cash, coll, ok := splitPair(key)
		if !ok {
			return nil, newError(op, ErrSpecification, "fx_curves key %q must be 6 characters", key)
		}
		cashIdx, ok1 := ci.idx(cash)
		collIdx, ok2 := ci.idx(coll)
		if !ok1 || !ok2 {
			return nil, newError(op, ErrUnknownCurrency, "fx_curves contains an unexpected currency: %s/%s", cash, coll)
		}
		if t[cashIdx][collIdx] == 0 {
			ones++
		}
		t[cashIdx][collIdx] = 1
	}

	want := 2*q - 1
	if ones > want {
		return nil, newError(op, ErrSpecification, "fx_curves is overspecified: %d curves expected, %d provided", want, len(curves))
	}
	if ones < want {
		return nil, newError(op, ErrSpecification, "fx_curves is underspecified: %d curves expected, %d provided", want, len(curves))
	}
	if rank(t) != q {
		return nil, newError(op, ErrLinearDependence, "fx_curves contains co-dependent rates")
	}
	return t, nil
}

// rank computes the numerical rank of a 0/1 matrix via gonum's SVD. gonum
// is the linear-algebra library present in the retrieved corpus; hand
// rolling rank via cofactor expansion or a bespoke RREF would reinvent
// what it already provides well-tested (see DESIGN.md).
func rank(t [][]int) int {
	n := len(t)
	flat := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			flat[i*n+j] = float64(t[i][j])
		}
	}
	m := mat.NewDense(n, n, flat)
	var svd mat.SVD
	if !svd.Factorize(m, mat.SVDNone) {
		return 0
	}
	values := svd.Values(nil)
	const tol = 1e-9
	r := 0
	for _, v := range values {
		if v > tol {
			r++
		}
	}
	return r
}

// recursiveChain finds a sequence of curve hops leading from currency
// index start to currency index search, depth-first, visiting candidate
// indices in ascending order. It returns (path, true) on success or
// (nil, false) if no path exists.
func recursiveChain(t [][]int, start, search int) ([]Hop, bool) {
	return chainFrom(t, start, search, []int{start}, nil)
}

func chainFrom(t [][]int, start, search int, visited []int, path []Hop) ([]Hop, bool) {
	n := len(t)
	var rowPaths, colPaths []int
	for j := 0; j < n; j++ {
		if t[start][j] == 1 {
			rowPaths = append(rowPaths, j)
		}
	}
	for i := 0; i < n; i++ {
		if t[i][start] == 1 {
			colPaths = append(colPaths, i)
		}
	}
	for _, j := range rowPaths {
		if j == search {
			return append(append([]Hop(nil), path...), Hop{Axis: AxisRow, Index: search}), true
		}
	}
	for _, i := range colPaths {
		if i == search {
			return append(append([]Hop(nil), path...), Hop{Axis: AxisCol, Index: search}), true
		}
	}

	isVisited := func(idx int) bool {
		for _, v := range visited {
			if v == idx {
				return true
			}
		}
		return false
	}

	type branch struct {
		axis Axis
		idx  int
	}
	var branches []branch
	for _, j := range rowPaths {
		branches = append(branches, branch{AxisRow, j})
	}
	for _, i := range colPaths {
		branches = append(branches, branch{AxisCol, i})
	}

	for _, br := range branches {
		if br.idx == start || br.idx == search || isVisited(br.idx) {
			continue
		}
		nextVisited := append(append([]int(nil), visited...), br.idx)
		nextPath := append(append([]Hop(nil), path...), Hop{Axis: br.axis, Index: br.idx})
		if found, ok := chainFrom(t, br.idx, search, nextVisited, nextPath); ok {
			return found, true
		}
	}
	return nil, false
}
