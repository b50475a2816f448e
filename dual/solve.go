package dual

import (
	"fmt"
	"math"

	"github.com/meenmo/fxcore/fxconfig"
)

// Matrix is a dense, row-major q x q matrix of dual cells, per the "avoid
// broadcast machinery; write the solver directly" guidance: no generic
// matrix library understands the dual field, so the solver below is
// hand-rolled Gaussian elimination rather than delegated to a numerics
// package.
type Matrix struct {
	N     int
	cells []Number
}

// NewMatrix returns an N x N matrix of order-0 zero cells.
func NewMatrix(n int) *Matrix {
	return &Matrix{N: n, cells: make([]Number, n*n)}
}

func (m *Matrix) At(i, j int) Number     { return m.cells[i*m.N+j] }
func (m *Matrix) Set(i, j int, v Number) { m.cells[i*m.N+j] = v }

// Solve returns x such that A*x = b, propagating gradients of every x[i]
// with respect to every variable appearing anywhere in A or b. It performs
// Gaussian elimination with partial pivoting on |value|; every elimination
// step is a dual subtraction/multiplication, so sensitivities ride along
// automatically instead of needing a separate adjoint pass.
func Solve(a *Matrix, b []Number) ([]Number, error) {
	n := a.N
	if len(b) != n {
		return nil, fmt.Errorf("dual.Solve: b has length %d, want %d", len(b), n)
	}
	// Work on a private copy so the caller's matrix/vector are untouched.
	rows := make([][]Number, n)
	for i := 0; i < n; i++ {
		rows[i] = make([]Number, n)
		for j := 0; j < n; j++ {
			rows[i][j] = a.At(i, j)
		}
	}
	rhs := make([]Number, n)
	copy(rhs, b)

	pivotEps := fxconfig.GetConfig().SolverPivotEpsilon
	for col := 0; col < n; col++ {
		pivotRow := col
		pivotAbs := math.Abs(rows[col][col].Value())
		for r := col + 1; r < n; r++ {
			if v := math.Abs(rows[r][col].Value()); v > pivotAbs {
				pivotAbs = v
				pivotRow = r
			}
		}
		if pivotAbs < pivotEps {
			return nil, fmt.Errorf("dual.Solve: singular matrix at column %d", col)
		}
		if pivotRow != col {
			rows[col], rows[pivotRow] = rows[pivotRow], rows[col]
			rhs[col], rhs[pivotRow] = rhs[pivotRow], rhs[col]
		}
		pivot := rows[col][col]
		for r := col + 1; r < n; r++ {
			if rows[r][col].Value() == 0 && rows[r][col].Order() == 0 {
				continue
			}
			factor := rows[r][col].Div(pivot)
			for k := col; k < n; k++ {
				rows[r][k] = rows[r][k].Sub(factor.Mul(rows[col][k]))
			}
			rhs[r] = rhs[r].Sub(factor.Mul(rhs[col]))
		}
	}

	x := make([]Number, n)
	for i := n - 1; i >= 0; i-- {
		sum := rhs[i]
		for j := i + 1; j < n; j++ {
			sum = sum.Sub(rows[i][j].Mul(x[j]))
		}
		x[i] = sum.Div(rows[i][i])
	}
	return x, nil
}
