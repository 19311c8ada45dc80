// Package milp wraps GLPK's mixed-integer programming interface behind a
// small model-building API: boolean and bounded integer columns, linear
// rows, and a single minimized objective. One Model is built, solved once
// with a wall-clock budget, and discarded.
package milp

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lukpank/go-glpk/glpk"
)

// DefaultBudget bounds a solve when the caller does not supply a budget.
const DefaultBudget = 10 * time.Second

type Status int

const (
	Unknown Status = iota
	Optimal
	Feasible
	Infeasible
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case Feasible:
		return "feasible"
	case Infeasible:
		return "infeasible"
	default:
		return "unknown"
	}
}

// Var is a 1-based GLPK column index.
type Var int32

type Term struct {
	Var  Var
	Coef float64
}

type Model struct {
	lp   *glpk.Prob
	cols int
	rows int
	obj  map[Var]float64

	started atomic.Bool
	delOnce sync.Once
}

func New(name string) *Model {
	lp := glpk.New()
	lp.SetProbName(name)
	lp.SetObjDir(glpk.ObjDir(glpk.MIN))

	return &Model{
		lp:  lp,
		obj: make(map[Var]float64),
	}
}

// Close frees the underlying problem. After Solve has been called the
// solver goroutine owns cleanup and Close is a no-op.
func (m *Model) Close() {
	if m.started.Load() {
		return
	}
	m.delOnce.Do(m.lp.Delete)
}

func (m *Model) NumVars() int {
	return m.cols
}

// BoolVar adds a binary column.
func (m *Model) BoolVar(name string) Var {
	m.lp.AddCols(1)
	m.cols++
	m.lp.SetColName(m.cols, name)
	m.lp.SetColKind(m.cols, glpk.VarType(glpk.BV))
	return Var(m.cols)
}

// IntVar adds an integer column bounded to [lo, hi].
func (m *Model) IntVar(name string, lo, hi int) Var {
	m.lp.AddCols(1)
	m.cols++
	m.lp.SetColName(m.cols, name)
	m.lp.SetColKind(m.cols, glpk.VarType(glpk.IV))
	if lo == hi {
		m.lp.SetColBnds(m.cols, glpk.BndsType(glpk.FX), float64(lo), float64(hi))
	} else {
		m.lp.SetColBnds(m.cols, glpk.BndsType(glpk.DB), float64(lo), float64(hi))
	}
	return Var(m.cols)
}

// Equal adds the row sum(terms) == rhs.
func (m *Model) Equal(name string, terms []Term, rhs float64) {
	m.addRow(name, terms, glpk.BndsType(glpk.FX), rhs, rhs)
}

// AtMost adds the row sum(terms) <= ub.
func (m *Model) AtMost(name string, terms []Term, ub float64) {
	m.addRow(name, terms, glpk.BndsType(glpk.UP), 0, ub)
}

// AtLeast adds the row sum(terms) >= lb.
func (m *Model) AtLeast(name string, terms []Term, lb float64) {
	m.addRow(name, terms, glpk.BndsType(glpk.LO), lb, 0)
}

func (m *Model) addRow(name string, terms []Term, kind glpk.BndsType, lo, hi float64) {
	m.lp.AddRows(1)
	m.rows++
	m.lp.SetRowName(m.rows, name)
	m.lp.SetRowBnds(m.rows, kind, lo, hi)

	ind := make([]int32, len(terms))
	val := make([]float64, len(terms))
	for i, t := range terms {
		ind[i] = int32(t.Var)
		val[i] = t.Coef
	}
	m.lp.SetMatRow(m.rows, ind, val)
}

// AddObjective accumulates coef onto the variable's objective coefficient.
// Several penalty terms may touch the same column.
func (m *Model) AddObjective(v Var, coef float64) {
	m.obj[v] += coef
}

type Solution struct {
	Status    Status
	Objective float64

	values []float64
}

func (s *Solution) Value(v Var) float64 {
	if s.values == nil || int(v) >= len(s.values) {
		return 0
	}
	return s.values[v]
}

func (s *Solution) IsTrue(v Var) bool {
	return s.Value(v) > 0.5
}

// Solve runs the search once with a wall-clock budget. The GLPK binding
// exposes no solver-side time limit, so the search runs on a worker
// goroutine; on budget expiry the model is abandoned and the result is
// Unknown. The worker frees the problem when it eventually returns.
func (m *Model) Solve(budget time.Duration) (*Solution, error) {
	if m.started.Swap(true) {
		return nil, fmt.Errorf("milp: model already solved")
	}
	if budget <= 0 {
		budget = DefaultBudget
	}

	for v, coef := range m.obj {
		m.lp.SetObjCoef(int(v), coef)
	}

	type outcome struct {
		sol *Solution
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		sol, err := m.runSearch()
		m.delOnce.Do(m.lp.Delete)
		done <- outcome{sol: sol, err: err}
	}()

	select {
	case out := <-done:
		return out.sol, out.err
	case <-time.After(budget):
		return &Solution{Status: Unknown}, nil
	}
}

func (m *Model) runSearch() (*Solution, error) {
	// Solve the LP relaxation first so Intopt can start branch-and-cut
	// from the simplex basis.
	smcp := glpk.NewSmcp()
	smcp.SetMsgLev(glpk.MsgLev(glpk.MSG_ERR))
	if err := m.lp.Simplex(smcp); err != nil {
		return nil, fmt.Errorf("milp: simplex: %w", err)
	}

	switch m.lp.Status() {
	case glpk.NOFEAS, glpk.INFEAS:
		return &Solution{Status: Infeasible}, nil
	}

	iocp := glpk.NewIocp()
	iocp.SetMsgLev(glpk.MsgLev(glpk.MSG_ERR))
	if err := m.lp.Intopt(iocp); err != nil {
		return nil, fmt.Errorf("milp: intopt: %w", err)
	}

	sol := &Solution{}
	switch m.lp.MipStatus() {
	case glpk.OPT:
		sol.Status = Optimal
	case glpk.FEAS:
		sol.Status = Feasible
	case glpk.NOFEAS:
		sol.Status = Infeasible
	default:
		sol.Status = Unknown
	}

	if sol.Status == Optimal || sol.Status == Feasible {
		sol.Objective = m.lp.MipObjVal()
		sol.values = make([]float64, m.cols+1)
		for j := 1; j <= m.cols; j++ {
			sol.values[j] = m.lp.MipColVal(j)
		}
	}

	return sol, nil
}
