// Package lp models small linear programs as explicit affine rows and hands
// them to compiled-in backends.
//
// A Problem is an arena: callers append nonnegative variables and affine rows
// incrementally and set a maximization objective. Backends consume the arena
// read-only, so one Problem may be offered to several backends in turn.
package lp

import "fmt"

// Variable is a decision variable. Every variable is bounded below by zero; a
// nil Upper leaves it unbounded above.
type Variable struct {
	Name  string
	Upper *float64
}

// Term is one coefficient of an affine row.
type Term struct {
	Var   int
	Coeff float64
}

// Row is an affine constraint Lower <= sum(Coeff*x) <= Upper. Either bound may
// be nil; equal non-nil bounds make the row an equality.
type Row struct {
	Name  string
	Terms []Term
	Lower *float64
	Upper *float64
}

// Problem is a linear program with a maximization objective.
type Problem struct {
	Vars      []Variable
	Rows      []Row
	Objective []float64
}

// NewProblem returns an empty arena.
func NewProblem() *Problem {
	return &Problem{}
}

// AddVariable appends a nonnegative variable and returns its index.
func (p *Problem) AddVariable(name string, upper *float64) int {
	p.Vars = append(p.Vars, Variable{Name: name, Upper: upper})
	p.Objective = append(p.Objective, 0)
	return len(p.Vars) - 1
}

// SetObjective assigns the objective coefficient for one variable.
func (p *Problem) SetObjective(variable int, coeff float64) {
	p.Objective[variable] = coeff
}

// AddRow appends an affine constraint and returns its index.
func (p *Problem) AddRow(name string, terms []Term, lower, upper *float64) int {
	p.Rows = append(p.Rows, Row{Name: name, Terms: terms, Lower: lower, Upper: upper})
	return len(p.Rows) - 1
}

// Value evaluates the objective at a candidate point.
func (p *Problem) Value(x []float64) float64 {
	var total float64
	for i, c := range p.Objective {
		total += c * x[i]
	}
	return total
}

func (p *Problem) validate() error {
	if len(p.Vars) == 0 {
		return fmt.Errorf("lp: problem has no variables")
	}
	for _, row := range p.Rows {
		for _, term := range row.Terms {
			if term.Var < 0 || term.Var >= len(p.Vars) {
				return fmt.Errorf("lp: row %s references unknown variable %d", row.Name, term.Var)
			}
		}
	}
	return nil
}
