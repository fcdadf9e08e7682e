package types

import "time"

// Direction is the side of a trade or signal.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionLong
	DirectionShort
)

func (d Direction) String() string {
	switch d {
	case DirectionLong:
		return "LONG"
	case DirectionShort:
		return "SHORT"
	default:
		return "NONE"
	}
}

// FibTargets holds the Fibonacci take-profit levels for a trade.
// TP1..TP3 are the actionable targets; TP4 is the extension level kept
// for reporting.
type FibTargets struct {
	TP1 float64
	TP2 float64
	TP3 float64
	TP4 float64
}

// NamedLevel pairs a take-profit label with its price.
type NamedLevel struct {
	Name  string
	Price float64
}

// TakeProfits returns the actionable targets in the order they are checked.
func (f FibTargets) TakeProfits() []NamedLevel {
	return []NamedLevel{
		{Name: "TP1", Price: f.TP1},
		{Name: "TP2", Price: f.TP2},
		{Name: "TP3", Price: f.TP3},
	}
}

// All returns every stored level including the extension target.
func (f FibTargets) All() []NamedLevel {
	return append(f.TakeProfits(), NamedLevel{Name: "TP4", Price: f.TP4})
}

// Position describes an open trade owned by the caller. The decision
// engine never mutates it; it is passed in for each exit evaluation.
type Position struct {
	Symbol     string
	Direction  Direction
	EntryPrice float64
	Targets    FibTargets
	OpenedAt   time.Time
}

// ProfitPct returns the unrealized profit of the position at the given
// price, as a percentage of the entry price.
func (p *Position) ProfitPct(price float64) float64 {
	if p.EntryPrice == 0 {
		return 0
	}
	if p.Direction == DirectionShort {
		return (p.EntryPrice - price) / p.EntryPrice * 100
	}
	return (price - p.EntryPrice) / p.EntryPrice * 100
}
