// Package catalog defines the static academy course: units, lesson nodes and
// their quiz questions.
package catalog

import (
	"errors"
	"fmt"
)

// Catalog is an immutable, validated course with precomputed indices.
type Catalog struct {
	units   []Unit
	order   []Node
	index   map[string]int
	unitOf  map[string]string
	unitIdx map[string]int
}

// New validates units and builds a Catalog.
func New(units []Unit) (*Catalog, error) {
	if err := Validate(units); err != nil {
		return nil, err
	}

	c := &Catalog{
		units:   units,
		index:   make(map[string]int),
		unitOf:  make(map[string]string),
		unitIdx: make(map[string]int, len(units)),
	}
	for ui, u := range units {
		c.unitIdx[u.ID] = ui
		for _, n := range u.Nodes {
			c.index[n.ID] = len(c.order)
			c.unitOf[n.ID] = u.ID
			c.order = append(c.order, n)
		}
	}
	return c, nil
}

// MustNew is New for static course definitions; it panics on invalid input.
func MustNew(units []Unit) *Catalog {
	c, err := New(units)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return c
}

// Validate checks the structural invariants of a course: globally unique
// node ids, well-formed nodes, unique option ids and exactly one correct
// option per question. All violations are reported together.
func Validate(units []Unit) error {
	var errs []error
	seenUnits := make(map[string]bool)
	seenNodes := make(map[string]bool)

	for _, u := range units {
		if u.ID == "" {
			errs = append(errs, errors.New("unit with empty id"))
		} else if seenUnits[u.ID] {
			errs = append(errs, fmt.Errorf("duplicate unit id %q", u.ID))
		}
		seenUnits[u.ID] = true

		for _, n := range u.Nodes {
			if n.ID == "" {
				errs = append(errs, fmt.Errorf("unit %s: node with empty id", u.ID))
				continue
			}
			if seenNodes[n.ID] {
				errs = append(errs, fmt.Errorf("duplicate node id %q", n.ID))
			}
			seenNodes[n.ID] = true

			switch n.Kind {
			case KindLesson:
				if len(n.Content) == 0 {
					errs = append(errs, fmt.Errorf("node %s: lesson has no content", n.ID))
				}
				for i, b := range n.Content {
					switch b := b.(type) {
					case TextBlock:
					case QuizBlock:
						errs = append(errs, validateQuestion(fmt.Sprintf("node %s block %d", n.ID, i), b.Question)...)
					default:
						errs = append(errs, fmt.Errorf("node %s block %d: unknown block %T", n.ID, i, b))
					}
				}
			case KindQuizReview:
				if len(n.Questions) == 0 {
					errs = append(errs, fmt.Errorf("node %s: quiz review has no questions", n.ID))
				}
				for i, q := range n.Questions {
					errs = append(errs, validateQuestion(fmt.Sprintf("node %s question %d", n.ID, i), q)...)
				}
			default:
				errs = append(errs, fmt.Errorf("node %s: unknown kind %q", n.ID, n.Kind))
			}
		}
	}
	return errors.Join(errs...)
}

func validateQuestion(where string, q Question) []error {
	var errs []error
	correct := 0
	ids := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if ids[o.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate option id %q", where, o.ID))
		}
		ids[o.ID] = true
		if o.Correct {
			correct++
		}
	}
	if correct != 1 {
		errs = append(errs, fmt.Errorf("%s: %d correct options, want exactly 1", where, correct))
	}
	return errs
}

// Units returns the units in course order.
func (c *Catalog) Units() []Unit {
	out := make([]Unit, len(c.units))
	copy(out, c.units)
	return out
}

// Unit returns the unit with the given id.
func (c *Catalog) Unit(id string) (Unit, bool) {
	i, ok := c.unitIdx[id]
	if !ok {
		return Unit{}, false
	}
	return c.units[i], true
}

// Flatten returns every node in catalog order: unit order, then node order
// within the unit. This is the unlock order.
func (c *Catalog) Flatten() []Node {
	out := make([]Node, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of nodes.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Node returns the node with the given id.
func (c *Catalog) Node(id string) (Node, bool) {
	i, ok := c.index[id]
	if !ok {
		return Node{}, false
	}
	return c.order[i], true
}

// Position returns the index of id in the flattened order.
func (c *Catalog) Position(id string) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}

// At returns the node at position i of the flattened order.
func (c *Catalog) At(i int) (Node, bool) {
	if i < 0 || i >= len(c.order) {
		return Node{}, false
	}
	return c.order[i], true
}

// UnitOf returns the id of the unit containing node id.
func (c *Catalog) UnitOf(id string) (string, bool) {
	u, ok := c.unitOf[id]
	return u, ok
}

// NodeIDs returns the node ids of a unit in order.
func (c *Catalog) NodeIDs(unitID string) []string {
	u, ok := c.Unit(unitID)
	if !ok {
		return nil
	}
	ids := make([]string, len(u.Nodes))
	for i, n := range u.Nodes {
		ids[i] = n.ID
	}
	return ids
}
