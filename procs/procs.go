package procs

// Procs runs its elements in order. A continuation replaces the current
// element in a fresh slice, so the same Procs value can be run again.
type Procs[C any] []Proc[C]

var _ Proc[any] = Procs[any]{}

func (p Procs[C]) Run(state C) (Proc[C], error) {
	if len(p) == 0 {
		return nil, nil
	}
	next, err := p[0].Run(state)
	if err != nil {
		return nil, err
	}
	if next == nil {
		if len(p) == 1 {
			return nil, nil
		}
		return p[1:], nil
	}
	return append(Procs[C]{next}, p[1:]...), nil
}
