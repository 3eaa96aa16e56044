package procs

// Func is a single-step Proc.
type Func[C any] func(ctx C) error

var _ Proc[any] = Func[any](nil)

func (f Func[C]) Run(ctx C) (Proc[C], error) {
	return nil, f(ctx)
}

// Run steps proc until it returns no continuation or fails.
func Run[C any](ctx C, proc Proc[C]) error {
	for proc != nil {
		next, err := proc.Run(ctx)
		if err != nil {
			return err
		}
		proc = next
	}
	return nil
}
