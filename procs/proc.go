package procs

// Proc is a step over the state C. Run returns the step to continue with,
// or nil when the procedure is done.
type Proc[C any] interface {
	Run(state C) (next Proc[C], err error)
}
