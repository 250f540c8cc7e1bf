package parser

// Region is an open speculative region. It must be closed with Exit in LIFO
// order with respect to other regions of the same parser.
type Region[T Unit] struct {
	p      *Parser[T]
	depth  int
	serial uint64
}

// checkpoint is a saved state tagged with the serial of the region that
// pushed it.
type checkpoint struct {
	state  State
	serial uint64
}

// Enter saves the cursor state on the checkpoint stack.
func (p *Parser[T]) Enter() Region[T] {
	if p.opts.maxDepth > 0 && len(p.stack) >= p.opts.maxDepth {
		p.Invariant("enter", "speculation depth limit %d reached", p.opts.maxDepth)
	}
	p.serial++
	p.stack = append(p.stack, checkpoint{state: p.state, serial: p.serial})
	if p.tracing() {
		p.opts.log.Debugf("enter depth=%d at %s", len(p.stack), p.Position())
	}
	return Region[T]{p: p, depth: len(p.stack), serial: p.serial}
}

// open reports whether r owns the top of the checkpoint stack.
func (r Region[T]) open() bool {
	s := r.p.stack
	return len(s) == r.depth && s[len(s)-1].serial == r.serial
}

// Exit closes the region. On failure the cursor is restored to the state
// saved by Enter; on success the consumption is kept.
func (r Region[T]) Exit(ok bool) {
	p := r.p
	if p == nil {
		panic(&InvariantError{Op: "exit", Message: "region was never entered", Caller: callerOutside()})
	}
	if len(p.stack) == 0 {
		p.Invariant("exit", "no speculative region is open")
	}
	if len(p.stack) != r.depth {
		p.Invariant("exit", "region at depth %d closed while depth is %d", r.depth, len(p.stack))
	}
	top := len(p.stack) - 1
	if p.stack[top].serial != r.serial {
		p.Invariant("exit", "region at depth %d is already closed", r.depth)
	}
	saved := p.stack[top].state
	p.stack = p.stack[:top]
	if !ok {
		p.state = saved
	}
	if p.tracing() {
		if ok {
			p.opts.log.Debugf("commit depth=%d at %s", r.depth, p.Position())
		} else {
			p.opts.log.Debugf("rollback depth=%d to %s", r.depth, p.Position())
		}
	}
}

// Depth returns the number of open regions.
func (p *Parser[T]) Depth() int {
	return len(p.stack)
}
