package vtrace

// ProgressFunc receives tracing progress as a fraction in [0, 1]. It is
// invoked synchronously from the tracing pipeline; callers must not
// reenter the engine from inside the callback.
type ProgressFunc func(fraction float64)

// progress reports into a sub-interval of the overall unit range, so
// that nested stages can subdivide their share without knowing about
// each other.
type progress struct {
	fn     ProgressFunc
	lo, hi float64
}

func newProgress(fn ProgressFunc) progress {
	return progress{fn: fn, lo: 0, hi: 1}
}

// sub returns a reporter covering [lo, hi] of this reporter's range,
// with lo and hi given as fractions in [0, 1].
func (p progress) sub(lo, hi float64) progress {
	span := p.hi - p.lo
	return progress{
		fn: p.fn,
		lo: p.lo + lo*span,
		hi: p.lo + hi*span,
	}
}

// report emits a fraction of this reporter's range.
func (p progress) report(fraction float64) {
	if p.fn == nil {
		return
	}
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	p.fn(p.lo + fraction*(p.hi-p.lo))
}
