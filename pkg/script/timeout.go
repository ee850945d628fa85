package script

import (
	"sync"
	"sync/atomic"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/pkg/errors"
)

// EvalTimeout is the hard limit for a single evaluation
const EvalTimeout = 5 * time.Second

// errCancelled unwinds a run that timed out or was superseded
var errCancelled = errors.New("evaluation cancelled")

type evalResult struct {
	result *Result
	errors []EvalError
	err    error
}

// cancelHook runs before every function call and panics once stop is set.
// zygomys has no way to interrupt Run, so a runaway loop ends at its next call.
func cancelHook(stop *atomic.Bool) zygo.PreHook {
	return func(*zygo.Zlisp, string, []zygo.Sexp) {
		if stop.Load() {
			panic(errCancelled)
		}
	}
}

// waitWithTimeout waits for the evaluation on ch. A result whose generation is
// no longer current is discarded; a run that outlives timeout is stopped and
// its result dropped.
func waitWithTimeout(ch <-chan evalResult, gen uint64, timeout time.Duration, stop *atomic.Bool, mu *sync.Mutex, currentGen *uint64) (*Result, []EvalError, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()
		if gen != current {
			return nil, nil, errors.New("evaluation superseded by newer request")
		}
		return res.result, res.errors, res.err

	case <-timer.C:
		stop.Store(true)
		return nil, nil, errors.Errorf("evaluation timed out after %s", timeout)
	}
}
