package repository

import (
	"sync"

	"github.com/krakosik/guessing/internal/model"
)

type tallyRecorder struct {
	mu      sync.Mutex
	tallies []model.Tally
	errs    []error
}

func (r *tallyRecorder) observe(tally model.Tally, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		r.errs = append(r.errs, err)
		return
	}
	r.tallies = append(r.tallies, tally)
}

func (r *tallyRecorder) last() (model.Tally, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.tallies) == 0 {
		return model.Tally{}, false
	}
	return r.tallies[len(r.tallies)-1], true
}

func (r *tallyRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.tallies)
}

func (r *tallyRecorder) seen(want model.Tally) func() bool {
	return func() bool {
		got, ok := r.last()
		return ok && got == want
	}
}

func (r *tallyRecorder) failures() []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]error(nil), r.errs...)
}
