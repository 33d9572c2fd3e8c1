package fakeresultsrepo

import (
	"sync"

	"github.com/waterloosec/student-portal/results"
)

var _ results.Repo = (*FakeResultsRepo)(nil)

type FakeResultsRepo struct {
	students []results.Student
	err      error
	lock     sync.RWMutex
}

func NewFakeResultsRepo(students ...results.Student) *FakeResultsRepo {
	return &FakeResultsRepo{students: students}
}

// FailWith makes every List call return err.
func (f *FakeResultsRepo) FailWith(err error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.err = err
}

func (f *FakeResultsRepo) List() ([]results.Student, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]results.Student, len(f.students))
	copy(out, f.students)
	return out, nil
}
