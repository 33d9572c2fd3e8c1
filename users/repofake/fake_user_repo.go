package fakeuserrepo

import (
	"sync"

	apperrors "github.com/waterloosec/student-portal/internal/errors"
	"github.com/waterloosec/student-portal/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	records []users.User
	lock    sync.RWMutex
}

func NewFakeUserRepo(records ...users.User) *FakeUserRepo {
	return &FakeUserRepo{records: records}
}

func (f *FakeUserRepo) Add(u users.User) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.records = append(f.records, u)
}

func (f *FakeUserRepo) GetByPhone(phone string) (*users.User, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()
	for i := range f.records {
		if f.records[i].Phone == phone {
			u := f.records[i]
			return &u, nil
		}
	}
	return nil, apperrors.Wrapf(apperrors.ErrNotFound, "no user with phone %q", phone)
}

func (f *FakeUserRepo) GetByEmail(email string) (*users.User, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()
	for i := range f.records {
		if f.records[i].Email == email {
			u := f.records[i]
			return &u, nil
		}
	}
	return nil, apperrors.Wrapf(apperrors.ErrNotFound, "no user with email %q", email)
}

func (f *FakeUserRepo) List() ([]users.User, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()
	out := make([]users.User, len(f.records))
	copy(out, f.records)
	return out, nil
}
