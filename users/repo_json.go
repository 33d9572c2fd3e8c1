package users

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/waterloosec/student-portal/internal/errors"
)

const loginsFileName = "logins.json"

// JSONRepo reads the registered-users list from a flat JSON document.
// The file is re-read on every call: the underlying store is immutable
// for the lifetime of a deployment, so concurrent reads need no locking.
type JSONRepo struct {
	folder   string
	validate *validator.Validate
}

var _ Repo = (*JSONRepo)(nil)

func NewJSONRepo(dataFolder string) *JSONRepo {
	return &JSONRepo{
		folder:   dataFolder,
		validate: validator.New(),
	}
}

type loginsDocument struct {
	Users []User `json:"users"`
}

func (r *JSONRepo) load() ([]User, error) {
	path := filepath.Join(r.folder, loginsFileName)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrDataLoad, "reading %s: %v", loginsFileName, err)
	}

	var doc loginsDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrDataLoad, "parsing %s: %v", loginsFileName, err)
	}

	for i, u := range doc.Users {
		if err := r.validate.Struct(u); err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrDataLoad, "user record %d in %s is invalid: %v", i, loginsFileName, err)
		}
	}

	return doc.Users, nil
}

func (r *JSONRepo) GetByPhone(phone string) (*User, error) {
	all, err := r.load()
	if err != nil {
		return nil, err
	}
	// Phone numbers are unique within the list; first match wins.
	for i := range all {
		if all[i].Phone == phone {
			return &all[i], nil
		}
	}
	return nil, apperrors.Wrapf(apperrors.ErrNotFound, "no user with phone %q", phone)
}

func (r *JSONRepo) GetByEmail(email string) (*User, error) {
	all, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Email == email {
			return &all[i], nil
		}
	}
	return nil, apperrors.Wrapf(apperrors.ErrNotFound, "no user with email %q", email)
}

func (r *JSONRepo) List() ([]User, error) {
	return r.load()
}
