package results

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/waterloosec/student-portal/internal/errors"
)

const resultsFileName = "results.json"

// JSONRepo reads the results dataset from a flat JSON document. Like
// the registered-users list, the file is re-read on every call and is
// immutable for the lifetime of a deployment.
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

type resultsDocument struct {
	Students []Student `json:"students"`
}

func (r *JSONRepo) List() ([]Student, error) {
	path := filepath.Join(r.folder, resultsFileName)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrDataLoad, "reading %s: %v", resultsFileName, err)
	}

	var doc resultsDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrDataLoad, "parsing %s: %v", resultsFileName, err)
	}

	for i, s := range doc.Students {
		if err := r.validate.Struct(s); err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrDataLoad, "student record %d in %s is invalid: %v", i, resultsFileName, err)
		}
	}

	return doc.Students, nil
}
