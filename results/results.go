package results

// Student is one record in the results dataset: a name and a mapping of
// subject to numeric score. The scores map has no required schema; an
// empty or absent map is tolerated everywhere.
type Student struct {
	Name   string         `json:"name" validate:"required"`
	Scores map[string]int `json:"scores"`
}

type Repo interface {
	List() ([]Student, error)
}
