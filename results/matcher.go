package results

import (
	"fmt"
	"math"
	"sort"
	"strings"

	apperrors "github.com/waterloosec/student-portal/internal/errors"
)

// NotFoundError reports a display name that matched no student at any
// tier. KnownNames carries the dataset's student names so the failure
// stays user-actionable; callers decide whether to expose the list.
type NotFoundError struct {
	Name       string
	KnownNames []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no results found for %q", e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return apperrors.ErrNotFound
}

// Match locates the student record for a display name. The three tiers
// are applied in strict order, first match wins:
//
//  1. exact string equality on name
//  2. case-insensitive equality
//  3. case-insensitive containment of the display name's first token
//     within a candidate's full name
func Match(students []Student, displayName string) (*Student, error) {
	for i := range students {
		if students[i].Name == displayName {
			return &students[i], nil
		}
	}

	lowerName := strings.ToLower(displayName)
	for i := range students {
		if strings.ToLower(students[i].Name) == lowerName {
			return &students[i], nil
		}
	}

	if firstToken := strings.ToLower(firstField(displayName)); firstToken != "" {
		for i := range students {
			if strings.Contains(strings.ToLower(students[i].Name), firstToken) {
				return &students[i], nil
			}
		}
	}

	names := make([]string, 0, len(students))
	for _, s := range students {
		names = append(names, s.Name)
	}
	return nil, &NotFoundError{Name: displayName, KnownNames: names}
}

func firstField(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Total sums all of a student's score values.
func Total(s Student) int {
	total := 0
	for _, score := range s.Scores {
		total += score
	}
	return total
}

// Average is the total divided by the count of present scores, rounded
// to the nearest integer. A student with no scores averages 0 rather
// than dividing by zero.
func Average(s Student) int {
	if len(s.Scores) == 0 {
		return 0
	}
	return int(math.Round(float64(Total(s)) / float64(len(s.Scores))))
}

// Rank is the student's 1-based class position: all students are
// stable-sorted by total score descending and the rank is 1 plus the
// count of strictly-higher totals preceding the student's position.
// Ties are not broken; the stable sort preserves dataset order among
// equal totals, so two tied students both rank ahead of the next
// strictly-lower total.
func Rank(students []Student, name string) int {
	ranked := make([]Student, len(students))
	copy(ranked, students)
	sort.SliceStable(ranked, func(i, j int) bool {
		return Total(ranked[i]) > Total(ranked[j])
	})

	pos := -1
	for i := range ranked {
		if ranked[i].Name == name {
			pos = i
			break
		}
	}
	if pos < 0 {
		return 0
	}

	matchedTotal := Total(ranked[pos])
	rank := 1
	for i := 0; i < pos; i++ {
		if Total(ranked[i]) > matchedTotal {
			rank++
		}
	}
	return rank
}

// SubjectResult is one row of a student's score table.
type SubjectResult struct {
	Subject string `json:"subject"`
	Score   int    `json:"score"`
	Grade   Grade  `json:"grade"`
	Status  Status `json:"status"`
}

// Report is the computed view of one student's results.
type Report struct {
	Name      string          `json:"name"`
	Total     int             `json:"total"`
	Average   int             `json:"average"`
	Rank      int             `json:"rank"`
	ClassSize int             `json:"classSize"`
	Subjects  []SubjectResult `json:"subjects"`
}

// Matcher computes result reports against the results dataset.
type Matcher struct {
	repo Repo
}

func NewMatcher(repo Repo) *Matcher {
	return &Matcher{repo: repo}
}

// ReportFor matches the display name against the dataset and computes
// the student's score table, aggregate total, average and class rank.
// Matching is idempotent: the same dataset and name always yield the
// same report.
func (m *Matcher) ReportFor(displayName string) (*Report, error) {
	students, err := m.repo.List()
	if err != nil {
		return nil, err
	}

	student, err := Match(students, displayName)
	if err != nil {
		return nil, err
	}

	subjects := make([]SubjectResult, 0, len(student.Scores))
	for subject, score := range student.Scores {
		subjects = append(subjects, SubjectResult{
			Subject: subject,
			Score:   score,
			Grade:   GradeFor(score),
			Status:  StatusFor(score),
		})
	}
	// Map iteration order is random; keep the table deterministic.
	sort.Slice(subjects, func(i, j int) bool {
		return subjects[i].Subject < subjects[j].Subject
	})

	return &Report{
		Name:      student.Name,
		Total:     Total(*student),
		Average:   Average(*student),
		Rank:      Rank(students, student.Name),
		ClassSize: len(students),
		Subjects:  subjects,
	}, nil
}
