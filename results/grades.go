package results

// Grade is a letter grade band with inclusive lower bounds:
// 90 A, 80 B, 70 C, 60 D, 50 E, else F.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
	GradeF Grade = "F"
)

// Status is the per-subject pass/fail outcome at the 50 mark.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// GradeFor returns the letter grade band for a score.
func GradeFor(score int) Grade {
	switch {
	case score >= 90:
		return GradeA
	case score >= 80:
		return GradeB
	case score >= 70:
		return GradeC
	case score >= 60:
		return GradeD
	case score >= 50:
		return GradeE
	default:
		return GradeF
	}
}

// StatusFor returns pass for scores of 50 or more, otherwise fail.
func StatusFor(score int) Status {
	if score >= 50 {
		return StatusPass
	}
	return StatusFail
}
