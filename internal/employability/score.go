package employability

// Score is the weighted mean of factor scores rounded half up to an integer.
// It is 0 when the total weight is 0. Inputs outside [0,100] are clamped.
func Score(factors []Factor) int {
	var weighted, total int
	for _, f := range factors {
		weight := clamp(f.Weight)
		weighted += clamp(f.Score) * weight
		total += weight
	}

	if total == 0 {
		return 0
	}

	return roundDiv(weighted, total)
}

// Grade is the letter tier of an aggregate score.
type Grade struct {
	Letter string `json:"grade"`
	Label  string `json:"label"`
}

var grades = []struct {
	floor int
	grade Grade
}{
	{floor: 90, grade: Grade{Letter: "A", Label: "Top Talent"}},
	{floor: 80, grade: Grade{Letter: "B", Label: "Highly Employable"}},
	{floor: 70, grade: Grade{Letter: "C", Label: "Employable"}},
	{floor: 60, grade: Grade{Letter: "D", Label: "Needs Improvement"}},
}

var gradeAtRisk = Grade{Letter: "E", Label: "At Risk"}

// GradeFor maps a score to its grade. Lower bounds are inclusive.
func GradeFor(score int) Grade {
	for _, g := range grades {
		if score >= g.floor {
			return g.grade
		}
	}
	return gradeAtRisk
}

// roundDiv rounds num/den half up for non-negative num and positive den.
func roundDiv(num, den int) int {
	return (2*num + den) / (2 * den)
}
