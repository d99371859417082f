package models

// StudentProfile defines the student extension based on the 'student_profiles' table
type StudentProfile struct {
	ID                 int64                  `json:"id" db:"id"`
	UserID             int64                  `json:"userId" db:"user_id"`
	TargetUniversities []string               `json:"targetUniversities" db:"target_universities"`
	TestScores         map[string]interface{} `json:"testScores" db:"test_scores"` // opaque, e.g. {"SAT": 1450}
}
