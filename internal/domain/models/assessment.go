// internal/domain/models/assessment.go
package models

// Assessment audiences.
const (
	AssessmentTypeTeacher = "teacher"
	AssessmentTypeStudent = "student"
)

// Assessment is a fixed set of multiple-choice questions.
type Assessment struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Type        string     `json:"type"`
	Questions   []Question `json:"questions"`
	InstituteID string     `json:"instituteId"`
}

// RecordID implements records.Record.
func (a Assessment) RecordID() string { return a.ID }

// Question is scored by exact match of the selected option index against
// CorrectAnswer.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// Redacted returns a copy with every CorrectAnswer hidden, for handing an
// assessment to the person taking it.
func (a Assessment) Redacted() Assessment {
	qs := make([]Question, len(a.Questions))
	for i, q := range a.Questions {
		q.CorrectAnswer = -1
		qs[i] = q
	}
	a.Questions = qs
	return a
}
