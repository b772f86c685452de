// Package scoring grades assessments and records marks.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/dalemusser/thinkedge/internal/app/store/records"
	"github.com/dalemusser/thinkedge/internal/domain/models"
)

// UnknownStudent is the identity used when a deep link names no student.
// Marks are never recorded for it.
const UnknownStudent = "Unknown"

// Answers maps question id to the selected option index.
type Answers map[string]int

// Result is the outcome of one submission.
type Result struct {
	AssessmentID string `json:"assessmentId"`
	StudentID    string `json:"studentId"`
	Correct      int    `json:"correct"`
	Total        int    `json:"total"`
	Score        int    `json:"score"`
	Recorded     bool   `json:"recorded"` // marks written to a user record
}

// Count returns how many questions were answered with the correct option.
// Unanswered questions count as wrong.
func Count(a models.Assessment, answers Answers) int {
	correct := 0
	for _, q := range a.Questions {
		if sel, ok := answers[q.ID]; ok && sel == q.CorrectAnswer {
			correct++
		}
	}
	return correct
}

// Score returns round(100 × correct / total). An assessment with no
// questions scores 0.
func Score(a models.Assessment, answers Answers) int {
	total := len(a.Questions)
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(Count(a, answers)) / float64(total)))
}

// Submit scores answers against a and, when studentID names an existing
// user, stores the score in that user's marks under a.ID. A later
// submission for the same assessment overwrites the earlier mark.
func Submit(ctx context.Context, rs *records.Store, a models.Assessment, studentID string, answers Answers) (Result, error) {
	res := Result{
		AssessmentID: a.ID,
		StudentID:    studentID,
		Correct:      Count(a, answers),
		Total:        len(a.Questions),
		Score:        Score(a, answers),
	}
	if studentID == "" || studentID == UnknownStudent {
		return res, nil
	}

	err := rs.Users().Update(ctx, func(users []models.User) ([]models.User, error) {
		for i := range users {
			if users[i].ID != studentID {
				continue
			}
			if users[i].Marks == nil {
				users[i].Marks = make(map[string]int)
			}
			users[i].Marks[a.ID] = res.Score
			res.Recorded = true
			return users, nil
		}
		return nil, errNoStudent
	})
	if errors.Is(err, errNoStudent) {
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("record marks for %s: %w", studentID, err)
	}
	return res, nil
}

var errNoStudent = errors.New("student not found")
