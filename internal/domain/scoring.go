package domain

import (
	"encoding/json"
	"strconv"
)

// ScoreResult is the outcome of scoring one submission.
type ScoreResult struct {
	Score         float64 // percentage, 0-100
	ScoredMarks   int
	TotalMarks    int
	ResponseSheet []ResponseEntry
}

// ScoreAttempt scores a submission against a quiz's questions. It is pure:
// given the same questions and answers it always produces the same result,
// and it never fails — missing, malformed and out-of-range answers are
// recorded as incorrect with a nil user answer. The score is
// 100 * scored / total, or 0 for a quiz with no questions.
func ScoreAttempt(questions []*Question, answers SubmittedAnswers) ScoreResult {
	result := ScoreResult{
		ResponseSheet: make([]ResponseEntry, 0, len(questions)),
	}

	for _, q := range questions {
		result.TotalMarks += q.Marks

		entry := ResponseEntry{
			QuestionID:    q.ID,
			QuestionText:  q.QuestionText,
			Options:       q.Options,
			CorrectAnswer: q.Options[q.CorrectAnswer],
			Marks:         q.Marks,
		}

		if raw, ok := answers[q.ID]; ok {
			if idx, valid := answerIndex(raw); valid && idx >= 0 && idx < len(q.Options) {
				text := q.Options[idx]
				entry.UserAnswer = &text
				if idx == q.CorrectAnswer {
					entry.IsCorrect = true
					entry.ScoredMarks = q.Marks
					result.ScoredMarks += q.Marks
				}
			}
		}

		result.ResponseSheet = append(result.ResponseSheet, entry)
	}

	if result.TotalMarks > 0 {
		result.Score = float64(result.ScoredMarks) / float64(result.TotalMarks) * 100
	}
	return result
}

// answerIndex coerces a raw submitted value to an option index. JSON decoding
// hands us float64s and strings; anything that is not an integral number or a
// numeric string is malformed.
func answerIndex(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
		return 0, false
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
