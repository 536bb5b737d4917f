package dto

import "quiz-master/internal/domain"

// CreateQuizRequest is the request body for creating a quiz.
// StartTime uses the "2006-01-02T15:04" layout; when empty the quiz starts
// at the creation instant. End time is always derived from duration.
type CreateQuizRequest struct {
	ChapterID   string `json:"chapter_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	StartTime   string `json:"start_time"`
}

// UpdateQuizRequest is the request body for updating a quiz.
// Nil fields are left unchanged. Changing either Duration or StartTime
// recomputes the end time.
type UpdateQuizRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Duration    *int    `json:"duration"`
	StartTime   *string `json:"start_time"`
}

// QuizResponse represents a quiz in the API response
type QuizResponse struct {
	ID             string `json:"id"`
	ChapterID      string `json:"chapter_id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Duration       int    `json:"duration"`
	StartTime      string `json:"start_time,omitempty"`
	EndTime        string `json:"end_time,omitempty"`
	Status         string `json:"status"`
	QuestionsCount int    `json:"questions_count"`
}

// CreateQuestionRequest is the request body for creating a question
type CreateQuestionRequest struct {
	QuizID        string   `json:"quiz_id"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Marks         int      `json:"marks"`
}

// UpdateQuestionRequest is the request body for updating a question
type UpdateQuestionRequest struct {
	QuestionText  *string   `json:"question_text"`
	Options       *[]string `json:"options"`
	CorrectAnswer *int      `json:"correct_answer"`
	Marks         *int      `json:"marks"`
}

// QuestionResponse represents a question in the API response. The correct
// answer index is included only on the admin surface.
type QuestionResponse struct {
	ID            string   `json:"id"`
	QuizID        string   `json:"quiz_id"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correct_answer,omitempty"`
	Marks         int      `json:"marks"`
}

// AvailableQuizResponse is one active quiz on the student surface
type AvailableQuizResponse struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Duration         int    `json:"duration"`
	ChapterID        string `json:"chapter_id"`
	ChapterName      string `json:"chapter_name"`
	SubjectID        string `json:"subject_id"`
	SubjectName      string `json:"subject_name"`
	QuestionsCount   int    `json:"questions_count"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	RemainingMinutes int    `json:"remaining_time"`
	Status           string `json:"status"`
}

// StudentQuizDetailResponse is an active quiz with its questions, correct
// answer indexes stripped.
type StudentQuizDetailResponse struct {
	AvailableQuizResponse
	Questions []QuestionResponse `json:"questions"`
}

// SubmitQuizRequest is the request body for submitting answers. StartedAt is
// optional ("2006-01-02T15:04:05"); when absent the attempt duration is zero.
type SubmitQuizRequest struct {
	Answers   domain.SubmittedAnswers `json:"answers"`
	StartedAt string                  `json:"started_at"`
}

// SubmitQuizResponse is the scored result returned to the student
type SubmitQuizResponse struct {
	AttemptID     string                 `json:"attempt_id"`
	Score         float64                `json:"score"`
	TotalMarks    int                    `json:"total_marks"`
	ScoredMarks   int                    `json:"scored_marks"`
	ResponseSheet []domain.ResponseEntry `json:"questions"`
}
