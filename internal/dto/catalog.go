package dto

// CreateSubjectRequest is the request body for creating a subject
type CreateSubjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateSubjectRequest is the request body for updating a subject.
// Nil fields are left unchanged.
type UpdateSubjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// SubjectResponse represents a subject in the API response
type SubjectResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	ChaptersCount int    `json:"chapters_count"`
}

// CreateChapterRequest is the request body for creating a chapter
type CreateChapterRequest struct {
	SubjectID   string `json:"subject_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateChapterRequest is the request body for updating a chapter
type UpdateChapterRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// ChapterResponse represents a chapter in the API response
type ChapterResponse struct {
	ID           string `json:"id"`
	SubjectID    string `json:"subject_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	QuizzesCount int    `json:"quizzes_count"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse carries a human-readable confirmation
type MessageResponse struct {
	Message string `json:"message"`
}
