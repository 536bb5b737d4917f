package validation

import (
	"regexp"
	"strings"

	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateID checks that a path parameter looks like a ULID.
func (v *Validator) ValidateID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError(field + " is required")
	}
	if !isValidULID(id) {
		return domain.NewValidationError(field + " is not a valid id")
	}
	return nil
}

// ValidateSubmitQuizRequest checks a submission body before it reaches the
// scoring engine. Individual answer values are not validated here; malformed
// answers score as incorrect rather than rejecting the whole submission.
func (v *Validator) ValidateSubmitQuizRequest(req dto.SubmitQuizRequest) error {
	if req.Answers == nil {
		return domain.NewValidationError("answers is required")
	}
	for questionID := range req.Answers {
		if !isValidULID(questionID) {
			return domain.NewValidationError("answers contains an invalid question id")
		}
	}
	return nil
}

// ValidateCreateQuestionRequest checks the option list and answer index
// before the domain constructor applies defaults.
func (v *Validator) ValidateCreateQuestionRequest(req dto.CreateQuestionRequest) error {
	if strings.TrimSpace(req.QuestionText) == "" {
		return domain.NewValidationError("question_text is required")
	}
	if len(req.Options) < 2 {
		return domain.NewValidationError("at least 2 options are required")
	}
	if req.CorrectAnswer < 0 || req.CorrectAnswer >= len(req.Options) {
		return domain.NewValidationError("correct_answer is out of range")
	}
	return nil
}

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	// ULID is 26 characters long, Crockford's Base32
	if len(s) != 26 {
		return false
	}
	return validULID.MatchString(s)
}

var validULID = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
