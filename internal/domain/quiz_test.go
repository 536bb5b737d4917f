package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuiz_DerivesEndTime(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	quiz := NewQuiz("ch1", "Algebra Basics", "", 45, &start)

	require.NotNil(t, quiz.StartTime)
	require.NotNil(t, quiz.EndTime)
	assert.Equal(t, start, *quiz.StartTime)
	assert.Equal(t, start.Add(45*time.Minute), *quiz.EndTime)
	assert.Equal(t, 45, quiz.Duration)
}

func TestNewQuiz_DefaultsStartToNow(t *testing.T) {
	before := time.Now()
	quiz := NewQuiz("ch1", "Algebra Basics", "", 30, nil)
	after := time.Now()

	require.NotNil(t, quiz.StartTime)
	assert.False(t, quiz.StartTime.Before(before))
	assert.False(t, quiz.StartTime.After(after))
	assert.Equal(t, quiz.StartTime.Add(30*time.Minute), *quiz.EndTime)
}

func TestSetSchedule_RecomputesEnd(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	quiz := NewQuiz("ch1", "Algebra Basics", "", 45, &start)

	newStart := start.Add(2 * time.Hour)
	quiz.SetSchedule(newStart, 60)

	assert.Equal(t, newStart, *quiz.StartTime)
	assert.Equal(t, newStart.Add(60*time.Minute), *quiz.EndTime)
	assert.Equal(t, 60, quiz.Duration)
}

func TestQuizStatusAt(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	quiz := &Quiz{StartTime: &start, EndTime: &end, Duration: 30}

	tests := []struct {
		name string
		now  time.Time
		want QuizStatus
	}{
		{"before start", start.Add(-time.Minute), StatusScheduled},
		{"exactly at start", start, StatusActive},
		{"mid window", start.Add(15 * time.Minute), StatusActive},
		{"exactly at end", end, StatusActive},
		{"after end", end.Add(time.Second), StatusExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quiz.StatusAt(tt.now))
		})
	}
}

func TestQuizStatusAt_DraftWithoutSchedule(t *testing.T) {
	quiz := &Quiz{}
	assert.Equal(t, StatusDraft, quiz.StatusAt(time.Now()))
	assert.False(t, quiz.IsActiveAt(time.Now()))
}

func TestQuizValidate(t *testing.T) {
	start := time.Now()
	valid := NewQuiz("ch1", "Title", "", 30, &start)
	assert.NoError(t, valid.Validate())

	missingChapter := NewQuiz("", "Title", "", 30, &start)
	assert.Error(t, missingChapter.Validate())

	missingTitle := NewQuiz("ch1", "", "", 30, &start)
	assert.Error(t, missingTitle.Validate())

	badDuration := &Quiz{ChapterID: "ch1", Title: "Title", Duration: 0}
	assert.Error(t, badDuration.Validate())
}

func TestNewQuestion_DefaultsMarks(t *testing.T) {
	q := NewQuestion("quiz1", "1+1?", []string{"1", "2"}, 1, 0)
	assert.Equal(t, 1, q.Marks)

	q = NewQuestion("quiz1", "1+1?", []string{"1", "2"}, 1, 5)
	assert.Equal(t, 5, q.Marks)
}

func TestQuestionValidate(t *testing.T) {
	valid := NewQuestion("quiz1", "1+1?", []string{"1", "2"}, 1, 1)
	assert.NoError(t, valid.Validate())

	tooFewOptions := NewQuestion("quiz1", "1+1?", []string{"2"}, 0, 1)
	assert.Error(t, tooFewOptions.Validate())

	indexTooHigh := NewQuestion("quiz1", "1+1?", []string{"1", "2"}, 2, 1)
	assert.Error(t, indexTooHigh.Validate())

	negativeIndex := NewQuestion("quiz1", "1+1?", []string{"1", "2"}, -1, 1)
	assert.Error(t, negativeIndex.Validate())
}

func TestAttemptDurationMinutes(t *testing.T) {
	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	completed := started.Add(12*time.Minute + 30*time.Second)
	attempt := NewQuizAttempt("quiz1", "user1", 80, nil, nil, started, completed)

	d := attempt.DurationMinutes()
	require.NotNil(t, d)
	assert.Equal(t, 12.5, *d)

	open := &QuizAttempt{StartedAt: started}
	assert.Nil(t, open.DurationMinutes())
}
