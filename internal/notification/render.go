package notification

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"
)

// ReminderData fills the inactivity reminder message.
type ReminderData struct {
	Username string
}

// MonthlyReportData fills the monthly performance report message.
type MonthlyReportData struct {
	Username         string
	TotalQuizzes     int
	AvgScore         float64
	TotalTimeMinutes float64
	GeneratedAt      time.Time
}

// CompletionData fills the quiz completion acknowledgement.
type CompletionData struct {
	Username       string
	QuizTitle      string
	Score          float64
	TimeTaken      float64
	CorrectAnswers int
	TotalQuestions int
}

// Message is a rendered notification: subject plus both representations.
type Message struct {
	Subject string
	HTML    string
	Text    string
}

// Renderer turns structured report data into deliverable messages.
// Rendering is template substitution only; no business logic lives here.
type Renderer struct {
	reminderHTML   *htmltemplate.Template
	reminderText   *texttemplate.Template
	reportHTML     *htmltemplate.Template
	reportText     *texttemplate.Template
	completionHTML *htmltemplate.Template
	completionText *texttemplate.Template
}

// NewRenderer parses all message templates.
func NewRenderer() *Renderer {
	return &Renderer{
		reminderHTML:   htmltemplate.Must(htmltemplate.New("reminder").Parse(reminderHTMLTmpl)),
		reminderText:   texttemplate.Must(texttemplate.New("reminder").Parse(reminderTextTmpl)),
		reportHTML:     htmltemplate.Must(htmltemplate.New("report").Parse(reportHTMLTmpl)),
		reportText:     texttemplate.Must(texttemplate.New("report").Parse(reportTextTmpl)),
		completionHTML: htmltemplate.Must(htmltemplate.New("completion").Parse(completionHTMLTmpl)),
		completionText: texttemplate.Must(texttemplate.New("completion").Parse(completionTextTmpl)),
	}
}

// Reminder renders the inactivity reminder.
func (r *Renderer) Reminder(data ReminderData) (Message, error) {
	html, text, err := render(r.reminderHTML, r.reminderText, data)
	if err != nil {
		return Message{}, err
	}
	return Message{Subject: "Quiz Activity Reminder", HTML: html, Text: text}, nil
}

// MonthlyReport renders the monthly performance report.
func (r *Renderer) MonthlyReport(data MonthlyReportData) (Message, error) {
	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = time.Now()
	}
	html, text, err := render(r.reportHTML, r.reportText, data)
	if err != nil {
		return Message{}, err
	}
	return Message{Subject: "Monthly Performance Report", HTML: html, Text: text}, nil
}

// Completion renders the quiz completion acknowledgement.
func (r *Renderer) Completion(data CompletionData) (Message, error) {
	html, text, err := render(r.completionHTML, r.completionText, data)
	if err != nil {
		return Message{}, err
	}
	return Message{Subject: "Quiz Completed!", HTML: html, Text: text}, nil
}

func render(html *htmltemplate.Template, text *texttemplate.Template, data any) (string, string, error) {
	var htmlBuf, textBuf bytes.Buffer
	if err := html.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to render html body: %w", err)
	}
	if err := text.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to render text body: %w", err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}

const reminderHTMLTmpl = `<html>
<body style="font-family: Arial, sans-serif; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
<h2 style="color: #2c3e50;">Quiz Activity Reminder</h2>
<p>Hello {{.Username}},</p>
<p>We noticed you haven't taken any quizzes recently. Stay on track with your learning journey!</p>
<ul>
<li>Set aside 30 minutes daily for quizzes</li>
<li>Try different subjects to maintain variety</li>
<li>Track your progress regularly</li>
</ul>
<p>Ready to get back to learning? Login now to explore new quizzes!</p>
<p style="color: #666;">Best regards,<br>Quiz Master Team</p>
</div>
</body>
</html>`

const reminderTextTmpl = `Quiz Activity Reminder

Hello {{.Username}},

We noticed you haven't taken any quizzes recently. Stay on track with your learning journey!

Quick Tips:
* Set aside 30 minutes daily for quizzes
* Try different subjects to maintain variety
* Track your progress regularly

Ready to get back to learning? Login now to explore new quizzes!

Best regards,
Quiz Master Team`

const reportHTMLTmpl = `<html>
<body style="font-family: Arial, sans-serif; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
<h2 style="color: #2c3e50;">Monthly Performance Report</h2>
<p>Hello {{.Username}},</p>
<p>Here's your learning progress for the past month:</p>
<table style="width: 100%;">
<tr><td><strong>Quizzes Completed:</strong></td><td>{{.TotalQuizzes}}</td></tr>
<tr><td><strong>Average Score:</strong></td><td>{{printf "%.1f" .AvgScore}}%</td></tr>
<tr><td><strong>Total Time Invested:</strong></td><td>{{printf "%.1f" .TotalTimeMinutes}} minutes</td></tr>
</table>
<p><strong>Pro Tip:</strong> Regular practice leads to better retention. Try to attempt at least one quiz every day!</p>
<p style="color: #666;">Keep up the great work!<br>Quiz Master Team</p>
<p style="color: #999; font-size: 0.8em;">Report generated on: {{.GeneratedAt.Format "2006-01-02 15:04"}}</p>
</div>
</body>
</html>`

const reportTextTmpl = `Monthly Performance Report

Hello {{.Username}},

Here's your learning progress for the past month:

Your Statistics:
- Quizzes Completed: {{.TotalQuizzes}}
- Average Score: {{printf "%.1f" .AvgScore}}%
- Total Time Invested: {{printf "%.1f" .TotalTimeMinutes}} minutes

Pro Tip: Regular practice leads to better retention. Try to attempt at least one quiz every day!

Keep up the great work!
Quiz Master Team

Report generated on: {{.GeneratedAt.Format "2006-01-02 15:04"}}`

const completionHTMLTmpl = `<html>
<body style="font-family: Arial, sans-serif; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
<h2 style="color: #2c3e50;">Quiz Completed!</h2>
<p>Well done, {{.Username}}!</p>
<p><strong>Quiz:</strong> {{.QuizTitle}}</p>
<p><strong>Score:</strong> {{printf "%.1f" .Score}}%</p>
<p><strong>Time Taken:</strong> {{printf "%.1f" .TimeTaken}} minutes</p>
<p><strong>Correct Answers:</strong> {{.CorrectAnswers}}/{{.TotalQuestions}}</p>
<p>View your detailed results and performance analytics on the dashboard.</p>
</div>
</body>
</html>`

const completionTextTmpl = `Quiz Completed!

Well done, {{.Username}}!

Quiz Results:
- Quiz: {{.QuizTitle}}
- Score: {{printf "%.1f" .Score}}%
- Time Taken: {{printf "%.1f" .TimeTaken}} minutes
- Correct Answers: {{.CorrectAnswers}}/{{.TotalQuestions}}

View your detailed results and performance analytics on the dashboard.`
