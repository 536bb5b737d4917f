package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"quiz-master/internal/config"
	"quiz-master/internal/database"
	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/logger"
	"quiz-master/internal/repository"
	"quiz-master/internal/service"

	"go.uber.org/zap"
)

const seedFilePath = "configs/seed_data/initial_catalog.json"

type seedQuestion struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Marks         int      `json:"marks"`
}

type seedQuiz struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Duration    int            `json:"duration"`
	StartTime   string         `json:"start_time"`
	Questions   []seedQuestion `json:"questions"`
}

type seedChapter struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Quizzes     []seedQuiz `json:"quizzes"`
}

type seedSubject struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Chapters    []seedChapter `json:"chapters"`
}

type seedUser struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

type seedFile struct {
	Users    []seedUser    `json:"users"`
	Subjects []seedSubject `json:"subjects"`
}

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Starting initial data seeding process...")
	db, err := database.NewSQLXSQLiteDB(cfg.DB.Path)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	data, err := os.ReadFile(seedFilePath)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", seedFilePath), zap.Error(err))
	}
	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}

	txManager := repository.NewTransactionManagerAdapter(db)
	subjectRepo := repository.NewSQLXSubjectRepository(db)
	chapterRepo := repository.NewSQLXChapterRepository(db)
	quizRepo := repository.NewSQLXQuizRepository(db)
	questionRepo := repository.NewSQLXQuestionRepository(db)
	userRepo := repository.NewSQLXUserRepository(db)
	attemptRepo := repository.NewSQLXAttemptRepository(db)

	userService := service.NewUserService(userRepo, txManager)
	catalogService := service.NewCatalogService(subjectRepo, chapterRepo, quizRepo, questionRepo, attemptRepo, txManager)
	quizService := service.NewQuizService(chapterRepo, quizRepo, questionRepo, attemptRepo, txManager)

	for _, u := range seed.Users {
		created, err := userService.CreateUser(ctx, dto.CreateUserRequest{
			Username: u.Username,
			Email:    u.Email,
			Password: u.Password,
			Roles:    u.Roles,
		})
		if err != nil {
			var domainErr *domain.DomainError
			if errors.As(err, &domainErr) && domainErr.Code == domain.ErrConflict {
				log.Info("User already seeded, skipping", zap.String("email", u.Email))
				continue
			}
			log.Fatal("Failed to seed user", zap.String("email", u.Email), zap.Error(err))
		}
		log.Info("Seeded user", zap.String("userID", created.ID), zap.String("email", created.Email))
	}

	for _, sub := range seed.Subjects {
		subject, err := catalogService.CreateSubject(ctx, dto.CreateSubjectRequest{Name: sub.Name, Description: sub.Description})
		if err != nil {
			var domainErr *domain.DomainError
			if errors.As(err, &domainErr) && domainErr.Code == domain.ErrConflict {
				log.Info("Subject already seeded, skipping", zap.String("name", sub.Name))
				continue
			}
			log.Fatal("Failed to seed subject", zap.String("name", sub.Name), zap.Error(err))
		}

		for _, ch := range sub.Chapters {
			chapter, err := catalogService.CreateChapter(ctx, dto.CreateChapterRequest{
				SubjectID:   subject.ID,
				Name:        ch.Name,
				Description: ch.Description,
			})
			if err != nil {
				log.Fatal("Failed to seed chapter", zap.String("name", ch.Name), zap.Error(err))
			}

			for _, qz := range ch.Quizzes {
				quiz, err := quizService.CreateQuiz(ctx, dto.CreateQuizRequest{
					ChapterID:   chapter.ID,
					Title:       qz.Title,
					Description: qz.Description,
					Duration:    qz.Duration,
					StartTime:   qz.StartTime,
				})
				if err != nil {
					log.Fatal("Failed to seed quiz", zap.String("title", qz.Title), zap.Error(err))
				}

				for _, q := range qz.Questions {
					if _, err := quizService.CreateQuestion(ctx, dto.CreateQuestionRequest{
						QuizID:        quiz.ID,
						QuestionText:  q.Text,
						Options:       q.Options,
						CorrectAnswer: q.CorrectAnswer,
						Marks:         q.Marks,
					}); err != nil {
						log.Fatal("Failed to seed question", zap.String("quiz", qz.Title), zap.Error(err))
					}
				}
			}
		}
		log.Info("Seeded subject", zap.String("subjectID", subject.ID), zap.String("name", subject.Name))
	}
	log.Info("Initial data seeding process completed.")
}
