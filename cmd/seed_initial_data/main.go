package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"quiz-gate/cmd/seed_initial_data/internal/seedmodels"
	"quiz-gate/internal/adapter"
	"quiz-gate/internal/cache"
	"quiz-gate/internal/config"
	"quiz-gate/internal/database"
	"quiz-gate/internal/domain"
	"quiz-gate/internal/logger"
	"quiz-gate/internal/repository"
	"quiz-gate/internal/service"

	"go.uber.org/zap"
)

const defaultSeedFilePath = "config/seed_data/courses.json"

func main() {
	seedFile := flag.String("file", defaultSeedFilePath, "path to the course seed JSON file")
	flag.Parse()

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

	db, err := database.NewSQLXOracleDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()

	log.Info("Loading seed data from file", zap.String("path", *seedFile))
	byteValue, err := os.ReadFile(*seedFile)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", *seedFile), zap.Error(err))
	}

	var courses []seedmodels.SeedCourse
	if err := json.Unmarshal(byteValue, &courses); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}
	log.Info("Successfully unmarshalled seed data", zap.Int("courses_loaded", len(courses)))

	// Cached definitions are dropped after each course so the API serves the new quiz.
	var definitionCache domain.Cache
	if redisClient, err := cache.NewRedisClient(cfg.Redis); err != nil {
		log.Warn("Redis unavailable, skipping cache invalidation", zap.Error(err))
	} else {
		defer redisClient.Close()
		definitionCache = adapter.NewRedisCacheAdapter(redisClient)
	}

	catalog := repository.NewSQLXCourseCatalogRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)
	quizDefinitions := service.NewQuizDefinitionService(repository.NewSQLXQuizRepository(db), definitionCache, cfg.Quiz.DefinitionCacheTTL)

	failed := 0
	for _, course := range courses {
		if err := seedCourse(ctx, txManager, catalog, course); err != nil {
			failed++
			log.Error("Error seeding course, transaction rolled back", zap.String("course_id", course.CourseID), zap.Error(err))
			continue
		}
		if err := quizDefinitions.Invalidate(ctx, course.CourseID); err != nil {
			log.Warn("Failed to invalidate cached quiz definition", zap.String("course_id", course.CourseID), zap.Error(err))
		}
		log.Info("Seeded course",
			zap.String("course_id", course.CourseID),
			zap.Int("questions", len(course.Questions)),
			zap.Int("videos", len(course.Videos)))
	}

	if failed > 0 {
		log.Fatal("Seeding finished with errors", zap.Int("failed", failed), zap.Int("total", len(courses)))
	}
	log.Info("Initial data seeding process completed.")
}

func seedCourse(ctx context.Context, txManager domain.TransactionManager, catalog domain.CourseCatalogWriter, course seedmodels.SeedCourse) error {
	def, err := course.QuizDefinition()
	if err != nil {
		return err
	}
	videos, err := course.CourseVideos()
	if err != nil {
		return err
	}

	return txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := catalog.SaveQuizDefinition(txCtx, def); err != nil {
			return err
		}
		for i := range videos {
			if err := catalog.SaveCourseVideo(txCtx, &videos[i]); err != nil {
				return err
			}
		}
		return nil
	})
}
