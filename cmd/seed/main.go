// Seeds the database with a few demo users and solve records so the
// recommendation endpoint has peer activity to score on a fresh install.
package main

import (
	"context"
	"log"
	"time"

	"grindtrack/internal/app/service"
	"grindtrack/internal/common/security"
	"grindtrack/internal/domain/model"
	"grindtrack/internal/domain/repository"
	"grindtrack/internal/platform/config"
	"grindtrack/internal/platform/database"

	"github.com/google/uuid"
)

func strptr(s string) *string { return &s }

func main() {
	config.Load()

	if err := database.Connect(); err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer database.Close()

	ctx := context.Background()
	if err := database.EnsureSchema(ctx); err != nil {
		log.Fatalf("Could not ensure database schema: %v", err)
	}

	userRepo := repository.NewPgUserRepository(database.DB)
	solvedRepo := repository.NewPgSolvedRepository(database.DB)

	hashed, err := security.HashPassword("password123")
	if err != nil {
		log.Fatalf("Could not hash demo password: %v", err)
	}

	users := []model.User{
		{ID: uuid.NewString(), Username: "alice", Email: "alice@example.com", Name: "Alice", HashedPassword: hashed, Role: model.RoleUser},
		{ID: uuid.NewString(), Username: "bob", Email: "bob@example.com", Name: "Bob", HashedPassword: hashed, Role: model.RoleUser},
		{ID: uuid.NewString(), Username: "carol", Email: "carol@example.com", Name: "Carol", HashedPassword: hashed, Role: model.RoleUser},
	}
	for i := range users {
		if err := userRepo.Create(ctx, &users[i]); err != nil {
			log.Printf("skipping user %s: %v", users[i].Username, err)
		}
	}

	now := time.Now().UTC()
	records := []model.SolvedRecord{
		{Owner: "alice", ProblemName: "TWO SUM", Topic: "Arrays", Subtopic: strptr("Two Pointers"), Difficulty: model.DifficultyEasy, SolvedAt: now.Add(-48 * time.Hour)},
		{Owner: "bob", ProblemName: "THREE SUM", Topic: "Arrays", Subtopic: strptr("Two Pointers"), Difficulty: model.DifficultyMedium, SolvedAt: now.Add(-24 * time.Hour)},
		{Owner: "carol", ProblemName: "THREE SUM", Topic: "Arrays", Subtopic: strptr("Two Pointers"), Difficulty: model.DifficultyMedium, SolvedAt: now.Add(-240 * time.Hour)},
		{Owner: "bob", ProblemName: "VALID PARENTHESES", Topic: "Strings", Subtopic: strptr("Trie"), Difficulty: model.DifficultyEasy, SolvedAt: now},
		{Owner: "carol", ProblemName: "COURSE SCHEDULE", Topic: "Graphs", Subtopic: strptr("Topological Sort"), Difficulty: model.DifficultyMedium, SolvedAt: now.Add(-12 * time.Hour)},
	}
	for i := range records {
		records[i].ID = uuid.NewString()
		if _, err := solvedRepo.Upsert(ctx, &records[i]); err != nil {
			log.Fatalf("Could not seed record %s: %v", records[i].ProblemName, err)
		}
	}

	log.Printf("Seeded %d users and %d solved records", len(users), len(records))

	// Quick smoke pass over the freshly seeded data.
	recService := service.NewRecommendationService(solvedRepo, service.NewMemoryDailyCache(), nil)
	resp, err := recService.DailyRecommendations(ctx, "alice")
	if err != nil {
		log.Fatalf("Recommendation smoke check failed: %v", err)
	}
	for _, c := range resp.Recommended {
		log.Printf("recommended for alice: %s (score %.3f)", c.ProblemName, c.Score)
	}
}
