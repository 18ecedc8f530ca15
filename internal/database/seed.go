package database

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskapi/internal/model"
)

// Seeder wipes and repopulates the database with demo data.
type Seeder struct {
	db *gorm.DB
}

func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	if err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	if err := s.SeedTasks(); err != nil {
		return fmt.Errorf("failed to seed tasks: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedUsers creates five demo users, all with the password "password".
func (s *Seeder) SeedUsers() error {
	if err := s.db.Exec("TRUNCATE TABLE users").Error; err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []model.User{
		{Name: "Admin User", Email: "admin@example.com", HashedPassword: string(hash)},
		{Name: "John Doe", Email: "john@example.com", HashedPassword: string(hash)},
		{Name: "Jane Smith", Email: "jane@example.com", HashedPassword: string(hash)},
		{Name: "Bob Wilson", Email: "bob@example.com", HashedPassword: string(hash)},
		{Name: "Alice Johnson", Email: "alice@example.com", HashedPassword: string(hash)},
	}

	if err := s.db.Create(&users).Error; err != nil {
		return err
	}

	log.Printf("✅ Successfully created %d users!", len(users))
	log.Println("📧 You can login with any seeded email and password: \"password\"")
	return nil
}

// SeedTasks creates forty demo tasks spread across statuses, priorities
// and due dates. Titles are numbered to stay unique.
func (s *Seeder) SeedTasks() error {
	if err := s.db.Exec("TRUNCATE TABLE tasks").Error; err != nil {
		return err
	}

	subjects := []string{
		"Write project proposal",
		"Review pull requests",
		"Prepare sprint demo",
		"Update API documentation",
		"Fix flaky integration test",
		"Plan team retrospective",
		"Refactor billing module",
		"Audit dependency licenses",
	}

	tasks := make([]model.Task, 0, 40)
	for i := 0; i < 40; i++ {
		task := model.Task{
			Title:       fmt.Sprintf("%s #%d", subjects[i%len(subjects)], i+1),
			Description: fmt.Sprintf("Auto-generated demo task number %d", i+1),
			Status:      model.TaskStatuses[i%len(model.TaskStatuses)],
			Priority:    model.TaskPriorities[i%len(model.TaskPriorities)],
		}
		// У каждой третьей задачи нет срока
		if i%3 != 0 {
			due := time.Now().AddDate(0, 0, i%14+1)
			due = time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
			task.DueDate = &due
		}
		tasks = append(tasks, task)
	}

	if err := s.db.Create(&tasks).Error; err != nil {
		return err
	}

	log.Printf("✅ Successfully created %d dummy tasks!", len(tasks))
	return nil
}
