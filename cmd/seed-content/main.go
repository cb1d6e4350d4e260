package main

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/brightpath/institute-api/internal/config"
	"github.com/brightpath/institute-api/internal/database"
	"github.com/brightpath/institute-api/internal/logger"
	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/repository"
	"github.com/brightpath/institute-api/internal/service"
)

// Seeds a demo exam, a few courses and FAQs, and the default site settings.
// Collections that already hold documents are left alone, so the tool is
// safe to re-run.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mongo, err := database.NewMongoClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer mongo.Close(context.Background())
	db := mongo.Database()

	examRepo := repository.NewExamRepository(db)
	stores := repository.NewContentStores(db)

	fmt.Println("=== Seeding site content ===")

	// ─── Exam ──────────────────────────────────────────────────────────
	var demoExam *model.Exam
	if n, err := examRepo.Count(ctx, bson.M{}); err != nil {
		log.Fatal().Err(err).Msg("Failed to count exams")
	} else if n > 0 {
		fmt.Printf("exams: %d present, skipping\n", n)
	} else {
		now := time.Now().UTC()
		exams := service.NewContentService[model.Exam, *model.Exam](examRepo)
		exam := exams.New()
		exam.Title = "Scholarship Admission Test " + now.Format("2006")
		exam.Description = "Entrance and scholarship test for the foundation batch."
		exam.RegistrationStartDate = now
		exam.RegistrationEndDate = now.AddDate(0, 1, 0)
		exam.ExamDate = now.AddDate(0, 1, 14)
		exam.ExamFee = 300
		exam.Centers = []string{"Main Campus", "City Centre"}
		exam.Languages = []string{"English", "Hindi"}
		exam.RegistrationOpen = true

		if demoExam, err = exams.Create(ctx, exam); err != nil {
			log.Fatal().Err(err).Msg("Failed to create exam")
		}
		fmt.Printf("exams: created %q (%s)\n", demoExam.Title, demoExam.ID.Hex())
	}

	// ─── Courses ───────────────────────────────────────────────────────
	courses := []model.Course{
		{Title: "Foundation (Class 9-10)", Duration: "2 years", Fee: 45000,
			Highlights: []string{"Weekly tests", "Olympiad preparation"}},
		{Title: "Engineering Entrance", Duration: "2 years", Fee: 120000,
			Highlights: []string{"Full syllabus coverage", "All-India mock tests"}},
		{Title: "Medical Entrance", Duration: "2 years", Fee: 115000,
			Highlights: []string{"NCERT-focused modules", "Doubt clearing sessions"}},
	}
	seed(ctx, "courses", stores.Courses, courses)

	// ─── FAQs ──────────────────────────────────────────────────────────
	faqs := []model.FAQ{
		{Question: "How do I register for the admission test?",
			Answer: "Fill the online form and complete the payment. Your registration number is emailed immediately.",
			Category: "registration"},
		{Question: "When can I download my hall ticket?",
			Answer: "Hall tickets open a few days before the exam. Use your registration number and email to download it.",
			Category: "exam"},
	}
	if demoExam != nil {
		for i := range faqs {
			faqs[i].ExamID = &demoExam.ID
		}
	}
	seed(ctx, "faqs", stores.FAQs, faqs)

	// ─── Settings ──────────────────────────────────────────────────────
	settings := service.NewSettingService(repository.NewSettingRepository(db), log)
	current, err := settings.GetAllSettings(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read settings")
	}
	defaults := map[string]string{
		"siteName":     "BrightPath Institute",
		"contactEmail": cfg.AdminEmail,
		"contactPhone": "+91 00000 00000",
		"address":      "Main Campus",
	}
	missing := make(map[string]string)
	for k, v := range defaults {
		if _, ok := current[k]; !ok {
			missing[k] = v
		}
	}
	if len(missing) > 0 {
		if err := settings.UpdateSettings(ctx, missing); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed settings")
		}
	}
	fmt.Printf("settings: %d added\n", len(missing))

	fmt.Println("Done.")
}

type seedStore[T any] interface {
	repository.Collection[T]
	Count(ctx context.Context, filter bson.M) (int64, error)
}

func seed[T any, P model.DocumentPtr[T]](ctx context.Context, name string, store seedStore[T], docs []T) {
	n, err := store.Count(ctx, bson.M{})
	if err != nil {
		fmt.Printf("%s: count failed: %v\n", name, err)
		return
	}
	if n > 0 {
		fmt.Printf("%s: %d present, skipping\n", name, n)
		return
	}

	svc := service.NewContentService[T, P](store)
	for i := range docs {
		doc := P(&docs[i])
		if v, ok := any(doc).(model.Visible); ok {
			v.SetActive(true)
		}
		if _, err := svc.Create(ctx, doc); err != nil {
			fmt.Printf("%s: insert failed: %v\n", name, err)
			return
		}
	}
	fmt.Printf("%s: created %d\n", name, len(docs))
}
