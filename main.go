package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/signtutor/internal/catalog"
	"github.com/example/signtutor/internal/database"
	"github.com/example/signtutor/internal/excel"
	"github.com/example/signtutor/internal/predictor"
	"github.com/example/signtutor/internal/recommend"
	"github.com/example/signtutor/internal/retention"
	"github.com/example/signtutor/internal/scheduler"
	"github.com/example/signtutor/internal/selection"
	"github.com/example/signtutor/internal/session"
)

// logNotifier writes due-review reminders to the process log. A deployment
// embedding the engine replaces this with its own notification channel.
type logNotifier struct{}

func (logNotifier) NotifyDueReviews(count int) error {
	log.Printf("%d signs are due for review", count)
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	// Optional catalog import from a spreadsheet
	if path := os.Getenv("SIGNS_XLSX"); path != "" {
		result, err := excel.ImportSigns(ctx, store, excel.DefaultImportConfig(path))
		if err != nil {
			log.Fatalf("Failed to import sign catalog: %v", err)
		}
		log.Printf("Imported %d signs (%d categories, %d rows skipped)",
			result.SignsImported, result.CategoriesCreated, result.Skipped)
		for _, e := range result.Errors {
			log.Printf("Import warning: %s", e)
		}
	}

	categories, err := store.AllCategories(ctx)
	if err != nil {
		log.Fatalf("Failed to load categories: %v", err)
	}
	signs, err := store.AllSigns(ctx)
	if err != nil {
		log.Fatalf("Failed to load sign catalog: %v", err)
	}
	index := catalog.NewIndex(categories, signs)
	log.Printf("Loaded %d signs in %d categories", index.Size(), len(categories))

	model := retention.NewModel(store)
	selector := selection.NewSelector(store, predictor.Neutral{}, nil)
	aggregator := recommend.NewAggregator(store, index)

	sched := scheduler.New(store, logNotifier{})
	if os.Getenv("ENABLE_SCHEDULER") != "false" {
		sched.Start()
		defer sched.Stop()
	}

	for _, rec := range aggregator.GetRecommendations(ctx) {
		log.Printf("Suggestion [%s] %s: %s (mode %s)", rec.Priority, rec.Type, rec.Reason, rec.Mode)
	}

	// STUDY_CATEGORIES runs one terminal study session and exits, mostly
	// useful for trying the engine without a front end.
	if raw := os.Getenv("STUDY_CATEGORIES"); raw != "" {
		controller := session.NewController(store, model, selector, index)
		runTerminalSession(ctx, controller, strings.Split(raw, ","))
		return
	}

	sig := <-sigChan
	log.Printf("Received signal: %v, shutting down", sig)
}

// runTerminalSession drives one study session over stdin/stdout.
func runTerminalSession(ctx context.Context, controller *session.Controller, categories []string) {
	mode := selection.Mode(os.Getenv("STUDY_MODE"))
	if mode == "" {
		mode = selection.ModeStandard
	}
	count := 10
	if raw := os.Getenv("STUDY_COUNT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			count = n
		}
	}

	if !controller.Start(ctx, mode, categories, count, os.Getenv("STUDY_DIFFICULTY"), "recognition") {
		log.Fatalf("Could not start session: no signs selected for categories %v", categories)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		sign, ok := controller.Current()
		if !ok {
			break
		}
		snapshot := controller.GetSnapshot()
		fmt.Printf("[%d/%d] Which sign is this? %s\n> ", snapshot.Position+1, snapshot.Total, sign.Description)

		asked := time.Now()
		line, err := reader.ReadString('\n')
		if err != nil {
			log.Printf("Input closed, finishing session")
			break
		}
		answer := strings.TrimSpace(line)
		elapsed := float64(time.Since(asked).Milliseconds())

		correct, err := controller.AnswerCurrent(ctx, answer, elapsed)
		if err != nil {
			log.Printf("Warning: answer not fully recorded: %v", err)
		}
		if correct {
			fmt.Println("Correct!")
		} else {
			fmt.Printf("Wrong, that was %q (%s)\n", sign.Name, sign.ID)
		}

		if _, err := controller.Advance(ctx); err != nil {
			log.Printf("Warning: session results not fully saved: %v", err)
		}
	}

	if err := controller.Finalize(ctx); err != nil {
		log.Printf("Warning: session results not fully saved: %v", err)
	}
	final := controller.GetSnapshot()
	fmt.Printf("Session done: %d/%d correct, best streak %d\n", final.Correct, final.Total, final.BestStreak)
}
