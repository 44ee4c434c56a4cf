package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civiform/civiform-go/config"
	"github.com/civiform/civiform-go/internal/model"
	"github.com/civiform/civiform-go/internal/repository"
	"github.com/civiform/civiform-go/internal/service"
)

const (
	maxConnectAttempts = 5
	baseBackoff        = 2 * time.Second
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := connectWithRetry(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	questionRepo := repository.NewQuestionRepo(client)
	versionRepo := repository.NewVersionRepo(client)
	programRepo := repository.NewProgramRepo(client)
	questionSvc := service.NewQuestionService(questionRepo, versionRepo, programRepo, service.NopBroadcaster{}, logger)
	programSvc := service.NewProgramService(programRepo, questionRepo, versionRepo, service.NopBroadcaster{}, logger)

	if err := seed(ctx, questionSvc, programSvc); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	fmt.Println("Successfully seeded sample questions and program")
}

// connectWithRetry pings MongoDB with bounded exponential backoff, so
// the seed tool can start alongside the database container.
func connectWithRetry(ctx context.Context, uri string) (*mongo.Client, error) {
	var lastErr error
	for attempt := 0; attempt < maxConnectAttempts; attempt++ {
		if attempt > 0 {
			backoff := baseBackoff<<(attempt-1) + time.Duration(rand.Int63n(int64(time.Second)))
			log.Printf("Retrying MongoDB connection in %s (attempt %d/%d)", backoff, attempt+1, maxConnectAttempts)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			lastErr = err
			continue
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = client.Ping(pingCtx, nil)
		cancel()
		if err == nil {
			return client, nil
		}
		lastErr = err
		client.Disconnect(ctx)
	}
	return nil, lastErr
}

func seed(ctx context.Context, questionSvc *service.QuestionService, programSvc *service.ProgramService) error {
	definitions := sampleQuestions()

	created := make(map[string]*model.QuestionDefinition, len(definitions))
	for _, cfg := range definitions {
		q, err := model.NewQuestionDefinition(cfg)
		if err != nil {
			return err
		}
		persisted, validationErrs, err := questionSvc.Create(ctx, q)
		if err != nil {
			return err
		}
		if len(validationErrs) > 0 {
			return fmt.Errorf("question %q failed validation: %v", cfg.Name, validationErrs)
		}
		created[cfg.Name] = persisted
		fmt.Printf("Created question %q (%s)\n", persisted.Name, persisted.Type)
	}

	// The repeated question nests under the enumerator created above.
	birthdate, err := model.NewQuestionDefinition(model.QuestionDefinitionConfig{
		Name:         "member birthdate",
		EnumeratorID: model.Int64Ptr(created["household members"].ID),
		Description:  "Birthdate of one household member",
		QuestionText: model.LocalizedStrings{"en-US": "When was $this born?"},
		Type:         model.QuestionTypeDate,
	})
	if err != nil {
		return err
	}
	persisted, validationErrs, err := questionSvc.Create(ctx, birthdate)
	if err != nil {
		return err
	}
	if len(validationErrs) > 0 {
		return fmt.Errorf("question %q failed validation: %v", birthdate.Name, validationErrs)
	}
	created[persisted.Name] = persisted
	fmt.Printf("Created question %q (%s)\n", persisted.Name, persisted.Type)

	program, validationErrs, err := programSvc.Create(ctx, &model.ProgramDefinition{
		AdminName:            "utility-discount",
		AdminDescription:     "Utility discount program for low-income households",
		LocalizedName:        model.LocalizedStrings{"en-US": "Utility Discount Program"},
		LocalizedDescription: model.LocalizedStrings{"en-US": "Discounted utility rates for qualifying households."},
	})
	if err != nil {
		return err
	}
	if len(validationErrs) > 0 {
		return fmt.Errorf("program failed validation: %v", validationErrs)
	}

	program, err = programSvc.AddBlock(ctx, program.ID, nil)
	if err != nil {
		return err
	}
	blockID := program.Blocks[len(program.Blocks)-1].ID
	for _, name := range []string{"applicant name", "applicant address", "applicant age", "applicant email", "household members"} {
		if _, err := programSvc.AddQuestionToBlock(ctx, program.ID, blockID, created[name].ID, false); err != nil {
			return err
		}
	}

	program, err = programSvc.AddBlock(ctx, program.ID, model.Int64Ptr(created["household members"].ID))
	if err != nil {
		return err
	}
	repeatedBlockID := program.Blocks[len(program.Blocks)-1].ID
	if _, err := programSvc.AddQuestionToBlock(ctx, program.ID, repeatedBlockID, created["member birthdate"].ID, false); err != nil {
		return err
	}
	fmt.Printf("Created program %q with %d screens\n", program.AdminName, len(program.Blocks))

	if os.Getenv("SEED_PUBLISH") == "true" {
		version, err := programSvc.Publish(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Published version %d\n", version.ID)
	}
	return nil
}

func sampleQuestions() []model.QuestionDefinitionConfig {
	return []model.QuestionDefinitionConfig{
		{
			Name:         "applicant name",
			Description:  "The applicant's full legal name",
			QuestionText: model.LocalizedStrings{"en-US": "What is your name?", "es-US": "¿Cómo se llama?"},
			Type:         model.QuestionTypeName,
		},
		{
			Name:         "applicant address",
			Description:  "The applicant's home address",
			QuestionText: model.LocalizedStrings{"en-US": "What is your address?"},
			Type:         model.QuestionTypeAddress,
			Predicates:   model.AddressValidationPredicates{DisallowPOBox: true},
		},
		{
			Name:         "applicant age",
			Description:  "The applicant's age in years",
			QuestionText: model.LocalizedStrings{"en-US": "How old are you?"},
			Type:         model.QuestionTypeNumber,
			Predicates:   model.NumberValidationPredicates{Min: model.Int64Ptr(0), Max: model.Int64Ptr(150)},
		},
		{
			Name:         "applicant email",
			Description:  "Where to reach the applicant",
			QuestionText: model.LocalizedStrings{"en-US": "What is your email address?"},
			Type:         model.QuestionTypeEmail,
		},
		{
			Name:         "favorite color",
			Description:  "Sample single-select question",
			QuestionText: model.LocalizedStrings{"en-US": "What is your favorite color?"},
			Type:         model.QuestionTypeDropdown,
			Options: []model.QuestionOption{
				{ID: 1, AdminName: "red", DisplayOrder: 1, LocalizedText: model.LocalizedStrings{"en-US": "Red"}},
				{ID: 2, AdminName: "green", DisplayOrder: 2, LocalizedText: model.LocalizedStrings{"en-US": "Green"}},
				{ID: 3, AdminName: "blue", DisplayOrder: 3, LocalizedText: model.LocalizedStrings{"en-US": "Blue"}},
			},
		},
		{
			Name:         "kitchen tools",
			Description:  "Sample multi-select question",
			QuestionText: model.LocalizedStrings{"en-US": "Which of the following kitchen instruments do you own?"},
			Type:         model.QuestionTypeCheckbox,
			Predicates:   model.MultiOptionValidationPredicates{MaxChoicesAllowed: model.IntPtr(2)},
			Options: []model.QuestionOption{
				{ID: 1, AdminName: "toaster", DisplayOrder: 1, LocalizedText: model.LocalizedStrings{"en-US": "Toaster"}},
				{ID: 2, AdminName: "pepper_grinder", DisplayOrder: 2, LocalizedText: model.LocalizedStrings{"en-US": "Pepper Grinder"}},
				{ID: 3, AdminName: "garlic_press", DisplayOrder: 3, LocalizedText: model.LocalizedStrings{"en-US": "Garlic Press"}},
			},
		},
		{
			Name:         "household members",
			Description:  "The people living with the applicant",
			QuestionText: model.LocalizedStrings{"en-US": "Who lives with you?"},
			Type:         model.QuestionTypeEnumerator,
			EntityType:   model.LocalizedStrings{"en-US": "household member"},
		},
	}
}
