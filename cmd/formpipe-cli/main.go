package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"

	formpipe "github.com/goliatone/go-formpipe"
	"github.com/goliatone/go-formpipe/pkg/assets"
	"github.com/goliatone/go-formpipe/pkg/config"
	"github.com/goliatone/go-formpipe/pkg/deliver"
	"github.com/goliatone/go-formpipe/pkg/pdf"
	"github.com/goliatone/go-formpipe/pkg/prompt"
	"github.com/goliatone/go-formpipe/pkg/render"
	"github.com/goliatone/go-formpipe/pkg/schema"
	"github.com/goliatone/go-formpipe/pkg/store"
)

func main() {
	formID := flag.String("form", "", "form id to submit against")
	definition := flag.String("definition", "", "JSON file with the raw form record (skips the form store)")
	project := flag.String("project", "", "Firestore project id (ignored when -definition is set)")
	answersFile := flag.String("answers", "", "JSON file with answers (skips the interactive fill)")
	assetsDir := flag.String("assets", "", "asset directory (default ./assets)")
	dryRun := flag.Bool("dry-run", false, "write the PDF locally instead of delivering")
	output := flag.String("output", "submission.pdf", "output file for -dry-run")
	flag.Parse()

	if *formID == "" {
		log.Fatal("-form is required")
	}

	ctx := context.Background()

	st, err := buildStore(ctx, *formID, *definition, *project)
	if err != nil {
		log.Fatalf("Failed to open form store: %v", err)
	}

	answers, err := resolveAnswers(ctx, st, *formID, *answersFile)
	if err != nil {
		log.Fatalf("Failed to collect answers: %v", err)
	}

	req := formpipe.Request{FormID: *formID, Answers: answers}

	var result formpipe.Result
	if *dryRun {
		loader := assets.NewLoader(*assetsDir)
		compiler := pdf.New(pdf.ProfileFromEnv())
		channel := &fileChannel{path: *output}
		result, err = formpipe.New(st, loader, compiler, channel).Submit(ctx, req)
	} else {
		if *assetsDir != "" {
			os.Setenv(config.EnvAssetsDir, *assetsDir)
		}
		result, err = formpipe.Submit(ctx, st, req)
	}
	if err != nil {
		log.Fatalf("Failed to process submission: %v", err)
	}

	fmt.Printf("Delivered via %s: %s\n", result.Channel, result.Locator)
}

func buildStore(ctx context.Context, formID, definition, project string) (store.Store, error) {
	if definition != "" {
		raw, err := os.ReadFile(definition)
		if err != nil {
			return nil, err
		}
		var record map[string]any
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("parse %s: %w", definition, err)
		}
		mem := store.NewMemory()
		mem.PutForm(formID, record)
		return mem, nil
	}

	client, err := firestore.NewClient(ctx, project)
	if err != nil {
		return nil, err
	}
	return store.NewFirestore(client), nil
}

func resolveAnswers(ctx context.Context, st store.Store, formID, answersFile string) (render.AnswerSet, error) {
	if answersFile != "" {
		raw, err := os.ReadFile(answersFile)
		if err != nil {
			return nil, err
		}
		var answers render.AnswerSet
		if err := json.Unmarshal(raw, &answers); err != nil {
			return nil, fmt.Errorf("parse %s: %w", answersFile, err)
		}
		return answers, nil
	}

	record, err := st.FormRecord(ctx, formID)
	if err != nil {
		return nil, err
	}
	form := schema.FormFromRecord(formID, record)
	return prompt.NewFiller(nil).Fill(ctx, form)
}

// fileChannel writes the artifact to a local path for -dry-run.
type fileChannel struct {
	path string
}

func (c *fileChannel) Name() config.Channel { return "file" }

func (c *fileChannel) Deliver(_ context.Context, delivery deliver.Delivery) (deliver.Result, error) {
	if err := os.WriteFile(c.path, delivery.Artifact, 0o644); err != nil {
		return deliver.Result{}, err
	}
	return deliver.Result{
		Channel:   "file",
		Locator:   c.path,
		Timestamp: time.Now(),
	}, nil
}
