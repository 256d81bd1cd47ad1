package main

import (
	"log"
	"os"
	"time"

	"research-chat-be/internal/model"
	"research-chat-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/datatypes"
)

func strPtr(s string) *string { return &s }

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("🚀 Seeding Topic Catalog...")

	today := datatypes.Date(time.Now())

	topics := []model.Topic{
		{
			Title:        "Retrieval-Augmented Generation in Production",
			ShortSummary: "Patterns for grounding LLM answers in private document stores.",
			FullSummary:  strPtr("A survey of chunking, embedding, and reranking strategies used by teams shipping RAG systems, with a focus on latency and hallucination trade-offs."),
			Source:       "arXiv",
			SourceURL:    strPtr("https://arxiv.org/abs/2312.10997"),
			Date:         today,
			Trendiness:   9.1, TechnicalDepth: 7.5, Practicality: 8.8,
			TagsCsv: strPtr("LLMs,RAG,Embeddings"),
		},
		{
			Title:        "Structured Outputs from Language Models",
			ShortSummary: "Constrained decoding and schema validation for reliable tool use.",
			Source:       "HackerNews",
			Date:         today,
			Trendiness:   8.4, TechnicalDepth: 6.9, Practicality: 9.2,
			TagsCsv: strPtr("LLMs,Tooling,JSON"),
		},
		{
			Title:        "Long Context Windows vs. Retrieval",
			ShortSummary: "When a million-token context beats a vector database, and when it does not.",
			Source:       "arXiv",
			Date:         today,
			Trendiness:   8.9, TechnicalDepth: 8.2, Practicality: 7.1,
			TagsCsv: strPtr("LLMs,Long Context,RAG"),
		},
	}

	for _, t := range topics {
		var existing model.Topic
		if err := db.Where("title = ?", t.Title).First(&existing).Error; err == nil {
			color.Yellow("Topic '%s' already exists, skipping...", t.Title)
			continue
		}

		if err := db.Create(&t).Error; err != nil {
			color.Red("Error creating topic '%s': %v", t.Title, err)
		} else {
			color.Green("Created topic: %s", t.Title)
		}
	}

	color.Cyan("Topic seeding completed!")
}
