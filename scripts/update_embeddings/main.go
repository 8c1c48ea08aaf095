package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tankapool/internal/config"
	"github.com/tankapool/internal/db"
	"github.com/tankapool/internal/service"
)

// 为池中尚未生成向量的短歌回填 Gemini 向量。
// 需要设置 TANKA_GENAI_APIKEY。
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	if strings.TrimSpace(cfg.GenAI.APIKey) == "" {
		fmt.Fprintln(os.Stderr, "TANKA_GENAI_APIKEY is not set")
		os.Exit(1)
	}

	if err := db.Init(cfg.Database.Driver, cfg.Database.DSN()); err != nil {
		fmt.Fprintf(os.Stderr, "init db: %v\n", err)
		os.Exit(1)
	}

	pool := service.NewPoolService(db.DB)
	embedder := service.NewAIEmbeddingService(cfg.GenAI.APIKey, cfg.GenAI.EmbeddingModel)

	pending, err := pool.TankasWithoutEmbeddings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "list tankas without embeddings: %v\n", err)
		os.Exit(1)
	}
	if len(pending) == 0 {
		fmt.Println("all tankas already have embeddings")
		return
	}

	fmt.Printf("generating embeddings for %d tankas\n", len(pending))

	updated := 0
	for _, candidate := range pending {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		embedding, err := embedder.Embed(ctx, candidate.Content)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "tanka %d: %v\n", candidate.ID, err)
			continue
		}
		if err := pool.UpdateEmbedding(candidate.ID, embedding); err != nil {
			fmt.Fprintf(os.Stderr, "tanka %d: store embedding: %v\n", candidate.ID, err)
			continue
		}
		updated++
	}

	fmt.Printf("done: updated %d of %d tankas\n", updated, len(pending))
}
