package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"agentzone/internal/config"
	"agentzone/internal/telemetry"
	"agentzone/internal/tool"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// seedTool is a row in the legacy shape: a boolean free flag and no pricing
// type, so that legacy-pricing has something to migrate.
type seedTool struct {
	Name        string
	Description string
	ImageURL    string
	WebsiteURL  string
	Tags        []string
	Rating      float64
	Users       string
	IsFree      bool
	HasAPI      bool
	Category    tool.Category
	TrendScore  float64
}

var initialTools = []seedTool{
	{"ChatGPT", "Advanced conversational AI that can help with writing, analysis, coding, and creative tasks. Perfect for daily productivity.",
		"https://upload.wikimedia.org/wikipedia/commons/0/04/ChatGPT_logo.svg", "https://chat.openai.com",
		[]string{"Chat", "Writing", "Coding"}, 4.9, "100M+", true, true, tool.CategoryChat, 95},
	{"GitHub Copilot", "AI-powered coding assistant that helps write, debug, and optimize code across multiple programming languages.",
		"https://github.githubassets.com/assets/GitHub-Mark-ea2971cee799.png", "https://github.com/features/copilot",
		[]string{"Coding", "Development", "Debug"}, 4.8, "5M+", false, true, tool.CategoryCoding, 88},
	{"Grammarly", "AI writing assistant that helps improve grammar, clarity, and style in your writing across all platforms.",
		"https://static.grammarly.com/assets/files/efe57d016d9efff36da7884c193b646b/grammarly_logo_420x200.png", "https://grammarly.com",
		[]string{"Writing", "Grammar", "Content"}, 4.7, "30M+", true, true, tool.CategoryWriting, 82},
	{"Claude", "Anthropic's AI assistant for analysis, research, creative writing, and complex reasoning tasks.",
		"", "https://claude.ai",
		[]string{"Chat", "Analysis", "Research"}, 4.8, "10M+", true, true, tool.CategoryChat, 85},
	{"Midjourney", "AI art generator that creates stunning, high-quality images from text descriptions.",
		"", "https://midjourney.com",
		[]string{"Art", "Design", "Creative"}, 4.9, "15M+", false, false, tool.CategoryImageDesign, 90},
	{"Zapier", "Workflow automation platform that connects your favorite apps and services to save time on repetitive tasks.",
		"", "https://zapier.com",
		[]string{"Automation", "Workflow", "Integration"}, 4.6, "5M+", true, true, tool.CategoryProductivity, 75},
	{"Perplexity AI", "AI-powered search engine that provides accurate answers with citations and real-time information.",
		"", "https://perplexity.ai",
		[]string{"Search", "Research", "Information"}, 4.7, "20M+", true, true, tool.CategoryChat, 80},
	{"Notion AI", "AI-powered workspace that helps with writing, brainstorming, and organizing your thoughts and projects.",
		"https://upload.wikimedia.org/wikipedia/commons/4/45/Notion_app_logo.png", "https://notion.so",
		[]string{"Productivity", "Writing", "Organization"}, 4.5, "35M+", true, true, tool.CategoryProductivity, 78},
	{"Runway ML", "AI-powered creative suite for video editing, image generation, and multimedia content creation.",
		"", "https://runwayml.com",
		[]string{"Video", "Creative", "AI"}, 4.6, "3M+", true, true, tool.CategoryVideo, 73},
	{"Copy.ai", "AI writing tool for creating marketing copy, blog posts, and content that converts.",
		"", "https://copy.ai",
		[]string{"Writing", "Marketing", "Content"}, 4.4, "8M+", true, true, tool.CategoryWriting, 70},
}

func main() {
	root := &cobra.Command{
		Use:          "seed",
		Short:        "Seed and maintain directory data",
		SilenceUsage: true,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "tools",
			Short: "Insert the initial tools when the table is empty",
			RunE:  withPool(seedTools),
		},
		&cobra.Command{
			Use:   "legacy-pricing",
			Short: "Convert rows carrying only is_free to a pricing type",
			RunE:  withPool(migrateLegacyPricing),
		},
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func withPool(fn func(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		config.LoadEnvFiles()

		dsn := os.Getenv("DB_DSN")
		if dsn == "" {
			return errors.New("DB_DSN is required")
		}

		logger, err := telemetry.NewLogger("info")
		if err != nil {
			return err
		}
		defer logger.Sync()

		pool, err := pgxpool.New(cmd.Context(), dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		return fn(cmd.Context(), pool, logger)
	}
}

func seedTools(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	var existing int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM tools").Scan(&existing); err != nil {
		return fmt.Errorf("count tools: %w", err)
	}
	if existing > 0 {
		logger.Info("tools already present, skipping seed", zap.Int("count", existing))
		return nil
	}

	const sql = `
		INSERT INTO tools (name, description, image_url, website_url, tags, rating, users,
		                   is_free, has_api, category, trend_score)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11)`

	batch := &pgx.Batch{}
	for _, t := range initialTools {
		batch.Queue(sql, t.Name, t.Description, t.ImageURL, t.WebsiteURL, t.Tags, t.Rating, t.Users,
			t.IsFree, t.HasAPI, string(t.Category), t.TrendScore)
	}
	if err := pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert tools: %w", err)
	}

	logger.Info("seeded tools", zap.Int("count", len(initialTools)))
	return nil
}

func migrateLegacyPricing(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	svc := tool.NewService(tool.NewPostgresRepo(pool, config.DefaultQueryTimeout), logger)
	n, err := svc.MigrateLegacyPricing(ctx)
	if err != nil {
		return fmt.Errorf("after %d rows: %w", n, err)
	}
	return nil
}
