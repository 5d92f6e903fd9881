package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the process-wide configuration. It is built once at startup and
// passed explicitly to every component that talks to the hosted store.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Supabase  SupabaseConfig
	Auth      AuthConfig
	Ranking   RankingConfig
	Limits    Limits
	Trending  TrendingConfig
	Carousel  CarouselConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
	MaxUploadBytes int64
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

type DatabaseConfig struct {
	DSN          string
	QueryTimeout time.Duration
}

type SupabaseConfig struct {
	URL           string
	ServiceKey    string
	StorageBucket string
	UserAgent     string
	RPS           int
	MaxRetries    int
}

type AuthConfig struct {
	// InternalSecret guards /internal/jobs/*. Empty disables the check.
	InternalSecret string
	// JWTSecret verifies admin tokens issued by the hosted auth service.
	JWTSecret string
	AdminRole string
}

// RankingConfig holds the score thresholds used for highlighting.
type RankingConfig struct {
	AgentOfTheDayThreshold float64
	HotTrendingThreshold   float64
}

// Limits centralises every "top N" used by the listing endpoints.
type Limits struct {
	TrendingLimit         int // trending grid size
	TrendingFallbackLimit int // score-ordered list when nothing is flagged trending
	RecentLimit           int // "recently added" strip
	LatestPosts           int // blog carousel
	FeaturedCategories    int // categories shown on the home page
	MembersPerCategory    int // tools shown per featured category
	PageSize              int
	MaxPageSize           int
	CardTags              int // tags rendered on a tool card
	CategoryPageSize      int // "load more" step on category pages
	ScanLimit             int // rows read when aggregating in memory
}

type TrendingConfig struct {
	// RefreshInterval schedules in-process refreshes. Zero disables the scheduler.
	RefreshInterval time.Duration
	ProcedureName   string
	// Timeout bounds one remote refresh, independent of the caller's request.
	Timeout time.Duration
}

type CarouselConfig struct {
	Interval time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type LogConfig struct {
	Level string
}

// DefaultQueryTimeout bounds a single database round trip.
const DefaultQueryTimeout = 3 * time.Second

// DefaultLimits returns the limits observed in the original listing pages.
func DefaultLimits() Limits {
	return Limits{
		TrendingLimit:         12,
		TrendingFallbackLimit: 10,
		RecentLimit:           8,
		LatestPosts:           5,
		FeaturedCategories:    6,
		MembersPerCategory:    3,
		PageSize:              20,
		MaxPageSize:           100,
		CardTags:              3,
		CategoryPageSize:      6,
		ScanLimit:             1000,
	}
}

// LoadEnvFiles reads .env and .env.local without overriding variables that are
// already present in the environment.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load builds the Config from environment variables (after LoadEnvFiles) and
// validates required keys.
func Load() (*Config, error) {
	LoadEnvFiles()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	limits := DefaultLimits()

	v.SetDefault("app.addr", ":8080")
	v.SetDefault("cors.allowed.origins", "http://localhost:5173")
	v.SetDefault("max.upload.bytes", 5<<20)
	v.SetDefault("server.read.timeout", 5*time.Second)
	v.SetDefault("server.write.timeout", 15*time.Second)
	v.SetDefault("server.idle.timeout", 60*time.Second)

	v.SetDefault("db.query.timeout", DefaultQueryTimeout)

	v.SetDefault("storage.bucket", "agent-logos")
	v.SetDefault("supabase.user.agent", "agentzone/1.0")
	v.SetDefault("supabase.rps", 10)
	v.SetDefault("supabase.max.retries", 2)

	v.SetDefault("admin.role", "admin")

	v.SetDefault("ranking.agent.of.the.day.threshold", 90.0)
	v.SetDefault("ranking.hot.trending.threshold", 80.0)

	v.SetDefault("limits.trending", limits.TrendingLimit)
	v.SetDefault("limits.trending.fallback", limits.TrendingFallbackLimit)
	v.SetDefault("limits.recent", limits.RecentLimit)
	v.SetDefault("limits.latest.posts", limits.LatestPosts)
	v.SetDefault("limits.featured.categories", limits.FeaturedCategories)
	v.SetDefault("limits.members.per.category", limits.MembersPerCategory)
	v.SetDefault("limits.page.size", limits.PageSize)
	v.SetDefault("limits.max.page.size", limits.MaxPageSize)
	v.SetDefault("limits.card.tags", limits.CardTags)
	v.SetDefault("limits.category.page.size", limits.CategoryPageSize)
	v.SetDefault("limits.scan", limits.ScanLimit)

	v.SetDefault("trending.refresh.interval", time.Duration(0))
	v.SetDefault("trending.procedure", "update_trending_agents")
	v.SetDefault("trending.timeout", time.Minute)

	v.SetDefault("carousel.interval", 3*time.Second)

	v.SetDefault("rate.limit.rps", 20.0)
	v.SetDefault("rate.limit.burst", 40)

	v.SetDefault("log.level", "info")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           v.GetString("app.addr"),
			AllowedOrigins: splitList(v.GetString("cors.allowed.origins")),
			MaxUploadBytes: v.GetInt64("max.upload.bytes"),
			ReadTimeout:    v.GetDuration("server.read.timeout"),
			WriteTimeout:   v.GetDuration("server.write.timeout"),
			IdleTimeout:    v.GetDuration("server.idle.timeout"),
		},
		Database: DatabaseConfig{
			DSN:          v.GetString("db.dsn"),
			QueryTimeout: v.GetDuration("db.query.timeout"),
		},
		Supabase: SupabaseConfig{
			URL:           strings.TrimRight(v.GetString("supabase.url"), "/"),
			ServiceKey:    v.GetString("supabase.service.key"),
			StorageBucket: v.GetString("storage.bucket"),
			UserAgent:     v.GetString("supabase.user.agent"),
			RPS:           v.GetInt("supabase.rps"),
			MaxRetries:    v.GetInt("supabase.max.retries"),
		},
		Auth: AuthConfig{
			InternalSecret: v.GetString("internal.secret"),
			JWTSecret:      v.GetString("supabase.jwt.secret"),
			AdminRole:      v.GetString("admin.role"),
		},
		Ranking: RankingConfig{
			AgentOfTheDayThreshold: v.GetFloat64("ranking.agent.of.the.day.threshold"),
			HotTrendingThreshold:   v.GetFloat64("ranking.hot.trending.threshold"),
		},
		Limits: Limits{
			TrendingLimit:         v.GetInt("limits.trending"),
			TrendingFallbackLimit: v.GetInt("limits.trending.fallback"),
			RecentLimit:           v.GetInt("limits.recent"),
			LatestPosts:           v.GetInt("limits.latest.posts"),
			FeaturedCategories:    v.GetInt("limits.featured.categories"),
			MembersPerCategory:    v.GetInt("limits.members.per.category"),
			PageSize:              v.GetInt("limits.page.size"),
			MaxPageSize:           v.GetInt("limits.max.page.size"),
			CardTags:              v.GetInt("limits.card.tags"),
			CategoryPageSize:      v.GetInt("limits.category.page.size"),
			ScanLimit:             v.GetInt("limits.scan"),
		},
		Trending: TrendingConfig{
			RefreshInterval: v.GetDuration("trending.refresh.interval"),
			ProcedureName:   v.GetString("trending.procedure"),
			Timeout:         v.GetDuration("trending.timeout"),
		},
		Carousel: CarouselConfig{
			Interval: v.GetDuration("carousel.interval"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("rate.limit.rps"),
			Burst: v.GetInt("rate.limit.burst"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
	}
}

// Validate reports every missing required key in a single error.
func (c *Config) Validate() error {
	var missing []string
	if c.Database.DSN == "" {
		missing = append(missing, "DB_DSN")
	}
	if c.Supabase.URL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.Supabase.ServiceKey == "" {
		missing = append(missing, "SUPABASE_SERVICE_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if c.Limits.PageSize <= 0 || c.Limits.MaxPageSize < c.Limits.PageSize {
		return errors.New("limits: page size must be positive and not exceed max page size")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
