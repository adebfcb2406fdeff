package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		count   int
		seed    int64
		rps     float64
	)

	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Load generated books into a running bookshelf API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			rng := rand.New(rand.NewSource(seed))
			client := &http.Client{Timeout: 10 * time.Second}

			s := newSeeder(client, baseURL, rps, logger)
			logger.Info("generating books",
				slog.Int("count", count),
				slog.String("target", baseURL),
				slog.Float64("rps", rps),
			)
			ids, err := s.seed(cmd.Context(), generateBooks(rng, count))
			if err != nil {
				return err
			}
			logger.Info("seed complete", slog.Int("inserted", len(ids)))
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", envOr("SEED_API_URL", "http://localhost:9000"), "bookshelf API base URL")
	cmd.Flags().IntVar(&count, "count", 100, "number of books to create")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().Float64Var(&rps, "rps", 10, "maximum requests per second, 0 for unlimited; keep below the API's RATE_LIMIT_RPS")
	return cmd
}

type bookPayload struct {
	Name      string `json:"name"`
	Year      int    `json:"year"`
	Author    string `json:"author"`
	Summary   string `json:"summary"`
	Publisher string `json:"publisher"`
	PageCount int    `json:"pageCount"`
	ReadPage  int    `json:"readPage"`
	Reading   bool   `json:"reading"`
}

var (
	authors    = []string{"Andrea Hirata", "Pramoedya Ananta Toer", "Dee Lestari", "Tere Liye", "Jostein Gaarder", "Ayu Utami"}
	publishers = []string{"Gramedia", "Mizan", "Bentang Pustaka", "Republika", "Penguin", "Hasta Mitra"}
	words      = []string{"Dunia", "Pelangi", "Laskar", "Bumi", "Manusia", "Gemini", "Supernova", "Hujan", "Senja", "Samudra"}
)

func generateBooks(rng *rand.Rand, count int) []bookPayload {
	books := make([]bookPayload, 0, count)
	for i := 0; i < count; i++ {
		pages := 50 + rng.Intn(750)
		read := rng.Intn(pages + 1)
		if rng.Intn(4) == 0 {
			read = pages
		}
		title := fmt.Sprintf("%s %s %d", words[rng.Intn(len(words))], words[rng.Intn(len(words))], i+1)
		books = append(books, bookPayload{
			Name:      title,
			Year:      1950 + rng.Intn(75),
			Author:    authors[rng.Intn(len(authors))],
			Summary:   fmt.Sprintf("A story about %s.", strings.ToLower(words[rng.Intn(len(words))])),
			Publisher: publishers[rng.Intn(len(publishers))],
			PageCount: pages,
			ReadPage:  read,
			Reading:   read > 0 && read < pages,
		})
	}
	return books
}

// maxRetries bounds how often one book is re-sent after a 429.
const maxRetries = 5

type seeder struct {
	client   *http.Client
	endpoint string
	limiter  *rate.Limiter
	logger   *slog.Logger
}

func newSeeder(client *http.Client, baseURL string, rps float64, logger *slog.Logger) *seeder {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &seeder{
		client:   client,
		endpoint: strings.TrimRight(baseURL, "/") + "/books",
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger,
	}
}

// seed posts books in order and returns the ids created before the first failure.
func (s *seeder) seed(ctx context.Context, books []bookPayload) ([]string, error) {
	ids := make([]string, 0, len(books))
	for i, b := range books {
		id, err := s.create(ctx, b)
		if err != nil {
			return ids, fmt.Errorf("book %d (%q): %w", i+1, b.Name, err)
		}
		ids = append(ids, id)
		if (i+1)%100 == 0 {
			s.logger.Info("progress", slog.Int("done", i+1), slog.Int("total", len(books)))
		}
	}
	return ids, nil
}

// create paces the request and, after a 429, waits out Retry-After up to maxRetries times.
func (s *seeder) create(ctx context.Context, b bookPayload) (string, error) {
	for attempt := 0; ; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", err
		}
		id, err := postBook(ctx, s.client, s.endpoint, b)
		var se *statusError
		if !errors.As(err, &se) || se.Code != http.StatusTooManyRequests || attempt == maxRetries {
			return id, err
		}

		s.logger.Warn("rate limited, retrying", slog.Duration("retry_after", se.RetryAfter), slog.Int("attempt", attempt+1))
		timer := time.NewTimer(se.RetryAfter)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

type statusError struct {
	Code       int
	Message    string
	RetryAfter time.Duration
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

func postBook(ctx context.Context, client *http.Client, endpoint string, b bookPayload) (string, error) {
	body, err := json.Marshal(b)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Data    struct {
			BookID string `json:"bookId"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusCreated {
		return "", &statusError{
			Code:       resp.StatusCode,
			Message:    out.Message,
			RetryAfter: retryAfter(resp.Header.Get("Retry-After")),
		}
	}
	return out.Data.BookID, nil
}

// retryAfter parses a delay-seconds Retry-After value, defaulting to one second.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return time.Second
	}
	return time.Duration(secs) * time.Second
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
