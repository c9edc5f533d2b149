package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/cinemood/internal/dataset"
	"github.com/wonny/cinemood/pkg/httputil"
	"github.com/wonny/cinemood/pkg/logger"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "MovieLens 데이터셋 다운로드",
	Long: `DATASET_URL(기본 ml-latest-small.zip)을 내려받아
RATINGS_FILE / MOVIES_FILE을 DATA_DIR에 풀어 놓습니다.
압축 파일에 두 파일이 모두 있어야 기존 파일을 교체합니다.

Example:
  go run ./cmd/cinemood fetch
  go run ./cmd/cinemood fetch --url https://files.grouplens.org/datasets/movielens/ml-latest-small.zip`,
	RunE: runFetch,
}

var (
	fetchURL string
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	// Flags
	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "데이터셋 zip URL (기본: DATASET_URL)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	fmt.Println("=== cinemood Dataset Fetch ===")

	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	url := cfg.Pipeline.DatasetURL
	if fetchURL != "" {
		url = fetchURL
	}

	fetcher := dataset.NewFetcher(httputil.New(log, cfg.Pipeline.FetchTimeout), log)
	result, err := fetcher.Fetch(cmd.Context(), url, cfg.Pipeline.DataDir,
		cfg.Pipeline.RatingsFile, cfg.Pipeline.MoviesFile)
	if err != nil {
		return err
	}

	fmt.Println()
	PrintKeyValue("source", result.URL, 8)
	PrintKeyValue("size", formatNumber(result.Bytes)+" bytes", 8)
	for _, p := range result.Extracted {
		PrintSuccess("Saved " + p)
	}
	fmt.Println("\nNext: go run ./cmd/cinemood build")
	return nil
}
