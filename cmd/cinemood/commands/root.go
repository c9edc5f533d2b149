package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	env     string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cinemood",
	Short: "cinemood - MovieLens 평점 기반 기분별 영화 추천",
	Long: `cinemood Unified CLI

MovieLens ratings/movies CSV를 정제하고 베이지안 가중 평점으로
카탈로그를 빌드한 뒤, 기분(mood)별 추천 API를 제공합니다.

Pipeline:
  S0 Ingest → S1 Stats → S2 Scoring → S3 Catalog

Usage:
  go run ./cmd/cinemood [command]

Examples:
  go run ./cmd/cinemood build
  go run ./cmd/cinemood build --dry-run --m 500
  go run ./cmd/cinemood check
  go run ./cmd/cinemood api
  go run ./cmd/cinemood report --export`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
