package commands

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/wonny/cinemood/internal/contracts"
	"github.com/wonny/cinemood/internal/report"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// PrintHeader prints a formatted command header
func PrintHeader(title string) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", title)
	PrintSeparator()
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println()
	fmt.Printf("⚠️  %s\n", message)
	fmt.Println()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Printf("ℹ️  %s\n", message)
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// PrintTable prints a header, a rule and the rows with padded columns
func PrintTable(columns []string, widths []int, rows [][]string) {
	fmt.Println(formatRow(columns, widths))
	fmt.Println(strings.Repeat("─", tableWidth(widths)))
	for _, row := range rows {
		fmt.Println(formatRow(row, widths))
	}
}

func formatRow(values []string, widths []int) string {
	var b strings.Builder
	for i, val := range values {
		val = truncate(val, widths[i])
		b.WriteString(val)
		if i < len(values)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(val)+2))
		}
	}
	return b.String()
}

func tableWidth(widths []int) int {
	total := 0
	for i, width := range widths {
		total += width
		if i < len(widths)-1 {
			total += 2 // spacing
		}
	}
	return total
}

// truncate shortens s to max runes, marking the cut with "…"
func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}

// orDash renders a missing title or genre string
func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

// formatNumber formats an integer with thousands separators
func formatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// formatPercent formats a 0..1 ratio
func formatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// printCleanReport prints the drop counts of the cleaning step
func printCleanReport(r contracts.CleanReport) {
	fmt.Printf("[Clean] ratings rows: %d -> %d\n", r.Before, r.After)
	PrintKeyValue("empty rows", formatNumber(int64(r.DroppedEmpty)), 16)
	PrintKeyValue("duplicates", formatNumber(int64(r.DroppedDuplicate)), 16)
	PrintKeyValue("missing values", formatNumber(int64(r.DroppedMissing)), 16)
	PrintKeyValue("out of range", formatNumber(int64(r.DroppedRange)), 16)
}

// printWeighted prints the top weighted rating report
func printWeighted(movies []report.WeightedMovie) {
	rows := make([][]string, 0, len(movies))
	for i, m := range movies {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(m.MovieID, 10),
			orDash(m.Title),
			formatNumber(m.RatingCount),
			fmt.Sprintf("%.3f", m.AvgRating),
			fmt.Sprintf("%.3f", m.WeightedRating),
		})
	}
	PrintTable(
		[]string{"#", "movieId", "title", "count", "avg", "weighted"},
		[]int{4, 8, 40, 8, 6, 8},
		rows,
	)
}
