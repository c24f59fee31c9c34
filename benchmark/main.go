// Package main provides a performance benchmarking tool for the dealflow CLI.
// It measures execution times of every pipeline command against real boards,
// running each command without a cache and then with the sqlite cache, where the
// first successful cached run counts as cold and the rest are averaged as warm.
// Results are saved as CSV and printed as a table.
//
// Prerequisites:
// - dealflow binary installed and available in PATH
// - DEALFLOW_API_TOKEN exported for the boards under test
//
// Usage: go run ./benchmark [board-id ...]
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Board       string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Boards      []string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Commands    []benchCommand
}

// benchCommand is one dealflow invocation and the trailer it prints on success.
type benchCommand struct {
	Name       string
	Args       []string
	Completion string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("Usage: %s [board-id ...]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		Boards:      os.Args[1:],
		Timeout:     5 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Commands: []benchCommand{
			{Name: "snapshot", Args: []string{"snapshot", "--mode", "value"}, Completion: "Snapshot completed in"},
			{Name: "evolution", Args: []string{"evolution"}, Completion: "Evolution completed in"},
			{Name: "daily", Args: []string{"daily"}, Completion: "Daily evolution completed in"},
			{Name: "transitions", Args: []string{"transitions", "--horizon", "30 days"}, Completion: "Transition reconstruction completed in"},
		},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("dealflow", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the dealflow binary and an API token are available.
func checkPrerequisites() error {
	if _, err := exec.LookPath("dealflow"); err != nil {
		return errors.New("dealflow binary not found in PATH")
	}
	if os.Getenv("DEALFLOW_API_TOKEN") == "" {
		return errors.New("DEALFLOW_API_TOKEN is not set")
	}
	return nil
}

// runBenchmarks executes every command against every configured board.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d boards, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Boards), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, board := range config.Boards {
		fmt.Printf("Benchmarking board %s\n", board)
		for _, c := range config.Commands {
			results = append(results, runBenchmarkSuite(config, board, c))
		}
	}
	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command.
func runBenchmarkSuite(config BenchmarkConfig, board string, c benchCommand) BenchmarkResult {
	fmt.Printf("Running %s on board %s\n", c.Name, board)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, board, c, cacheBackend, numRuns)
		if len(times) == 0 {
			return cold, "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Board:       board,
		Command:     c.Name,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a dealflow command multiple times with the given cache backend.
// The first successful run is the cold time; the remaining runs are the warm times.
func runBenchmark(config BenchmarkConfig, board string, c benchCommand, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{}, c.Args...)
	args = append(args, "--board-id", board, "--cache-backend", cacheBackend, "--color", "no")

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "dealflow", args...).CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()
		if err == nil && strings.Contains(string(output), c.Completion) {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/dealflow_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"board", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Board, r.Command, r.NoCacheTime, r.ColdTime, r.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results as a table.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	data := make([][]string, 0, len(results))
	for _, r := range results {
		data = append(data, []string{r.Board, r.Command, r.NoCacheTime, r.ColdTime, r.WarmTime})
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Board", "Command", "No-cache", "Cold", "Warm"})
	if err := table.Bulk(data); err != nil {
		fmt.Printf("Warning: failed to add rows: %v\n", err)
		return
	}
	if err := table.Render(); err != nil {
		fmt.Printf("Warning: failed to render summary: %v\n", err)
	}
}
