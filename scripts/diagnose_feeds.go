// Command diagnose_feeds checks every source in the feed catalog and
// prints a per-source health report. Run it when a scheduled aggregation
// starts reporting failed sources.
//
// Usage: go run scripts/diagnose_feeds.go [-json] [-timeout 15s]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mmcdole/gofeed"

	"advisory-news/internal/feeds"
)

// FeedDiagnostic is the per-source result of one probe.
type FeedDiagnostic struct {
	Category     string `json:"category"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	Status       string `json:"status"` // "OK", "FETCH_ERROR", "EMPTY"
	ItemCount    int    `json:"item_count"`
	LatestDate   string `json:"latest_date,omitempty"`
	FeedType     string `json:"feed_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	ResponseTime int64  `json:"response_time_ms"`
}

func main() {
	var (
		asJSON  bool
		timeout time.Duration
	)
	flag.BoolVar(&asJSON, "json", false, "emit results as JSON")
	flag.DurationVar(&timeout, "timeout", 15*time.Second, "per-source fetch timeout")
	flag.Parse()

	groups, err := feeds.Load()
	if err != nil {
		log.Fatalf("failed to load feed catalog: %v", err)
	}

	parser := gofeed.NewParser()
	parser.UserAgent = "AdvisoryNewsBot/1.0 (feed diagnostics)"

	var results []FeedDiagnostic
	for _, group := range groups {
		for _, src := range group.Sources {
			results = append(results, probe(parser, string(group.Category), src.Name, src.URL, timeout))
		}
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			log.Fatalf("failed to encode results: %v", err)
		}
		return
	}

	printReport(results)
}

func probe(parser *gofeed.Parser, category, name, url string, timeout time.Duration) FeedDiagnostic {
	diag := FeedDiagnostic{Category: category, Name: name, URL: url}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	feed, err := parser.ParseURLWithContext(url, ctx)
	diag.ResponseTime = time.Since(start).Milliseconds()

	if err != nil {
		diag.Status = "FETCH_ERROR"
		diag.ErrorMessage = err.Error()
		return diag
	}

	diag.FeedType = feed.FeedType
	diag.ItemCount = len(feed.Items)
	if diag.ItemCount == 0 {
		diag.Status = "EMPTY"
		return diag
	}

	diag.Status = "OK"
	for _, item := range feed.Items {
		if item.PublishedParsed != nil {
			diag.LatestDate = item.PublishedParsed.Format(time.RFC3339)
			break
		}
	}
	return diag
}

func printReport(results []FeedDiagnostic) {
	ok := 0
	for _, r := range results {
		marker := "FAIL"
		if r.Status == "OK" {
			marker = "ok"
			ok++
		}
		fmt.Printf("[%-4s] %-12s %-28s %4d items  %5dms  %s\n",
			marker, r.Category, r.Name, r.ItemCount, r.ResponseTime, r.Status)
		if r.ErrorMessage != "" {
			fmt.Printf("       %s\n", r.ErrorMessage)
		}
		if r.LatestDate != "" {
			fmt.Printf("       latest: %s\n", r.LatestDate)
		}
	}
	fmt.Printf("\n%d/%d sources healthy\n", ok, len(results))
}
