package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/codepr/webranker/crawler"
	"github.com/codepr/webranker/env"
	"github.com/codepr/webranker/messaging"
	"github.com/spf13/cobra"
)

var (
	crawlMaxTotalURLs  int
	crawlWorkers       int
	crawlChunkSize     int
	crawlPerHost       int
	crawlDelay         time.Duration
	crawlTimeout       time.Duration
	crawlMaxRetries    int
	crawlRetryBackoff  time.Duration
	crawlRespectRobots bool
	crawlShowProgress  bool
)

var crawlCmd = &cobra.Command{
	Use:   "crawl [seed-url...]",
	Short: "Harvest same-host pages from the seed URLs into scraped.ndjson",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCrawl,
}

func runCrawl(cmd *cobra.Command, args []string) error {
	c, err := crawler.New(
		crawler.WithOutputDir(dataDir),
		crawler.WithMaxTotalURLs(crawlMaxTotalURLs),
		crawler.WithMaxGlobalWorkers(crawlWorkers),
		crawler.WithSaveChunkSize(crawlChunkSize),
		crawler.WithMaxConcurrentPerHost(crawlPerHost),
		crawler.WithDelayBetweenRequests(crawlDelay),
		crawler.WithRequestTimeout(crawlTimeout),
		crawler.WithMaxRetries(crawlMaxRetries),
		crawler.WithRetryBackoff(crawlRetryBackoff),
		crawler.WithRespectRobots(crawlRespectRobots),
		crawler.WithUserAgent(env.GetEnv("WEBRANKER_USER_AGENT",
			"Mozilla/5.0 (compatible; CustomCrawler/1.0)")),
	)
	if err != nil {
		return err
	}
	defer c.Close()

	if crawlShowProgress {
		queue := messaging.NewChannelQueue()
		defer queue.Close()
		c.WithProgressProducer(queue)

		events := make(chan []byte)
		go func() { _ = queue.Consume(events) }()
		go func() {
			for event := range events {
				var doc crawler.ScrapedDocument
				if err := json.Unmarshal(event, &doc); err != nil {
					continue
				}
				fmt.Printf("scraped %s (%d links)\n", doc.URL, doc.LinksCount)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	emitted, err := c.Crawl(ctx, args...)
	if err != nil {
		return err
	}
	fmt.Printf("crawl finished: %d documents emitted\n", emitted)
	return nil
}

func init() {
	crawlCmd.Flags().IntVar(&crawlMaxTotalURLs, "max-total-urls", 1000, "stop after this many successful emissions")
	crawlCmd.Flags().IntVar(&crawlWorkers, "workers", 50, "number of concurrent workers")
	crawlCmd.Flags().IntVar(&crawlChunkSize, "save-chunk-size", 20, "documents buffered before a flush to scraped.ndjson")
	crawlCmd.Flags().IntVar(&crawlPerHost, "max-concurrent-per-host", 2, "in-flight fetch cap per origin")
	crawlCmd.Flags().DurationVar(&crawlDelay, "delay", time.Second, "politeness delay before each fetch")
	crawlCmd.Flags().DurationVar(&crawlTimeout, "request-timeout", 15*time.Second, "per-request total timeout")
	crawlCmd.Flags().IntVar(&crawlMaxRetries, "max-retries", 3, "fetch attempts per URL before giving up")
	crawlCmd.Flags().DurationVar(&crawlRetryBackoff, "retry-backoff", 2*time.Second, "linear backoff unit between retries")
	crawlCmd.Flags().BoolVar(&crawlRespectRobots, "respect-robots", true, "honor robots.txt")
	crawlCmd.Flags().BoolVar(&crawlShowProgress, "progress", false, "print each scraped URL as it is emitted")
	rootCmd.AddCommand(crawlCmd)
}
