package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"flagfeed/client"
	"flagfeed/pkg/constraints"
	"flagfeed/pkg/logger"
)

// Configuration
var (
	targetHost = flag.String("host", "http://localhost:8080", "Flag service host")
	sdkKey     = flag.String("key", "flagfeed-loadtest-key", "SDK key")
	totalVUs   = flag.Int("c", 500, "Total Virtual Users (Concurrency)")
	rampUp     = flag.Duration("ramp", 30*time.Second, "Ramp up duration")
	interval   = flag.Duration("interval", 5*time.Second, "Poll interval per client")
	featureID  = flag.String("feature", "loadtest-canary", "Feature id to query")
)

// Metrics
var (
	activeClients int64
	snapshotsRx   int64
	activeHits    int64
)

func main() {
	flag.Parse()
	logger.InitLogger("loadtest")

	fmt.Printf("Starting Load Test\n")
	fmt.Printf("   Target: %s\n", *targetHost)
	fmt.Printf("   VUs: %d\n", *totalVUs)
	fmt.Printf("   Ramp: %v\n", *rampUp)
	fmt.Printf("   Interval: %v\n", *interval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	rampDelay := *rampUp / time.Duration(*totalVUs)

	for i := 0; i < *totalVUs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runClient(ctx)
		}()
		time.Sleep(rampDelay)
	}

	go reportLoop(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	wg.Wait()
	fmt.Printf("\nDone. snapshots=%d active_hits=%d\n",
		atomic.LoadInt64(&snapshotsRx), atomic.LoadInt64(&activeHits))
}

func runClient(ctx context.Context) {
	cfg, err := client.NewConfig(*targetHost)
	if err != nil {
		fmt.Printf("config error: %v\n", err)
		return
	}
	cfg.SetUpdateInterval(*interval)
	cfg.SetHeader(constraints.HeaderAPIKey, *sdkKey)

	c := client.New(cfg)
	sub := c.Subscribe()

	c.Start(ctx)
	defer c.Stop()

	atomic.AddInt64(&activeClients, 1)
	defer atomic.AddInt64(&activeClients, -1)

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-sub:
			if !ok {
				return
			}
			atomic.AddInt64(&snapshotsRx, 1)
			if c.IsFeatureActive(*featureID) {
				atomic.AddInt64(&activeHits, 1)
			}
		}
	}
}

func reportLoop(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Printf("[stat] clients=%d snapshots=%d active_hits=%d\n",
				atomic.LoadInt64(&activeClients),
				atomic.LoadInt64(&snapshotsRx),
				atomic.LoadInt64(&activeHits))
		}
	}
}
