package main

import (
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jessevdk/go-flags"
)

type Opts struct {
	TargetURL string        `long:"target" description:"backend base URL" default:"http://localhost:8080"`
	Contest   string        `short:"c" long:"contest" description:"contest slug to query" default:"ahc001"`
	Users     []string      `short:"u" long:"user" description:"user names to chart, may be repeated" required:"true"`
	Workers   int           `short:"w" long:"workers" description:"concurrent clients" default:"100"`
	Interval  time.Duration `long:"interval" description:"delay between requests per client" default:"50ms"`
	Duration  time.Duration `short:"d" long:"duration" description:"test duration" default:"3m"`
	Cursor    int64         `long:"cursor" description:"latest standings cursor (unix seconds)" default:"1700000000"`
}

func main() {
	var opts Opts
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			return
		}
		os.Exit(1)
	}

	fmt.Printf("Starting Load Test: %d clients requesting every %s for %s\n", opts.Workers, opts.Interval, opts.Duration)

	var wg sync.WaitGroup
	wg.Add(opts.Workers)

	start := time.Now()
	requestCount, errorCount := 0, 0
	var mu sync.Mutex

	// Monitor Routine: prints the charts of the requested users every minute
	go func() {
		time.Sleep(10 * time.Second)

		chkTicker := time.NewTicker(60 * time.Second)
		defer chkTicker.Stop()

		for range chkTicker.C {
			fmt.Printf("\n[Monitor] Checking %d users...\n", len(opts.Users))
			startCheck := time.Now()
			checkChart(opts.TargetURL, opts.Contest, opts.Users)
			fmt.Printf("[Monitor] Check complete in %.2fs\n", time.Since(startCheck).Seconds())
		}
	}()

	// Load Generators: half chart requests, half standings at a random cursor
	for i := 0; i < opts.Workers; i++ {
		go func(id int) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(int64(id)))
			ticker := time.NewTicker(opts.Interval)
			defer ticker.Stop()

			timeout := time.After(opts.Duration)

			for {
				select {
				case <-timeout:
					return
				case <-ticker.C:
					var path string
					if rng.Intn(2) == 0 {
						user := opts.Users[rng.Intn(len(opts.Users))]
						path = fmt.Sprintf("/chart/%s/%s", opts.Contest, user)
					} else {
						path = fmt.Sprintf("/standings/%s/%d", opts.Contest, rng.Int63n(opts.Cursor+1))
					}
					ok := get(opts.TargetURL + path)

					mu.Lock()
					requestCount++
					if !ok {
						errorCount++
					}
					mu.Unlock()
				}
			}
		}(i)
	}

	wg.Wait()
	duration := time.Since(start).Seconds()
	fmt.Printf("\nTest Complete!\nTotal Requests: %d (errors: %d)\nTPS (Transactions Per Second): %.2f\n", requestCount, errorCount, float64(requestCount)/duration)
}

func get(url string) bool {
	resp, err := http.Get(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

func checkChart(target, slug string, users []string) {
	resp, err := http.Get(fmt.Sprintf("%s/chart/%s/%s", target, slug, strings.Join(users, ",")))
	if err != nil {
		fmt.Println("Error fetching chart:", err)
		return
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	fmt.Printf("[Live Check] %s: %s\n", strings.Join(users, ","), string(bodyBytes))
}
