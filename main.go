package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/savagelysubtle/llm-ratelimit/rate_limit"
	"github.com/savagelysubtle/llm-ratelimit/utils/logger"
)

// flakyProvider simulates a quota-limited LLM API: it occasionally answers
// with a 429 carrying a Retry-After header, and more rarely with a 503.
type flakyProvider struct {
	mu    sync.Mutex
	calls int
}

func (p *flakyProvider) complete(prompt string) (string, error) {
	p.mu.Lock()
	p.calls++
	call := p.calls
	p.mu.Unlock()

	// Simulate processing time
	time.Sleep(time.Duration(20+rand.Intn(60)) * time.Millisecond)

	roll := rand.Float32()
	switch {
	case roll < 0.15:
		header := http.Header{}
		header.Set("Retry-After", "1")
		return "", &rate_limit.APIError{StatusCode: 429, Header: header, Message: "rate limit exceeded"}
	case roll < 0.20:
		return "", &rate_limit.APIError{StatusCode: 503, Message: "service unavailable"}
	default:
		return fmt.Sprintf("completion #%d for %q", call, prompt), nil
	}
}

func main() {
	fmt.Println("llm-ratelimit demo")
	fmt.Println("==================")

	// One registry per process; every caller targeting the same provider
	// shares the same buckets.
	registry := rate_limit.NewRegistry()

	demoLimiter, err := rate_limit.NewLimiterForProvider("openai",
		rate_limit.WithRequestsPerMinute(120), // 2 requests/second sustained
		rate_limit.WithTokensPerMinute(0),
		rate_limit.WithMaxRetries(3),
		rate_limit.WithDelayRange(200*time.Millisecond, 5*time.Second),
	)
	if err != nil {
		panic(err)
	}
	registry.Register(rate_limit.ProviderOpenAI, demoLimiter)

	provider := &flakyProvider{}
	log := logger.NewStdoutLogger()

	const workers = 8
	const callsPerWorker = 5

	fmt.Printf("Issuing %d calls through a %d rpm limiter...\n\n",
		workers*callsPerWorker, demoLimiter.Config().RequestsPerMinute)

	start := time.Now()
	var wg sync.WaitGroup
	var failed int
	var mu sync.Mutex

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			client, err := registry.ClientForProvider("openai")
			if err != nil {
				panic(err)
			}
			client.SetLogger(log)

			for i := 0; i < callsPerWorker; i++ {
				prompt := fmt.Sprintf("worker %d task %d", worker, i)
				result, err := rate_limit.Execute(context.Background(), client, 1,
					func(ctx context.Context) (string, error) {
						return provider.complete(prompt)
					})
				if err != nil {
					mu.Lock()
					failed++
					mu.Unlock()
					log.Printf("worker %d: giving up on task %d: %v", worker, i, err)
					continue
				}
				_ = result
			}
		}(w)
	}
	wg.Wait()

	fmt.Printf("\nDone: %d calls (%d failed) in %s\n",
		workers*callsPerWorker, failed, time.Since(start).Round(time.Millisecond))
	fmt.Println("The sustained rate stays under the configured quota even though")
	fmt.Println("every worker fires as fast as it can.")
}
