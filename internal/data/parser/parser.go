package parser

import (
	"bufio"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/kmowery/weightline/internal/core/model"
	"github.com/kmowery/weightline/internal/util"
)

// Parser reads measurement JSONL files. Lines that are not valid JSON or
// carry no usable timestamp are dropped here so the timeline engine only
// ever sees well-formed records.
type Parser struct {
	concurrency int
	mu          sync.Mutex
	cache       map[string][]model.Measurement
}

// ParseResult represents the result of parsing a single file.
type ParseResult struct {
	File         string
	Measurements []model.Measurement
	Error        error
}

// NewParser creates a new Parser instance.
func NewParser(concurrency int) *Parser {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Parser{
		concurrency: concurrency,
		cache:       make(map[string][]model.Measurement),
	}
}

// ParseFile parses the measurement file at the specified path.
func (p *Parser) ParseFile(filepath string) ([]model.Measurement, error) {
	p.mu.Lock()
	if cached, ok := p.cache[filepath]; ok {
		p.mu.Unlock()
		return cached, nil
	}
	p.mu.Unlock()

	util.LogDebug(fmt.Sprintf("Start parsing file: %s", filepath))

	file, err := os.Open(filepath)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Failed to open file: %s - %v", filepath, err))
		return nil, err
	}
	defer file.Close()

	var measurements []model.Measurement
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	lineCount := 0
	dropped := 0
	for scanner.Scan() {
		lineCount++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var m model.Measurement
		if err := sonic.Unmarshal(scanner.Bytes(), &m); err != nil {
			util.LogDebug(fmt.Sprintf("Skip invalid JSON line %s:%d - %v", filepath, lineCount, err))
			dropped++
			continue
		}
		if !m.HasTimestamp() {
			util.LogDebug(fmt.Sprintf("Skip record without timestamp %s:%d (id=%s)", filepath, lineCount, m.ID))
			dropped++
			continue
		}
		measurements = append(measurements, m)
	}

	if err := scanner.Err(); err != nil {
		util.LogDebug(fmt.Sprintf("Error scanning file: %s - %v", filepath, err))
		return nil, err
	}

	if dropped > 0 {
		util.LogDebug(fmt.Sprintf("Parsed %s: %d measurements, %d dropped lines", filepath, len(measurements), dropped))
	}

	p.mu.Lock()
	p.cache[filepath] = measurements
	p.mu.Unlock()

	return measurements, nil
}

// ParseFiles parses multiple files concurrently and returns a channel of ParseResult.
func (p *Parser) ParseFiles(files []string) <-chan ParseResult {
	start := time.Now()
	results := make(chan ParseResult, len(files))
	var wg sync.WaitGroup

	util.LogDebug(fmt.Sprintf("Start concurrent parsing of %d files, concurrency: %d", len(files), p.concurrency))

	semaphore := make(chan struct{}, p.concurrency)

	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			fileStart := time.Now()
			measurements, err := p.ParseFile(f)
			fileDuration := time.Since(fileStart)

			if err != nil {
				util.LogDebug(fmt.Sprintf("File parsing failed: %s, duration %v - %v", f, fileDuration, err))
			}

			results <- ParseResult{
				File:         f,
				Measurements: measurements,
				Error:        err,
			}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)

		totalDuration := time.Since(start)
		util.LogDebug(fmt.Sprintf("Concurrent parsing finished, total duration: %v", totalDuration))
	}()

	return results
}
