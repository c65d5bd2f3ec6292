package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// keywordPayload matches the POST /api/v1/blacklist request body.
type keywordPayload struct {
	Keyword string  `json:"keyword"`
	Note    *string `json:"note,omitempty"`
}

const defaultServiceURL = "http://localhost:8080"

var authToken = ""

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run import_blacklist.go <path-to-keywords-file> [service-url]")
		fmt.Println("Example: go run import_blacklist.go blacklist.txt https://delivery-advisor.example.com")
		fmt.Println()
		fmt.Println("File format: one keyword per line, optionally followed by ',note'.")
		fmt.Println("Lines starting with # are skipped.")
		os.Exit(1)
	}

	path := os.Args[1]
	serviceURL := defaultServiceURL
	if len(os.Args) > 2 {
		serviceURL = strings.TrimRight(os.Args[2], "/")
	}

	if authToken == "" {
		fmt.Print("Enter auth token (Bearer token): ")
		fmt.Scanln(&authToken)
	}

	fmt.Println("Step 1: Reading keywords file...")
	keywords, err := readKeywords(path)
	if err != nil {
		fmt.Printf("Error reading keywords: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Read %d keywords from %s\n", len(keywords), path)

	if len(keywords) == 0 {
		fmt.Println("Nothing to import.")
		return
	}

	fmt.Print("\nDo you want to import these keywords? (yes/no): ")
	var response string
	fmt.Scanln(&response)
	if strings.ToLower(strings.TrimSpace(response)) != "yes" {
		fmt.Println("Import cancelled.")
		return
	}

	fmt.Println("\nStep 2: Importing keywords...")
	successCount, failCount := 0, 0
	for i, kw := range keywords {
		if err := postKeyword(serviceURL, kw); err != nil {
			fmt.Printf("  ✗ %d/%d %q failed: %v\n", i+1, len(keywords), kw.Keyword, err)
			failCount++
			continue
		}
		fmt.Printf("  ✓ %d/%d %q imported\n", i+1, len(keywords), kw.Keyword)
		successCount++
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("  Total keywords: %d\n", len(keywords))
	fmt.Printf("  Imported:       %d\n", successCount)
	fmt.Printf("  Failed:         %d\n", failCount)
}

func readKeywords(path string) ([]keywordPayload, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var keywords []keywordPayload
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		payload := keywordPayload{Keyword: line}
		if idx := strings.Index(line, ","); idx >= 0 {
			payload.Keyword = strings.TrimSpace(line[:idx])
			if note := strings.TrimSpace(line[idx+1:]); note != "" {
				payload.Note = &note
			}
		}
		if payload.Keyword == "" {
			continue
		}
		keywords = append(keywords, payload)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return keywords, nil
}

func postKeyword(serviceURL string, payload keywordPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequest("POST", serviceURL+"/api/v1/blacklist", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+authToken)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}
