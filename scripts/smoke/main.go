package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Expect   int    `json:"expect"`
	Critical bool   `json:"critical"`
}

type config struct {
	Targets []target `json:"targets"`
}

type result struct {
	Target   target
	Status   int
	Duration time.Duration
	Error    error
}

func (r result) ok() bool {
	return r.Error == nil && r.Status == r.Target.expected()
}

func (t target) expected() int {
	if t.Expect == 0 {
		return http.StatusOK
	}
	return t.Expect
}

var liveStates = map[string]struct{}{"OPEN": {}, "BUSY": {}, "CLOSED": {}}

func main() {
	var (
		base        string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "smoke", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	results := make([]result, 0, len(targets))
	failures, warnings := 0, 0
	for _, t := range targets {
		res := checkTarget(client, base, t)
		if !res.ok() {
			if t.Critical {
				failures++
			} else {
				warnings++
			}
		}
		results = append(results, res)
	}

	printReport(os.Stdout, results)

	fmt.Printf("Critical failures: %d, Warnings: %d\n", failures, warnings)
	if failures > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

func checkTarget(client *http.Client, base string, tgt target) result {
	res := result{Target: tgt}
	resp, dur, err := performRequest(client, base, tgt)
	res.Duration = dur
	if err != nil {
		res.Error = fmt.Errorf("request failed: %w", err)
		return res
	}
	defer resp.Body.Close()
	res.Status = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		res.Error = fmt.Errorf("read body: %w", err)
		return res
	}

	if isStatusPath(tgt.Path) && res.Status == http.StatusOK {
		res.Error = validateStatus(body)
	}
	return res
}

func isStatusPath(path string) bool {
	path = strings.SplitN(path, "?", 2)[0]
	return strings.HasSuffix(strings.TrimRight(path, "/"), "/status")
}

// validateStatus checks the live status envelope carries a known state.
func validateStatus(body []byte) error {
	var env struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode status: %w", err)
	}
	if _, ok := liveStates[env.Data.Status]; !ok {
		return fmt.Errorf("unexpected live status %q", env.Data.Status)
	}
	return nil
}

func performRequest(client *http.Client, base string, tgt target) (*http.Response, time.Duration, error) {
	if client == nil {
		return nil, 0, errors.New("nil client")
	}
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := strings.TrimRight(base, "/") + path

	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return nil, 0, err
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	return resp, time.Since(start), nil
}

func printReport(w io.Writer, results []result) {
	fmt.Fprintln(w, "Smoke Report")
	fmt.Fprintln(w, "============")
	for _, res := range results {
		state := "OK"
		if res.Error != nil {
			state = "ERROR"
		} else if !res.ok() {
			state = "FAIL"
		}
		method := res.Target.Method
		if method == "" {
			method = http.MethodGet
		}
		fmt.Fprintf(w, "[%s] %s %s\n", state, method, res.Target.Path)
		fmt.Fprintf(w, "  Status: %d, expected %d (%s) | Critical: %t\n", res.Status, res.Target.expected(), res.Duration, res.Target.Critical)
		if res.Error != nil {
			fmt.Fprintf(w, "  Error: %v\n", res.Error)
		}
	}
}
