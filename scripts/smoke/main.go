// Command smoke exercises a running attendance-api instance and verifies each
// endpoint answers with the expected status. Intended as a post-deploy check.
package main

import (
	"bytes"
	"encoding/json"
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
	Body     string `json:"body,omitempty"`
	Expect   int    `json:"expect"`
	Role     string `json:"role,omitempty"`
	Critical bool   `json:"critical"`
}

type config struct {
	Targets []target          `json:"targets"`
	Secrets map[string]string `json:"secrets"`
}

type result struct {
	Target   target
	Status   int
	Pass     bool
	Duration time.Duration
	Err      error
}

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

	cfg, err := loadConfig(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	tokens := make(map[string]string)

	var (
		results  []result
		breaking int
		soft     int
	)

	for _, tgt := range cfg.Targets {
		res := runTarget(client, base, tgt, cfg.Secrets, tokens)
		if !res.Pass {
			if tgt.Critical {
				breaking++
			} else {
				soft++
			}
		}
		results = append(results, res)
	}

	printReport(results)

	fmt.Printf("Critical failures: %d, Soft failures: %d\n", breaking, soft)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadConfig(path string) (*config, error) {
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
	return &cfg, nil
}

func runTarget(client *http.Client, base string, tgt target, secrets, tokens map[string]string) result {
	res := result{Target: tgt}

	var token string
	if tgt.Role != "" {
		var err error
		token, err = tokenFor(client, base, tgt.Role, secrets, tokens)
		if err != nil {
			res.Err = fmt.Errorf("login as %s: %w", tgt.Role, err)
			return res
		}
	}

	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if tgt.Body != "" {
		body = strings.NewReader(tgt.Body)
	}
	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, body)
	if err != nil {
		res.Err = err
		return res
	}
	if tgt.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	res.Status = resp.StatusCode
	expect := tgt.Expect
	if expect == 0 {
		expect = http.StatusOK
	}
	res.Pass = res.Status == expect
	return res
}

func tokenFor(client *http.Client, base, role string, secrets, tokens map[string]string) (string, error) {
	if token, ok := tokens[role]; ok {
		return token, nil
	}
	secret, ok := secrets[role]
	if !ok {
		return "", fmt.Errorf("no secret configured for role %s", role)
	}

	payload, err := json.Marshal(map[string]string{"role": role, "secret": secret})
	if err != nil {
		return "", err
	}
	resp, err := client.Post(strings.TrimRight(base, "/")+"/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login returned %d", resp.StatusCode)
	}

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", err
	}
	if envelope.Data.AccessToken == "" {
		return "", fmt.Errorf("login response carried no token")
	}
	tokens[role] = envelope.Data.AccessToken
	return envelope.Data.AccessToken, nil
}

func printReport(results []result) {
	fmt.Println("Smoke Report")
	fmt.Println("============")
	for _, res := range results {
		status := "PASS"
		if !res.Pass {
			status = "FAIL"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		if res.Err != nil {
			fmt.Printf("  Error: %v\n", res.Err)
			continue
		}
		fmt.Printf("  Status: %d (%s) | Critical: %t\n", res.Status, res.Duration, res.Target.Critical)
	}
}
