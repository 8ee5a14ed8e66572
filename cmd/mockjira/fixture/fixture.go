package fixture

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"flow-metrics/internal/jira"
)

// Jira's own timestamp layout, milliseconds and numeric offset.
const timeLayout = "2006-01-02T15:04:05.000-0700"

// GeneratorConfig controls the shape of a synthetic project.
type GeneratorConfig struct {
	Scenario     string // "mild", "chaos" or "drift"
	Distribution string // "uniform" or "weibull"
	Count        int
	Now          time.Time
	Seed         uint64
}

type workflowStep struct {
	name         string
	category     string
	categoryName string
	at           float64 // fraction of the sampled total duration
}

var workflow = []workflowStep{
	{"Open", "new", "To Do", 0},
	{"Refinement", "new", "To Do", 0.15},
	{"In Progress", "indeterminate", "In Progress", 0.40},
	{"Done", "done", "Done", 1},
}

var roster = []jira.UserDTO{
	{AccountID: "5b10a2844c20165700ede21g", DisplayName: "Ada Brooks", EmailAddress: "ada@example.com"},
	{AccountID: "5b10ac8d82e05b22cc7d4ef5", DisplayName: "Lin Okafor", EmailAddress: "lin@example.com"},
	{AccountID: "712020:8f1c2d30-54a7", DisplayName: "Sam Varga", EmailAddress: "sam@example.com"},
}

// Generate builds issues shaped like the records of a Jira search response,
// one arrival per day ending at cfg.Now.
func Generate(cfg GeneratorConfig) []jira.IssueDTO {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	issues := make([]jira.IssueDTO, 0, cfg.Count)
	tArrival := cfg.Now.AddDate(0, 0, -cfg.Count)
	sprintEpoch := tArrival

	for i := 0; i < cfg.Count; i++ {
		key := fmt.Sprintf("FLOW-%d", i+1)
		arrival := tArrival.Add(time.Duration(i*24) * time.Hour)
		total := sampleDuration(rng, cfg, i)

		var histories []jira.HistoryDTO
		current := workflow[0]
		var resolved time.Time
		for step := 1; step < len(workflow); step++ {
			at := arrival.Add(days(total * workflow[step].at))
			if !at.Before(cfg.Now) {
				break
			}
			histories = append(histories, transition(key, len(histories), at, current.name, workflow[step].name))
			current = workflow[step]
			if current.category == "done" {
				resolved = at
			}
		}

		// Chaos reopens a share of finished work and finishes it again later.
		if cfg.Scenario == "chaos" && !resolved.IsZero() && rng.Float64() < 0.15 {
			reopened := resolved.Add(days(1 + rng.Float64()*2))
			if reopened.Before(cfg.Now) {
				histories = append(histories, transition(key, len(histories), reopened, "Done", "In Progress"))
				current, resolved = workflow[2], time.Time{}
				redone := reopened.Add(days(1 + rng.Float64()*3))
				if redone.Before(cfg.Now) {
					histories = append(histories, transition(key, len(histories), redone, "In Progress", "Done"))
					current, resolved = workflow[3], redone
				}
			}
		}

		fields := jira.FieldsDTO{
			Summary: jira.Some(fmt.Sprintf("Synthetic %s work item %d", cfg.Scenario, i+1)),
			Status:  jira.Some(status(current)),
			Created: jira.Some(arrival.Format(timeLayout)),
			Sprints: jira.Some([]jira.SprintDTO{{
				Name:  fmt.Sprintf("FLOW Sprint %d", int(arrival.Sub(sprintEpoch).Hours()/24/14)+1),
				State: "closed",
			}}),
		}
		if !resolved.IsZero() {
			fields.ResolutionDate = jira.Some(resolved.Format(timeLayout))
		}
		// Every fifth item stays unassigned.
		if i%5 != 4 {
			user := roster[i%len(roster)]
			user.AvatarURLs = map[string]string{"48x48": "https://avatars.example.com/" + user.AccountID + ".png"}
			fields.Assignee = jira.Some(user)
		}

		issues = append(issues, jira.IssueDTO{
			Key:       key,
			Fields:    fields,
			Changelog: jira.Some(jira.ChangelogDTO{Histories: histories}),
		})
	}

	return issues
}

func sampleDuration(rng *rand.Rand, cfg GeneratorConfig, i int) float64 {
	k, lambda := 2.5, 9.5
	switch cfg.Scenario {
	case "chaos":
		k = 0.8
		if cfg.Distribution == "weibull" {
			lambda = 12.0
		}
	case "drift":
		ratio := float64(i) / float64(cfg.Count)
		k = 2.5 - (1.7 * ratio)
		lambda = 9.5 + (2.5 * ratio)
	}

	if cfg.Distribution == "weibull" {
		return weibullSample(rng, k, lambda)
	}

	total := 6.0 + rng.Float64()*5.0
	if cfg.Scenario == "chaos" && rng.Float64() < 0.2 {
		total += 10 + rng.Float64()*15
	}
	if cfg.Scenario == "drift" && i > cfg.Count/2 {
		total *= 2.0
	}
	return total
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

func days(d float64) time.Duration {
	return time.Duration(d * 24 * float64(time.Hour))
}

func transition(key string, n int, at time.Time, from, to string) jira.HistoryDTO {
	return jira.HistoryDTO{
		ID:      fmt.Sprintf("%s-%d", key, n+1),
		Created: at.Format(timeLayout),
		Items:   []jira.ItemDTO{{Field: "status", FromString: from, ToString: to}},
	}
}

func status(step workflowStep) jira.StatusDTO {
	s := jira.StatusDTO{Name: step.name}
	s.StatusCategory.Key = step.category
	s.StatusCategory.Name = step.categoryName
	return s
}

// Response wraps issues in a search response envelope.
func Response(issues []jira.IssueDTO, maxResults int) (jira.SearchResponse, error) {
	page := issues
	if maxResults > 0 && maxResults < len(page) {
		page = page[:maxResults]
	}
	raw := make([]json.RawMessage, 0, len(page))
	for _, issue := range page {
		b, err := json.Marshal(issue)
		if err != nil {
			return jira.SearchResponse{}, fmt.Errorf("failed to encode %s: %w", issue.Key, err)
		}
		raw = append(raw, b)
	}
	return jira.SearchResponse{Total: jira.Some(len(issues)), Issues: &raw}, nil
}

// Save writes the full search response to <outDir>/search.json.
func Save(outDir string, issues []jira.IssueDTO) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}
	resp, err := Response(issues, 0)
	if err != nil {
		return "", err
	}

	path := filepath.Join(outDir, "search.json")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return "", err
	}
	return path, nil
}
