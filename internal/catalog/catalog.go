// Package catalog holds the fixed assessment content the remote agent is
// provisioned with: the 16-question bank, scoring logic and roadmap templates.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"learnpath/internal/models/response_models"
)

//go:embed catalog.yaml
var defaultCatalog []byte

const (
	QuestionCount = 16
	AreaCount     = 8
	RoadmapWeeks  = 6
)

type AgentProfile struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	AgentType    string `yaml:"agent_type"`
	System       string `yaml:"system"`
	Instructions string `yaml:"instructions"`
}

type ScoringLogic struct {
	KnowledgeAreas    []string           `yaml:"knowledge_areas" json:"knowledge_areas"`
	WeightByArea      map[string]float64 `yaml:"weight_by_area" json:"weight_by_area"`
	RecommendedLevels map[string]float64 `yaml:"recommended_levels" json:"recommended_levels"`
}

type TemplateWeek struct {
	Week         int    `yaml:"week" json:"week"`
	Focus        string `yaml:"focus" json:"focus"`
	HoursPerWeek int    `yaml:"hours_per_week" json:"hours_per_week"`
	Modules      int    `yaml:"modules" json:"modules"`
	Lessons      int    `yaml:"lessons" json:"lessons"`
}

type RoadmapTemplate struct {
	Title           string         `yaml:"title" json:"title"`
	WeeklyStructure []TemplateWeek `yaml:"weekly_structure" json:"weekly_structure"`
}

type Catalog struct {
	Agent     AgentProfile               `yaml:"agent"`
	Questions []response_models.Question `yaml:"questions"`
	Scoring   ScoringLogic               `yaml:"scoring"`
	Templates map[string]RoadmapTemplate `yaml:"roadmap_templates"`
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file, falling back to the embedded one for an empty path.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) Validate() error {
	if len(c.Questions) != QuestionCount {
		return fmt.Errorf("catalog must hold %d questions, got %d", QuestionCount, len(c.Questions))
	}
	if len(c.Scoring.KnowledgeAreas) != AreaCount {
		return fmt.Errorf("catalog must define %d knowledge areas, got %d", AreaCount, len(c.Scoring.KnowledgeAreas))
	}

	known := make(map[string]bool, len(c.Scoring.KnowledgeAreas))
	for _, a := range c.Scoring.KnowledgeAreas {
		known[a] = true
	}
	seen := make(map[int]bool, len(c.Questions))
	for _, q := range c.Questions {
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %d", q.ID)
		}
		seen[q.ID] = true
		if !known[q.Area] {
			return fmt.Errorf("question %d has unknown area %q", q.ID, q.Area)
		}
		if q.CorrectAnswer == "" {
			return fmt.Errorf("question %d has no correct answer", q.ID)
		}
	}

	for _, level := range []string{"beginner", "intermediate", "advanced"} {
		t, ok := c.Templates[level]
		if !ok {
			return fmt.Errorf("missing %s roadmap template", level)
		}
		if len(t.WeeklyStructure) != RoadmapWeeks {
			return fmt.Errorf("%s template must have %d weeks, got %d", level, RoadmapWeeks, len(t.WeeklyStructure))
		}
	}
	return nil
}

// QuestionByID returns the catalog entry for id.
func (c *Catalog) QuestionByID(id int) (response_models.Question, bool) {
	for _, q := range c.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return response_models.Question{}, false
}

// Areas returns the distinct knowledge areas that questions are bucketed into.
func (c *Catalog) Areas() []string {
	set := map[string]struct{}{}
	for _, q := range c.Questions {
		set[q.Area] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Chunks splits the question bank into n consecutive blocks.
func (c *Catalog) Chunks(n int) [][]response_models.Question {
	if n <= 0 {
		return nil
	}
	size := (len(c.Questions) + n - 1) / n
	var out [][]response_models.Question
	for i := 0; i < len(c.Questions); i += size {
		end := i + size
		if end > len(c.Questions) {
			end = len(c.Questions)
		}
		out = append(out, c.Questions[i:end])
	}
	return out
}

// TemplateForScore picks the roadmap template level for an overall score.
func TemplateForScore(score float64) string {
	switch {
	case score < 50:
		return "beginner"
	case score <= 75:
		return "intermediate"
	default:
		return "advanced"
	}
}
