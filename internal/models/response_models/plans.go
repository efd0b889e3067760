package response_models

type Resource struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type RoadmapWeek struct {
	Week      int        `json:"week"`
	Focus     string     `json:"focus"`
	Hours     float64    `json:"hours"`
	Modules   int        `json:"modules"`
	Lessons   int        `json:"lessons"`
	Topics    []string   `json:"topics"`
	Resources []Resource `json:"resources"`
}

type Roadmap struct {
	Title        string        `json:"title"`
	Level        string        `json:"level"`
	OverallScore float64       `json:"overall_score"`
	Weeks        []RoadmapWeek `json:"weeks"`
}

type ChatTurn struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
