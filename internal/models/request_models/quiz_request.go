package request_models

type ProfileRequest struct {
	Experience string `json:"experience"`
	Education  string `json:"education"`
	Goal       string `json:"goal"`
}

// SubmitAnswersRequest carries one option id per question, in question order.
// Unanswered questions arrive as null and decode to "".
type SubmitAnswersRequest struct {
	Answers []string `json:"answers"`
}

type ChatRequest struct {
	Message string       `json:"message"`
	Context *ChatContext `json:"context,omitempty"`
}

type ChatContext struct {
	Experience        string             `json:"experience,omitempty"`
	Education         string             `json:"education,omitempty"`
	Goal              string             `json:"goal,omitempty"`
	EvaluationResults *EvaluationContext `json:"evaluationResults,omitempty"`
	RoadmapData       *RoadmapContext    `json:"roadmapData,omitempty"`
}

type EvaluationContext struct {
	Score *float64               `json:"score"`
	Areas map[string]AreaContext `json:"areas"`
}

type AreaContext struct {
	Score       *float64 `json:"score"`
	Recommended *float64 `json:"recommended"`
}

type RoadmapContext struct {
	Title string `json:"title"`
	Level string `json:"level"`
}

// IsEmpty reports whether the browser sent no usable context at all.
func (c *ChatContext) IsEmpty() bool {
	return c == nil || (c.Experience == "" && c.Education == "" && c.Goal == "" &&
		c.EvaluationResults == nil && c.RoadmapData == nil)
}
