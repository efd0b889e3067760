package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"learnpath/internal/agent"
	"learnpath/internal/catalog"
	"learnpath/internal/models/db_models"
	"learnpath/internal/models/request_models"
	"learnpath/internal/models/response_models"
	"learnpath/internal/repositories"
	"learnpath/pkg/utils"
)

type AssessmentServiceInterface interface {
	GetSession(ctx context.Context, token string) (*db_models.UserSession, error)
	SaveProfile(ctx context.Context, token string, req request_models.ProfileRequest) error
	FetchQuestions(ctx context.Context, token string) (*response_models.QuestionSet, error)
	SubmitAnswers(ctx context.Context, token string, answers []string) (*response_models.Evaluation, error)
	GenerateRoadmap(ctx context.Context, token string) (*response_models.Roadmap, error)
	Chat(ctx context.Context, token string, req request_models.ChatRequest) (*response_models.ChatResponse, error)
	ClearSession(ctx context.Context, token string) error
	// Wait blocks until background history notifications have finished.
	Wait()
}

type AssessmentOptions struct {
	// VerifyScores replaces agent grading with the local answer key.
	VerifyScores         bool
	HistoryAppendTimeout time.Duration
}

type AssessmentService struct {
	sessions repositories.SessionRepository
	gateway  agent.Gateway
	catalog  *catalog.Catalog
	verifier *ScoreVerifier
	opts     AssessmentOptions
	logger   *zap.Logger

	background sync.WaitGroup
}

func NewAssessmentService(
	sessions repositories.SessionRepository,
	gateway agent.Gateway,
	cat *catalog.Catalog,
	opts AssessmentOptions,
	logger *zap.Logger,
) AssessmentServiceInterface {
	if opts.HistoryAppendTimeout <= 0 {
		opts.HistoryAppendTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentService{
		sessions: sessions,
		gateway:  gateway,
		catalog:  cat,
		verifier: NewScoreVerifier(cat, opts.VerifyScores),
		opts:     opts,
		logger:   logger,
	}
}

func (s *AssessmentService) GetSession(ctx context.Context, token string) (*db_models.UserSession, error) {
	return s.session(ctx, token)
}

func (s *AssessmentService) SaveProfile(ctx context.Context, token string, req request_models.ProfileRequest) error {
	fields := []struct{ name, value string }{
		{"experience", req.Experience},
		{"education", req.Education},
		{"goal", req.Goal},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return utils.NewFieldError(f.name)
		}
	}

	session, err := s.session(ctx, token)
	if err != nil {
		return err
	}
	if err := guard(session, OpSaveProfile); err != nil {
		return err
	}

	session.Experience = req.Experience
	session.Education = req.Education
	session.Goal = req.Goal
	advance(session, OpSaveProfile)
	return s.sessions.SaveSession(ctx, session)
}

func (s *AssessmentService) FetchQuestions(ctx context.Context, token string) (*response_models.QuestionSet, error) {
	session, err := s.session(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := guard(session, OpFetchQuestions); err != nil {
		return nil, err
	}

	req := agent.UserMessage(questionsPrompt)
	req.UseAssistantMessage = true
	text, err := s.ask(ctx, OpFetchQuestions, req)
	if err != nil {
		return nil, err
	}

	var set response_models.QuestionSet
	if err := carve(text, "questions", &set); err != nil {
		return nil, err
	}
	if len(set.Questions) == 0 {
		return nil, &utils.ParseFailure{Subject: "questions", Raw: text, Err: errors.New("reply holds no questions")}
	}
	s.fillFromCatalog(set.Questions)

	session.Questions = set.Questions
	session.Answers = []string{}
	advance(session, OpFetchQuestions)
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return &set, nil
}

func (s *AssessmentService) SubmitAnswers(ctx context.Context, token string, answers []string) (*response_models.Evaluation, error) {
	session, err := s.session(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := guard(session, OpSubmitAnswers); err != nil {
		return nil, err
	}
	if len(answers) == 0 {
		return nil, utils.NewFieldError("answers")
	}

	session.Answers = append([]string(nil), answers...)

	input, err := indentJSON(struct {
		Questions   []response_models.Question `json:"questions"`
		Answers     []string                   `json:"answers"`
		UserProfile userProfile                `json:"user_profile"`
	}{session.Questions, session.Answers, profileOf(session)})
	if err != nil {
		return nil, err
	}

	agentID, text, err := s.askWithID(ctx, OpSubmitAnswers, agent.UserMessage(fmt.Sprintf(evaluationPrompt, input)))
	if err != nil {
		return nil, err
	}

	var eval response_models.Evaluation
	if err := carve(text, "evaluation", &eval); err != nil {
		return nil, err
	}

	diffs := s.verifier.Verify(&eval, session.Questions, session.Answers)
	if len(diffs) > 0 {
		fields := make([]string, 0, len(diffs))
		for _, d := range diffs {
			fields = append(fields, d.String())
		}
		s.logger.Warn("agent grading disagrees with answer key",
			zap.Bool("overwritten", s.opts.VerifyScores),
			zap.Strings("discrepancies", fields))
	}

	if eval.Score == nil {
		return nil, &utils.ParseFailure{Subject: "evaluation", Raw: text, Err: errors.New("reply has no score")}
	}
	if eval.Areas == nil {
		eval.Areas = map[string]response_models.AreaScore{}
	}
	if eval.Review == nil {
		eval.Review = []response_models.ReviewEntry{}
	}

	score := *eval.Score
	session.Score = &score
	session.Areas = eval.Areas
	session.Review = eval.Review
	session.EvaluationsCompleted++
	advance(session, OpSubmitAnswers)
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	s.appendHistory(ctx, agentID, session)
	return &eval, nil
}

func (s *AssessmentService) GenerateRoadmap(ctx context.Context, token string) (*response_models.Roadmap, error) {
	session, err := s.session(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := guard(session, OpGenerateRoadmap); err != nil {
		return nil, err
	}

	input, err := indentJSON(roadmapInput{
		UserProfile: profileOf(session),
		Evaluation:  evaluationSummary{Score: session.Score, Areas: session.Areas},
	})
	if err != nil {
		return nil, err
	}

	level := catalog.TemplateForScore(*session.Score)
	text, err := s.ask(ctx, OpGenerateRoadmap, agent.UserMessage(fmt.Sprintf(roadmapPrompt, input, level)))
	if err != nil {
		return nil, err
	}

	var roadmap response_models.Roadmap
	if err := carve(text, "roadmap", &roadmap); err != nil {
		return nil, err
	}
	if len(roadmap.Weeks) == 0 {
		return nil, &utils.ParseFailure{Subject: "roadmap", Raw: text, Err: errors.New("reply has no weeks")}
	}

	session.Roadmap = &roadmap
	session.RoadmapsGenerated++
	advance(session, OpGenerateRoadmap)
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return &roadmap, nil
}

func (s *AssessmentService) Chat(ctx context.Context, token string, req request_models.ChatRequest) (*response_models.ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, utils.NewFieldError("message")
	}

	session, err := s.session(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := guard(session, OpChat); err != nil {
		return nil, err
	}

	chatCtx := req.Context
	if chatCtx.IsEmpty() {
		chatCtx = sessionChatContext(session)
	}
	prompt := fmt.Sprintf(chatPrompt, chatContextBlock(chatCtx), req.Message)

	text, err := s.ask(ctx, OpChat, agent.UserMessage(prompt))
	if err != nil {
		return nil, err
	}

	session.Chat = append(session.Chat,
		response_models.ChatTurn{Role: "user", Content: req.Message, Timestamp: utils.NowSessionTimestamp()},
		response_models.ChatTurn{Role: "assistant", Content: text, Timestamp: utils.NowSessionTimestamp()},
	)
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return &response_models.ChatResponse{Response: text}, nil
}

func (s *AssessmentService) ClearSession(ctx context.Context, token string) error {
	session, err := s.session(ctx, token)
	if err != nil {
		return err
	}
	session.Reset(utils.NowSessionTimestamp())
	return s.sessions.SaveSession(ctx, session)
}

func (s *AssessmentService) Wait() {
	s.background.Wait()
}

// session loads the caller's session, starting a fresh one on a miss.
func (s *AssessmentService) session(ctx context.Context, token string) (*db_models.UserSession, error) {
	if token == "" {
		return nil, utils.ErrSessionNotFound
	}
	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = db_models.NewUserSession(token, utils.NowSessionTimestamp())
	}
	return session, nil
}

func (s *AssessmentService) ask(ctx context.Context, op Operation, req agent.MessageRequest) (string, error) {
	_, text, err := s.askWithID(ctx, op, req)
	return text, err
}

func (s *AssessmentService) askWithID(ctx context.Context, op Operation, req agent.MessageRequest) (string, string, error) {
	agentID, err := s.gateway.EnsureAgent(ctx)
	if err != nil {
		return "", "", err
	}

	start := time.Now()
	s.logger.Debug("sending message to agent", zap.String("op", string(op)), zap.String("agent_id", agentID))
	reply, err := s.gateway.SendMessage(ctx, agentID, req)
	if err != nil {
		return "", "", err
	}
	s.logger.Debug("agent replied", zap.String("op", string(op)), zap.Duration("latency", time.Since(start)))

	return agentID, agent.ExtractText(reply), nil
}

// fillFromCatalog restores fields the agent tends to drop when echoing the
// question bank back.
func (s *AssessmentService) fillFromCatalog(questions []response_models.Question) {
	for i := range questions {
		known, ok := s.catalog.QuestionByID(questions[i].ID)
		if !ok {
			continue
		}
		if questions[i].Area == "" {
			questions[i].Area = known.Area
		}
		if questions[i].CorrectAnswer == "" {
			questions[i].CorrectAnswer = known.CorrectAnswer
		}
		if questions[i].Explanation == "" {
			questions[i].Explanation = known.Explanation
		}
	}
}

type evaluationSummary struct {
	Score *float64                             `json:"score"`
	Areas map[string]response_models.AreaScore `json:"areas"`
}

type roadmapInput struct {
	UserProfile userProfile       `json:"user_profile"`
	Evaluation  evaluationSummary `json:"evaluation"`
}

type lastEvaluation struct {
	Timestamp    string                               `json:"timestamp"`
	UserID       string                               `json:"user_id"`
	Scores       map[string]response_models.AreaScore `json:"scores"`
	OverallScore *float64                             `json:"overall_score"`
}

type historyRecord struct {
	EvaluationsCompleted int            `json:"evaluations_completed"`
	LastEvaluation       lastEvaluation `json:"last_evaluation"`
	RoadmapsGenerated    int            `json:"roadmaps_generated"`
}

// appendHistory tells the agent about a finished evaluation. It runs after
// the response is decided; failures are logged and never reach the caller.
func (s *AssessmentService) appendHistory(ctx context.Context, agentID string, session *db_models.UserSession) {
	body, err := indentJSON(historyRecord{
		EvaluationsCompleted: session.EvaluationsCompleted,
		LastEvaluation: lastEvaluation{
			Timestamp:    utils.NowSessionTimestamp(),
			UserID:       session.Token,
			Scores:       session.Areas,
			OverallScore: session.Score,
		},
		RoadmapsGenerated: session.RoadmapsGenerated,
	})
	if err != nil {
		s.logger.Warn("history record not encoded", zap.Error(err))
		return
	}
	msg := agent.UserMessage(fmt.Sprintf(historyAppendPrompt, agent.MemoryAppendPrefix, body))
	detached := context.WithoutCancel(ctx)

	s.background.Add(1)
	go func() {
		defer s.background.Done()

		ctx, cancel := context.WithTimeout(detached, s.opts.HistoryAppendTimeout)
		defer cancel()

		if _, err := s.gateway.SendMessage(ctx, agentID, msg); err != nil {
			s.logger.Warn("history append failed", zap.String("agent_id", agentID), zap.Error(err))
			return
		}
		s.logger.Debug("history appended", zap.String("agent_id", agentID))
	}()
}

func carve(text, subject string, v any) error {
	err := utils.CarveJSON(text, v)
	var pf *utils.ParseFailure
	if errors.As(err, &pf) {
		pf.Subject = subject
	}
	return err
}
