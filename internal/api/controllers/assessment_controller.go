package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"learnpath/internal/models/request_models"
	"learnpath/internal/services"
	"learnpath/pkg/middleware"
	"learnpath/pkg/utils"
)

type AssessmentController struct {
	assessmentService services.AssessmentServiceInterface
}

func NewAssessmentController(assessmentService services.AssessmentServiceInterface) *AssessmentController {
	return &AssessmentController{assessmentService: assessmentService}
}

// SaveProfile godoc
// @Summary Save learner profile
// @Description Store experience, education and goal for the current session
// @Tags Assessment
// @Accept json
// @Produce json
// @Param request body request_models.ProfileRequest true "Profile payload"
// @Success 200 {object} response_models.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/save_profile [post]
func (a *AssessmentController) SaveProfile(c *gin.Context) {
	var req request_models.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := a.assessmentService.SaveProfile(c.Request.Context(), middleware.SessionToken(c), req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c)
}

// GetQuestions godoc
// @Summary Fetch assessment questions
// @Description Ask the agent for the 16-question assessment and store it in the session
// @Tags Assessment
// @Produce json
// @Success 200 {object} response_models.QuestionSet
// @Failure 500 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/get_questions [get]
func (a *AssessmentController) GetQuestions(c *gin.Context) {
	set, err := a.assessmentService.FetchQuestions(c.Request.Context(), middleware.SessionToken(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, set)
}

// SubmitAnswers godoc
// @Summary Submit answers for evaluation
// @Tags Assessment
// @Accept json
// @Produce json
// @Param request body request_models.SubmitAnswersRequest true "One option id per question"
// @Success 200 {object} response_models.Evaluation
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/submit_answers [post]
func (a *AssessmentController) SubmitAnswers(c *gin.Context) {
	// A malformed body is treated as no answers so the missing-questions
	// check still reports first.
	var req request_models.SubmitAnswersRequest
	_ = c.ShouldBindJSON(&req)

	eval, err := a.assessmentService.SubmitAnswers(c.Request.Context(), middleware.SessionToken(c), req.Answers)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, eval)
}

// GenerateRoadmap godoc
// @Summary Generate a 6-week learning roadmap
// @Tags Assessment
// @Produce json
// @Success 200 {object} response_models.Roadmap
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/generate_roadmap [get]
func (a *AssessmentController) GenerateRoadmap(c *gin.Context) {
	roadmap, err := a.assessmentService.GenerateRoadmap(c.Request.Context(), middleware.SessionToken(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, roadmap)
}

// ClearSession godoc
// @Summary Reset the current session
// @Tags Assessment
// @Produce json
// @Success 200 {object} response_models.SuccessResponse
// @Router /api/clear_session [post]
func (a *AssessmentController) ClearSession(c *gin.Context) {
	if err := a.assessmentService.ClearSession(c.Request.Context(), middleware.SessionToken(c)); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c)
}

// Chat godoc
// @Summary Chat with the learning assistant
// @Tags Assessment
// @Accept json
// @Produce json
// @Param request body request_models.ChatRequest true "Message and optional context"
// @Success 200 {object} response_models.ChatResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/chat [post]
func (a *AssessmentController) Chat(c *gin.Context) {
	var req request_models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := a.assessmentService.Chat(c.Request.Context(), middleware.SessionToken(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, resp)
}
