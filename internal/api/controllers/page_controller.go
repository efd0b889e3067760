package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"learnpath/internal/services"
	"learnpath/pkg/middleware"
	"learnpath/pkg/utils"
)

type PageController struct {
	assessmentService services.AssessmentServiceInterface
}

func NewPageController(assessmentService services.AssessmentServiceInterface) *PageController {
	return &PageController{assessmentService: assessmentService}
}

type indexView struct {
	Experience string
	Education  string
	Goal       string
	HasProfile bool
	Stage      string
}

// Index renders the single-page frontend with whatever profile the session holds.
func (p *PageController) Index(c *gin.Context) {
	session, err := p.assessmentService.GetSession(c.Request.Context(), middleware.SessionToken(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.HTML(http.StatusOK, "index.html", indexView{
		Experience: session.Experience,
		Education:  session.Education,
		Goal:       session.Goal,
		HasProfile: session.HasProfile(),
		Stage:      string(session.Stage),
	})
}

func (p *PageController) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
