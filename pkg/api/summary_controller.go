package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campus-tools/ecard-notify/pkg/system"
)

// TaskRunner is the summary task's entry point as seen from the trigger
// surface: no arguments, no result.
type TaskRunner interface {
	Run(ctx context.Context)
}

// SummaryController exposes the scheduler-facing trigger route. The trigger
// is fire-and-forget: the scheduler always gets a 200, the task reports its
// own outcome by mail.
type SummaryController struct {
	task TaskRunner
	log  *zap.SugaredLogger
}

func NewSummaryController(task TaskRunner, log *zap.SugaredLogger) *SummaryController {
	return &SummaryController{
		task: task,
		log:  log.Named("summary-api"),
	}
}

func (sc *SummaryController) BasePath() string {
	return "/tasks"
}

func (sc *SummaryController) Handlers() []gin.HandlerFunc {
	return nil
}

func (sc *SummaryController) Register(rg *gin.RouterGroup) error {
	rg.GET("/summary", sc.runSummary)
	return nil
}

func (sc *SummaryController) runSummary(c *gin.Context) {
	log := system.GetReqLogger(c, sc.log)
	log.Info("Summary task triggered")
	sc.task.Run(c.Request.Context())
	c.String(http.StatusOK, "ok")
}
