package routes

import (
	"net/http"

	"repair_costing/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathAssessments = "/assessments"
	PathPayments    = "/payments"
	PathRates       = "/rates"
)

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}

func addRatesRoutes(rg *gin.RouterGroup, h *handlers.RatesHandler) {
	rates := rg.Group(PathRates)
	{
		rates.GET("", h.Get)
		rates.PUT("", h.Update)
	}
}

func addAssessmentRoutes(rg *gin.RouterGroup, h Handlers) {
	assessments := rg.Group(PathAssessments)
	{
		assessments.POST("", h.Assessments.Create)
		assessments.GET("/:id", h.Assessments.Get)
		assessments.POST("/:id/advance", h.Assessments.Advance)
		assessments.POST("/:id/cancel", h.Assessments.Cancel)
	}

	estimate := assessments.Group("/:id/estimate")
	{
		estimate.GET("", h.Estimates.GetEstimate)
		estimate.POST("/lines", h.Estimates.AddLine)
		estimate.PUT("/lines/:line_id", h.Estimates.UpdateLine)
		estimate.DELETE("/lines/:line_id", h.Estimates.DeleteLine)
		estimate.PUT("/rates", h.Estimates.SetRates)
		estimate.POST("/finalize", h.Estimates.Finalize)
	}

	assessments.GET("/:id/reconciled", h.Additionals.GetReconciled)
	assessments.POST("/:id/removals", h.Additionals.Remove)
	assessments.POST("/:id/reversals", h.Additionals.Reverse)
	additionals := assessments.Group("/:id/additionals")
	{
		additionals.POST("", h.Additionals.Add)
		additionals.POST("/:additional_id/approve", h.Additionals.Approve)
		additionals.POST("/:additional_id/decline", h.Additionals.Decline)
		additionals.PUT("/:additional_id/betterment", h.Additionals.SetBetterment)
	}

	frc := assessments.Group("/:id/frc")
	{
		frc.POST("", h.FRC.Start)
		frc.GET("", h.FRC.Get)
		frc.PUT("/lines/:line_id", h.FRC.UpdateLine)
		frc.POST("/merge", h.FRC.MergeAdditionals)
		frc.POST("/complete", h.FRC.Complete)
		frc.POST("/reopen", h.FRC.Reopen)
	}
}

func addPaymentRoutes(rg *gin.RouterGroup, h *handlers.BillingPaymentHandler) {
	rg.POST(PathAssessments+"/:id/payments", h.CreatePayment)
	rg.GET(PathAssessments+"/:id/payments", h.ListPayments)
	rg.GET(PathPayments+"/:payment_id", h.GetPayment)
}
