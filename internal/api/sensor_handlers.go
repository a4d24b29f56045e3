package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JoshuaPothen/SleepTrackerV2/internal/service"
)

// PostIngest is the device-facing write path: validate, classify, append,
// publish. The response carries the computed stage so firmware can show
// immediate feedback.
func PostIngest(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.IngestRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := service.ValidateIngestRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		reading, err := service.IngestReading(c.Request.Context(), app.ReadingRepo(), app.Publisher(), app.Thresholds(), app.Logger(), &body)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to store reading")
			return
		}

		HandleSuccess(c, app.Logger(), gin.H{"ok": true, "sleep_stage": reading.SleepStage}, nil)
	}
}

func GetReadings(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "200"))

		var since *time.Time
		if raw := c.Query("since"); raw != "" {
			ts, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				HandleError(c, app.Logger(), err, 400, "Invalid 'since' timestamp")
				return
			}
			since = &ts
		}

		readings, err := service.ListRecentReadings(c.Request.Context(), app.ReadingRepo(), since, limit)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch readings")
			return
		}

		HandleSuccess(c, app.Logger(), gin.H{"readings": readings}, nil)
	}
}

func GetSummary(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

		summary, days, err := service.BuildDailySummary(c.Request.Context(), app.ReadingRepo(), days, app.Thresholds())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to build summary")
			return
		}

		HandleSuccess(c, app.Logger(), gin.H{"summary": summary}, map[string]any{"days": days})
	}
}

func GetOvernight(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		overnight, err := service.BuildOvernight(c.Request.Context(), app.ReadingRepo(), time.Now())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to build overnight summary")
			return
		}

		HandleSuccess(c, app.Logger(), overnight, nil)
	}
}

func Healthz() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
