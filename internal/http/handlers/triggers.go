// Package handlers exposes the fulfillment workflows as trigger endpoints.
// An external scheduler (cron, systemd timer) POSTs these on its cadence;
// the handlers run one pass and report what happened.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LArkema/dctransistor-project/internal/http/middleware"
	"github.com/LArkema/dctransistor-project/internal/modules/intake"
	"github.com/LArkema/dctransistor-project/internal/modules/shipping"
	"github.com/LArkema/dctransistor-project/internal/shared/apperr"
)

type IntakeRunner interface {
	Run(ctx context.Context) (intake.Summary, error)
}

type PickupScheduler interface {
	Schedule(ctx context.Context) (shipping.PickupOutcome, error)
}

type DeliverySweeper interface {
	Run(ctx context.Context) error
}

type RetentionSweeper interface {
	Run(ctx context.Context) error
}

type TriggerHandler struct {
	Intake    IntakeRunner
	Pickups   PickupScheduler
	Tracking  DeliverySweeper
	Retention RetentionSweeper
}

func (h *TriggerHandler) Register(r gin.IRouter) {
	r.GET("/healthz", h.Health)

	t := r.Group("/triggers")
	t.POST("/intake", h.RunIntake)
	t.POST("/pickup", h.RunPickup)
	t.POST("/track", h.RunTracking)
	t.POST("/retention", h.RunRetention)
}

func (h *TriggerHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *TriggerHandler) RunIntake(c *gin.Context) {
	sum, err := h.Intake.Run(c.Request.Context())
	if err != nil {
		middleware.Fail(c, apperr.UnavailableErr("Payment intake failed.", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"messages":   sum.Messages,
		"recorded":   sum.Recorded,
		"duplicates": sum.Duplicates,
		"skipped":    sum.Skipped,
		"failed":     sum.Failed,
	})
}

func (h *TriggerHandler) RunPickup(c *gin.Context) {
	out, err := h.Pickups.Schedule(c.Request.Context())
	if err != nil {
		middleware.Fail(c, apperr.UnavailableErr("Pickup scheduling failed.", err))
		return
	}

	body := gin.H{
		"confirmed": out.Confirmed(),
		"requested": len(out.Requested),
		"updated":   len(out.Updated),
	}
	if out.ConfirmationCode != "" {
		body["confirmation_code"] = out.ConfirmationCode
	}
	if out.Flagged != "" {
		body["flagged_order_id"] = out.Flagged
	}
	if out.Partial() {
		body["partial"] = true
	}
	c.JSON(http.StatusOK, body)
}

func (h *TriggerHandler) RunTracking(c *gin.Context) {
	if err := h.Tracking.Run(c.Request.Context()); err != nil {
		middleware.Fail(c, apperr.UnavailableErr("Delivery sweep failed.", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *TriggerHandler) RunRetention(c *gin.Context) {
	if err := h.Retention.Run(c.Request.Context()); err != nil {
		middleware.Fail(c, apperr.UnavailableErr("Retention sweep failed.", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
