package http

import (
	"dispatch-srv/pkg/errors"
	"dispatch-srv/pkg/response"

	"github.com/gin-gonic/gin"
)

// report handles SOS intake. The stored report immediately raises the alarm
// fan-out; the response carries both the row and the fan-out outcome.
// @Summary Report an emergency
// @Description Store an SOS report and raise the alarm to on-duty responders
// @Tags Emergency
// @Accept json
// @Produce json
// @Param body body reportReq true "Emergency report"
// @Success 200 {object} response.Resp "Stored report and alarm outcome"
// @Failure 400 {object} response.Resp "Validation error"
// @Router /api/v1/emergencies [post]
func (h *Handler) report(c *gin.Context) {
	ctx := c.Request.Context()

	var req reportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errors.NewValidationError("body", "invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		response.Error(c, err)
		return
	}

	out, err := h.uc.Report(ctx, req.toInput(reporterID(c)))
	if err != nil {
		h.logger.Errorf(ctx, "internal.dispatch.delivery.http.report: %v", err)
		response.ErrorWithMap(c, mapError(err), errorMapping)
		return
	}

	response.OK(c, out)
}

// listActive returns all emergencies that are not resolved or cancelled.
// @Summary List active emergencies
// @Tags Emergency
// @Produce json
// @Success 200 {object} response.Resp "Active emergencies"
// @Router /api/v1/emergencies/active [get]
func (h *Handler) listActive(c *gin.Context) {
	ctx := c.Request.Context()

	emergencies, err := h.uc.ActiveEmergencies(ctx)
	if err != nil {
		h.logger.Errorf(ctx, "internal.dispatch.delivery.http.listActive: %v", err)
		response.ErrorWithMap(c, err, errorMapping)
		return
	}

	response.OK(c, emergencies)
}

// detail returns one emergency with its assignment history.
// @Summary Get emergency detail
// @Tags Emergency
// @Produce json
// @Param id path int true "Emergency ID"
// @Success 200 {object} response.Resp "Emergency with assignments"
// @Failure 404 {object} response.Resp "Emergency not found"
// @Router /api/v1/emergencies/{id} [get]
func (h *Handler) detail(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	out, err := h.uc.EmergencyDetail(ctx, id)
	if err != nil {
		h.logger.Errorf(ctx, "internal.dispatch.delivery.http.detail: %v", err)
		response.ErrorWithMap(c, err, errorMapping)
		return
	}

	response.OK(c, out)
}

// cancel closes an emergency without resolution and releases its active
// assignments.
// @Summary Cancel an emergency
// @Tags Emergency
// @Produce json
// @Param id path int true "Emergency ID"
// @Success 200 {object} response.Resp "Cancelled emergency"
// @Failure 409 {object} response.Resp "Emergency already closed"
// @Router /api/v1/emergencies/{id}/cancel [post]
func (h *Handler) cancel(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	emergency, err := h.uc.Cancel(ctx, id)
	if err != nil {
		h.logger.Errorf(ctx, "internal.dispatch.delivery.http.cancel: %v", err)
		response.ErrorWithMap(c, mapError(err), errorMapping)
		return
	}

	response.OK(c, emergency)
}

// resolve closes an emergency as handled and notifies the reporter.
// @Summary Resolve an emergency
// @Tags Emergency
// @Produce json
// @Param id path int true "Emergency ID"
// @Success 200 {object} response.Resp "Resolved emergency"
// @Failure 409 {object} response.Resp "Emergency already closed"
// @Router /api/v1/emergencies/{id}/resolve [post]
func (h *Handler) resolve(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	emergency, err := h.uc.ResolveAll(ctx, id)
	if err != nil {
		h.logger.Errorf(ctx, "internal.dispatch.delivery.http.resolve: %v", err)
		response.ErrorWithMap(c, mapError(err), errorMapping)
		return
	}

	response.OK(c, emergency)
}

// accept claims an emergency for a responder.
// @Summary Accept an emergency
// @Tags Responder
// @Accept json
// @Produce json
// @Param id path int true "Responder ID"
// @Param body body actionReq true "Target emergency"
// @Success 200 {object} response.Resp "Assignment"
// @Failure 409 {object} response.Resp "Emergency already closed"
// @Router /api/v1/responders/{id}/accept [post]
func (h *Handler) accept(c *gin.Context) {
	responderID, ok := h.actorID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var req actionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errors.NewValidationError("body", "invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		response.Error(c, err)
		return
	}

	out, err := h.uc.Accept(ctx, req.toInput(responderID))
	if err != nil {
		h.logger.Errorf(ctx, "internal.dispatch.delivery.http.accept: %v", err)
		response.ErrorWithMap(c, mapError(err), errorMapping)
		return
	}

	response.OK(c, out)
}

// arrive marks the responder on scene.
// @Summary Arrive at an emergency
// @Tags Responder
// @Accept json
// @Produce json
// @Param id path int true "Responder ID"
// @Param body body actionReq true "Target emergency"
// @Success 200 {object} response.Resp "Assignment"
// @Failure 409 {object} response.Resp "Invalid transition"
// @Router /api/v1/responders/{id}/arrive [post]
func (h *Handler) arrive(c *gin.Context) {
	responderID, ok := h.actorID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var req actionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errors.NewValidationError("body", "invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		response.Error(c, err)
		return
	}

	out, err := h.uc.Arrive(ctx, req.toInput(responderID))
	if err != nil {
		h.logger.Errorf(ctx, "internal.dispatch.delivery.http.arrive: %v", err)
		response.ErrorWithMap(c, mapError(err), errorMapping)
		return
	}

	response.OK(c, out)
}

// complete closes out an assignment with the action report.
// @Summary Complete an emergency
// @Tags Responder
// @Accept json
// @Produce json
// @Param id path int true "Responder ID"
// @Param body body completeReq true "Completion report"
// @Success 200 {object} response.Resp "Resolved assignment"
// @Failure 409 {object} response.Resp "Invalid transition"
// @Router /api/v1/responders/{id}/complete [post]
func (h *Handler) complete(c *gin.Context) {
	responderID, ok := h.actorID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var req completeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errors.NewValidationError("body", "invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		response.Error(c, err)
		return
	}

	out, err := h.uc.Complete(ctx, req.toInput(responderID))
	if err != nil {
		h.logger.Errorf(ctx, "internal.dispatch.delivery.http.complete: %v", err)
		response.ErrorWithMap(c, mapError(err), errorMapping)
		return
	}

	response.OK(c, out)
}

// checkIn starts a duty shift.
// @Summary Check in for duty
// @Tags Responder
// @Accept json
// @Produce json
// @Param id path int true "Responder ID"
// @Param body body checkInReq false "Optional starting position"
// @Success 200 {object} response.Resp "Responder"
// @Router /api/v1/responders/{id}/check-in [post]
func (h *Handler) checkIn(c *gin.Context) {
	responderID, ok := h.actorID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var req checkInReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, errors.NewValidationError("body", "invalid JSON body"))
			return
		}
	}

	responder, err := h.uc.CheckIn(ctx, req.toInput(responderID))
	if err != nil {
		h.logger.Errorf(ctx, "internal.dispatch.delivery.http.checkIn: %v", err)
		response.ErrorWithMap(c, mapError(err), errorMapping)
		return
	}

	response.OK(c, responder)
}

// checkOut ends a duty shift.
// @Summary Check out from duty
// @Tags Responder
// @Produce json
// @Param id path int true "Responder ID"
// @Success 200 {object} response.Resp "Responder"
// @Router /api/v1/responders/{id}/check-out [post]
func (h *Handler) checkOut(c *gin.Context) {
	responderID, ok := h.actorID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	responder, err := h.uc.CheckOut(ctx, responderID)
	if err != nil {
		h.logger.Errorf(ctx, "internal.dispatch.delivery.http.checkOut: %v", err)
		response.ErrorWithMap(c, mapError(err), errorMapping)
		return
	}

	response.OK(c, responder)
}

// updateLocation records a live position report.
// @Summary Update responder location
// @Tags Responder
// @Accept json
// @Produce json
// @Param id path int true "Responder ID"
// @Param body body locationReq true "Position"
// @Success 200 {object} response.Resp
// @Failure 400 {object} response.Resp "Invalid coordinates"
// @Router /api/v1/responders/{id}/location [post]
func (h *Handler) updateLocation(c *gin.Context) {
	responderID, ok := h.actorID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var req locationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errors.NewValidationError("body", "invalid JSON body"))
		return
	}

	if err := h.uc.UpdateLocation(ctx, req.toInput(responderID)); err != nil {
		h.logger.Errorf(ctx, "internal.dispatch.delivery.http.updateLocation: %v", err)
		response.ErrorWithMap(c, mapError(err), errorMapping)
		return
	}

	response.OK(c, nil)
}

// dashboard returns the reconnect snapshot plus history stats.
// @Summary Responder dashboard
// @Tags Responder
// @Produce json
// @Param id path int true "Responder ID"
// @Success 200 {object} response.Resp "Snapshot and stats"
// @Router /api/v1/responders/{id}/dashboard [get]
func (h *Handler) dashboard(c *gin.Context) {
	responderID, ok := h.actorID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	snapshot, err := h.uc.Snapshot(ctx, responderID)
	if err != nil {
		h.logger.Errorf(ctx, "internal.dispatch.delivery.http.dashboard: %v", err)
		response.ErrorWithMap(c, mapError(err), errorMapping)
		return
	}

	stats, err := h.uc.Stats(ctx, responderID)
	if err != nil {
		h.logger.Errorf(ctx, "internal.dispatch.delivery.http.dashboard: %v", err)
		response.ErrorWithMap(c, mapError(err), errorMapping)
		return
	}

	response.OK(c, dashboardResp{Snapshot: snapshot, Stats: stats})
}
