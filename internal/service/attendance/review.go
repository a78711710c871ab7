package attendance

import (
	"context"
	"net/http"
	"strings"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/entity"
	"geoattendance/backend/internal/pkg/geo"
	"geoattendance/backend/internal/repository/postgres/audit"
	"geoattendance/backend/internal/service/access"
	"geoattendance/backend/internal/service/verification"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Review approves or rejects a PENDING manual request. An approval
// materializes a mode=manual record at the request's event time. The status
// change, the record and the audit entry are stored together, and a request
// that is no longer PENDING at write time yields a 409.
func (s *Service) Review(ctx context.Context, req ReviewRequest) (ReviewResult, error) {
	if err := s.guard.RequireAction(req.ActionToken, req.ActorID, verification.ActionManualReview); err != nil {
		return ReviewResult{}, err
	}

	actor, err := s.accounts.GetByID(ctx, req.ActorID)
	if err != nil {
		return ReviewResult{}, err
	}
	if err = access.RequireAdministrator(actor); err != nil {
		return ReviewResult{}, err
	}

	decision := strings.ToLower(strings.TrimSpace(req.Decision))
	if decision != DecisionApprove && decision != DecisionReject {
		return ReviewResult{}, web.NewRequestError(errors.Errorf("decision must be approve or reject, got %q", req.Decision), http.StatusBadRequest)
	}

	request, err := s.requests.GetByID(ctx, req.RequestID)
	if err != nil {
		return ReviewResult{}, err
	}
	if !access.CanManage(actor, request.SiteID) {
		return ReviewResult{}, web.NewRequestError(errors.New("request belongs to another site"), http.StatusForbidden)
	}
	if request.Status != entity.StatusPending {
		return ReviewResult{}, web.NewRequestError(errors.New("manual request already processed"), http.StatusConflict)
	}

	var comment *string
	if req.Comment != nil {
		if c := strings.TrimSpace(*req.Comment); c != "" {
			comment = &c
		}
	}

	now := s.now().UTC()
	request.ReviewedBy = &actor.ID
	request.ReviewedAt = &now
	request.ReviewComment = comment

	var record *entity.AttendanceRecord
	action := "MANUAL_REJECT"
	request.Status = entity.StatusRejected

	if decision == DecisionApprove {
		site, err := s.sites.GetByID(ctx, request.SiteID)
		if err != nil {
			if web.StatusOf(err) == http.StatusNotFound {
				return ReviewResult{}, web.NewRequestError(errors.Wrap(err, "request site"), http.StatusPreconditionFailed)
			}
			return ReviewResult{}, err
		}

		record = &entity.AttendanceRecord{
			ID:             uuid.NewString(),
			AccountID:      request.AccountID,
			SiteID:         request.SiteID,
			Kind:           request.Kind,
			RecordedAt:     request.EventAt.UTC(),
			Latitude:       request.Latitude,
			Longitude:      request.Longitude,
			InsideGeofence: geo.Evaluate(fence(site), request.Latitude, request.Longitude),
			Mode:           entity.ModeManual,
			DeviceInfo:     request.DeviceInfo,
			Evidence:       request.Evidence,
		}
		action = "MANUAL_APPROVE"
		request.Status = entity.StatusApproved
	}

	entry := audit.NewEntry(actor.ID, audit.EntityManualRequest, request.ID, action, req.IP, map[string]interface{}{
		"comment": comment,
	}, now)

	if err = s.requests.Decide(ctx, request, record, &entry); err != nil {
		return ReviewResult{}, err
	}

	result := ReviewResult{RequestID: request.ID, Status: request.Status}
	if record != nil {
		result.RecordID = &record.ID
	}
	return result, nil
}
