package attendance

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/entity"
	"geoattendance/backend/internal/pkg/calendar"
	"geoattendance/backend/internal/pkg/geo"
	"geoattendance/backend/internal/service/access"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// MinJustificationLength is the minimum trimmed length of a manual request
// justification.
const MinJustificationLength = 15

// Submit records a check-in for the authenticated account actorID.
// Geolocated modes materialize a record at server time. Manual mode files a
// PENDING request for review instead.
func (s *Service) Submit(ctx context.Context, actorID string, req SubmitRequest) (SubmitResult, error) {
	if req.AccountID != "" && req.AccountID != actorID {
		return SubmitResult{}, web.NewRequestError(errors.New("account does not match the authenticated user"), http.StatusForbidden)
	}

	account, err := s.accounts.GetByID(ctx, actorID)
	if err != nil {
		return SubmitResult{}, err
	}
	if account.SiteID == nil {
		return SubmitResult{}, web.NewRequestError(access.ErrNoSite, http.StatusPreconditionFailed)
	}

	site, err := s.sites.GetByID(ctx, *account.SiteID)
	if err != nil {
		if web.StatusOf(err) == http.StatusNotFound {
			return SubmitResult{}, web.NewRequestError(errors.Wrap(err, "assigned site"), http.StatusPreconditionFailed)
		}
		return SubmitResult{}, err
	}

	kind := strings.ToLower(strings.TrimSpace(req.Kind))

	switch mode := strings.ToLower(strings.TrimSpace(req.Mode)); mode {
	case entity.ModeManual:
		return s.submitManual(ctx, account, site, kind, req)
	case entity.ModeApp, entity.ModeSyncOffline:
		return s.submitGeolocated(ctx, account, site, kind, mode, req)
	default:
		return SubmitResult{}, web.NewRequestError(errors.Errorf("mode must be app, manual or sync_offline, got %q", req.Mode), http.StatusBadRequest)
	}
}

func (s *Service) submitManual(ctx context.Context, account entity.Account, site entity.Site, kind string, req SubmitRequest) (SubmitResult, error) {
	if kind != entity.KindEntry && kind != entity.KindExit {
		return SubmitResult{}, web.NewRequestError(errors.New("manual requests must be entry or exit"), http.StatusBadRequest)
	}

	eventAt := s.now().UTC()
	if req.Timestamp != nil && strings.TrimSpace(*req.Timestamp) != "" {
		t, err := calendar.ParseTimestamp(*req.Timestamp, s.loc)
		if err != nil {
			return SubmitResult{}, err
		}
		eventAt = t
	}

	justification := strings.TrimSpace(deref(req.Detail))
	if justification == "" {
		justification = strings.TrimSpace(deref(req.Evidence))
	}
	if utf8.RuneCountInString(justification) < MinJustificationLength {
		return SubmitResult{}, &web.Error{
			Err:    errors.Errorf("justification must be at least %d characters", MinJustificationLength),
			Status: http.StatusUnprocessableEntity,
			Fields: []web.FieldError{{Field: "detail", Error: "too short"}},
		}
	}

	if err := checkCoordinates(req.Latitude, req.Longitude); err != nil {
		return SubmitResult{}, err
	}

	request := entity.ManualRequest{
		ID:            uuid.NewString(),
		AccountID:     account.ID,
		SiteID:        site.ID,
		Kind:          kind,
		EventAt:       eventAt,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		DeviceInfo:    req.DeviceInfo,
		Evidence:      req.Evidence,
		Justification: justification,
		Status:        entity.StatusPending,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.requests.Create(ctx, &request); err != nil {
		return SubmitResult{}, err
	}

	return SubmitResult{Status: entity.StatusPending, RequestID: &request.ID}, nil
}

func (s *Service) submitGeolocated(ctx context.Context, account entity.Account, site entity.Site, kind, mode string, req SubmitRequest) (SubmitResult, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return SubmitResult{}, &web.Error{
			Err:    errors.New("latitude and longitude are required for geolocated check-ins"),
			Status: http.StatusUnprocessableEntity,
			Fields: []web.FieldError{{Field: "latitude", Error: "required"}, {Field: "longitude", Error: "required"}},
		}
	}
	if req.Timestamp != nil && strings.TrimSpace(*req.Timestamp) != "" {
		return SubmitResult{}, web.NewRequestError(errors.New("timestamp override is only allowed in manual mode"), http.StatusBadRequest)
	}
	if kind != entity.KindEntry && kind != entity.KindExit && kind != entity.KindManual {
		return SubmitResult{}, web.NewRequestError(errors.Errorf("kind must be entry, exit or manual, got %q", req.Kind), http.StatusBadRequest)
	}
	if err := checkCoordinates(req.Latitude, req.Longitude); err != nil {
		return SubmitResult{}, err
	}

	record := entity.AttendanceRecord{
		ID:             uuid.NewString(),
		AccountID:      account.ID,
		SiteID:         site.ID,
		Kind:           kind,
		RecordedAt:     s.now().UTC(),
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		InsideGeofence: geo.Evaluate(fence(site), req.Latitude, req.Longitude),
		Mode:           mode,
		DeviceInfo:     req.DeviceInfo,
		Evidence:       req.Evidence,
		DetectedIP:     req.DetectedIP,
		DetectedSSID:   req.DetectedSSID,
		DetectedBSSID:  req.DetectedBSSID,
	}
	if err := s.records.Create(ctx, &record); err != nil {
		return SubmitResult{}, err
	}

	return SubmitResult{Status: StatusRecorded, RecordID: &record.ID, InsideGeofence: record.InsideGeofence}, nil
}

func checkCoordinates(values ...*string) error {
	for _, v := range values {
		if v == nil {
			continue
		}
		if _, err := geo.ParseCoordinate(*v); err != nil {
			return err
		}
	}
	return nil
}

func fence(site entity.Site) geo.Fence {
	return geo.Fence{Latitude: site.Latitude, Longitude: site.Longitude, RadiusMeters: site.RadiusMeters}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
