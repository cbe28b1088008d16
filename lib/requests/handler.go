package requestshandler

import (
	"bytes"
	"context"
	pdfexport "request-approval-backend/lib/export/pdf"
	xlsexport "request-approval-backend/lib/export/xls"
	managerresolve "request-approval-backend/lib/manager-resolve"
	requestsstore "request-approval-backend/lib/requests/store"
	usersstore "request-approval-backend/lib/users/store"
	"request-approval-backend/lib/utils/apperr"
	"request-approval-backend/lib/utils/metrics"
	"request-approval-backend/models"
	requestapimodels "request-approval-backend/models/api/request"
	dbmodels "request-approval-backend/models/db"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	ActionCreate  = "create"
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionClose   = "close"
)

type Provider interface {
	Create(ctx context.Context, caller models.AuthUser, request requestapimodels.CreateRequest) (requestapimodels.RequestView, error)
	List(ctx context.Context, caller models.AuthUser) ([]requestapimodels.RequestView, error)
	Get(ctx context.Context, caller models.AuthUser, id uint) (requestapimodels.RequestView, error)
	Approve(ctx context.Context, caller models.AuthUser, id uint) (requestapimodels.RequestView, error)
	Reject(ctx context.Context, caller models.AuthUser, id uint, request requestapimodels.RejectRequest) (requestapimodels.RequestView, error)
	Close(ctx context.Context, caller models.AuthUser, id uint) (requestapimodels.RequestView, error)
	Export(ctx context.Context, caller models.AuthUser) (*bytes.Buffer, error)
	Slip(ctx context.Context, caller models.AuthUser, id uint) ([]byte, error)
}

func NewHandler(requestsStore requestsstore.Provider, usersStore usersstore.Provider, resolver managerresolve.Provider,
	xlsExport xlsexport.Provider, metricsProvider metrics.Provider) Provider {
	return impl{
		requestsStore: requestsStore,
		usersStore:    usersStore,
		resolver:      resolver,
		xlsExport:     xlsExport,
		metrics:       metricsProvider,
		now:           time.Now,
	}
}

type impl struct {
	requestsStore requestsstore.Provider
	usersStore    usersstore.Provider
	resolver      managerresolve.Provider
	xlsExport     xlsexport.Provider
	metrics       metrics.Provider
	now           func() time.Time
}

// transition describes one guarded status change.
type transition struct {
	action    string
	to        models.RequestStatus
	authorize func(caller models.AuthUser, rec dbmodels.Request) error
	wrongFrom string
	changes   func(caller models.AuthUser, now time.Time) map[string]interface{}
}

func (i impl) Create(ctx context.Context, caller models.AuthUser, request requestapimodels.CreateRequest) (view requestapimodels.RequestView, err error) {
	defer func() { i.metrics.ObserveTransition(ActionCreate, err) }()

	if fields := request.Validate(); !fields.Empty() {
		return requestapimodels.RequestView{}, apperr.Validation(fields)
	}
	if !caller.Role.IsEmployee() {
		return requestapimodels.RequestView{}, apperr.Forbidden("only employees can create requests")
	}
	logger := log.WithField("user_id", caller.ID)

	me, err := i.usersStore.GetByID(ctx, caller.ID)
	if err != nil {
		logger.WithError(err).Error("failed to load caller")
		return requestapimodels.RequestView{}, apperr.Internal(err, "failed to load user")
	}
	if me == nil {
		logger.Warn("request creator no longer exists")
		return requestapimodels.RequestView{}, apperr.FieldError("managerName", "manager does not match your account")
	}
	manager, err := i.resolver.Resolve(ctx, managerresolve.ManagerRef{
		ByName:   request.ManagerName,
		PreferID: me.ManagerID,
	})
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return requestapimodels.RequestView{}, apperr.FieldError("managerName", "manager not found")
		}
		return requestapimodels.RequestView{}, err
	}
	if me.ManagerID == nil || *me.ManagerID != manager.ID {
		return requestapimodels.RequestView{}, apperr.FieldError("managerName", "manager does not match your account")
	}

	rec := dbmodels.Request{
		Title:        request.Title,
		Description:  request.Description,
		Status:       models.RequestStatusPendingApproval,
		CreatedByID:  me.ID,
		AssignedToID: me.ID,
	}
	id, err := i.requestsStore.Create(ctx, rec)
	if err != nil {
		logger.WithError(err).Error("failed to create request")
		return requestapimodels.RequestView{}, apperr.Internal(err, "failed to create request")
	}
	logger.
		WithField("rec_id", id).
		WithField("manager_id", manager.ID).
		Info("request created")
	return i.reload(ctx, id)
}

func (i impl) List(ctx context.Context, caller models.AuthUser) ([]requestapimodels.RequestView, error) {
	var list []dbmodels.Request
	var err error
	switch caller.Role {
	case models.ManagerRole:
		list, err = i.requestsStore.ListForManager(ctx, caller.ID)
	case models.EmployeeRole:
		list, err = i.requestsStore.ListForEmployee(ctx, caller.ID)
	default:
		return nil, apperr.Forbidden("unknown role")
	}
	if err != nil {
		log.WithField("user_id", caller.ID).WithError(err).Error("failed to list requests")
		return nil, apperr.Internal(err, "failed to list requests")
	}
	result := make([]requestapimodels.RequestView, 0, len(list))
	for _, rec := range list {
		result = append(result, requestapimodels.RequestConvert(rec))
	}
	return result, nil
}

func (i impl) Get(ctx context.Context, caller models.AuthUser, id uint) (requestapimodels.RequestView, error) {
	rec, err := i.load(ctx, id)
	if err != nil {
		return requestapimodels.RequestView{}, err
	}
	if !isVisible(caller, *rec) {
		return requestapimodels.RequestView{}, apperr.Forbidden("request is not visible to you")
	}
	return requestapimodels.RequestConvert(*rec), nil
}

func (i impl) Approve(ctx context.Context, caller models.AuthUser, id uint) (requestapimodels.RequestView, error) {
	return i.apply(ctx, caller, id, transition{
		action:    ActionApprove,
		to:        models.RequestStatusApproved,
		authorize: authorizeManager("only managers can approve requests"),
		wrongFrom: "request is not pending approval",
		changes: func(caller models.AuthUser, now time.Time) map[string]interface{} {
			return map[string]interface{}{
				"status":           models.RequestStatusApproved,
				"approved_by_id":   caller.ID,
				"approved_at":      now,
				"rejected_at":      nil,
				"rejection_reason": nil,
			}
		},
	})
}

func (i impl) Reject(ctx context.Context, caller models.AuthUser, id uint, request requestapimodels.RejectRequest) (requestapimodels.RequestView, error) {
	if fields := request.Validate(); !fields.Empty() {
		err := apperr.Validation(fields)
		i.metrics.ObserveTransition(ActionReject, err)
		return requestapimodels.RequestView{}, err
	}
	return i.apply(ctx, caller, id, transition{
		action:    ActionReject,
		to:        models.RequestStatusRejected,
		authorize: authorizeManager("only managers can reject requests"),
		wrongFrom: "request is not pending approval",
		changes: func(caller models.AuthUser, now time.Time) map[string]interface{} {
			return map[string]interface{}{
				"status":           models.RequestStatusRejected,
				"rejected_at":      now,
				"rejection_reason": request.Reason,
				"approved_by_id":   nil,
				"approved_at":      nil,
			}
		},
	})
}

func (i impl) Close(ctx context.Context, caller models.AuthUser, id uint) (requestapimodels.RequestView, error) {
	return i.apply(ctx, caller, id, transition{
		action:    ActionClose,
		to:        models.RequestStatusClosed,
		authorize: authorizeAssignee,
		wrongFrom: "request is not approved",
		changes: func(caller models.AuthUser, now time.Time) map[string]interface{} {
			return map[string]interface{}{
				"status":    models.RequestStatusClosed,
				"closed_at": now,
			}
		},
	})
}

func (i impl) Export(ctx context.Context, caller models.AuthUser) (*bytes.Buffer, error) {
	list, err := i.List(ctx, caller)
	if err != nil {
		return nil, err
	}
	buf, err := i.xlsExport.ExportRequestList(list)
	if err != nil {
		log.WithField("user_id", caller.ID).WithError(err).Error("failed to export requests")
		return nil, apperr.Internal(err, "failed to export requests")
	}
	return buf, nil
}

func (i impl) Slip(ctx context.Context, caller models.AuthUser, id uint) ([]byte, error) {
	view, err := i.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	pdfFile, err := pdfexport.GenerateRequestSlip(view)
	if err != nil {
		log.WithField("rec_id", id).WithError(err).Error("failed to render request slip")
		return nil, apperr.Internal(err, "failed to render request slip")
	}
	return pdfFile, nil
}

// apply checks existence, then actor, then source state, and writes the
// change only if the status is still the one that was checked.
func (i impl) apply(ctx context.Context, caller models.AuthUser, id uint, tr transition) (view requestapimodels.RequestView, err error) {
	defer func() { i.metrics.ObserveTransition(tr.action, err) }()

	logger := log.
		WithField("rec_id", id).
		WithField("user_id", caller.ID).
		WithField("action", tr.action)

	rec, err := i.load(ctx, id)
	if err != nil {
		return requestapimodels.RequestView{}, err
	}
	if err = tr.authorize(caller, *rec); err != nil {
		logger.Debug(err.Error())
		return requestapimodels.RequestView{}, err
	}
	if !rec.Status.IsAllowChange(tr.to) {
		return requestapimodels.RequestView{}, apperr.Conflict(tr.wrongFrom)
	}

	updated, err := i.requestsStore.UpdateWithStatus(ctx, id, rec.Status, tr.changes(caller, i.now()))
	if err != nil {
		logger.WithError(err).Error("failed to update request status")
		return requestapimodels.RequestView{}, apperr.Internal(err, "failed to update request")
	}
	if !updated {
		// another writer changed the status after it was read
		if _, err = i.load(ctx, id); err != nil {
			return requestapimodels.RequestView{}, err
		}
		logger.Info("request status changed concurrently")
		return requestapimodels.RequestView{}, apperr.Conflict(tr.wrongFrom)
	}
	logger.
		WithField("from", rec.Status).
		WithField("to", tr.to).
		Info("request status changed")
	return i.reload(ctx, id)
}

func (i impl) load(ctx context.Context, id uint) (*dbmodels.Request, error) {
	rec, err := i.requestsStore.GetByID(ctx, id)
	if err != nil {
		log.WithField("rec_id", id).WithError(err).Error("failed to load request")
		return nil, apperr.Internal(err, "failed to load request")
	}
	if rec == nil {
		return nil, apperr.NotFound("request not found")
	}
	return rec, nil
}

func (i impl) reload(ctx context.Context, id uint) (requestapimodels.RequestView, error) {
	rec, err := i.load(ctx, id)
	if err != nil {
		return requestapimodels.RequestView{}, err
	}
	return requestapimodels.RequestConvert(*rec), nil
}

func authorizeManager(roleMessage string) func(caller models.AuthUser, rec dbmodels.Request) error {
	return func(caller models.AuthUser, rec dbmodels.Request) error {
		if !caller.Role.IsManager() {
			return apperr.Forbidden(roleMessage)
		}
		if !isManagerOf(caller, rec) {
			return apperr.Forbidden("not manager of assigned employee")
		}
		return nil
	}
}

func authorizeAssignee(caller models.AuthUser, rec dbmodels.Request) error {
	if !caller.Role.IsEmployee() {
		return apperr.Forbidden("only the assigned employee can close requests")
	}
	if rec.AssignedToID != caller.ID {
		return apperr.Forbidden("not assigned employee")
	}
	return nil
}

func isManagerOf(caller models.AuthUser, rec dbmodels.Request) bool {
	return rec.AssignedTo != nil && rec.AssignedTo.ManagerID != nil && *rec.AssignedTo.ManagerID == caller.ID
}

func isVisible(caller models.AuthUser, rec dbmodels.Request) bool {
	switch caller.Role {
	case models.ManagerRole:
		return isManagerOf(caller, rec)
	case models.EmployeeRole:
		return rec.CreatedByID == caller.ID || rec.AssignedToID == caller.ID
	}
	return false
}
