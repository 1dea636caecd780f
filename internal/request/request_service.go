package request

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/fzn99-cell/RHConnect/internal/audit"
	"github.com/fzn99-cell/RHConnect/internal/events"
	"github.com/fzn99-cell/RHConnect/internal/messaging/kafka"
	"github.com/fzn99-cell/RHConnect/internal/notification"
	requesterrors "github.com/fzn99-cell/RHConnect/internal/request/errors"
	"github.com/fzn99-cell/RHConnect/internal/shared/contextutil"
	"github.com/fzn99-cell/RHConnect/internal/shared/response"
	"github.com/fzn99-cell/RHConnect/internal/upload"
	"github.com/fzn99-cell/RHConnect/internal/user"
	usererrors "github.com/fzn99-cell/RHConnect/internal/user/errors"
)

const (
	pendingCountsKeyPrefix = "request:pending_counts:"
	pendingCountsTTL       = 30 * time.Second
)

// Sort keys the list endpoint accepts, mapped to their columns.
var sortableColumns = map[string]string{
	"submittedAt": "submitted_at",
	"updatedAt":   "updated_at",
	"status":      "status",
	"requestType": "request_type",
}

//go:generate mockgen -source=request_service.go -destination=mock/request_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, userID string, form SubmitRequestForm, file *multipart.FileHeader) (RequestResponse, error)
	Review(ctx context.Context, reviewerID, requestID string, form ReviewRequestForm, file *multipart.FileHeader) error
	GetAll(ctx context.Context, role string, filter ListRequestsFilter) ([]RequestResponse, *response.PaginationMeta, error)
	PendingCounts(ctx context.Context, role, department, submitterID string) (map[string]int64, error)
	ByUser(ctx context.Context, targetUserID string) ([]RequestResponse, error)
	ByID(ctx context.Context, requestID string) (RequestDetailResponse, error)

	ListMine(ctx context.Context, userID string, filter ListRequestsFilter) ([]RequestResponse, *response.PaginationMeta, error)
	GetMine(ctx context.Context, userID, requestID string) (RequestResponse, error)
	PatchMine(ctx context.Context, userID, requestID string, req PatchMyRequestRequest) (RequestResponse, error)
	DeleteMine(ctx context.Context, userID, requestID string) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	userRepo  user.Repository
	auditRepo audit.Repository
	notifRepo notification.Repository
	outbox    kafka.OutboxRepository
	store     upload.Store
	hub       *notification.Hub
	rdb       *redis.Client
	sf        *singleflight.Group
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	userRepo user.Repository,
	auditRepo audit.Repository,
	notifRepo notification.Repository,
	outboxRepo kafka.OutboxRepository,
	store upload.Store,
	hub *notification.Hub,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("request.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("request.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		userRepo:  userRepo,
		auditRepo: auditRepo,
		notifRepo: notifRepo,
		outbox:    outboxRepo,
		store:     store,
		hub:       hub,
		rdb:       rdb,
		sf:        &singleflight.Group{},
		logger:    l,
	}
}

func hostURL() string {
	if host := os.Getenv("HOST_URL"); host != "" {
		return host
	}
	return "http://localhost:8080"
}

// buildDetail validates the per-type payload and returns the detail row
// to insert, or nil for complaint.
func buildDetail(requestType string, raw string) (any, error) {
	var data SubRequestData
	if strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return nil, requesterrors.ErrInvalidSubRequestData
		}
	}

	parseRange := func() (time.Time, time.Time, error) {
		if data.StartDate == "" || data.EndDate == "" {
			return time.Time{}, time.Time{}, requesterrors.ErrLeaveDatesRequired
		}
		start, err := time.Parse("2006-01-02", data.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, requesterrors.ErrInvalidDateFormat
		}
		end, err := time.Parse("2006-01-02", data.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, requesterrors.ErrInvalidDateFormat
		}
		if start.After(end) {
			return time.Time{}, time.Time{}, requesterrors.ErrInvalidDateRange
		}
		return start, end, nil
	}

	switch requestType {
	case TypeLeave:
		start, end, err := parseRange()
		if err != nil {
			return nil, err
		}
		return &LeaveDetail{StartDate: start, EndDate: end}, nil

	case TypeSickLeave:
		start, end, err := parseRange()
		if err != nil {
			return nil, err
		}
		return &SickLeaveDetail{StartDate: start, EndDate: end, SickDays: data.SickDays}, nil

	case TypePayslip:
		if strings.TrimSpace(data.DeliveryMode) == "" {
			return nil, requesterrors.ErrDeliveryModeRequired
		}
		return &PayslipDetail{DeliveryMode: data.DeliveryMode}, nil

	case TypeWorkCertificate:
		return &WorkCertificateDetail{Purpose: data.Purpose}, nil

	case TypeMedicalFileUpdate:
		if strings.TrimSpace(data.MRID) == "" {
			return nil, requesterrors.ErrMRIDRequired
		}
		return &MedicalFileUpdateDetail{MRID: data.MRID, Notes: data.Notes}, nil

	case TypeComplaint:
		return nil, nil

	default:
		return nil, requesterrors.ErrInvalidRequestType
	}
}

func (s *service) Submit(
	ctx context.Context,
	userID string,
	form SubmitRequestForm,
	file *multipart.FileHeader,
) (RequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("submit request",
		zap.String("request_id", rid),
		zap.String("user_id", userID),
		zap.String("request_type", form.RequestType),
	)

	submitterID, err := uuid.Parse(userID)
	if err != nil {
		return RequestResponse{}, requesterrors.ErrInvalidRequestID
	}

	if !IsValidType(form.RequestType) {
		return RequestResponse{}, requesterrors.ErrInvalidRequestType
	}

	detail, err := buildDetail(form.RequestType, form.SubRequestData)
	if err != nil {
		return RequestResponse{}, err
	}

	// The attachment hits disk before the tx opens; on rollback the
	// orphaned file is removed again.
	var stored *upload.StoredFile
	if file != nil {
		sf, err := s.store.Save(file)
		if err != nil {
			return RequestResponse{}, err
		}
		stored = &sf
	}
	cleanupStored := func() {
		if stored != nil {
			_ = s.store.Remove(stored.FileName)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		cleanupStored()
		s.logger.Error("submit request begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return RequestResponse{}, mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	req := &Request{
		ID:          uuid.New(),
		UserID:      submitterID,
		RequestType: form.RequestType,
		Description: form.Description,
		Status:      StatusPending,
	}
	if err := qtx.Create(ctx, req); err != nil {
		cleanupStored()
		s.logger.Error("submit request persist failed", zap.Error(err))
		return RequestResponse{}, mapRepositoryError(err)
	}

	if detail != nil {
		setDetailRequestID(detail, req.ID)
		if err := qtx.CreateDetail(ctx, detail); err != nil {
			cleanupStored()
			s.logger.Error("submit request detail persist failed", zap.Error(err))
			return RequestResponse{}, mapRepositoryError(err)
		}
	}

	var fileRow *File
	if stored != nil {
		fileRow = &File{
			ID:           uuid.New(),
			RequestID:    req.ID,
			OriginalName: stored.OriginalName,
			StoredName:   stored.FileName,
			FilePath:     stored.FileName,
		}
		if err := qtx.ReplaceFile(ctx, req.ID, fileRow); err != nil {
			cleanupStored()
			s.logger.Error("submit request file persist failed", zap.Error(err))
			return RequestResponse{}, mapRepositoryError(err)
		}
	}

	created, recipients, err := s.fanOutSubmission(ctx, tx, req, form.Description)
	if err != nil {
		cleanupStored()
		return RequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		cleanupStored()
		s.logger.Error("submit request commit failed", zap.String("request_id", rid), zap.Error(err))
		return RequestResponse{}, mapRepositoryError(err)
	}

	s.invalidatePendingCounts(ctx)
	s.pushNotifications(created)

	s.logger.Info("request submitted",
		zap.String("request_id", rid),
		zap.String("id", req.ID.String()),
		zap.String("request_type", req.RequestType),
		zap.Int("notified", len(recipients)),
	)

	attachDetail(req, detail)
	if fileRow != nil {
		req.Files = []File{*fileRow}
	}
	return mapToResponse(*req, hostURL()), nil
}

// fanOutSubmission creates the reviewer notifications and queues the
// email event inside the submission tx.
func (s *service) fanOutSubmission(
	ctx context.Context,
	tx *sql.Tx,
	req *Request,
	description string,
) ([]notification.Notification, []user.User, error) {
	roles := NotifyRolesFor(req.RequestType, s.logger)

	users, err := s.userRepo.FindByRoles(ctx, roles)
	if err != nil {
		s.logger.Error("resolve notification recipients failed", zap.Error(err))
		return nil, nil, mapRepositoryError(err)
	}

	recipients := make([]user.User, 0, len(users))
	for _, u := range users {
		if u.ID != req.UserID {
			recipients = append(recipients, u)
		}
	}

	title := "Nouvelle demande soumise"
	message := fmt.Sprintf("Une nouvelle demande (%s) a été soumise par un utilisateur.", req.RequestType)

	notifTx := s.notifRepo.WithTx(tx)
	created := make([]notification.Notification, 0, len(recipients))
	for _, recipient := range recipients {
		n := notification.Notification{
			ID:        uuid.New(),
			UserID:    recipient.ID,
			RequestID: &req.ID,
			Title:     title,
			Message:   message,
		}
		if err := notifTx.Create(ctx, &n); err != nil {
			s.logger.Error("create submission notification failed", zap.Error(err))
			return nil, nil, mapRepositoryError(err)
		}
		created = append(created, n)
	}

	if s.outbox != nil && len(recipients) > 0 {
		event := events.RequestSubmittedEvent{
			EventType:   events.EventTypeRequestSubmitted,
			RequestID:   req.ID.String(),
			RequestType: req.RequestType,
			SubmittedBy: req.UserID.String(),
			Description: description,
			Recipients:  eventRecipients(recipients),
			OccurredAt:  time.Now().UTC(),
		}
		if err := s.queueOutboxEvent(ctx, tx, req.ID, event.EventType, event); err != nil {
			return nil, nil, err
		}
	}

	return created, recipients, nil
}

func eventRecipients(users []user.User) []events.Recipient {
	out := make([]events.Recipient, 0, len(users))
	for _, u := range users {
		name := ""
		if u.FullName != nil {
			name = *u.FullName
		}
		out = append(out, events.Recipient{Email: u.Email, Name: name})
	}
	return out
}

func (s *service) queueOutboxEvent(ctx context.Context, tx *sql.Tx, aggregateID uuid.UUID, eventType string, payload any) error {
	event, err := kafka.NewOutboxEvent(ctx, "request", aggregateID.String(), eventType, events.RequestLifecycleTopic, payload)
	if err != nil {
		s.logger.Error("build outbox event failed", zap.Error(err))
		return mapRepositoryError(err)
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("queue outbox event failed", zap.Error(err))
		return mapRepositoryError(err)
	}
	return nil
}

func (s *service) Review(
	ctx context.Context,
	reviewerID, requestID string,
	form ReviewRequestForm,
	file *multipart.FileHeader,
) error {
	rid := contextutil.GetRequestID(ctx)

	reviewer, err := uuid.Parse(reviewerID)
	if err != nil {
		return requesterrors.ErrInvalidRequestID
	}
	id, err := uuid.Parse(requestID)
	if err != nil {
		return requesterrors.ErrInvalidRequestID
	}

	if form.NewStatus != StatusApproved && form.NewStatus != StatusRejected {
		return requesterrors.ErrInvalidStatus
	}

	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if req.Status != StatusPending {
		return requesterrors.ErrNotPending
	}

	// Approving a payslip request demands the payslip document itself.
	var stored *upload.StoredFile
	if form.NewStatus == StatusApproved && req.RequestType == TypePayslip {
		if file == nil || !upload.AllowedExtension(file.Filename, ".pdf", ".png") {
			return requesterrors.ErrPayslipFileRequired
		}
		sf, err := s.store.Save(file)
		if err != nil {
			return err
		}
		stored = &sf
	}
	cleanupStored := func() {
		if stored != nil {
			_ = s.store.Remove(stored.FileName)
		}
	}

	submitter, err := s.userRepo.FindByID(ctx, req.UserID.String())
	if err != nil {
		cleanupStored()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usererrors.ErrUserNotFound
		}
		return mapRepositoryError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		cleanupStored()
		s.logger.Error("review request begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	trimmed := strings.TrimSpace(form.Comment)
	fields := map[string]any{"status": form.NewStatus}
	if trimmed != "" {
		fields["comment"] = trimmed
	}
	if err := qtx.UpdateFields(ctx, id, fields); err != nil {
		cleanupStored()
		return mapRepositoryError(err)
	}

	if stored != nil {
		fileRow := &File{
			ID:           uuid.New(),
			RequestID:    id,
			OriginalName: stored.OriginalName,
			StoredName:   stored.FileName,
			FilePath:     stored.FileName,
		}
		if err := qtx.ReplaceFile(ctx, id, fileRow); err != nil {
			cleanupStored()
			return mapRepositoryError(err)
		}
	}

	auditTx := s.auditRepo.WithTx(tx)
	oldStatus := req.Status
	newStatus := form.NewStatus
	if err := auditTx.Create(ctx, &audit.Audit{
		RequestID: id,
		Field:     "status",
		OldValue:  &oldStatus,
		NewValue:  &newStatus,
		ChangedBy: reviewer,
	}); err != nil {
		cleanupStored()
		return mapRepositoryError(err)
	}

	// A second audit row only when the review actually changed the comment.
	if trimmed != "" && (req.Comment == nil || trimmed != *req.Comment) {
		if err := auditTx.Create(ctx, &audit.Audit{
			RequestID: id,
			Field:     "comment",
			OldValue:  req.Comment,
			NewValue:  &trimmed,
			ChangedBy: reviewer,
		}); err != nil {
			cleanupStored()
			return mapRepositoryError(err)
		}
	}

	outcome := "rejetée"
	if form.NewStatus == StatusApproved {
		outcome = "approuvée"
	}
	n := notification.Notification{
		ID:        uuid.New(),
		UserID:    req.UserID,
		RequestID: &id,
		Title:     "Demande traitée",
		Message:   fmt.Sprintf("Votre demande a été %s.", outcome),
	}
	if err := s.notifRepo.WithTx(tx).Create(ctx, &n); err != nil {
		cleanupStored()
		return mapRepositoryError(err)
	}

	if s.outbox != nil {
		name := ""
		if submitter.FullName != nil {
			name = *submitter.FullName
		}
		var comment *string
		if trimmed != "" {
			comment = &trimmed
		}
		event := events.RequestReviewedEvent{
			EventType:   events.EventTypeRequestReviewed,
			RequestID:   id.String(),
			RequestType: req.RequestType,
			Status:      form.NewStatus,
			ReviewedBy:  reviewer.String(),
			Comment:     comment,
			Recipient:   events.Recipient{Email: submitter.Email, Name: name},
			OccurredAt:  time.Now().UTC(),
		}
		if err := s.queueOutboxEvent(ctx, tx, id, event.EventType, event); err != nil {
			cleanupStored()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		cleanupStored()
		s.logger.Error("review request commit failed", zap.String("request_id", rid), zap.Error(err))
		return mapRepositoryError(err)
	}

	s.invalidatePendingCounts(ctx)
	s.pushNotifications([]notification.Notification{n})

	s.logger.Info("request reviewed",
		zap.String("request_id", rid),
		zap.String("id", id.String()),
		zap.String("status", form.NewStatus),
		zap.String("reviewed_by", reviewer.String()),
	)
	return nil
}

func (s *service) GetAll(ctx context.Context, role string, filter ListRequestsFilter) ([]RequestResponse, *response.PaginationMeta, error) {
	types, ok := VisibleTypesFor(role)
	if !ok {
		return nil, nil, requesterrors.ErrRoleCannotList
	}

	q := ListQuery{
		Types:  types,
		UserID: filter.UserID,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	if filter.Status == StatusPending || filter.Status == StatusApproved || filter.Status == StatusRejected {
		q.Status = filter.Status
	}

	column, ok := sortableColumns[filter.SortField]
	if !ok {
		column = "submitted_at"
	}
	q.SortBy = column
	q.SortDesc = strings.ToLower(filter.SortOrder) != "asc"

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}

	requests, total, err := s.repo.FindAll(ctx, q)
	if err != nil {
		s.logger.Error("list requests failed", zap.Error(err))
		return nil, nil, mapRepositoryError(err)
	}

	meta := response.NewPaginationMeta(total, q.Page, q.Limit)
	return mapToListResponse(requests, hostURL()), &meta, nil
}

// PendingCounts tallies pending requests by type for the reviewer's
// role gate; submitterID is an optional filter narrowing the counts to
// one submitter, never the caller's own id.
func (s *service) PendingCounts(ctx context.Context, role, department, submitterID string) (map[string]int64, error) {
	types, ok := VisibleTypesFor(role)
	if !ok {
		return nil, requesterrors.ErrRoleCannotList
	}

	// Team leads only see their own department's backlog.
	scopedDepartment := ""
	if role == user.RoleTL {
		scopedDepartment = department
	}

	cacheKey := pendingCountsKeyPrefix + role + ":" + scopedDepartment + ":" + submitterID

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var counts map[string]int64
			if json.Unmarshal([]byte(cached), &counts) == nil {
				return counts, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		rows, err := s.repo.PendingCounts(ctx, types, scopedDepartment, submitterID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		counts := make(map[string]int64, len(rows))
		for _, row := range rows {
			counts[row.RequestType] = row.Count
		}

		if s.rdb != nil {
			if data, err := json.Marshal(counts); err == nil {
				s.rdb.Set(ctx, cacheKey, data, pendingCountsTTL)
			}
		}
		return counts, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]int64), nil
}

func (s *service) invalidatePendingCounts(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	iter := s.rdb.Scan(ctx, 0, pendingCountsKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Error("invalidate pending counts cache failed",
				zap.Error(err),
				zap.String("key", iter.Val()),
			)
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Error("scan pending counts cache failed", zap.Error(err))
	}
}

func (s *service) pushNotifications(notifications []notification.Notification) {
	if s.hub == nil {
		return
	}
	for _, n := range notifications {
		s.hub.Push(n)
	}
}

func (s *service) ByUser(ctx context.Context, targetUserID string) ([]RequestResponse, error) {
	id, err := uuid.Parse(targetUserID)
	if err != nil {
		return nil, requesterrors.ErrInvalidRequestID
	}

	requests, _, err := s.repo.FindByUser(ctx, id, ListQuery{Limit: 100})
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(requests, hostURL()), nil
}

func (s *service) ByID(ctx context.Context, requestID string) (RequestDetailResponse, error) {
	id, err := uuid.Parse(requestID)
	if err != nil {
		return RequestDetailResponse{}, requesterrors.ErrInvalidRequestID
	}

	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return RequestDetailResponse{}, mapRepositoryError(err)
	}

	audits, err := s.auditRepo.FindByRequest(ctx, id.String())
	if err != nil {
		return RequestDetailResponse{}, mapRepositoryError(err)
	}
	notifications, err := s.notifRepo.FindByRequest(ctx, id.String())
	if err != nil {
		return RequestDetailResponse{}, mapRepositoryError(err)
	}

	detail := RequestDetailResponse{
		RequestResponse: mapToResponse(*req, hostURL()),
		Audits:          make([]AuditEntryResponse, 0, len(audits)),
		Notifications:   make([]notification.NotificationResponse, 0, len(notifications)),
	}
	for _, a := range audits {
		detail.Audits = append(detail.Audits, mapAuditToResponse(a))
	}
	for _, n := range notifications {
		detail.Notifications = append(detail.Notifications, notification.MapToResponse(n))
	}
	return detail, nil
}

func (s *service) ListMine(ctx context.Context, userID string, filter ListRequestsFilter) ([]RequestResponse, *response.PaginationMeta, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, nil, requesterrors.ErrInvalidRequestID
	}

	q := ListQuery{Page: filter.Page, Limit: filter.Limit}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if filter.Status == StatusPending || filter.Status == StatusApproved || filter.Status == StatusRejected {
		q.Status = filter.Status
	}
	if IsValidType(filter.RequestType) {
		q.Types = []string{filter.RequestType}
	}

	requests, total, err := s.repo.FindByUser(ctx, id, q)
	if err != nil {
		return nil, nil, mapRepositoryError(err)
	}

	meta := response.NewPaginationMeta(total, q.Page, q.Limit)
	return mapToListResponse(requests, hostURL()), &meta, nil
}

// findOwned loads a request and verifies ownership.
func (s *service) findOwned(ctx context.Context, userID, requestID string) (*Request, error) {
	owner, err := uuid.Parse(userID)
	if err != nil {
		return nil, requesterrors.ErrInvalidRequestID
	}
	id, err := uuid.Parse(requestID)
	if err != nil {
		return nil, requesterrors.ErrInvalidRequestID
	}

	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if req.UserID != owner {
		return nil, requesterrors.ErrNotOwner
	}
	return req, nil
}

func (s *service) GetMine(ctx context.Context, userID, requestID string) (RequestResponse, error) {
	req, err := s.findOwned(ctx, userID, requestID)
	if err != nil {
		return RequestResponse{}, err
	}
	return mapToResponse(*req, hostURL()), nil
}

func (s *service) PatchMine(ctx context.Context, userID, requestID string, patch PatchMyRequestRequest) (RequestResponse, error) {
	req, err := s.findOwned(ctx, userID, requestID)
	if err != nil {
		return RequestResponse{}, err
	}
	if req.Status != StatusPending {
		return RequestResponse{}, requesterrors.ErrNotPending
	}

	if err := s.repo.UpdateFields(ctx, req.ID, map[string]any{"description": patch.Description}); err != nil {
		return RequestResponse{}, mapRepositoryError(err)
	}

	req.Description = patch.Description
	return mapToResponse(*req, hostURL()), nil
}

func (s *service) DeleteMine(ctx context.Context, userID, requestID string) error {
	req, err := s.findOwned(ctx, userID, requestID)
	if err != nil {
		return err
	}
	if req.Status != StatusPending {
		return requesterrors.ErrNotPending
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapRepositoryError(err)
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, req.ID); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return mapRepositoryError(err)
	}

	// Stored attachments go with the request.
	for _, f := range req.Files {
		if err := s.store.Remove(f.StoredName); err != nil {
			s.logger.Warn("remove stored file failed",
				zap.String("file", f.StoredName),
				zap.Error(err),
			)
		}
	}

	s.invalidatePendingCounts(ctx)
	s.logger.Info("request deleted by owner", zap.String("id", req.ID.String()))
	return nil
}

func setDetailRequestID(detail any, requestID uuid.UUID) {
	switch d := detail.(type) {
	case *LeaveDetail:
		d.RequestID = requestID
	case *SickLeaveDetail:
		d.RequestID = requestID
	case *PayslipDetail:
		d.RequestID = requestID
	case *WorkCertificateDetail:
		d.RequestID = requestID
	case *MedicalFileUpdateDetail:
		d.RequestID = requestID
	}
}

func attachDetail(req *Request, detail any) {
	switch d := detail.(type) {
	case *LeaveDetail:
		req.Leave = d
	case *SickLeaveDetail:
		req.SickLeave = d
	case *PayslipDetail:
		req.Payslip = d
	case *WorkCertificateDetail:
		req.WorkCertificate = d
	case *MedicalFileUpdateDetail:
		req.MedicalFileUpdate = d
	}
}
