package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/auth"
	requestDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/request"
	"github.com/frahmantamala/employee-management/internal/request"
	"gorm.io/gorm"
)

const requestColumns = "r.request_id, r.requester_id, r.items, r.description, r.status, " +
	"r.manager_approved, r.manager_reason, r.manager_approved_by, r.manager_approved_at, " +
	"r.admin_approved, r.admin_reason, r.admin_approved_by, r.admin_approved_at, " +
	"r.created_at, r.updated_at, u.role AS requester_role, u.email AS requester_email"

type requestRow struct {
	requestDatamodel.Request
	RequesterRole  string
	RequesterEmail string
}

func (r requestRow) toDomain() *request.Request {
	d := request.FromDataModel(&r.Request)
	d.RequesterRole = internal.Role(r.RequesterRole)
	d.RequesterEmail = r.RequesterEmail
	return d
}

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(ctx context.Context, req *request.Request) error {
	dm := request.ToDataModel(req)
	if err := r.db.WithContext(ctx).Create(dm).Error; err != nil {
		return err
	}
	req.ID = dm.ID
	req.CreatedAt = dm.CreatedAt
	req.UpdatedAt = dm.UpdatedAt
	return nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*request.Request, error) {
	var rows []requestRow
	if err := r.base(ctx).Where("r.request_id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, internal.ErrRequestNotFound
	}
	return rows[0].toDomain(), nil
}

func (r *RequestRepository) List(ctx context.Context, viewerID int64, scope auth.Visibility) ([]*request.Request, error) {
	query := r.base(ctx)
	if !scope.All {
		roles := make([]string, len(scope.OwnerRoles))
		for i, role := range scope.OwnerRoles {
			roles[i] = role.String()
		}
		switch {
		case scope.Own && len(roles) > 0:
			query = query.Where("r.requester_id = ? OR u.role IN ?", viewerID, roles)
		case scope.Own:
			query = query.Where("r.requester_id = ?", viewerID)
		case len(roles) > 0:
			query = query.Where("u.role IN ?", roles)
		default:
			query = query.Where("1 = 0")
		}
	}

	var rows []requestRow
	if err := query.Order("r.created_at DESC, r.request_id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]*request.Request, len(rows))
	for i, row := range rows {
		result[i] = row.toDomain()
	}
	return result, nil
}

func (r *RequestRepository) Decide(ctx context.Context, id int64, from string, d request.StageDecision) error {
	prefix := "manager"
	if d.Stage == request.StageAdmin {
		prefix = "admin"
	}

	return r.conditional(ctx, id, from, map[string]interface{}{
		"status":                d.NextStatus(),
		prefix + "_approved":    d.Approved,
		prefix + "_reason":      d.Reason,
		prefix + "_approved_by": d.By,
		prefix + "_approved_at": d.At,
		"updated_at":            d.At,
	})
}

func (r *RequestRepository) Update(ctx context.Context, id int64, from, items, description string, at time.Time) error {
	return r.conditional(ctx, id, from, map[string]interface{}{
		"items":       items,
		"description": description,
		"updated_at":  at,
	})
}

func (r *RequestRepository) Delete(ctx context.Context, id int64, from string) error {
	result := r.db.WithContext(ctx).
		Where("request_id = ? AND status = ?", id, from).
		Delete(&requestDatamodel.Request{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return request.ErrStatusChanged
	}
	return nil
}

func (r *RequestRepository) conditional(ctx context.Context, id int64, from string, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&requestDatamodel.Request{}).
		Where("request_id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return request.ErrStatusChanged
	}
	return nil
}

func (r *RequestRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("requests AS r").
		Select(requestColumns).
		Joins("JOIN users AS u ON u.id = r.requester_id")
}
