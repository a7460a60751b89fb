package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/auth"
	leaveDatamodel "github.com/frahmantamala/employee-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/employee-management/internal/leave"
	"gorm.io/gorm"
)

const leaveColumns = "l.leave_id, l.employee_id, l.leave_type, l.start_date, l.end_date, l.reason, " +
	"l.status, l.rejection_reason, l.decided_by, l.decided_at, l.created_at, " +
	"u.id AS owner_user_id, u.role AS owner_role, u.email AS owner_email, e.first_name, e.last_name"

type leaveRow struct {
	LeaveID         int64
	EmployeeID      int64
	LeaveType       string
	StartDate       time.Time
	EndDate         time.Time
	Reason          string
	Status          string
	RejectionReason *string
	DecidedBy       *int64
	DecidedAt       *time.Time
	CreatedAt       time.Time
	OwnerUserID     int64
	OwnerRole       string
	OwnerEmail      string
	FirstName       string
	LastName        string
}

func (r leaveRow) toDomain() *leave.LeaveRequest {
	return &leave.LeaveRequest{
		ID:              r.LeaveID,
		EmployeeID:      r.EmployeeID,
		LeaveType:       r.LeaveType,
		StartDate:       r.StartDate.UTC(),
		EndDate:         r.EndDate.UTC(),
		Reason:          r.Reason,
		Status:          r.Status,
		RejectionReason: r.RejectionReason,
		DecidedBy:       r.DecidedBy,
		DecidedAt:       r.DecidedAt,
		CreatedAt:       r.CreatedAt,
		OwnerUserID:     r.OwnerUserID,
		OwnerRole:       internal.Role(r.OwnerRole),
		OwnerEmail:      r.OwnerEmail,
		EmployeeName:    strings.TrimSpace(r.FirstName + " " + r.LastName),
	}
}

type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	dm := leave.ToDataModel(l)
	if err := r.db.WithContext(ctx).Create(dm).Error; err != nil {
		return err
	}
	l.ID = dm.ID
	l.CreatedAt = dm.CreatedAt
	return nil
}

func (r *LeaveRepository) GetByID(ctx context.Context, id int64) (*leave.LeaveRequest, error) {
	var rows []leaveRow
	if err := r.base(ctx).Where("l.leave_id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, internal.ErrLeaveNotFound
	}
	return rows[0].toDomain(), nil
}

func (r *LeaveRepository) List(ctx context.Context, viewerID int64, scope auth.Visibility) ([]*leave.LeaveRequest, error) {
	query := r.base(ctx)
	if !scope.All {
		query = applyScope(query, viewerID, scope)
	}

	var rows []leaveRow
	if err := query.Order("l.created_at DESC, l.leave_id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(rows), nil
}

func (r *LeaveRepository) ListByEmployeeInRange(ctx context.Context, employeeID int64, status string, from, to time.Time) ([]*leave.LeaveRequest, error) {
	var rows []leaveRow
	err := r.base(ctx).
		Where("l.employee_id = ? AND l.status = ?", employeeID, status).
		Where("l.start_date <= ? AND l.end_date >= ?", to, from).
		Order("l.start_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainSlice(rows), nil
}

// Decide only touches the row while it is still in the from status.
func (r *LeaveRepository) Decide(ctx context.Context, id int64, from, to string, decidedBy int64, decidedAt time.Time, rejectionReason *string) error {
	result := r.db.WithContext(ctx).
		Model(&leaveDatamodel.LeaveRequest{}).
		Where("leave_id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":           to,
			"decided_by":       decidedBy,
			"decided_at":       decidedAt,
			"rejection_reason": rejectionReason,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return leave.ErrStatusChanged
	}
	return nil
}

func (r *LeaveRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("leave_id = ?", id).Delete(&leaveDatamodel.LeaveRequest{})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return internal.ErrLeaveNotFound
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrLeaveNotFound
	}
	return nil
}

func (r *LeaveRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("leave_requests AS l").
		Select(leaveColumns).
		Joins("JOIN employees AS e ON e.employee_id = l.employee_id").
		Joins("JOIN users AS u ON u.id = e.user_id")
}

func applyScope(query *gorm.DB, viewerID int64, scope auth.Visibility) *gorm.DB {
	roles := make([]string, len(scope.OwnerRoles))
	for i, role := range scope.OwnerRoles {
		roles[i] = role.String()
	}

	switch {
	case scope.Own && len(roles) > 0:
		return query.Where("u.id = ? OR u.role IN ?", viewerID, roles)
	case scope.Own:
		return query.Where("u.id = ?", viewerID)
	case len(roles) > 0:
		return query.Where("u.role IN ?", roles)
	default:
		return query.Where("1 = 0")
	}
}

func toDomainSlice(rows []leaveRow) []*leave.LeaveRequest {
	result := make([]*leave.LeaveRequest, len(rows))
	for i, row := range rows {
		result[i] = row.toDomain()
	}
	return result
}
