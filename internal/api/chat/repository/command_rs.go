package chatRepository

import (
	"context"

	"HomeyChat/internal/entity"
	contextPkg "HomeyChat/pkg/context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

func (r *commandRepository) CreateCommand(ctx context.Context, record entity.CommandRecord) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":         record.ID,
		"user_id":    record.UserID,
		"command":    record.Command,
		"skill":      record.Skill,
		"response":   record.Response,
		"created_at": record.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateCommand, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateCommand")
		return err
	}
	query = r.q.Rebind(query)

	if _, err = r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to insert command record")
		return err
	}

	return nil
}

func (r *commandRepository) GetCommandsByUserID(ctx context.Context, userID string, limit, offset int) ([]entity.CommandRecord, int, error) {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"user_id": userID,
		"limit":   limit,
		"offset":  offset,
	}

	query, args, err := sqlx.Named(queryGetCommandsByUserID, argsKV)
	if err != nil {
		return nil, 0, err
	}
	query = r.q.Rebind(query)

	var records []entity.CommandRecord
	if err := r.q.SelectContext(ctx, &records, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to select command records")
		return nil, 0, err
	}

	countQuery, countArgs, err := sqlx.Named(queryCountCommandsByUserID, map[string]interface{}{
		"user_id": userID,
	})
	if err != nil {
		return nil, 0, err
	}
	countQuery = r.q.Rebind(countQuery)

	var total int
	if err := r.q.QueryRowxContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to count command records")
		return nil, 0, err
	}

	return records, total, nil
}
