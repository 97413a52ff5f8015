package storage

import (
	"context"
	"time"

	"github.com/Ad2m1109/Spendora/internal/core"
)

type CreateReportParams struct {
	UserID        int64
	ReportType    string
	GeneratedDate time.Time
}

func (q *Queries) CreateReport(ctx context.Context, arg CreateReportParams) (int64, error) {
	var id int64
	err := q.queryRow(ctx,
		`INSERT INTO reports (user_id, report_type, generated_at) VALUES (?, ?, ?) RETURNING id`,
		arg.UserID, arg.ReportType, arg.GeneratedDate.UTC()).Scan(&id)
	return id, wrapErr("create report", err)
}

func (q *Queries) ListReportsByUser(ctx context.Context, userID int64) ([]core.Report, error) {
	rows, err := q.query(ctx,
		`SELECT id, user_id, report_type, generated_at FROM reports WHERE user_id = ? ORDER BY generated_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, wrapErr("list reports", err)
	}
	defer rows.Close()

	items := make([]core.Report, 0)
	for rows.Next() {
		var r core.Report
		if err := rows.Scan(&r.ID, &r.UserID, &r.Type, &r.GeneratedDate); err != nil {
			return nil, wrapErr("scan report", err)
		}
		r.GeneratedDate = r.GeneratedDate.UTC()
		items = append(items, r)
	}
	return items, wrapErr("list reports", rows.Err())
}
