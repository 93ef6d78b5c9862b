package questionrepository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/judge-session.net/internal/core/ports/primary"
	"gitlab.com/judge-session.net/internal/core/ports/secondary"
	"gitlab.com/judge-session.net/internal/domain"
	querybuilder "gitlab.com/judge-session.net/internal/utils"
)

var _ secondary.VerificationStore = (*VerificationRepository)(nil)

type VerificationRepository struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

func NewVerificationRepository(db *sqlx.DB, logger primary.Logger, schema string) *VerificationRepository {
	return &VerificationRepository{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

type verificationRow struct {
	QuestionID string         `db:"question_id"`
	Tag        string         `db:"tags"`
	Verified   bool           `db:"verified"`
	SourceCode sql.NullString `db:"source_code"`
}

func (r *VerificationRepository) ListVerifications(ctx context.Context, query secondary.VerificationQuery) ([]domain.VerificationRecord, error) {
	tbl := domain.GetVerificationTable()
	sqlQuery, args, err := querybuilder.NewQueryBuilder(r.schema).
		Select(tbl.QuestionID, tbl.Tag, tbl.Verified, tbl.SourceCode).
		From(tbl.TableName()).
		Where(fmt.Sprintf("%s = ?", tbl.Identity), query.Identity).
		And(fmt.Sprintf("%s = ?", tbl.Subject), query.Subject).
		And(fmt.Sprintf("%s = ?", tbl.QuestionType), string(query.QuestionType)).
		Build()
	if err != nil {
		return nil, err
	}

	var rows []verificationRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(sqlQuery), args...); err != nil {
		r.logger.Error("Failed to list verifications", "subject", query.Subject, "error", err)
		return nil, fmt.Errorf("failed to list verifications: %w", err)
	}

	records := make([]domain.VerificationRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.VerificationRecord{
			QuestionID: row.QuestionID,
			Tag:        row.Tag,
			Verified:   row.Verified,
			SourceCode: row.SourceCode.String,
		})
	}
	return records, nil
}
