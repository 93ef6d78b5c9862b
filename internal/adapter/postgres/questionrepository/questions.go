// Package questionrepository stores questions and verifications in PostgreSQL
package questionrepository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/judge-session.net/internal/core/ports/primary"
	"gitlab.com/judge-session.net/internal/core/ports/secondary"
	"gitlab.com/judge-session.net/internal/domain"
	querybuilder "gitlab.com/judge-session.net/internal/utils"
)

var _ secondary.QuestionStore = (*QuestionRepository)(nil)

// QuestionRepository implements secondary.QuestionStore. Hidden test cases
// live in a JSONB column.
type QuestionRepository struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

func NewQuestionRepository(db *sqlx.DB, logger primary.Logger, schema string) *QuestionRepository {
	return &QuestionRepository{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

type questionRow struct {
	QuestionID      string `db:"question_id"`
	Subject         string `db:"subject"`
	Tag             string `db:"tags"`
	QuestionType    string `db:"question_type"`
	Text            string `db:"text"`
	Constraints     string `db:"constraints"`
	Difficulty      string `db:"difficulty"`
	Score           int    `db:"score"`
	SampleInput     string `db:"sample_input"`
	SampleOutput    string `db:"sample_output"`
	HiddenTestCases []byte `db:"hidden_test_cases"`
}

func (r questionRow) toDomain() (*domain.Question, error) {
	q := &domain.Question{
		QuestionID:      r.QuestionID,
		Subject:         r.Subject,
		Tag:             r.Tag,
		QuestionType:    domain.QuestionType(r.QuestionType),
		Text:            r.Text,
		Constraints:     r.Constraints,
		Difficulty:      r.Difficulty,
		Score:           r.Score,
		SampleInput:     r.SampleInput,
		SampleOutput:    r.SampleOutput,
		HiddenTestCases: []domain.HiddenTestCase{},
	}
	if len(r.HiddenTestCases) > 0 {
		if err := json.Unmarshal(r.HiddenTestCases, &q.HiddenTestCases); err != nil {
			return nil, fmt.Errorf("failed to unmarshal hidden test cases of %s: %w", r.QuestionID, err)
		}
	}
	return q, nil
}

func questionColumns() []string {
	tbl := domain.GetQuestionTable()
	return []string{
		tbl.QuestionID, tbl.Subject, tbl.Tag, tbl.QuestionType, tbl.Text, tbl.Constraints,
		tbl.Difficulty, tbl.Score, tbl.SampleInput, tbl.SampleOutput, tbl.HiddenTestCases,
	}
}

// FetchQuestions returns the question matching query, or an empty list
func (r *QuestionRepository) FetchQuestions(ctx context.Context, _ string, query secondary.QuestionQuery) ([]*domain.Question, error) {
	tbl := domain.GetQuestionTable()
	qb := querybuilder.NewQueryBuilder(r.schema).
		Select(questionColumns()...).
		From(tbl.TableName()).
		Where(fmt.Sprintf("%s = ?", tbl.Subject), query.Subject).
		And(fmt.Sprintf("%s = ?", tbl.QuestionID), query.QuestionID)
	if query.QuestionType != "" {
		qb = qb.And(fmt.Sprintf("%s = ?", tbl.QuestionType), string(query.QuestionType))
	}
	sqlQuery, args, err := qb.Limit(1).Build()
	if err != nil {
		return nil, err
	}

	var rows []questionRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(sqlQuery), args...); err != nil {
		r.logger.Error("Failed to fetch question", "questionId", query.QuestionID, "error", err)
		return nil, fmt.Errorf("failed to fetch question: %w", err)
	}

	questions := make([]*domain.Question, 0, len(rows))
	for _, row := range rows {
		q, err := row.toDomain()
		if err != nil {
			r.logger.Error("Corrupt question row", "questionId", row.QuestionID, "error", err)
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// SaveQuestion upserts question by id
func (r *QuestionRepository) SaveQuestion(ctx context.Context, _ string, question *domain.Question) error {
	hidden := question.HiddenTestCases
	if hidden == nil {
		hidden = []domain.HiddenTestCase{}
	}
	hiddenJSON, err := json.Marshal(hidden)
	if err != nil {
		return fmt.Errorf("failed to marshal hidden test cases: %w", err)
	}

	tbl := domain.GetQuestionTable()
	cols := questionColumns()
	sqlQuery, args, err := querybuilder.NewQueryBuilder(r.schema).
		Insert(cols...).
		Into(tbl.TableName()).
		Values(
			question.QuestionID, question.Subject, question.Tag, string(question.QuestionType),
			question.Text, question.Constraints, question.Difficulty, question.Score,
			question.SampleInput, question.SampleOutput, hiddenJSON,
		).
		OnConflict(tbl.QuestionID).
		SetExclude(cols[1:]...).
		Build()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(sqlQuery), args...); err != nil {
		r.logger.Error("Failed to save question", "questionId", question.QuestionID, "error", err)
		return fmt.Errorf("failed to save question: %w", err)
	}
	return nil
}
