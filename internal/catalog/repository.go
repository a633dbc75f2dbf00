package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var (
	ErrItemNotFound    = errors.New("item not found")
	ErrInvalidItemType = errors.New("invalid item type")
	ErrSectionNotFound = errors.New("section not found")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Exam plans have no parent column, so it is projected as NULL to keep one scan target.
func itemColumns(t ItemType) string {
	if t == ItemExamPlan {
		return "id, title, description, is_free, status, price, mrp, validity_days, NULL::int AS exam_plan_id, created_at, updated_at"
	}
	return "id, title, description, is_free, status, price, mrp, validity_days, exam_plan_id, created_at, updated_at"
}

func getItemQuery(t ItemType) string {
	return fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, itemColumns(t), itemTables[t])
}

func listItemsQuery(t ItemType, onlyActive bool) string {
	q := fmt.Sprintf(`SELECT %s FROM %s`, itemColumns(t), itemTables[t])
	if onlyActive {
		q += ` WHERE status = 'active'`
	}
	return q + ` ORDER BY created_at DESC`
}

func listByExamPlanQuery(t ItemType) string {
	return fmt.Sprintf(`SELECT %s FROM %s WHERE exam_plan_id = $1 AND status = 'active' ORDER BY title`,
		itemColumns(t), itemTables[t])
}

func createItemQuery(t ItemType) string {
	if t == ItemExamPlan {
		return fmt.Sprintf(`INSERT INTO exam_plans (title, description, is_free, status, price, mrp, validity_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, itemColumns(t))
	}
	return fmt.Sprintf(`INSERT INTO %s (title, description, is_free, status, price, mrp, validity_days, exam_plan_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, itemTables[t], itemColumns(t))
}

func updateStatusQuery(t ItemType) string {
	return fmt.Sprintf(`UPDATE %s SET status = $1, updated_at = NOW() WHERE id = $2`, itemTables[t])
}

const (
	createNoteQuery = `
		INSERT INTO notes (title, description, is_free, status, price, mrp, validity_days, exam_plan_id, content, file_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, title, description, is_free, status, price, mrp, validity_days, exam_plan_id, created_at, updated_at
	`
	getNoteContentQuery = `SELECT id, content, file_url FROM notes WHERE id = $1`

	addSectionQuery = `
		INSERT INTO test_series_sections (test_series_id, title, position, duration_mins)
		VALUES ($1, $2, $3, $4)
		RETURNING id, test_series_id, title, position, duration_mins
	`
	listSectionsQuery = `
		SELECT id, test_series_id, title, position, duration_mins
		FROM test_series_sections
		WHERE test_series_id = $1
		ORDER BY position, id
	`
	addQuestionQuery = `
		INSERT INTO test_series_questions (section_id, prompt, options, answer_index, marks, position)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, section_id, prompt, options, answer_index, marks, position
	`
	listQuestionsQuery = `
		SELECT q.id, q.section_id, q.prompt, q.options, q.answer_index, q.marks, q.position
		FROM test_series_questions q
		JOIN test_series_sections s ON s.id = q.section_id
		WHERE s.test_series_id = $1 AND q.section_id = $2
		ORDER BY q.position, q.id
	`
)

func (r *repository) GetItem(ctx context.Context, itemType ItemType, id int) (*Item, error) {
	if !itemType.Valid() {
		return nil, ErrInvalidItemType
	}

	var item Item
	if err := r.db.GetContext(ctx, &item, getItemQuery(itemType), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("get %s %d: %w", itemType, id, err)
	}
	item.Type = itemType

	return &item, nil
}

func (r *repository) ListItems(ctx context.Context, itemType ItemType, onlyActive bool) ([]Item, error) {
	if !itemType.Valid() {
		return nil, ErrInvalidItemType
	}

	items := []Item{}
	if err := r.db.SelectContext(ctx, &items, listItemsQuery(itemType, onlyActive)); err != nil {
		return nil, fmt.Errorf("list %s: %w", itemType, err)
	}
	for i := range items {
		items[i].Type = itemType
	}

	return items, nil
}

func (r *repository) ListByExamPlan(ctx context.Context, itemType ItemType, planID int) ([]Item, error) {
	if itemType != ItemNote && itemType != ItemTestSeries {
		return nil, ErrInvalidItemType
	}

	items := []Item{}
	if err := r.db.SelectContext(ctx, &items, listByExamPlanQuery(itemType), planID); err != nil {
		return nil, fmt.Errorf("list %s for plan %d: %w", itemType, planID, err)
	}
	for i := range items {
		items[i].Type = itemType
	}

	return items, nil
}

func (r *repository) CreateItem(ctx context.Context, item *Item) (*Item, error) {
	if !item.Type.Valid() {
		return nil, ErrInvalidItemType
	}

	args := []interface{}{item.Title, item.Description, item.IsFree, item.Status, item.Price, item.MRP, item.ValidityDays}
	if item.Type != ItemExamPlan {
		args = append(args, item.ExamPlanID)
	}

	created := &Item{}
	if err := r.db.QueryRowxContext(ctx, createItemQuery(item.Type), args...).StructScan(created); err != nil {
		return nil, fmt.Errorf("create %s: %w", item.Type, err)
	}
	created.Type = item.Type

	return created, nil
}

func (r *repository) UpdateStatus(ctx context.Context, itemType ItemType, id int, status Status) error {
	if !itemType.Valid() {
		return ErrInvalidItemType
	}

	res, err := r.db.ExecContext(ctx, updateStatusQuery(itemType), status, id)
	if err != nil {
		return fmt.Errorf("update %s %d status: %w", itemType, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrItemNotFound
	}

	return nil
}

// CreateNote inserts the note row and its body in one statement.
func (r *repository) CreateNote(ctx context.Context, note *Item, content, fileURL string) (*Item, error) {
	created := &Item{}
	err := r.db.QueryRowxContext(ctx, createNoteQuery,
		note.Title, note.Description, note.IsFree, note.Status, note.Price, note.MRP, note.ValidityDays, note.ExamPlanID,
		content, fileURL,
	).StructScan(created)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	created.Type = ItemNote
	return created, nil
}

func (r *repository) GetNoteContent(ctx context.Context, noteID int) (*NoteContent, error) {
	var nc NoteContent
	if err := r.db.GetContext(ctx, &nc, getNoteContentQuery, noteID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("get note %d content: %w", noteID, err)
	}
	return &nc, nil
}

func (r *repository) AddSection(ctx context.Context, section *Section) (*Section, error) {
	created := &Section{}
	err := r.db.QueryRowxContext(ctx, addSectionQuery,
		section.TestSeriesID, section.Title, section.Position, section.DurationMins,
	).StructScan(created)
	if err != nil {
		return nil, fmt.Errorf("add section to series %d: %w", section.TestSeriesID, err)
	}
	return created, nil
}

func (r *repository) ListSections(ctx context.Context, seriesID int) ([]Section, error) {
	sections := []Section{}
	if err := r.db.SelectContext(ctx, &sections, listSectionsQuery, seriesID); err != nil {
		return nil, fmt.Errorf("list sections of series %d: %w", seriesID, err)
	}
	return sections, nil
}

func (r *repository) AddQuestion(ctx context.Context, question *Question) (*Question, error) {
	created := &Question{}
	err := r.db.QueryRowxContext(ctx, addQuestionQuery,
		question.SectionID, question.Prompt, question.Options, question.AnswerIndex, question.Marks, question.Position,
	).StructScan(created)
	if err != nil {
		return nil, fmt.Errorf("add question to section %d: %w", question.SectionID, err)
	}
	return created, nil
}

func (r *repository) ListQuestions(ctx context.Context, seriesID, sectionID int) ([]Question, error) {
	questions := []Question{}
	if err := r.db.SelectContext(ctx, &questions, listQuestionsQuery, seriesID, sectionID); err != nil {
		return nil, fmt.Errorf("list questions of section %d: %w", sectionID, err)
	}
	return questions, nil
}
