package catalog

import (
	"time"

	"github.com/lib/pq"
)

type ItemType string

const (
	ItemExamPlan   ItemType = "exam_plan"
	ItemNote       ItemType = "note"
	ItemTestSeries ItemType = "test_series"
)

var itemTables = map[ItemType]string{
	ItemExamPlan:   "exam_plans",
	ItemNote:       "notes",
	ItemTestSeries: "test_series",
}

func (t ItemType) Valid() bool {
	_, ok := itemTables[t]
	return ok
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Item is the shared shape of exam plans, notes and test series.
// Price and MRP are in paise.
type Item struct {
	ID           int       `db:"id" json:"id"`
	Type         ItemType  `db:"-" json:"type"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	IsFree       bool      `db:"is_free" json:"is_free"`
	Status       Status    `db:"status" json:"status"`
	Price        int64     `db:"price" json:"price"`
	MRP          int64     `db:"mrp" json:"mrp"`
	ValidityDays int       `db:"validity_days" json:"validity_days"`
	ExamPlanID   *int      `db:"exam_plan_id" json:"exam_plan_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

func (i *Item) Active() bool {
	return i.Status == StatusActive
}

// GatingPlanID returns the exam plan whose purchase unlocks this item.
// An exam plan gates itself; notes and test series are gated by their parent.
func (i *Item) GatingPlanID() (int, bool) {
	if i.Type == ItemExamPlan {
		return i.ID, true
	}
	if i.ExamPlanID == nil {
		return 0, false
	}
	return *i.ExamPlanID, true
}

type NoteContent struct {
	NoteID  int    `db:"id" json:"note_id"`
	Content string `db:"content" json:"content"`
	FileURL string `db:"file_url" json:"file_url,omitempty"`
}

type Section struct {
	ID           int    `db:"id" json:"id"`
	TestSeriesID int    `db:"test_series_id" json:"test_series_id"`
	Title        string `db:"title" json:"title"`
	Position     int    `db:"position" json:"position"`
	DurationMins int    `db:"duration_mins" json:"duration_mins"`
}

type Question struct {
	ID          int            `db:"id" json:"id"`
	SectionID   int            `db:"section_id" json:"section_id"`
	Prompt      string         `db:"prompt" json:"prompt"`
	Options     pq.StringArray `db:"options" json:"options"`
	AnswerIndex int            `db:"answer_index" json:"answer_index"`
	Marks       int            `db:"marks" json:"marks"`
	Position    int            `db:"position" json:"position"`
}

// QuestionView is the candidate-facing question; the answer stays server side.
type QuestionView struct {
	ID        int            `json:"id"`
	SectionID int            `json:"section_id"`
	Prompt    string         `json:"prompt"`
	Options   pq.StringArray `json:"options"`
	Marks     int            `json:"marks"`
	Position  int            `json:"position"`
}

func (q Question) View() QuestionView {
	return QuestionView{
		ID:        q.ID,
		SectionID: q.SectionID,
		Prompt:    q.Prompt,
		Options:   q.Options,
		Marks:     q.Marks,
		Position:  q.Position,
	}
}

type PlanDetail struct {
	Plan       *Item  `json:"plan"`
	Notes      []Item `json:"notes"`
	TestSeries []Item `json:"test_series"`
}

type CreateItemRequest struct {
	Title        string `json:"title" validate:"required,max=255"`
	Description  string `json:"description" validate:"max=5000"`
	IsFree       bool   `json:"is_free"`
	Price        int64  `json:"price" validate:"gte=0"`
	MRP          int64  `json:"mrp" validate:"gte=0"`
	ValidityDays int    `json:"validity_days" validate:"gte=0,lte=3650"`
	ExamPlanID   *int   `json:"exam_plan_id,omitempty" validate:"omitempty,gt=0"`
	Content      string `json:"content"`
	FileURL      string `json:"file_url" validate:"omitempty,url"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=active inactive"`
}

type AddSectionRequest struct {
	Title        string `json:"title" validate:"required,max=255"`
	Position     int    `json:"position" validate:"gte=0"`
	DurationMins int    `json:"duration_mins" validate:"gte=0"`
}

type AddQuestionRequest struct {
	Prompt      string   `json:"prompt" validate:"required"`
	Options     []string `json:"options" validate:"required,min=2,dive,required"`
	AnswerIndex int      `json:"answer_index" validate:"gte=0"`
	Marks       int      `json:"marks" validate:"gte=0"`
	Position    int      `json:"position" validate:"gte=0"`
}
