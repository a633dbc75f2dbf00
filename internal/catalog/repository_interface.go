package catalog

import "context"

type Repository interface {
	GetItem(ctx context.Context, itemType ItemType, id int) (*Item, error)
	ListItems(ctx context.Context, itemType ItemType, onlyActive bool) ([]Item, error)
	ListByExamPlan(ctx context.Context, itemType ItemType, planID int) ([]Item, error)
	CreateItem(ctx context.Context, item *Item) (*Item, error)
	UpdateStatus(ctx context.Context, itemType ItemType, id int, status Status) error
	CreateNote(ctx context.Context, note *Item, content, fileURL string) (*Item, error)
	GetNoteContent(ctx context.Context, noteID int) (*NoteContent, error)
	AddSection(ctx context.Context, section *Section) (*Section, error)
	ListSections(ctx context.Context, seriesID int) ([]Section, error)
	AddQuestion(ctx context.Context, question *Question) (*Question, error)
	ListQuestions(ctx context.Context, seriesID, sectionID int) ([]Question, error)
}
