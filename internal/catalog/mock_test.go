package catalog

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct{ mock.Mock }

func (m *MockRepository) GetItem(ctx context.Context, itemType ItemType, id int) (*Item, error) {
	args := m.Called(ctx, itemType, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *MockRepository) ListItems(ctx context.Context, itemType ItemType, onlyActive bool) ([]Item, error) {
	args := m.Called(ctx, itemType, onlyActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Item), args.Error(1)
}

func (m *MockRepository) ListByExamPlan(ctx context.Context, itemType ItemType, planID int) ([]Item, error) {
	args := m.Called(ctx, itemType, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Item), args.Error(1)
}

func (m *MockRepository) CreateItem(ctx context.Context, item *Item) (*Item, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, itemType ItemType, id int, status Status) error {
	return m.Called(ctx, itemType, id, status).Error(0)
}

func (m *MockRepository) CreateNote(ctx context.Context, note *Item, content, fileURL string) (*Item, error) {
	args := m.Called(ctx, note, content, fileURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *MockRepository) GetNoteContent(ctx context.Context, noteID int) (*NoteContent, error) {
	args := m.Called(ctx, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*NoteContent), args.Error(1)
}

func (m *MockRepository) AddSection(ctx context.Context, section *Section) (*Section, error) {
	args := m.Called(ctx, section)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Section), args.Error(1)
}

func (m *MockRepository) ListSections(ctx context.Context, seriesID int) ([]Section, error) {
	args := m.Called(ctx, seriesID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Section), args.Error(1)
}

func (m *MockRepository) AddQuestion(ctx context.Context, question *Question) (*Question, error) {
	args := m.Called(ctx, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Question), args.Error(1)
}

func (m *MockRepository) ListQuestions(ctx context.Context, seriesID, sectionID int) ([]Question, error) {
	args := m.Called(ctx, seriesID, sectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Question), args.Error(1)
}
