package catalog

import (
	"context"
	"errors"
)

var (
	ErrParentRequired   = errors.New("paid item must belong to an exam plan")
	ErrParentNotFound   = errors.New("exam plan not found")
	ErrParentNotForSale = errors.New("paid item must belong to a paid exam plan")
	ErrInvalidPricing   = errors.New("invalid pricing")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidQuestion  = errors.New("answer index out of range")
)

type Service interface {
	GetItem(ctx context.Context, itemType ItemType, id int) (*Item, error)
	ListExamPlans(ctx context.Context) ([]Item, error)
	ListItems(ctx context.Context, itemType ItemType) ([]Item, error)
	GetPlanDetail(ctx context.Context, plan *Item) (*PlanDetail, error)
	CreateItem(ctx context.Context, itemType ItemType, req CreateItemRequest) (*Item, error)
	UpdateStatus(ctx context.Context, itemType ItemType, id int, status Status) error
	GetNoteContent(ctx context.Context, noteID int) (*NoteContent, error)
	ListSections(ctx context.Context, seriesID int) ([]Section, error)
	ListQuestions(ctx context.Context, seriesID, sectionID int) ([]QuestionView, error)
	AddSection(ctx context.Context, seriesID int, req AddSectionRequest) (*Section, error)
	AddQuestion(ctx context.Context, seriesID, sectionID int, req AddQuestionRequest) (*Question, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetItem(ctx context.Context, itemType ItemType, id int) (*Item, error) {
	return s.repo.GetItem(ctx, itemType, id)
}

func (s *service) ListExamPlans(ctx context.Context) ([]Item, error) {
	return s.repo.ListItems(ctx, ItemExamPlan, true)
}

func (s *service) ListItems(ctx context.Context, itemType ItemType) ([]Item, error) {
	return s.repo.ListItems(ctx, itemType, false)
}

func (s *service) GetPlanDetail(ctx context.Context, plan *Item) (*PlanDetail, error) {
	notes, err := s.repo.ListByExamPlan(ctx, ItemNote, plan.ID)
	if err != nil {
		return nil, err
	}
	series, err := s.repo.ListByExamPlan(ctx, ItemTestSeries, plan.ID)
	if err != nil {
		return nil, err
	}
	return &PlanDetail{Plan: plan, Notes: notes, TestSeries: series}, nil
}

func (s *service) CreateItem(ctx context.Context, itemType ItemType, req CreateItemRequest) (*Item, error) {
	if !itemType.Valid() {
		return nil, ErrInvalidItemType
	}
	if req.MRP > 0 && req.Price > req.MRP {
		return nil, ErrInvalidPricing
	}

	item := &Item{
		Type:         itemType,
		Title:        req.Title,
		Description:  req.Description,
		IsFree:       req.IsFree,
		Status:       StatusActive,
		Price:        req.Price,
		MRP:          req.MRP,
		ValidityDays: req.ValidityDays,
	}

	if itemType == ItemExamPlan {
		// A paid plan must be sellable, which needs a price and a validity window.
		if !req.IsFree && (req.Price <= 0 || req.ValidityDays <= 0) {
			return nil, ErrInvalidPricing
		}
	} else {
		if req.ExamPlanID == nil && !req.IsFree {
			return nil, ErrParentRequired
		}
		if req.ExamPlanID != nil {
			plan, err := s.repo.GetItem(ctx, ItemExamPlan, *req.ExamPlanID)
			if err != nil {
				if errors.Is(err, ErrItemNotFound) {
					return nil, ErrParentNotFound
				}
				return nil, err
			}
			if !req.IsFree && plan.IsFree {
				return nil, ErrParentNotForSale
			}
			item.ExamPlanID = req.ExamPlanID
		}
	}

	if itemType == ItemNote {
		return s.repo.CreateNote(ctx, item, req.Content, req.FileURL)
	}
	return s.repo.CreateItem(ctx, item)
}

func (s *service) UpdateStatus(ctx context.Context, itemType ItemType, id int, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, itemType, id, status)
}

func (s *service) GetNoteContent(ctx context.Context, noteID int) (*NoteContent, error) {
	return s.repo.GetNoteContent(ctx, noteID)
}

func (s *service) ListSections(ctx context.Context, seriesID int) ([]Section, error) {
	return s.repo.ListSections(ctx, seriesID)
}

func (s *service) ListQuestions(ctx context.Context, seriesID, sectionID int) ([]QuestionView, error) {
	questions, err := s.repo.ListQuestions(ctx, seriesID, sectionID)
	if err != nil {
		return nil, err
	}
	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, q.View())
	}
	return views, nil
}

func (s *service) AddSection(ctx context.Context, seriesID int, req AddSectionRequest) (*Section, error) {
	if _, err := s.repo.GetItem(ctx, ItemTestSeries, seriesID); err != nil {
		return nil, err
	}
	return s.repo.AddSection(ctx, &Section{
		TestSeriesID: seriesID,
		Title:        req.Title,
		Position:     req.Position,
		DurationMins: req.DurationMins,
	})
}

func (s *service) AddQuestion(ctx context.Context, seriesID, sectionID int, req AddQuestionRequest) (*Question, error) {
	if req.AnswerIndex >= len(req.Options) {
		return nil, ErrInvalidQuestion
	}

	sections, err := s.repo.ListSections(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	found := false
	for _, sec := range sections {
		if sec.ID == sectionID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrSectionNotFound
	}

	return s.repo.AddQuestion(ctx, &Question{
		SectionID:   sectionID,
		Prompt:      req.Prompt,
		Options:     req.Options,
		AnswerIndex: req.AnswerIndex,
		Marks:       req.Marks,
		Position:    req.Position,
	})
}
