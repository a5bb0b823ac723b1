package services

import (
	"github.com/google/uuid"

	"github.com/yungbote/coursebridge-backend/internal/data/repos"
	types "github.com/yungbote/coursebridge-backend/internal/domain"
	domainagg "github.com/yungbote/coursebridge-backend/internal/domain/aggregates"
	"github.com/yungbote/coursebridge-backend/internal/domain/learning"
	"github.com/yungbote/coursebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/coursebridge-backend/internal/platform/logger"
)

type SimilarityService interface {
	FindSimilar(dbc dbctx.Context, courseID uuid.UUID) ([]types.SimilarCourse, error)
}

type similarityService struct {
	log     *logger.Logger
	courses repos.CourseRepo
	tags    repos.CourseTagRepo
}

func NewSimilarityService(baseLog *logger.Logger, courses repos.CourseRepo, tags repos.CourseTagRepo) SimilarityService {
	return &similarityService{
		log:     baseLog.With("service", "SimilarityService"),
		courses: courses,
		tags:    tags,
	}
}

func (s *similarityService) FindSimilar(dbc dbctx.Context, courseID uuid.UUID) ([]types.SimilarCourse, error) {
	const op = "Catalog.Similarity.FindSimilar"
	course, err := s.courses.GetByID(dbc, courseID)
	if err != nil {
		return nil, read(op, err)
	}
	if course == nil {
		return nil, domainagg.NotFound(op, "course %s not found", courseID)
	}
	targetRows, err := s.tags.GetByCourseID(dbc, courseID)
	if err != nil {
		return nil, read(op, err)
	}
	if len(targetRows) == 0 {
		return []types.SimilarCourse{}, nil
	}
	target := make([]string, 0, len(targetRows))
	for _, t := range targetRows {
		target = append(target, t.Tag)
	}

	sharing, err := s.tags.GetByTags(dbc, target)
	if err != nil {
		return nil, read(op, err)
	}
	seen := map[uuid.UUID]struct{}{courseID: {}}
	candidateIDs := make([]uuid.UUID, 0, len(sharing))
	for _, t := range sharing {
		if _, ok := seen[t.CourseID]; ok {
			continue
		}
		seen[t.CourseID] = struct{}{}
		candidateIDs = append(candidateIDs, t.CourseID)
	}
	if len(candidateIDs) == 0 {
		return []types.SimilarCourse{}, nil
	}

	// Natural store order: creation ascending, then id.
	courses, err := s.courses.GetByIDs(dbc, candidateIDs)
	if err != nil {
		return nil, read(op, err)
	}
	candidateTags, err := s.tags.GetByCourseIDs(dbc, candidateIDs)
	if err != nil {
		return nil, read(op, err)
	}
	byCourse := make(map[uuid.UUID][]string, len(candidateIDs))
	for _, t := range candidateTags {
		byCourse[t.CourseID] = append(byCourse[t.CourseID], t.Tag)
	}
	candidates := make([]types.SimilarCandidate, 0, len(courses))
	for _, c := range courses {
		candidates = append(candidates, types.SimilarCandidate{Course: c, Tags: byCourse[c.ID]})
	}
	return learning.RankSimilar(target, candidates), nil
}
