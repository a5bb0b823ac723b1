package aggregates

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/coursebridge-backend/internal/data/repos"
	types "github.com/yungbote/coursebridge-backend/internal/domain"
	domainagg "github.com/yungbote/coursebridge-backend/internal/domain/aggregates"
	"github.com/yungbote/coursebridge-backend/internal/platform/dbctx"
)

type LessonOrderAggregateDeps struct {
	Base BaseDeps

	Courses repos.CourseRepo
	Lessons repos.LessonRepo
}

type lessonOrderAggregate struct {
	deps LessonOrderAggregateDeps
}

func NewLessonOrderAggregate(deps LessonOrderAggregateDeps) domainagg.LessonOrderAggregate {
	deps.Base = deps.Base.withDefaults()
	return &lessonOrderAggregate{deps: deps}
}

func (a *lessonOrderAggregate) Contract() domainagg.Contract {
	return domainagg.LessonOrderAggregateContract
}

func (a *lessonOrderAggregate) ReorderLessons(ctx context.Context, in domainagg.ReorderLessonsInput) (domainagg.ReorderLessonsResult, error) {
	const op = "Catalog.LessonOrder.ReorderLessons"
	var out domainagg.ReorderLessonsResult
	if in.CourseID == uuid.Nil {
		return out, domainagg.InvalidArgument(op, "missing course_id")
	}
	if len(in.Orders) == 0 {
		return out, domainagg.InvalidArgument(op, "lesson orders must not be empty")
	}
	for _, o := range in.Orders {
		if o.LessonID == uuid.Nil {
			return out, domainagg.InvalidArgument(op, "missing lesson_id in lesson orders")
		}
	}
	if a.deps.Courses == nil || a.deps.Lessons == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "lesson order aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		course, err := a.deps.Courses.LockByID(dbc, in.CourseID)
		if err != nil {
			return err
		}
		if course == nil {
			return domainagg.NotFound(op, "course not found: %s", in.CourseID)
		}
		lessons, err := a.deps.Lessons.LockByCourseID(dbc, course.ID)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*types.Lesson, len(lessons))
		for _, l := range lessons {
			byID[l.ID] = l
		}

		if err := a.checkMembership(dbc, op, course.ID, in.Orders, byID); err != nil {
			return err
		}
		if err := checkRequestDuplicates(op, in.Orders); err != nil {
			return err
		}

		final := make(map[uuid.UUID]int, len(lessons))
		for _, l := range lessons {
			final[l.ID] = l.Order
		}
		for _, o := range in.Orders {
			final[o.LessonID] = o.Order
		}
		if err := checkResultingOrders(op, lessons, final); err != nil {
			return err
		}

		changes := make([]domainagg.LessonOrderChange, 0, len(in.Orders))
		for _, o := range in.Orders {
			l := byID[o.LessonID]
			if l.Order == o.Order {
				continue
			}
			changes = append(changes, domainagg.LessonOrderChange{
				LessonID: l.ID,
				Title:    l.Title,
				OldOrder: l.Order,
				NewOrder: o.Order,
			})
		}
		if err := a.applyChanges(dbc, lessons, changes); err != nil {
			return err
		}

		out = domainagg.ReorderLessonsResult{
			CourseID:     course.ID,
			CourseTitle:  course.Title,
			TotalLessons: len(lessons),
			MovedCount:   len(changes),
			Changes:      changes,
			FinalOrder:   finalOrdering(lessons, final),
		}
		return nil
	})
	if err != nil {
		return domainagg.ReorderLessonsResult{}, err
	}
	return out, nil
}

// checkMembership reports unknown lesson ids and lessons owned by another
// course as separate reasons of one InvalidArgument error.
func (a *lessonOrderAggregate) checkMembership(dbc dbctx.Context, op string, courseID uuid.UUID, orders []domainagg.LessonOrder, byID map[uuid.UUID]*types.Lesson) error {
	var outside []uuid.UUID
	seen := map[uuid.UUID]struct{}{}
	for _, o := range orders {
		if _, ok := byID[o.LessonID]; ok {
			continue
		}
		if _, ok := seen[o.LessonID]; ok {
			continue
		}
		seen[o.LessonID] = struct{}{}
		outside = append(outside, o.LessonID)
	}
	if len(outside) == 0 {
		return nil
	}

	found, err := a.deps.Lessons.GetByIDs(dbc, outside)
	if err != nil {
		return err
	}
	foreign := map[uuid.UUID]bool{}
	for _, l := range found {
		foreign[l.ID] = true
	}
	var missing, crossCourse []string
	for _, id := range outside {
		if foreign[id] {
			crossCourse = append(crossCourse, id.String())
		} else {
			missing = append(missing, id.String())
		}
	}
	var reasons []string
	if len(missing) > 0 {
		reasons = append(reasons, "lessons not found: "+strings.Join(missing, ", "))
	}
	if len(crossCourse) > 0 {
		reasons = append(reasons, fmt.Sprintf("lessons do not belong to course %s: %s", courseID, strings.Join(crossCourse, ", ")))
	}
	return domainagg.InvalidArgument(op, "%s", strings.Join(reasons, "; "))
}

func checkRequestDuplicates(op string, orders []domainagg.LessonOrder) error {
	lessonSeen := make(map[uuid.UUID]struct{}, len(orders))
	orderSeen := make(map[int]struct{}, len(orders))
	var dupLessons []string
	var dupOrders []string
	for _, o := range orders {
		if _, ok := lessonSeen[o.LessonID]; ok {
			dupLessons = append(dupLessons, o.LessonID.String())
		}
		lessonSeen[o.LessonID] = struct{}{}
		if _, ok := orderSeen[o.Order]; ok {
			dupOrders = append(dupOrders, fmt.Sprint(o.Order))
		}
		orderSeen[o.Order] = struct{}{}
	}
	if len(dupLessons) > 0 {
		return domainagg.InvalidArgument(op, "duplicate lesson ids in request: %s", strings.Join(dupLessons, ", "))
	}
	if len(dupOrders) > 0 {
		return domainagg.InvalidArgument(op, "duplicate orders in request: %s", strings.Join(dupOrders, ", "))
	}
	return nil
}

// checkResultingOrders verifies the order set after applying the request,
// including lessons the request left untouched.
func checkResultingOrders(op string, lessons []*types.Lesson, final map[uuid.UUID]int) error {
	holder := make(map[int]*types.Lesson, len(lessons))
	for _, l := range lessons {
		order := final[l.ID]
		if prev, ok := holder[order]; ok {
			return domainagg.Conflict(op, "order %d would be held by lessons %s (%s) and %s (%s)",
				order, prev.ID, prev.Title, l.ID, l.Title)
		}
		holder[order] = l
	}
	return nil
}

// applyChanges moves lessons in two passes so the (course_id, order) unique
// index never sees two rows on the same order: first every moved lesson is
// parked below the lowest order in play, then written to its final order.
func (a *lessonOrderAggregate) applyChanges(dbc dbctx.Context, lessons []*types.Lesson, changes []domainagg.LessonOrderChange) error {
	if len(changes) == 0 {
		return nil
	}
	floor := changes[0].NewOrder
	for _, l := range lessons {
		if l.Order < floor {
			floor = l.Order
		}
	}
	for _, c := range changes {
		if c.NewOrder < floor {
			floor = c.NewOrder
		}
	}
	for i, c := range changes {
		if err := a.deps.Lessons.UpdateOrder(dbc, c.LessonID, floor-1-i); err != nil {
			return err
		}
	}
	for _, c := range changes {
		if err := a.deps.Lessons.UpdateOrder(dbc, c.LessonID, c.NewOrder); err != nil {
			return err
		}
	}
	return nil
}

func finalOrdering(lessons []*types.Lesson, final map[uuid.UUID]int) []domainagg.OrderedLesson {
	sorted := make([]*types.Lesson, len(lessons))
	copy(sorted, lessons)
	sort.SliceStable(sorted, func(i, j int) bool {
		return final[sorted[i].ID] < final[sorted[j].ID]
	})
	out := make([]domainagg.OrderedLesson, 0, len(sorted))
	for i, l := range sorted {
		out = append(out, domainagg.OrderedLesson{
			Position: i + 1,
			LessonID: l.ID,
			Title:    l.Title,
			Order:    final[l.ID],
		})
	}
	return out
}
