package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	repotest "github.com/yungbote/coursebridge-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/coursebridge-backend/internal/domain/aggregates"
)

func TestFindSimilarRanksBySharedTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	x, y, z, w := uuid.NewString(), uuid.NewString(), uuid.NewString(), uuid.NewString()
	a := repotest.SeedCourse(t, ctx, f.db, "A", x, y, z)
	b := repotest.SeedCourse(t, ctx, f.db, "B", y, z)
	repotest.SeedCourse(t, ctx, f.db, "C", w)
	d := repotest.SeedCourse(t, ctx, f.db, "D", x)

	got, err := f.similarity.FindSimilar(bg(), a.ID)
	if err != nil {
		t.Fatalf("FindSimilar: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("results: want=2 got=%d", len(got))
	}
	if got[0].Course.ID != b.ID || got[0].SimilarityScore != 2 || len(got[0].MatchingTags) != 2 {
		t.Fatalf("top result: %+v", got[0])
	}
	if got[1].Course.ID != d.ID || got[1].SimilarityScore != 1 {
		t.Fatalf("second result: %+v", got[1])
	}
}

func TestFindSimilarEmptyTagsAndUnknownCourse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lonely := repotest.SeedCourse(t, ctx, f.db, "no tags")

	got, err := f.similarity.FindSimilar(bg(), lonely.ID)
	if err != nil {
		t.Fatalf("FindSimilar: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil result, got %#v", got)
	}

	_, err = f.similarity.FindSimilar(bg(), uuid.New())
	requireCode(t, err, domainagg.CodeNotFound)
}
