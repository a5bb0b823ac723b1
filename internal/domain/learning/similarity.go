package learning

import "sort"

type SimilarCandidate struct {
	Course *Course
	Tags   []string
}

type SimilarCourse struct {
	Course          *Course
	Tags            []string
	MatchingTags    []string
	SimilarityScore int
}

// RankSimilar scores candidates by how many tags they share with target.
// Candidates sharing nothing are dropped, and ties keep candidate order.
func RankSimilar(target []string, candidates []SimilarCandidate) []SimilarCourse {
	out := []SimilarCourse{}
	if len(target) == 0 {
		return out
	}
	want := make(map[string]struct{}, len(target))
	for _, t := range target {
		want[t] = struct{}{}
	}
	for _, c := range candidates {
		if c.Course == nil {
			continue
		}
		var matching []string
		for _, t := range c.Tags {
			if _, ok := want[t]; ok {
				matching = append(matching, t)
			}
		}
		if len(matching) == 0 {
			continue
		}
		out = append(out, SimilarCourse{
			Course:          c.Course,
			Tags:            c.Tags,
			MatchingTags:    matching,
			SimilarityScore: len(matching),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SimilarityScore > out[j].SimilarityScore
	})
	return out
}
