package database

import "blog-content-service/internal/utils"

// ReconcileTags computes the join table changes that turn the stored tag set oldTags
// into the desired set newTags: toInsert = newTags - oldTags, toDelete = oldTags - newTags.
// Duplicates collapse; both results keep the order of first appearance.
func ReconcileTags(oldTags, newTags []int64) (toInsert, toDelete []int64) {
	oldSet := utils.Set(oldTags)
	newSet := utils.Set(newTags)

	for _, id := range utils.Unique(newTags) {
		if _, ok := oldSet[id]; !ok {
			toInsert = append(toInsert, id)
		}
	}
	for _, id := range utils.Unique(oldTags) {
		if _, ok := newSet[id]; !ok {
			toDelete = append(toDelete, id)
		}
	}

	return toInsert, toDelete
}
