package authz

import "github.com/pixelforge/credits/pkg/models"

// hierarchy maps each relation to the set of relations it satisfies. It is
// a strict, acyclic superset order: owner covers editor and viewer, editor
// covers viewer, and admin covers everything. Computed once, never
// re-derived per check.
var hierarchy = map[models.Relation]map[models.Relation]bool{
	models.RelationOwner:  relationSet(models.RelationOwner, models.RelationEditor, models.RelationViewer),
	models.RelationEditor: relationSet(models.RelationEditor, models.RelationViewer),
	models.RelationViewer: relationSet(models.RelationViewer),
	models.RelationAdmin:  relationSet(models.RelationAdmin, models.RelationOwner, models.RelationEditor, models.RelationViewer),
}

func relationSet(relations ...models.Relation) map[models.Relation]bool {
	set := make(map[models.Relation]bool, len(relations))
	for _, rel := range relations {
		set[rel] = true
	}
	return set
}

// satisfies reports whether a held relation grants the required one.
func satisfies(held, required models.Relation) bool {
	return hierarchy[held][required]
}
