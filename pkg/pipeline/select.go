package pipeline

import "wallgrab/pkg/models"

// Selection is the result of filtering scraped candidates
type Selection struct {
	Selected    []models.Candidate
	Known       int
	Unsupported int
	Duplicates  []models.Candidate
}

// Select keeps candidates whose name is not in inv and whose extension is
// recognized, in input order. When several candidates share a name only the
// first survives; the rest are returned in Duplicates.
func Select(candidates []models.Candidate, inv models.Inventory) Selection {
	var sel Selection
	seen := make(map[string]struct{}, len(candidates))

	for _, c := range candidates {
		if inv.Has(c.Name) {
			sel.Known++
			continue
		}
		if !models.IsRecognizedExtension(c.Ext) {
			sel.Unsupported++
			continue
		}
		if _, dup := seen[c.Name]; dup {
			sel.Duplicates = append(sel.Duplicates, c)
			continue
		}
		seen[c.Name] = struct{}{}
		sel.Selected = append(sel.Selected, c)
	}
	return sel
}
