package model

import "strings"

// Categories is the fixed label space the classifier was trained on.
// Position is identity: a category's integer id is its index here. The
// order must never change without retraining the model.
var Categories = []string{
	"education",
	"entertainment",
	"food & dining",
	"healthcare",
	"insurance",
	"miscellaneous",
	"rent",
	"savings/investments",
	"shopping",
	"subscriptions",
	"tax",
	"transfers",
	"transportation",
	"utilities",
}

const (
	// MiscellaneousID is the fallback category id used when the classifier
	// returns a label outside the known set.
	MiscellaneousID = 5

	// UncategorizedLabel names expense totals with neither a prediction
	// nor a correction.
	UncategorizedLabel = "Uncategorized"
)

// ValidCategoryID reports whether id falls inside the label space.
func ValidCategoryID(id int) bool {
	return id >= 0 && id < len(Categories)
}

// CategoryName maps a category id to its label, or UncategorizedLabel when
// the id is outside the label space.
func CategoryName(id int) string {
	if !ValidCategoryID(id) {
		return UncategorizedLabel
	}
	return Categories[id]
}

// CategoryID maps a label back to its id. Matching is case-insensitive and
// ignores surrounding whitespace. The second return is false for labels
// outside the known set.
func CategoryID(label string) (int, bool) {
	needle := strings.ToLower(strings.TrimSpace(label))
	for i, name := range Categories {
		if name == needle {
			return i, true
		}
	}
	return 0, false
}
