package grocery

import "strings"

// Ingredient is the canonical grocery item a vocabulary keyword resolves to.
type Ingredient struct {
	Name     string
	Unit     string
	Category string
}

// VocabEntry maps a keyword found in meal text to a canonical ingredient.
type VocabEntry struct {
	Keyword    string
	Ingredient Ingredient
}

// Vocabulary is the ordered keyword table used to extract ingredients from
// free-text meal descriptions. Longer, more specific keywords come first so
// "chicken breast" wins over "chicken". The table is configuration data:
// replacing it does not touch the pipeline.
type Vocabulary []VocabEntry

// Extract returns the canonical ingredients mentioned in the given meal
// descriptions, deduplicated, in first-seen order. Matching is
// case-insensitive substring search.
func (v Vocabulary) Extract(meals []string) []Ingredient {
	seen := make(map[string]bool)
	var found []Ingredient

	for _, meal := range meals {
		text := strings.ToLower(meal)
		for _, entry := range v {
			if !strings.Contains(text, entry.Keyword) {
				continue
			}
			if seen[entry.Ingredient.Name] {
				continue
			}
			seen[entry.Ingredient.Name] = true
			found = append(found, entry.Ingredient)
		}
	}
	return found
}

// DefaultVocabulary returns the standard ingredient extraction table.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		{"chicken breast", Ingredient{"Chicken Breast", "lb", "meat"}},
		{"olive oil", Ingredient{"Olive Oil", "bottle", "condiment"}},
		{"chicken", Ingredient{"Chicken Breast", "lb", "meat"}},
		{"egg", Ingredient{"Eggs", "dozen", "dairy"}},
		{"omelette", Ingredient{"Eggs", "dozen", "dairy"}},
		{"cheese", Ingredient{"Cheese", "block", "dairy"}},
		{"milk", Ingredient{"Milk", "gallon", "dairy"}},
		{"yogurt", Ingredient{"Yogurt", "cup", "dairy"}},
		{"salmon", Ingredient{"Salmon", "lb", "seafood"}},
		{"shrimp", Ingredient{"Shrimp", "lb", "seafood"}},
		{"tuna", Ingredient{"Tuna", "can", "seafood"}},
		{"lobster", Ingredient{"Lobster", "lb", "seafood"}},
		{"broccoli", Ingredient{"Broccoli", "head", "vegetable"}},
		{"spinach", Ingredient{"Spinach", "bag", "vegetable"}},
		{"carrot", Ingredient{"Carrots", "pieces", "vegetable"}},
		{"tomato", Ingredient{"Tomatoes", "pieces", "vegetable"}},
		{"onion", Ingredient{"Onion", "pieces", "vegetable"}},
		{"salad", Ingredient{"Spinach", "bag", "vegetable"}},
		{"stir-fry", Ingredient{"Broccoli", "head", "vegetable"}},
		{"pasta", Ingredient{"Pasta", "box", "grain"}},
		{"spaghetti", Ingredient{"Pasta", "box", "grain"}},
		{"rice", Ingredient{"Rice", "bag", "grain"}},
		{"bread", Ingredient{"Bread", "loaf", "grain"}},
		{"toast", Ingredient{"Bread", "loaf", "grain"}},
	}
}
