package taskpool

import "strings"

// Category classifies a task by the sphere of life it touches
type Category string

const (
	CategoryPhysical  Category = "physical"
	CategoryMental    Category = "mental"
	CategoryCreative  Category = "creative"
	CategorySocial    Category = "social"
	CategoryHousehold Category = "household"
)

// allCategories задает порядок обхода round-robin при подборе задач
var allCategories = []Category{
	CategoryPhysical,
	CategoryMental,
	CategoryCreative,
	CategorySocial,
	CategoryHousehold,
}

// categoryKeywords maps lowercase substrings to a category. Pool entries are
// tagged at authoring time; this table is only consulted for user-authored text.
var categoryKeywords = map[Category][]string{
	CategoryPhysical: {
		"тренир", "зарядк", "пробеж", "шаг", "приседан", "планк",
		"спорт", "растяжк", "прогул", "пешком", "плаван",
	},
	CategoryCreative: {
		"нарис", "рисун", "напис", "сочин", "придум", "скетч",
		"фотограф", "музык", "мелод", "творч",
	},
	CategorySocial: {
		"друг", "позвон", "коллег", "родител", "встреч",
		"комплимент", "поблагодар", "знаком",
	},
	CategoryHousehold: {
		"убор", "убрать", "помыть", "посуд", "мусор", "полк",
		"шкаф", "кроват", "порядок", "стирк", "покупк",
	},
}

// DetectCategory classifies free-form task text by keyword matching.
// Text that matches nothing is treated as mental work.
func DetectCategory(text string) Category {
	lower := strings.ToLower(text)
	for _, cat := range allCategories {
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(lower, kw) {
				return cat
			}
		}
	}
	return CategoryMental
}

// normalize is the key used for de-duplication of task texts
func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
