package taskpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		text string
		want Category
	}{
		{"Сделать зарядку 10 минут", CategoryPhysical},
		{"Пройти 5000 шагов", CategoryPhysical},
		{"Нарисовать скетч кофейной чашки", CategoryCreative},
		{"Написать абзац в дневник", CategoryCreative},
		{"Позвонить старому другу", CategorySocial},
		{"Сделать комплимент коллеге", CategorySocial},
		{"Помыть посуду сразу после ужина", CategoryHousehold},
		{"Разобрать одну полку в шкафу", CategoryHousehold},
		{"Прочитать главу книги", CategoryMental},
		{"", CategoryMental},
		{"ПРОБЕЖКА ВОКРУГ ДОМА", CategoryPhysical},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, DetectCategory(tt.text), "text: %q", tt.text)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "выпить стакан воды", normalize("  Выпить стакан воды "))
	assert.Equal(t, normalize("АБВ"), normalize("абв"))
}
