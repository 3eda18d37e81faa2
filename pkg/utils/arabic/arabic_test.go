package arabic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_FoldsLetters(t *testing.T) {
	cases := []struct{ in, want string }{
		{"أحمد", "احمد"},
		{"إسكندرية", "اسكندريه"},
		{"آمال", "امال"},
		{"المعادى", "المعادي"},
		{"القاهرة", "القاهره"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(tc.in), tc.in)
	}
}

func TestNormalize_StripsMarksAndTatweel(t *testing.T) {
	assert.Equal(t, "مدينه نصر", Normalize("  مَدِينَةُ نـــصر  "))
	assert.Equal(t, "الرحمن", Normalize("الرَّحْمٰن"))
}

func TestNormalize_Empty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   "))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"القاهرة", " الإسكندرية ", "مَدِينَةُ", "Sea View", "شقة بالتجمع الخامس"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), in)
	}
}

func TestNormalize_TehMarbutaSymmetric(t *testing.T) {
	assert.Equal(t, Normalize("القاهرة"), Normalize("القاهره"))
	assert.Equal(t, Normalize("أسيوط"), Normalize("اسيوط"))
}

func TestSearchKey_LowersLatin(t *testing.T) {
	assert.Equal(t, "new cairo", SearchKey("  New Cairo "))
}
