package naming

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveSessionDir(t *testing.T) {
	tests := []struct {
		archive string
		want    string
	}{
		{"Bizottsag_2020_10_15.zip", "Bizottsag_2020-10-15"},
		{"Pénzügyi_Bizottsag_2021_03_02.zip", "Pénzügyi_Bizottsag_2021-03-02"},
		{"Koznevelesi_Muvelodesi_es_Ifjusagi_Bizottsag_2020_10_15.zip", "Koznevelesi_Muvelodesi_es_Ifjusagi_Bizottsag_2020-10-15"},
		{"ules_2020.zip", "ules-2020"},
		{"ules.zip", "ules"},
		{filepath.Join("in", "my_dir", "Testulet_2022_01_31.zip"), filepath.Join("in", "my_dir", "Testulet_2022-01-31")},
	}
	for _, tt := range tests {
		t.Run(tt.archive, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveSessionDir(tt.archive))
		})
	}
}

func TestDeriveSessionDir_KeepsEarlierUnderscores(t *testing.T) {
	got := DeriveSessionDir("a_b_c_d_e.zip")
	assert.Equal(t, "a_b_c-d-e", got)
	assert.Equal(t, 2, strings.Count(got, "_"))
}

func TestReplaceLast(t *testing.T) {
	assert.Equal(t, "a_b-c", ReplaceLast("a_b_c", "_", "-"))
	assert.Equal(t, "abc", ReplaceLast("abc", "_", "-"))
	assert.Equal(t, "abc", ReplaceLast("abc", "", "-"))
}

func TestCanonicalizeLabel(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bold with trailing period", "<b>3. napirendi pont</b>.", "3_napirendi_pont"},
		{"div wrapper", `<div style="text-align: right;"><b>12. Napirendi pont</b></div>`, "12_napirendi_pont"},
		{"line breaks", "<b>4. napirendi\r\npont</b>", "4_napirendipont"},
		{"closed", "<b>5. napirendi pont (Zárt ülés)</b>", "5_napirendi_pont_(zárt_ülés)"},
		{"plain text", "Egyebek", "egyebek"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanonicalizeLabel(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "<")
			assert.NotContains(t, got, ".")
			assert.NotContains(t, got, " ")
			assert.Equal(t, strings.ToLower(got), got)
		})
	}
}

func TestIsClosed(t *testing.T) {
	assert.True(t, IsClosed("5_napirendi_pont_(zárt_ülés)", "(zárt_ülés)"))
	assert.False(t, IsClosed("5_napirendi_pont", "(zárt_ülés)"))
	assert.False(t, IsClosed("anything", ""))
}

func TestStripClosedMarker(t *testing.T) {
	assert.Equal(t, "5_napirendi_pont", StripClosedMarker("5_napirendi_pont_(zárt_ülés)", "(zárt_ülés)"))
	assert.Equal(t, "5_napirendi_pont", StripClosedMarker("5_napirendi_pont__(zárt_ülés)", "(zárt_ülés)"))
}
