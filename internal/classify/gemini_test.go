package classify

import (
	"strings"
	"testing"
)

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			"already clean",
			`{"category": "grocery", "place": null}`,
			`{"category": "grocery", "place": null}`,
		},
		{
			"json fence",
			"```json\n{\"category\": \"grocery\", \"place\": null}\n```",
			`{"category": "grocery", "place": null}`,
		},
		{
			"bare fence",
			"```\n{\"category\": \"other\", \"place\": null}\n```",
			`{"category": "other", "place": null}`,
		},
		{
			"leading prose",
			"Here is the result:\n{\"category\": \"dine_out\", \"place\": \"Springfield\"}",
			`{"category": "dine_out", "place": "Springfield"}`,
		},
		{
			"surrounding whitespace",
			"  \n{\"category\": \"tax\", \"place\": null}\n  ",
			`{"category": "tax", "place": null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.raw); got != tt.want {
				t.Errorf("cleanModelJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories() {
		if !c.Valid() {
			t.Errorf("%q should be valid", c)
		}
	}

	for _, c := range []Category{"", "groceries", "GROCERY", CategoryMyAccountTransfer, CategoryPayroll} {
		if c.Valid() {
			t.Errorf("%q should be outside the closed enumeration", c)
		}
	}
}

func TestClassifyPromptListsEveryCategory(t *testing.T) {
	prompt := classifyPrompt()
	for _, c := range Categories() {
		if !strings.Contains(prompt, string(c)) {
			t.Errorf("prompt missing category %q", c)
		}
	}
	if !strings.Contains(prompt, "STRICT JSON") {
		t.Error("prompt missing the strict-JSON instruction")
	}
}
