package restoration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPromptBuild(t *testing.T) {
	got := DefaultPrompt().Build()

	checks := []string{
		"professional photo restoration expert",
		"RESTORATION GOALS:",
		"- Reduce noise, grain, and compression artifacts",
		"- Repair any visible damage (scratches, tears, stains, fading)",
		"IMPORTANT:",
		"- Preserve the original composition and all subjects",
		"- Do not add or remove people or major elements",
		"- Match the style and era of the original photograph",
		"Generate a professional, high-quality restored version of this photograph.",
	}
	for _, expect := range checks {
		assert.Contains(t, got, expect)
	}
	assert.Less(t, strings.Index(got, "RESTORATION GOALS:"), strings.Index(got, "IMPORTANT:"))
	assert.NoError(t, DefaultPrompt().Validate())
}

func TestBuildSkipsBlankItems(t *testing.T) {
	p := Prompt{Role: "Role", Goals: []string{"a", " "}, Constraints: []string{"b"}}
	assert.Equal(t, "Role\n\nRESTORATION GOALS:\n- a\n\nIMPORTANT:\n- b\n", p.Build())
}

func TestLoadPromptEmptyPathUsesDefault(t *testing.T) {
	p, err := LoadPrompt("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPrompt(), p)
}

func TestLoadPromptMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("goals:\n  - Colorize the photo\n"), 0o600))

	p, err := LoadPrompt(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Colorize the photo"}, p.Goals)
	assert.Equal(t, DefaultPrompt().Constraints, p.Constraints)
	assert.Equal(t, DefaultPrompt().Role, p.Role)
}

func TestLoadPromptRequiresConstraints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("constraints: []\n"), 0o600))

	_, err := LoadPrompt(path)
	assert.ErrorContains(t, err, "constraint")
}

func TestLoadPromptMissingFile(t *testing.T) {
	_, err := LoadPrompt(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
