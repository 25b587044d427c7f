package restoration

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Prompt is the instruction template sent alongside the photo. Goals describe
// the enhancements we want; Constraints keep the result faithful to the
// original.
type Prompt struct {
	Role        string   `yaml:"role"`
	Goals       []string `yaml:"goals"`
	Constraints []string `yaml:"constraints"`
	Closing     string   `yaml:"closing"`
}

// DefaultPrompt returns the built-in restoration template.
func DefaultPrompt() Prompt {
	return Prompt{
		Role: "You are a professional photo restoration expert. Using the provided image, create a high-quality restored version with these improvements:",
		Goals: []string{
			"Enhance clarity and sharpness while maintaining natural appearance",
			"Correct and balance colors for accurate, vibrant reproduction",
			"Reduce noise, grain, and compression artifacts",
			"Repair any visible damage (scratches, tears, stains, fading)",
			"Improve contrast and exposure for optimal viewing",
			"Enhance fine details and textures",
			"Remove any dust spots or blemishes",
		},
		Constraints: []string{
			"Preserve the original composition and all subjects",
			"Keep the restoration realistic and natural",
			"Maintain the historical character and authenticity of the photo",
			"Do not add or remove people or major elements",
			"Match the style and era of the original photograph",
		},
		Closing: "Generate a professional, high-quality restored version of this photograph.",
	}
}

// Build renders the template into the instruction text.
func (p Prompt) Build() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(p.Role))
	b.WriteString("\n\nRESTORATION GOALS:\n")
	writeBullets(&b, p.Goals)
	b.WriteString("\nIMPORTANT:\n")
	writeBullets(&b, p.Constraints)
	if closing := strings.TrimSpace(p.Closing); closing != "" {
		b.WriteString("\n")
		b.WriteString(closing)
	}
	return b.String()
}

func writeBullets(b *strings.Builder, items []string) {
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteString("\n")
	}
}

// Validate ensures both enhancement goals and fidelity constraints are present.
func (p Prompt) Validate() error {
	if countNonEmpty(p.Goals) == 0 {
		return errors.New("restoration prompt: at least one goal is required")
	}
	if countNonEmpty(p.Constraints) == 0 {
		return errors.New("restoration prompt: at least one constraint is required")
	}
	return nil
}

func countNonEmpty(items []string) int {
	n := 0
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			n++
		}
	}
	return n
}

// LoadPrompt reads a YAML template from path. Omitted fields fall back to the
// defaults. An empty path returns DefaultPrompt.
func LoadPrompt(path string) (Prompt, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultPrompt(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Prompt{}, fmt.Errorf("read restoration prompt: %w", err)
	}
	var loaded Prompt
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return Prompt{}, fmt.Errorf("parse restoration prompt: %w", err)
	}
	def := DefaultPrompt()
	if strings.TrimSpace(loaded.Role) == "" {
		loaded.Role = def.Role
	}
	if loaded.Goals == nil {
		loaded.Goals = def.Goals
	}
	if loaded.Constraints == nil {
		loaded.Constraints = def.Constraints
	}
	if strings.TrimSpace(loaded.Closing) == "" {
		loaded.Closing = def.Closing
	}
	if err := loaded.Validate(); err != nil {
		return Prompt{}, err
	}
	return loaded, nil
}
