package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/interactive"
	"gopkg.in/yaml.v3"
)

type pageFile struct {
	Pages []pageSpec `yaml:"pages"`
}

type pageSpec struct {
	Content string `yaml:"content"`
	Title   string `yaml:"title"`
	Body    string `yaml:"body"`
	Tone    string `yaml:"tone"`
}

// LoadPages reads a YAML page file:
//
//	pages:
//	  - title: Rules
//	    body: "Beat the **dealer**."
func LoadPages(path string) (interactive.StaticPages, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pages: %w", err)
	}
	return ParsePages(data)
}

// ParsePages decodes the YAML page format.
func ParsePages(data []byte) (interactive.StaticPages, error) {
	var file pageFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode pages: %w", err)
	}
	if len(file.Pages) == 0 {
		return nil, errors.New("page file has no pages")
	}

	pages := make(interactive.StaticPages, 0, len(file.Pages))
	for i, p := range file.Pages {
		tone, err := parseTone(p.Tone)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		pages = append(pages, domain.View{
			Content: p.Content,
			Title:   p.Title,
			Body:    p.Body,
			Tone:    tone,
		})
	}
	return pages, nil
}

func parseTone(s string) (domain.Tone, error) {
	switch tone := domain.Tone(s); tone {
	case domain.ToneDefault, domain.ToneSuccess, domain.ToneError, domain.ToneWarning, domain.ToneMuted, domain.ToneAccent:
		return tone, nil
	default:
		return "", fmt.Errorf("unknown tone %q", s)
	}
}
