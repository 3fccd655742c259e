package expand_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/expand"
)

func ExampleExpand() {
	in := &expand.Input{Sections: []expand.Section{{
		SectionType: expand.SectionHero,
		Layout:      expand.LayoutTextLeftImage,
		Elements: []expand.Element{
			{Type: expand.ElementText, Purpose: "headline", Content: "Ship pages faster"},
			{Type: expand.ElementButton, Text: "Start free", URL: "https://example.com/signup"},
			{Type: expand.ElementImage, Src: "https://example.com/hero.png"},
		},
	}}}

	d, err := expand.Expand(in, expand.Options{})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	_ = d.Walk(func(n *doc.Node, depth int) error {
		fmt.Printf("%s%s (%s)\n", strings.Repeat("  ", depth), n.DisplayName, n.Type)
		return nil
	})
	// Output:
	// Page (Page)
	//   Hero Section (Container)
	//     Content Column (Container)
	//       Headline (Text)
	//       Button (Button)
	//     Media Column (Container)
	//       Image (Image)
}
