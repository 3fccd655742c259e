package doc_test

import (
	"fmt"

	"github.com/matzehuels/pagecraft/pkg/doc"
)

func ExampleDocument_AddChild() {
	d := doc.New()
	_, _ = d.CreateNode("hero", doc.Container)
	_, _ = d.CreateNode("headline", doc.Text)
	_ = d.AddChild(doc.RootID, "hero")
	_ = d.AddChild("hero", "headline")

	fmt.Println("Nodes:", d.Len())
	fmt.Println("Path:", d.Path("headline"))
	// Output:
	// Nodes: 3
	// Path: ROOT/hero/headline
}

func ExampleDefaults() {
	p := doc.Defaults(doc.Container)
	fmt.Println(p["flexDirection"], p["alignItems"], p["gap"], p["width"])
	// Output:
	// column center 10 100%
}
