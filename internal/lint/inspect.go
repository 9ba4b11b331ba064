package lint

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// linkRef captures a hyperlink or image target found in a post body.
type linkRef struct {
	Target string
	Image  bool
}

// codeRef captures a code block and whether it carries any content.
type codeRef struct {
	Info  string
	Empty bool
}

// inspectBody parses the Markdown body and collects link targets and code
// blocks. The same GFM extensions used for rendering apply here so autolinks
// and tables resolve identically.
func inspectBody(source []byte) ([]linkRef, []codeRef, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Linkify))
	root := md.Parser().Parse(text.NewReader(source))

	var links []linkRef
	var blocks []codeRef

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Link:
			links = append(links, linkRef{Target: string(node.Destination)})
		case *ast.Image:
			links = append(links, linkRef{Target: string(node.Destination), Image: true})
		case *ast.AutoLink:
			links = append(links, linkRef{Target: string(node.URL(source))})
		case *ast.FencedCodeBlock:
			blocks = append(blocks, codeRef{
				Info:  fencedInfo(node, source),
				Empty: blockIsEmpty(node, source),
			})
		case *ast.CodeBlock:
			blocks = append(blocks, codeRef{
				Empty: blockIsEmpty(node, source),
			})
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, nil, err
	}

	return links, blocks, nil
}

func fencedInfo(node *ast.FencedCodeBlock, source []byte) string {
	if node.Info == nil {
		return ""
	}
	return strings.TrimSpace(string(node.Info.Segment.Value(source)))
}

func blockIsEmpty(node ast.Node, source []byte) bool {
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		if len(strings.TrimSpace(string(segment.Value(source)))) > 0 {
			return false
		}
	}
	return true
}
