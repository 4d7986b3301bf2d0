package slidedom

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// markdownParser knows lists, paragraphs and emphasis only, so every other
// construct stays literal text.
var markdownParser = parser.NewParser(
	parser.WithBlockParsers(
		util.Prioritized(parser.NewListParser(), 300),
		util.Prioritized(parser.NewListItemParser(), 400),
		util.Prioritized(parser.NewParagraphParser(), 1000),
	),
	parser.WithInlineParsers(
		util.Prioritized(parser.NewEmphasisParser(), 500),
	),
)

// SetMarkdownText replaces the content with Markdown. **Bold** spans become
// bold portions, "-", "*" and "+" list items become bulleted paragraphs and
// "1." items numbered ones, nested lists indent one level. Each source line
// is its own paragraph. Anything else is kept as written.
func (tb *TextBox) SetMarkdownText(md string) error {
	if err := tb.check(); err != nil {
		return err
	}
	src := []byte(normalizeNewlines(md))
	root := markdownParser.Parse(text.NewReader(src))

	tmplPara, tmplFont := tb.template()
	b := &mdBuilder{tb: tb, src: src, tmplPara: tmplPara, tmplFont: tmplFont}
	b.blocks(root)
	if len(b.paras) == 0 {
		b.start(tmplPara.level, Bullet{})
	}
	tb.replace(b.paras)
	return tb.changed()
}

type mdBuilder struct {
	tb       *TextBox
	src      []byte
	tmplPara *Paragraph
	tmplFont FontProps

	paras []*Paragraph
	cur   *Paragraph
	bold  []bool // per portion of cur
}

func (b *mdBuilder) start(level int, bullet Bullet) {
	p := b.tmplPara.cloneFormat(b.tb)
	p.endProps = b.tmplFont.clone()
	p.level = min(level, maxLevels-1)
	p.bullet = bullet
	b.paras = append(b.paras, p)
	b.cur, b.bold = p, nil
}

// write appends s, merging it into the last portion when the weight matches.
func (b *mdBuilder) write(s string, bold bool) {
	if s == "" {
		return
	}
	if b.cur == nil {
		b.start(b.tmplPara.level, Bullet{})
	}
	if n := len(b.cur.portions); n > 0 && b.bold[n-1] == bold {
		b.cur.portions[n-1].text += s
		return
	}
	props := b.tmplFont.clone()
	if bold {
		props.Bold = ptr(true)
	}
	b.cur.portions = append(b.cur.portions, &Portion{para: b.cur, text: s, props: props})
	b.bold = append(b.bold, bold)
}

func (b *mdBuilder) blocks(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if l, ok := c.(*ast.List); ok {
			b.list(l, b.tmplPara.level)
			continue
		}
		b.start(b.tmplPara.level, Bullet{})
		b.inline(c, false)
	}
}

func (b *mdBuilder) list(l *ast.List, level int) {
	bullet := DefaultBullet
	if l.IsOrdered() {
		bullet = Bullet{Type: BulletNumbered, Scheme: "arabicPeriod"}
	}
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		if !item.HasChildren() {
			b.start(level, bullet)
			continue
		}
		first := true
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*ast.List); ok {
				b.list(sub, level+1)
				continue
			}
			if first {
				b.start(level, bullet)
			} else {
				b.start(level, Bullet{})
			}
			first = false
			b.inline(c, false)
		}
	}
}

func (b *mdBuilder) inline(n ast.Node, bold bool) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			b.write(string(c.Segment.Value(b.src)), bold)
			if (c.SoftLineBreak() || c.HardLineBreak()) && c.NextSibling() != nil {
				b.start(b.cur.level, Bullet{})
			}
		case *ast.String:
			b.write(string(c.Value), bold)
		case *ast.Emphasis:
			if c.Level >= 2 {
				b.inline(c, true)
				continue
			}
			m := b.marker(c)
			b.write(m, bold)
			b.inline(c, bold)
			b.write(m, bold)
		default:
			b.inline(c, bold)
		}
	}
}

// marker recovers the delimiter of single emphasis from the source.
func (b *mdBuilder) marker(e *ast.Emphasis) string {
	if t, ok := e.FirstChild().(*ast.Text); ok && t.Segment.Start > 0 {
		if m := b.src[t.Segment.Start-1]; m == '*' || m == '_' {
			return string(m)
		}
	}
	return "*"
}
