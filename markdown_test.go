package slidedom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type mdPortion struct {
	Text string
	Bold bool
}

type mdParagraph struct {
	Level    int
	Bullet   Bullet
	Portions []mdPortion
}

func describeParagraphs(t *testing.T, tb *TextBox) []mdParagraph {
	t.Helper()
	var out []mdParagraph
	for _, p := range tb.GetParagraphs().All() {
		mp := mdParagraph{Level: p.GetLevel(), Bullet: p.GetBullet()}
		for _, r := range p.GetPortions() {
			b, err := r.GetFont().IsBold()
			if err != nil {
				t.Fatalf("IsBold() error = %v", err)
			}
			mp.Portions = append(mp.Portions, mdPortion{r.GetText(), b})
		}
		out = append(out, mp)
	}
	return out
}

func TestSetMarkdownText(t *testing.T) {
	numbered := Bullet{Type: BulletNumbered, Scheme: "arabicPeriod"}
	tests := []struct {
		name string
		md   string
		want []mdParagraph
	}{
		{
			name: "bold span",
			md:   "Revenue is **up** again",
			want: []mdParagraph{{Portions: []mdPortion{{"Revenue is ", false}, {"up", true}, {" again", false}}}},
		},
		{
			name: "lines are paragraphs",
			md:   "first line\nsecond line",
			want: []mdParagraph{
				{Portions: []mdPortion{{"first line", false}}},
				{Portions: []mdPortion{{"second line", false}}},
			},
		},
		{
			name: "bullets",
			md:   "- one\n* two\n+ three",
			want: []mdParagraph{
				{Bullet: DefaultBullet, Portions: []mdPortion{{"one", false}}},
				{Bullet: DefaultBullet, Portions: []mdPortion{{"two", false}}},
				{Bullet: DefaultBullet, Portions: []mdPortion{{"three", false}}},
			},
		},
		{
			name: "numbered",
			md:   "1. alpha\n2. beta",
			want: []mdParagraph{
				{Bullet: numbered, Portions: []mdPortion{{"alpha", false}}},
				{Bullet: numbered, Portions: []mdPortion{{"beta", false}}},
			},
		},
		{
			name: "nested",
			md:   "- top\n  - inner",
			want: []mdParagraph{
				{Bullet: DefaultBullet, Portions: []mdPortion{{"top", false}}},
				{Level: 1, Bullet: DefaultBullet, Portions: []mdPortion{{"inner", false}}},
			},
		},
		{
			name: "bold in list item",
			md:   "- **Key**: value",
			want: []mdParagraph{
				{Bullet: DefaultBullet, Portions: []mdPortion{{"Key", true}, {": value", false}}},
			},
		},
		{
			name: "single emphasis stays literal",
			md:   "an *aside* here",
			want: []mdParagraph{{Portions: []mdPortion{{"an *aside* here", false}}}},
		},
		{
			name: "empty",
			md:   "",
			want: []mdParagraph{{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDoc(t)
			_, tb := newTextBoxOnSlide(t, d, "placeholder text")
			if err := tb.SetMarkdownText(tt.md); err != nil {
				t.Fatalf("SetMarkdownText() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, describeParagraphs(t, tb)); diff != "" {
				t.Errorf("paragraphs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetMarkdownTextRunsAutofit(t *testing.T) {
	d := newTestDoc(t)
	tb := shrinkBox(t, d)
	if err := tb.SetMarkdownText("- a\n- b\n- c\n- d\n- e\n- f"); err != nil {
		t.Fatalf("SetMarkdownText() error = %v", err)
	}
	if got := tb.GetFontScale(); got != 0.775 {
		t.Errorf("GetFontScale() = %v, want 0.775", got)
	}
}

func TestSetMarkdownTextDropsPreviousBullet(t *testing.T) {
	tests := []struct {
		name   string
		before string
		md     string
		want   []mdParagraph
	}{
		{
			name:   "after bullets",
			before: "- item",
			md:     "plain **bold** text",
			want:   []mdParagraph{{Portions: []mdPortion{{"plain ", false}, {"bold", true}, {" text", false}}}},
		},
		{
			name:   "after numbered list",
			before: "1. first",
			md:     "plain",
			want:   []mdParagraph{{Portions: []mdPortion{{"plain", false}}}},
		},
		{
			name:   "empty after bullets",
			before: "- item",
			md:     "",
			want:   []mdParagraph{{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDoc(t)
			_, tb := newTextBoxOnSlide(t, d, "")
			if err := tb.SetMarkdownText(tt.before); err != nil {
				t.Fatalf("SetMarkdownText(%q) error = %v", tt.before, err)
			}
			if err := tb.SetMarkdownText(tt.md); err != nil {
				t.Fatalf("SetMarkdownText(%q) error = %v", tt.md, err)
			}
			if diff := cmp.Diff(tt.want, describeParagraphs(t, tb)); diff != "" {
				t.Errorf("paragraphs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
