package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VantageDataChat/slidedom"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.pptx>",
	Short: "Print slides, shapes and resolved text styles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		d, err := s.open(args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		sw, sh := d.GetSlideSize()
		fmt.Fprintf(w, "%s: %d slides, %.0fx%.0fpt\n", filepath.Base(args[0]), d.GetSlideCount(), sw, sh)
		for i, slide := range d.GetSlides() {
			fmt.Fprintf(w, "slide %d (layout %q)\n", i+1, slide.GetLayout().GetName())
			printShapes(w, slide.GetShapes(), 1)
		}
		if err := d.Validate(); err != nil {
			fmt.Fprintln(w, err)
		}
		return s.finish(cmd)
	},
}

func printShapes(w io.Writer, c *slidedom.ShapeCollection, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, sh := range c.All() {
		id, _ := sh.GetID()
		name, _ := sh.GetName()
		content, _ := sh.GetContent()
		x, _ := sh.GetX()
		y, _ := sh.GetY()
		cx, _ := sh.GetWidth()
		cy, _ := sh.GetHeight()
		fmt.Fprintf(w, "%s#%d %s %q at %.1f,%.1f size %.1fx%.1f", indent, id, content, name, x, y, cx, cy)
		if f, err := sh.GetFill(); err == nil {
			if typ, err := f.GetType(); err == nil {
				fmt.Fprintf(w, " fill=%s", typ)
			}
		}
		fmt.Fprintln(w)
		if tb, err := sh.GetTextBox(); err == nil {
			printText(w, tb, indent+"  ")
		}
		if g, err := slidedom.As[slidedom.Group](sh); err == nil {
			if members, err := g.GetShapes(); err == nil {
				printShapes(w, members, depth+1)
			}
		}
	}
}

func printText(w io.Writer, tb *slidedom.TextBox, indent string) {
	if tb.GetAutofit() != slidedom.AutofitNone {
		fmt.Fprintf(w, "%sautofit=%s scale=%.3f\n", indent, tb.GetAutofit(), tb.GetFontScale())
	}
	for _, p := range tb.GetParagraphs().All() {
		text := strings.ReplaceAll(p.GetText(), "\v", " / ")
		if text == "" {
			continue
		}
		size := "?"
		if portions := p.GetPortions(); len(portions) > 0 {
			if pt, err := portions[0].GetFont().GetSize(); err == nil {
				size = strconv.FormatFloat(pt, 'f', -1, 64) + "pt"
			}
		}
		fmt.Fprintf(w, "%s[%d %s] %s\n", indent, p.GetLevel(), size, text)
	}
}

var setTextCmd = &cobra.Command{
	Use:   "set-text <file.pptx>",
	Short: "Replace the text of a shape and re-run its autofit policy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		markdown, _ := cmd.Flags().GetBool("markdown")
		return editShape(cmd, args[0], func(s *session, sh slidedom.Shape) error {
			tb, err := sh.GetTextBox()
			if err != nil {
				return err
			}
			if markdown {
				err = tb.SetMarkdownText(text)
			} else {
				err = tb.SetText(text)
			}
			if err != nil {
				return err
			}
			s.logger.Info("text replaced", "autofit", tb.GetAutofit().String(), "scale", tb.GetFontScale())
			return nil
		})
	},
}

var setFillCmd = &cobra.Command{
	Use:   "set-fill <file.pptx>",
	Short: "Set a solid, scheme or no fill on a shape",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		color, _ := cmd.Flags().GetString("color")
		scheme, _ := cmd.Flags().GetString("scheme")
		return editShape(cmd, args[0], func(_ *session, sh slidedom.Shape) error {
			f, err := sh.GetFill()
			if err != nil {
				return err
			}
			switch {
			case scheme != "":
				return f.SetSchemeColor(slidedom.SchemeColor(scheme))
			case color == "none":
				return f.SetNoFill()
			case color != "":
				return f.SetColor(color)
			}
			return errors.New("one of --color or --scheme is required")
		})
	},
}

var mediaCmd = &cobra.Command{
	Use:   "media <file.pptx>",
	Short: "List the distinct media of a presentation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		d, err := s.open(args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for _, h := range d.GetMedia().All() {
			fmt.Fprintf(w, "%s\t%s\t%d bytes", h.GetName(), h.GetContentType(), len(h.Bytes()))
			if pw, ph := h.GetPixelSize(); pw > 0 {
				fmt.Fprintf(w, "\t%dx%dpx", pw, ph)
			}
			fmt.Fprintf(w, "\t%s\n", h.GetDigest())
		}
		return s.finish(cmd)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the library version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), slidedom.Version)
	},
}

func init() {
	for _, c := range []*cobra.Command{setTextCmd, setFillCmd} {
		c.Flags().Int("slide", 1, "Slide number, starting at 1")
		c.Flags().String("shape", "", "Shape id or name")
		c.Flags().StringP("output", "o", "", "Output file path (default: overwrite input)")
		_ = c.MarkFlagRequired("shape")
	}
	setTextCmd.Flags().String("text", "", "New text; \\n separates paragraphs")
	setTextCmd.Flags().Bool("markdown", false, "Interpret --text as Markdown")
	setFillCmd.Flags().String("color", "", "Hex color such as FF0000, or none")
	setFillCmd.Flags().String("scheme", "", "Theme color slot such as accent1")
}

// editShape opens path, applies edit to the selected shape and saves.
func editShape(cmd *cobra.Command, path string, edit func(*session, slidedom.Shape) error) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	d, err := s.open(path)
	if err != nil {
		return err
	}
	num, _ := cmd.Flags().GetInt("slide")
	slide, err := d.GetSlide(num - 1)
	if err != nil {
		return err
	}
	ref, _ := cmd.Flags().GetString("shape")
	sh, err := findShape(slide.GetShapes(), ref)
	if err != nil {
		return err
	}
	if err := edit(s, sh); err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = path
	}
	if err := d.Save(out); err != nil {
		return err
	}
	s.logger.Info("saved", "path", out)
	return s.finish(cmd)
}

func findShape(c *slidedom.ShapeCollection, ref string) (slidedom.Shape, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		return c.GetByID(id)
	}
	return c.GetByName(ref)
}
