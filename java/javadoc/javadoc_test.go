package javadoc

import (
	"testing"
)

func TestParseSimpleText(t *testing.T) {
	doc := Parse("/** Simple text. */")

	if doc.Body != "Simple text." {
		t.Errorf("Body = %q, want %q", doc.Body, "Simple text.")
	}
	if len(doc.Tags) != 0 {
		t.Errorf("expected no tags, got %+v", doc.Tags)
	}
}

func TestInlineTags(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		want    string
	}{
		{"code", "/** Use {@code Map<String, List<Integer>>} for this. */", "Use `Map<String, List<Integer>>` for this."},
		{"code with braces", "/** Use {@code class Foo { int x; }} for this. */", "Use `class Foo { int x; }` for this."},
		{"literal", "/** A {@literal <b>} tag. */", "A <b> tag."},
		{"link", "/** See {@link java.util.List#add(Object)}. */", "See `List.add(Object)`."},
		{"link with label", "/** See {@link java.util.List the list}. */", "See the list."},
		{"local member link", "/** Calls {@link #run()}. */", "Calls `run()`."},
		{"value", "/** Default is {@value Integer#MAX_VALUE}. */", "Default is `Integer.MAX_VALUE`."},
		{"unknown tag", "/** An {@foo bar} tag. */", "An bar tag."},
		{"unterminated", "/** Broken {@code x */", "Broken `x`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.comment).Body; got != tt.want {
				t.Errorf("Body = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTML(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		want    string
	}{
		{"paragraphs", "/**\n * First.\n * <p>\n * Second.\n */", "First.\n\nSecond."},
		{"emphasis", "/** A <b>bold</b> and <i>slanted</i> word. */", "A **bold** and *slanted* word."},
		{"list", "/**\n * Items:\n * <ul>\n * <li>one</li>\n * <li>two</li>\n * </ul>\n */", "Items:\n\n- one\n- two"},
		{"entities", "/** 1 &lt; 2 &amp;&amp; 3 &gt; 2 &copy; */", "1 < 2 && 3 > 2 &copy;"},
		{"stray angle", "/** a < b */", "a < b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.comment).Body; got != tt.want {
				t.Errorf("Body = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBlockTags(t *testing.T) {
	doc := Parse(`/**
 * Resizes the shape.
 *
 * @param width the new width,
 *     in pixels
 * @param height the new height
 * @return whether it changed
 * @throws IllegalArgumentException if a size is negative
 * @since 1.2
 */`)

	if doc.Body != "Resizes the shape." {
		t.Errorf("Body = %q", doc.Body)
	}
	want := []Tag{
		{Name: "param", Arg: "width", Text: "the new width,\n    in pixels"},
		{Name: "param", Arg: "height", Text: "the new height"},
		{Name: "return", Text: "whether it changed"},
		{Name: "throws", Arg: "IllegalArgumentException", Text: "if a size is negative"},
		{Name: "since", Text: "1.2"},
	}
	if len(doc.Tags) != len(want) {
		t.Fatalf("got %d tags, want %d: %+v", len(doc.Tags), len(want), doc.Tags)
	}
	for i, tag := range doc.Tags {
		if tag != want[i] {
			t.Errorf("tag %d = %+v, want %+v", i, tag, want[i])
		}
	}

	if got := doc.Param("height"); got != "the new height" {
		t.Errorf("Param(height) = %q", got)
	}
	if got := doc.Param("depth"); got != "" {
		t.Errorf("Param(depth) = %q, want empty", got)
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		comment string
		want    string
	}{
		{"/** Returns the size. More text follows. */", "Returns the size."},
		{"/**\n * Spans\n * two lines. Then more.\n */", "Spans two lines."},
		{"/** Uses java.util.List. */", "Uses java.util.List."},
		{"/** No full stop */", "No full stop"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Parse(tt.comment).Summary(); got != tt.want {
			t.Errorf("Summary(%q) = %q, want %q", tt.comment, got, tt.want)
		}
	}
}

func TestMarkdown(t *testing.T) {
	doc := Parse("/**\n * Adds {@code x}.\n * @param x the value\n * @return the sum\n */")
	want := "Adds `x`.\n\n*@param* `x` the value\n*@return* the sum"
	if got := doc.Markdown(); got != want {
		t.Errorf("Markdown() = %q, want %q", got, want)
	}
}
