// Package javadoc reads documentation comments: the description, with
// inline tags and HTML reduced to Markdown, and the block tags after it.
package javadoc

import (
	"strings"
)

// Doc is a parsed documentation comment.
type Doc struct {
	// Body is the main description as Markdown.
	Body string
	Tags []Tag
}

// Tag is a block tag such as "@param name text". Arg is the first word
// of tags that take one (param, throws, exception, see); Text is
// Markdown.
type Tag struct {
	Name string
	Arg  string
	Text string
}

var argTags = map[string]bool{"param": true, "throws": true, "exception": true, "serialField": true}

// Parse parses a comment as written, with or without its /** */
// delimiters.
func Parse(comment string) *Doc {
	lines := commentLines(comment)

	doc := &Doc{}
	var body []string
	var tag *Tag
	var tagText []string
	flush := func() {
		if tag != nil {
			tag.Text = render(strings.Join(tagText, "\n"))
			doc.Tags = append(doc.Tags, *tag)
		}
		tag, tagText = nil, nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "@") {
			flush()
			name, rest, _ := strings.Cut(trimmed[1:], " ")
			tag = &Tag{Name: name}
			rest = strings.TrimSpace(rest)
			if argTags[name] {
				tag.Arg, rest, _ = strings.Cut(rest, " ")
			}
			tagText = []string{rest}
			continue
		}
		if tag != nil {
			tagText = append(tagText, line)
		} else {
			body = append(body, line)
		}
	}
	flush()
	doc.Body = render(strings.Join(body, "\n"))
	return doc
}

// commentLines strips the comment delimiters and the leading asterisk
// of each line.
func commentLines(comment string) []string {
	s := strings.TrimSpace(comment)
	s = strings.TrimPrefix(s, "/**")
	s = strings.TrimSuffix(s, "*/")

	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		t := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(t, "*") {
			t = strings.TrimPrefix(t[1:], " ")
			lines[i] = t
		}
	}
	return lines
}

// Summary is the first sentence of the description.
func (d *Doc) Summary() string {
	text := strings.Join(strings.Fields(d.Body), " ")
	for i := 0; i < len(text); i++ {
		if text[i] == '.' && (i+1 == len(text) || text[i+1] == ' ') {
			return text[:i+1]
		}
	}
	return text
}

// Param returns the description of parameter name.
func (d *Doc) Param(name string) string {
	for _, t := range d.Tags {
		if t.Name == "param" && t.Arg == name {
			return t.Text
		}
	}
	return ""
}

// Markdown renders the whole comment: the description followed by the
// block tags.
func (d *Doc) Markdown() string {
	var sb strings.Builder
	sb.WriteString(d.Body)
	for i, t := range d.Tags {
		if i == 0 && sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("\n*@")
		sb.WriteString(t.Name)
		sb.WriteString("*")
		if t.Arg != "" {
			sb.WriteString(" `")
			sb.WriteString(t.Arg)
			sb.WriteString("`")
		}
		if t.Text != "" {
			sb.WriteString(" ")
			sb.WriteString(strings.ReplaceAll(t.Text, "\n", " "))
		}
	}
	return strings.TrimSpace(sb.String())
}

// render turns comment text into Markdown.
func render(text string) string {
	var sb strings.Builder
	for i := 0; i < len(text); {
		switch {
		case strings.HasPrefix(text[i:], "{@"):
			end := matchBrace(text, i)
			sb.WriteString(inlineTag(text[i+2 : end]))
			i = min(end+1, len(text))
		case text[i] == '<':
			end := strings.IndexByte(text[i:], '>')
			if end < 0 {
				sb.WriteByte('<')
				i++
				continue
			}
			html := htmlTag(text[i+1 : i+end])
			if html == "\n- " && atLineStart(sb.String()) {
				html = "- "
			}
			sb.WriteString(html)
			i += end + 1
		case text[i] == '&':
			end := strings.IndexByte(text[i:], ';')
			if end < 0 || end > 10 {
				sb.WriteByte('&')
				i++
				continue
			}
			sb.WriteString(entity(text[i+1 : i+end]))
			i += end + 1
		default:
			sb.WriteByte(text[i])
			i++
		}
	}
	return tidy(sb.String())
}

func atLineStart(s string) bool {
	s = strings.TrimRight(s, " \t")
	return s == "" || strings.HasSuffix(s, "\n")
}

// matchBrace returns the index of the brace closing the inline tag that
// starts at start, counting nested braces, or the end of text.
func matchBrace(text string, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(text)
}

func inlineTag(tag string) string {
	name, content, _ := strings.Cut(tag, " ")
	name = strings.TrimSpace(name)
	content = strings.TrimSpace(content)
	switch name {
	case "code":
		if strings.Contains(content, "\n") {
			return "\n```java\n" + content + "\n```\n"
		}
		return "`" + content + "`"
	case "literal", "index", "summary", "return", "systemProperty":
		return content
	case "link", "linkplain":
		ref, label, _ := strings.Cut(content, " ")
		if label = strings.TrimSpace(label); label != "" {
			return label
		}
		return "`" + reference(ref) + "`"
	case "value":
		return "`" + reference(content) + "`"
	case "inheritDoc":
		return "(inherited)"
	case "docRoot":
		return ""
	}
	return content
}

// reference renders a reference such as java.util.List#add(E) by its
// simple name and member.
func reference(ref string) string {
	class, member, hasMember := strings.Cut(ref, "#")
	if i := strings.LastIndexByte(class, '.'); i >= 0 {
		class = class[i+1:]
	}
	if !hasMember {
		return class
	}
	if class == "" {
		return member
	}
	return class + "." + member
}

func htmlTag(tag string) string {
	name := strings.ToLower(strings.TrimPrefix(strings.Fields(tag + " ")[0], "/"))
	closing := strings.HasPrefix(tag, "/")
	switch name {
	case "p":
		return "\n\n"
	case "br", "br/":
		return "\n"
	case "li":
		if closing {
			return ""
		}
		return "\n- "
	case "ul", "ol":
		return "\n"
	case "b", "strong":
		return "**"
	case "i", "em":
		return "*"
	case "code", "tt":
		return "`"
	case "pre":
		return "\n```\n"
	}
	return ""
}

func entity(name string) string {
	switch name {
	case "lt", "#60":
		return "<"
	case "gt", "#62":
		return ">"
	case "amp", "#38":
		return "&"
	case "quot", "#34":
		return "\""
	case "apos", "#39":
		return "'"
	case "nbsp", "#160":
		return " "
	}
	return "&" + name + ";"
}

// tidy trims every line and collapses runs of blank lines.
func tidy(s string) string {
	var out []string
	blank := false
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
