package vdom

import "strings"

func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Global attributes

func ID(id string) Attr               { return attr("id", id) }
func Class(classes ...string) Attr    { return attr("class", joinClasses(classes)) }
func StyleAttr(style string) Attr     { return attr("style", style) }
func Data(key, value string) Attr     { return attr("data-"+key, value) }
func TitleAttr(title string) Attr     { return attr("title", title) }
func TabIndex(index int) Attr         { return attr("tabindex", index) }
func Hidden() Attr                    { return attr("hidden", true) }
func Href(url string) Attr            { return attr("href", url) }
func Name(name string) Attr           { return attr("name", name) }
func Value(value string) Attr         { return attr("value", value) }
func Type(t string) Attr              { return attr("type", t) }
func Disabled() Attr                  { return attr("disabled", true) }
func Checked() Attr                   { return attr("checked", true) }
func For(id string) Attr              { return attr("for", id) }
func Charset(charset string) Attr     { return attr("charset", charset) }
func Content(content string) Attr     { return attr("content", content) }
func Rel(rel string) Attr             { return attr("rel", rel) }
func Src(src string) Attr             { return attr("src", src) }
func Key(key string) Attr             { return attr("key", key) }
func Prop(key string, value any) Attr { return attr(key, value) }

// Accessibility

func Role(role string) Attr               { return attr("role", role) }
func AriaLabel(label string) Attr         { return attr("aria-label", label) }
func AriaHidden(hidden bool) Attr         { return attr("aria-hidden", hidden) }
func AriaLive(mode string) Attr           { return attr("aria-live", mode) }
func AriaCurrent(value string) Attr       { return attr("aria-current", value) }
func AriaDisabled(disabled bool) Attr     { return attr("aria-disabled", disabled) }
func AriaPressed(pressed bool) Attr       { return attr("aria-pressed", pressed) }
func AriaChecked(checked bool) Attr       { return attr("aria-checked", checked) }
func AriaBusy(busy bool) Attr             { return attr("aria-busy", busy) }
func AriaLabelledBy(id string) Attr       { return attr("aria-labelledby", id) }
func AriaDescribedBy(id string) Attr      { return attr("aria-describedby", id) }

// ClassIf returns the class attribute only when cond holds.
func ClassIf(cond bool, classes ...string) Attr {
	if !cond {
		return Attr{}
	}
	return Class(classes...)
}

func joinClasses(classes []string) string {
	parts := classes[:0:0]
	for _, c := range classes {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}
