// Package markdown inspects and renders Markdown documents with goldmark.
//
// Inspect reports a document's title (front matter first, then the first
// level-1 heading) and its heading outline. Renderer produces the
// standalone HTML page printed by the Chrome engine: GFM, footnotes,
// chroma-highlighted code blocks, an embedded stylesheet and an optional
// table of contents.
package markdown
