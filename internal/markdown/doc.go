// Package markdown implements filesystem-backed post workflows: loading
// Markdown files with front matter, rendering bodies to HTML, and importing
// documents into the content index.
package markdown
