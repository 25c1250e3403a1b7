// Package ui holds the terminal presentation shared by the CLI and the
// panel: colors and styles, notice rendering, payload previews and
// width-aware text helpers.
package ui
