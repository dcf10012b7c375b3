package components

import (
	"github.com/mattn/go-runewidth"
)

// cursor tracks a selection and scroll offset over a list of n items.
type cursor struct {
	selected int
	offset   int
}

// SelectNext moves the selection down.
func (c *cursor) SelectNext(n int) {
	if c.selected < n-1 {
		c.selected++
	}
}

// SelectPrev moves the selection up.
func (c *cursor) SelectPrev() {
	if c.selected > 0 {
		c.selected--
	}
}

// Selected returns the selected index.
func (c *cursor) Selected() int {
	return c.selected
}

// Select moves the selection to i, clamped to the list.
func (c *cursor) Select(i, n int) {
	c.selected = min(max(i, 0), max(n-1, 0))
}

// Reset moves back to the top.
func (c *cursor) Reset() {
	c.selected = 0
	c.offset = 0
}

// window clamps the selection and returns the visible range [start, end)
// for a viewport of rows lines.
func (c *cursor) window(n, rows int) (int, int) {
	if n == 0 {
		c.Reset()
		return 0, 0
	}
	rows = max(rows, 1)
	c.selected = min(max(c.selected, 0), n-1)

	if c.selected < c.offset {
		c.offset = c.selected
	}
	if c.selected >= c.offset+rows {
		c.offset = c.selected - rows + 1
	}
	c.offset = min(c.offset, max(n-rows, 0))

	return c.offset, min(c.offset+rows, n)
}

// truncate shortens s to at most width display cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// padRight pads s with spaces to width display cells.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}
