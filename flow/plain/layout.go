package plain

import (
	"fmt"
	"unicode"

	"github.com/amazon-ion/ion-go/ion"

	"fnflow/flow"
)

// line is a wrapped line, text[from:to] without paragraph break.
type line struct {
	from, to int
	page     int // internal page, -1 when not placed yet
	origin   flow.Point
}

type page struct {
	bounds      flow.Bounds
	first, last int // lines[first:last]
}

// snapshot is persisted form of computed layout.
type snapshot struct {
	X         float64    `ion:"x"`
	Y         float64    `ion:"y"`
	XLimit    float64    `ion:"x_limit"`
	YLimit    float64    `ion:"y_limit"`
	StartPage int        `ion:"start_page"`
	Pages     []snapPage `ion:"pages"`
	Lines     []snapLine `ion:"lines"`
}

type snapPage struct {
	Left   float64 `ion:"left"`
	Top    float64 `ion:"top"`
	Right  float64 `ion:"right"`
	Bottom float64 `ion:"bottom"`
	First  int     `ion:"first"`
	Last   int     `ion:"last"`
}

type snapLine struct {
	From int     `ion:"from"`
	To   int     `ion:"to"`
	Page int     `ion:"page"`
	X    float64 `ion:"x"`
	Y    float64 `ion:"y"`
}

func (c *Container) Reset(x, y, xLimit, yLimit float64) {
	c.x, c.y, c.xLimit, c.yLimit = x, y, xLimit, yLimit
	c.wrapped = false
	c.pages = nil
	c.placed = 0
}

func (c *Container) SetStartPage(abs int) {
	c.startPage = abs
}

func (c *Container) StartPage() int {
	return c.startPage
}

func (c *Container) RelativePage(abs int) int {
	return abs - c.startPage
}

// RecalculatePage places lines on internal page rel. At least one line is
// placed on every call so the flow always reaches RecalcEnd.
func (c *Container) RecalculatePage(rel int) flow.RecalcResult {
	c.ensureLines()

	if rel <= 0 {
		c.pages, c.placed = c.pages[:0], 0
	} else if rel < len(c.pages) {
		c.pages = c.pages[:rel]
		c.placed = c.pages[rel-1].last
	}
	rel = len(c.pages)

	top, cur, first := c.y, c.y, c.placed
	for c.placed < len(c.lines) {
		if c.placed > first && cur+c.lineHeight > c.yLimit {
			break
		}
		l := &c.lines[c.placed]
		l.page = rel
		l.origin = flow.Point{X: c.x, Y: cur}
		cur += c.lineHeight
		c.placed++
	}
	c.pages = append(c.pages, page{
		bounds: flow.Bounds{Left: c.x, Top: top, Right: c.xLimit, Bottom: cur},
		first:  first,
		last:   c.placed,
	})
	if c.placed >= len(c.lines) {
		return flow.RecalcEnd
	}
	return flow.RecalcNextPage
}

func (c *Container) PageBounds(rel int) flow.Bounds {
	if rel < 0 || rel >= len(c.pages) {
		return flow.Bounds{}
	}
	return c.pages[rel].bounds
}

func (c *Container) Shift(rel int, dx, dy float64) {
	if rel < 0 || rel >= len(c.pages) {
		return
	}
	p := &c.pages[rel]
	p.bounds = p.bounds.Translate(dx, dy)
	for i := p.first; i < p.last; i++ {
		c.lines[i].origin.X += dx
		c.lines[i].origin.Y += dy
	}
}

func (c *Container) SaveSnapshot() flow.Snapshot {
	s := snapshot{X: c.x, Y: c.y, XLimit: c.xLimit, YLimit: c.yLimit, StartPage: c.startPage}
	for _, p := range c.pages {
		s.Pages = append(s.Pages, snapPage{
			Left: p.bounds.Left, Top: p.bounds.Top, Right: p.bounds.Right, Bottom: p.bounds.Bottom,
			First: p.first, Last: p.last,
		})
	}
	for _, l := range c.lines {
		s.Lines = append(s.Lines, snapLine{From: l.from, To: l.to, Page: l.page, X: l.origin.X, Y: l.origin.Y})
	}
	data, err := ion.MarshalBinary(s)
	if err != nil {
		// this should never happen - snapshot contains only numbers
		panic(fmt.Sprintf("unable to marshal layout snapshot: %v", err))
	}
	return data
}

func (c *Container) LoadSnapshot(data flow.Snapshot) error {
	var s snapshot
	if err := ion.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("unable to unmarshal layout snapshot of %s: %w", c.id, err)
	}
	for _, l := range s.Lines {
		if l.From < 0 || l.To < l.From || l.To > len(c.text) {
			return fmt.Errorf("layout snapshot of %s does not match content", c.id)
		}
	}
	for _, p := range s.Pages {
		if p.First < 0 || p.Last < p.First || p.Last > len(s.Lines) {
			return fmt.Errorf("layout snapshot of %s has page lines [%d:%d] out of %d", c.id, p.First, p.Last, len(s.Lines))
		}
	}

	c.x, c.y, c.xLimit, c.yLimit, c.startPage = s.X, s.Y, s.XLimit, s.YLimit, s.StartPage
	c.pages = c.pages[:0]
	for _, p := range s.Pages {
		c.pages = append(c.pages, page{
			bounds: flow.Bounds{Left: p.Left, Top: p.Top, Right: p.Right, Bottom: p.Bottom},
			first:  p.First,
			last:   p.Last,
		})
	}
	c.lines = c.lines[:0]
	for _, l := range s.Lines {
		c.lines = append(c.lines, line{from: l.From, to: l.To, page: l.Page, origin: flow.Point{X: l.X, Y: l.Y}})
	}
	c.placed = 0
	if len(c.pages) > 0 {
		c.placed = c.pages[len(c.pages)-1].last
	}
	c.wrapped = len(c.lines) > 0
	return nil
}

func (c *Container) Draw(abs int, s flow.Surface) {
	rel := c.RelativePage(abs)
	if rel < 0 || rel >= len(c.pages) {
		return
	}
	p := c.pages[rel]
	if c.separator {
		y := p.bounds.Top + p.bounds.Height()/2
		s.HLine(p.bounds.Left, p.bounds.Left+p.bounds.Width()/3, y)
		return
	}
	for _, l := range c.lines[p.first:p.last] {
		if l.to > l.from {
			s.DrawText(l.origin.X, l.origin.Y+c.lineHeight*0.8, string(c.text[l.from:l.to]))
		}
	}
}

func (c *Container) ensureLines() {
	if c.wrapped {
		return
	}
	c.wrap()
	c.wrapped = true
	c.pages, c.placed = c.pages[:0], 0
}

// wrap breaks paragraphs into lines preferring to break after spaces.
// Non-positive available width disables wrapping.
func (c *Container) wrap() {
	avail := c.xLimit - c.x
	c.lines = c.lines[:0]

	add := func(from, to int) {
		c.lines = append(c.lines, line{
			from:   from,
			to:     to,
			page:   -1,
			origin: flow.Point{X: c.x, Y: c.y + float64(len(c.lines))*c.lineHeight},
		})
	}

	start := 0
	for start <= len(c.text) {
		end := start
		for end < len(c.text) && c.text[end] != '\n' {
			end++
		}
		c.wrapParagraph(start, end, avail, add)
		start = end + 1
	}
}

func (c *Container) wrapParagraph(from, to int, avail float64, add func(int, int)) {
	if from == to || avail <= 0 {
		add(from, to)
		return
	}
	ls, w, brk := from, 0.0, -1
	for i := from; i < to; i++ {
		adv := c.advance(c.text[i])
		if w+adv > avail && i > ls {
			if brk > ls {
				add(ls, brk)
				ls, i = brk, brk
				adv = c.advance(c.text[i])
			} else {
				add(ls, i)
				ls = i
			}
			w, brk = 0, -1
		}
		w += adv
		if unicode.IsSpace(c.text[i]) {
			brk = i + 1
		}
	}
	add(ls, to)
}

// lineOf returns index of the line containing position p. Position at the
// boundary between wrapped lines belongs to the following line.
func (c *Container) lineOf(p int) int {
	c.ensureLines()
	for i := len(c.lines) - 1; i >= 0; i-- {
		if c.lines[i].from <= p {
			return i
		}
	}
	return 0
}

// column returns position on line i closest to horizontal offset x.
func (c *Container) column(i int, x float64) int {
	l := c.lines[i]
	cur := l.origin.X
	for p := l.from; p < l.to; p++ {
		adv := c.advance(c.text[p])
		if x < cur+adv/2 {
			return p
		}
		cur += adv
	}
	return l.to
}

// offset returns horizontal page position of p on line i.
func (c *Container) offset(i, p int) float64 {
	l := c.lines[i]
	x := l.origin.X
	for j := l.from; j < p && j < l.to; j++ {
		x += c.advance(c.text[j])
	}
	return x
}

// hit returns position nearest to (x, y) on internal page rel.
func (c *Container) hit(x, y float64, rel int) int {
	c.ensureLines()
	first, last := 0, len(c.lines)
	if rel >= 0 && rel < len(c.pages) {
		first, last = c.pages[rel].first, c.pages[rel].last
	}
	if first >= last {
		return 0
	}
	i := first
	for i < last-1 && y >= c.lines[i].origin.Y+c.lineHeight {
		i++
	}
	return c.column(i, x)
}
