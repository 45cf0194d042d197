package interactive

import (
	"context"
	"fmt"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
)

// Control tokens of the pagination row.
const (
	TokenDoubleLeft  = "pagination_row_double_left"
	TokenLeft        = "pagination_row_left"
	TokenRight       = "pagination_row_right"
	TokenDoubleRight = "pagination_row_double_right"
	TokenFirst       = "pagination_row_back"
)

// MinimalControlsMax is the largest page count that only gets left and right.
const MinimalControlsMax = 5

type pageAction int

const (
	pageNone pageAction = iota
	pageDoubleBack
	pageBack
	pageForward
	pageDoubleForward
	pageFirst
)

func parsePageToken(token string) pageAction {
	switch token {
	case TokenDoubleLeft:
		return pageDoubleBack
	case TokenLeft:
		return pageBack
	case TokenRight:
		return pageForward
	case TokenDoubleRight:
		return pageDoubleForward
	case TokenFirst:
		return pageFirst
	default:
		return pageNone
	}
}

// PageSource provides the pages browsed by a Pagination.
type PageSource interface {
	PageCount() int
	RenderPage(ctx context.Context, page int) (domain.View, error)
}

// Pagination is a session state browsing a PageSource.
type Pagination struct {
	source PageSource
	page   int
}

// NewPagination starts browsing source at the first page.
func NewPagination(source PageSource) *Pagination {
	return &Pagination{source: source}
}

// Page returns the zero-based current page, clamped to the source.
// It does not move the stored position.
func (p *Pagination) Page() int {
	return min(p.page, max(p.source.PageCount()-1, 0))
}

// DoubleJumpCount is the stride of the double arrows.
func (p *Pagination) DoubleJumpCount() int {
	return p.source.PageCount()/5 + 1
}

// GoBack moves n pages back. Single steps wrap to the end; jumps clamp at the
// first page unless already there.
func (p *Pagination) GoBack(n int) {
	count := p.source.PageCount()
	if count == 0 {
		return
	}
	current := p.Page()
	if n > 1 && current != 0 {
		p.page = max(current-n, 0)
		return
	}
	p.page = ((current-n)%count + count) % count
}

// GoForward moves n pages forward. Single steps wrap to the start; jumps clamp
// at the last page unless already there.
func (p *Pagination) GoForward(n int) {
	count := p.source.PageCount()
	if count == 0 {
		return
	}
	current := p.Page()
	if n > 1 && current != count-1 {
		p.page = min(current+n, count-1)
		return
	}
	p.page = (current + n) % count
}

// Reset returns to the first page.
func (p *Pagination) Reset() {
	p.page = 0
}

// Render shows the current page with a "Page x/y" footer and the navigation row.
func (p *Pagination) Render(ctx context.Context) (domain.View, error) {
	count := p.source.PageCount()
	if count == 0 {
		return domain.View{Body: "Nothing to show.", Tone: domain.ToneMuted}, nil
	}
	page := p.Page()
	view, err := p.source.RenderPage(ctx, page)
	if err != nil {
		return domain.View{}, fmt.Errorf("render page %d: %w", page, err)
	}
	view.Footer = fmt.Sprintf("Page %d/%d", page+1, count)
	view.Controls = paginationControls(count)
	return view, nil
}

// HandleEvent navigates and redraws; unknown tokens are ignored.
func (p *Pagination) HandleEvent(ctx context.Context, ev domain.Event) (domain.Outcome, error) {
	switch parsePageToken(ev.Token) {
	case pageDoubleBack:
		p.GoBack(p.DoubleJumpCount())
	case pageBack:
		p.GoBack(1)
	case pageForward:
		p.GoForward(1)
	case pageDoubleForward:
		p.GoForward(p.DoubleJumpCount())
	case pageFirst:
		p.Reset()
	default:
		return domain.Noop(), nil
	}
	return domain.Update(), nil
}

func paginationControls(count int) []domain.Control {
	left := domain.Control{Token: TokenLeft, Emoji: "◀️", Style: domain.StyleSecondary}
	right := domain.Control{Token: TokenRight, Emoji: "▶️", Style: domain.StyleSecondary}
	switch {
	case count <= 1:
		return nil
	case count <= MinimalControlsMax:
		return []domain.Control{left, right}
	default:
		return []domain.Control{
			{Token: TokenDoubleLeft, Emoji: "⏪", Style: domain.StyleSecondary},
			left,
			right,
			{Token: TokenDoubleRight, Emoji: "⏩", Style: domain.StyleSecondary},
			{Token: TokenFirst, Emoji: "↩️", Style: domain.StyleSecondary},
		}
	}
}

// StaticPages is a PageSource over fixed views.
type StaticPages []domain.View

func (s StaticPages) PageCount() int {
	return len(s)
}

func (s StaticPages) RenderPage(ctx context.Context, page int) (domain.View, error) {
	if page < 0 || page >= len(s) {
		return domain.View{}, fmt.Errorf("page %d out of range", page)
	}
	return s[page], nil
}
