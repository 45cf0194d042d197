package interactive_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/interactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pages(n int) interactive.StaticPages {
	out := make(interactive.StaticPages, n)
	for i := range out {
		out[i] = domain.View{Title: fmt.Sprintf("page %d", i)}
	}
	return out
}

func at(t *testing.T, src interactive.StaticPages, page int) *interactive.Pagination {
	t.Helper()
	p := interactive.NewPagination(src)
	for p.Page() != page {
		p.GoForward(1)
	}
	return p
}

func TestPagination_RoundTrip(t *testing.T) {
	for _, count := range []int{1, 2, 5, 6, 11} {
		for page := 0; page < count; page++ {
			p := at(t, pages(count), page)
			p.GoForward(1)
			p.GoBack(1)
			assert.Equal(t, page, p.Page(), "count=%d page=%d", count, page)
		}
	}
}

func TestPagination_SingleStepWraps(t *testing.T) {
	for _, count := range []int{1, 2, 5, 6, 11} {
		p := at(t, pages(count), count-1)
		p.GoForward(1)
		assert.Equal(t, 0, p.Page(), "forward from the last page wraps, count=%d", count)

		p.GoBack(1)
		assert.Equal(t, count-1, p.Page(), "back from the first page wraps, count=%d", count)
	}
}

func TestPagination_JumpsClamp(t *testing.T) {
	p := at(t, pages(11), 1)
	require.Equal(t, 3, p.DoubleJumpCount())

	p.GoBack(p.DoubleJumpCount())
	assert.Equal(t, 0, p.Page(), "jumping back clamps at the first page")

	p.GoBack(p.DoubleJumpCount())
	assert.Equal(t, 8, p.Page(), "jumping back from the first page wraps")

	p.GoForward(p.DoubleJumpCount())
	assert.Equal(t, 10, p.Page(), "jumping forward clamps at the last page")

	p.GoForward(p.DoubleJumpCount())
	assert.Equal(t, 2, p.Page(), "jumping forward from the last page wraps")
}

func TestPagination_EmptySource(t *testing.T) {
	p := interactive.NewPagination(pages(0))
	p.GoForward(1)
	p.GoBack(3)
	assert.Equal(t, 0, p.Page())

	view, err := p.Render(context.Background())
	require.NoError(t, err)
	assert.Empty(t, view.Controls)
}

func tokens(view domain.View) []string {
	var out []string
	for _, c := range view.Controls {
		out = append(out, c.Token)
	}
	return out
}

func TestPagination_Controls(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		count int
		want  []string
	}{
		{0, nil},
		{1, nil},
		{2, []string{interactive.TokenLeft, interactive.TokenRight}},
		{5, []string{interactive.TokenLeft, interactive.TokenRight}},
		{6, []string{
			interactive.TokenDoubleLeft,
			interactive.TokenLeft,
			interactive.TokenRight,
			interactive.TokenDoubleRight,
			interactive.TokenFirst,
		}},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d pages", tc.count), func(t *testing.T) {
			view, err := interactive.NewPagination(pages(tc.count)).Render(ctx)
			require.NoError(t, err)
			assert.Equal(t, tc.want, tokens(view))
		})
	}
}

func TestPagination_HandleEvent(t *testing.T) {
	ctx := context.Background()
	p := interactive.NewPagination(pages(6))

	out, err := p.HandleEvent(ctx, domain.Event{Token: interactive.TokenRight})
	require.NoError(t, err)
	assert.Equal(t, domain.Update(), out)

	view, err := p.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "page 1", view.Title)
	assert.Equal(t, "Page 2/6", view.Footer)

	_, err = p.HandleEvent(ctx, domain.Event{Token: interactive.TokenDoubleRight})
	require.NoError(t, err)
	assert.Equal(t, 3, p.Page())

	_, err = p.HandleEvent(ctx, domain.Event{Token: interactive.TokenFirst})
	require.NoError(t, err)
	assert.Equal(t, 0, p.Page())

	out, err = p.HandleEvent(ctx, domain.Event{Token: "rps_rock"})
	require.NoError(t, err)
	assert.Equal(t, domain.Noop(), out, "unknown tokens are ignored")
}

type shrinking struct {
	count int
}

func (s *shrinking) PageCount() int { return s.count }

func (s *shrinking) RenderPage(ctx context.Context, page int) (domain.View, error) {
	return domain.View{Title: fmt.Sprint(page)}, nil
}

func TestPagination_SourceShrinks(t *testing.T) {
	src := &shrinking{count: 8}
	p := interactive.NewPagination(src)
	p.GoBack(1)
	require.Equal(t, 7, p.Page())

	src.count = 3
	view, err := p.Render(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2", view.Title)
	assert.Equal(t, "Page 3/3", view.Footer)
}

func TestPagination_RenderLeavesPositionAlone(t *testing.T) {
	src := &shrinking{count: 8}
	p := interactive.NewPagination(src)
	p.GoBack(1)

	src.count = 3
	_, err := p.Render(context.Background())
	require.NoError(t, err)

	src.count = 8
	assert.Equal(t, 7, p.Page(), "rendering a smaller source must not move the stored page")
	view, err := p.Render(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Page 8/8", view.Footer)
}
