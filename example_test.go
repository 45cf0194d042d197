package neobabu_test

import (
	"context"
	"fmt"
	"log"

	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/adapters/memory"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/domain"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/interactive"
	"github.com/Zitronenjoghurt/neobabu-sub000/pkg/session"
)

// Example_pagination browses two pages with the in-memory transport.
// Controls are pressed before the session starts; the transport queues them.
func Example_pagination() {
	tr := memory.NewTransport()
	pages := interactive.StaticPages{
		{Title: "Rules", Body: "Beat the dealer."},
		{Title: "Payouts", Body: "A win pays the wager."},
	}

	tr.Press("msg-1", "alice", interactive.TokenRight)
	tr.CloseEvents("msg-1")

	ctx, cancel := context.WithCancel(context.Background())
	s := session.New(interactive.NewPagination(pages), tr, "alice",
		session.WithHooks(session.Hooks{
			OnEvent: func(ctx context.Context, e *session.EventInfo) { cancel() },
		}),
	)
	if err := s.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}

	for _, r := range tr.Responses() {
		fmt.Println(r.View.Title, r.View.Footer)
	}
	// Output:
	// Payouts Page 2/2
}

// Example_accept confirms a prompt with SimpleAccept.
func Example_accept() {
	tr := memory.NewTransport()
	prompt := interactive.SimpleAccept(interactive.SimpleAcceptConfig{
		Question: domain.View{Body: "Start the game?"},
		Accepted: domain.View{Body: "Game on!"},
		Denied:   domain.View{Body: "Maybe later."},
	})

	tr.Press("msg-1", "mallory", interactive.TokenDeny)
	tr.Press("msg-1", "alice", interactive.TokenAccept)

	if err := session.New(prompt, tr, "alice").Run(context.Background()); err != nil {
		log.Fatal(err)
	}

	view, _ := tr.Current("msg-1")
	fmt.Println(prompt.Decision(), view.Body, len(tr.Acks()))
	// Output:
	// accepted Game on! 1
}
