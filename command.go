package caps

import (
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/world"
)

// Command returns the /caps command, which lists the capabilities matching
// an optional glob pattern and the listener statistics of the world of the
// source.
//
// Usage:
//
//	cmd.Register(mngr.Command())
func (m *Manager) Command() cmd.Command {
	return cmd.New("caps", "Lists capabilities and capability listeners.", nil, capsCommand{manager: m})
}

// capsCommand implements cmd.Runnable. Unexported fields are not parameters.
type capsCommand struct {
	manager *Manager

	Pattern cmd.Optional[string] `cmd:"pattern"`
}

// Run lists the capabilities and listeners.
func (c capsCommand) Run(_ cmd.Source, out *cmd.Output, tx *world.Tx) {
	pattern := c.Pattern.LoadOr("**")
	found, err := c.manager.Registry().Find(pattern)
	if err != nil {
		out.Errorf("Invalid pattern %q.", pattern)
		return
	}

	out.Printf("%d capabilities match %q:", len(found), pattern)
	for _, entry := range found {
		out.Printf("- %s %s (%v, %v)", entry.Kind(), entry.Name(), entry.Type(), entry.Context())
	}

	if tx == nil {
		return
	}
	l := c.manager.Level(tx.World())
	if l == nil {
		out.Print("This world has no capability level.")
		return
	}
	h := l.Listeners()
	out.Printf("Level %s: %d listeners at %d positions in %d chunks.", l.ID(), h.Len(), len(h.Positions()), len(h.Chunks()))
}
