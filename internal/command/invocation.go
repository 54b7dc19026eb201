package command

// Invocation carries a resolved command call into its handler: leftover
// argument tokens, the identity of the caller, and an opaque adapter payload.
// Adapters set Data to their own context (for Discord, the session plus the
// originating event and store handles). Handlers never reach for globals; the
// registry itself travels with the invocation for help-style commands.
type Invocation struct {
	Args      []string
	UserID    string
	ChannelID string
	Registry  *Registry
	Data      interface{}
}

// Arg returns the i-th argument, or "" when absent.
func (inv *Invocation) Arg(i int) string {
	if i < 0 || i >= len(inv.Args) {
		return ""
	}
	return inv.Args[i]
}

// Rest joins the arguments from i on with single spaces. Free-text trailing
// parameters (task text, search queries) are consumed this way.
func (inv *Invocation) Rest(i int) string {
	if i < 0 || i >= len(inv.Args) {
		return ""
	}
	out := inv.Args[i]
	for _, a := range inv.Args[i+1:] {
		out += " " + a
	}
	return out
}
