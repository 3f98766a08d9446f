// Package repl implements the interactive loop spec.md §4.14 names:
// a github.com/lmorg/readline loop over a Hub, exactly the teacher's
// repl.Start shape. `register`/`login` are ordinary verbs dispatched
// through Do like any other, not the teacher's bespoke login-form mode
// gating the whole loop.
package repl

import (
	"strings"

	"github.com/lmorg/readline"

	"github.com/kelp-lang/kelp/source/hub"
	"github.com/kelp-lang/kelp/source/text"
)

// Start reads hub commands from the terminal until the user quits.
func Start(h *hub.Hub) {
	rline := readline.NewInstance()
	rline.SetPrompt(text.PROMPT)

	for {
		line, err := rline.Readline()
		if err != nil {
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		verb, args := hub.ParseHubCommand(line)
		if !h.Do(verb, args) {
			return
		}
	}
}
