// pkg/interaction/menu.go

package interaction

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// SelectFromMenu displays a numbered menu and returns the chosen items.
// The reply is either "all", "none", or a comma-separated list of numbers
// ("1,3,5"). Invalid tokens are ignored with a notice rather than failing the
// whole selection.
func SelectFromMenu(title string, items []string) []string {
	return SelectFromMenuReader(os.Stdin, title, items)
}

// SelectFromMenuReader is SelectFromMenu against an arbitrary reader.
func SelectFromMenuReader(r io.Reader, title string, items []string) []string {
	fmt.Println()
	fmt.Println(title)
	fmt.Println(strings.Repeat("-", len(title)))
	for i, item := range items {
		fmt.Printf("%d) %s\n", i+1, item)
	}
	fmt.Println()
	fmt.Println("Enter numbers to select (comma-separated, e.g. '1,3,5'), 'all', or 'none'")

	reply := strings.ToLower(PromptInputReader(r, "Your selection", "none"))
	return ParseMenuSelection(reply, items)
}

// ParseMenuSelection resolves a selection reply against the item list.
func ParseMenuSelection(reply string, items []string) []string {
	switch strings.TrimSpace(reply) {
	case "all":
		out := make([]string, len(items))
		copy(out, items)
		return out
	case "", "none":
		return nil
	}

	seen := make(map[int]bool)
	var selected []string
	for _, tok := range strings.Split(reply, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		idx, err := strconv.Atoi(tok)
		if err != nil || idx < 1 || idx > len(items) {
			fmt.Printf("ignoring invalid selection %q\n", tok)
			continue
		}
		if !seen[idx] {
			seen[idx] = true
			selected = append(selected, items[idx-1])
		}
	}
	return selected
}
