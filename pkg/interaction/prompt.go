// pkg/interaction/prompt.go

// Package interaction handles terminal prompts: free text, yes/no
// confirmations, hidden secrets and the numbered package-selection menu.
package interaction

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// PromptInput reads a line from the terminal, returning def when the reply is
// empty.
func PromptInput(prompt, def string) string {
	return PromptInputReader(os.Stdin, prompt, def)
}

// PromptInputReader is PromptInput against an arbitrary reader, for tests.
func PromptInputReader(r io.Reader, prompt, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", prompt, def)
	} else {
		fmt.Printf("%s: ", prompt)
	}
	reader := bufio.NewReader(r)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return def
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

// PromptYesNo asks a y/n question; def is returned on an empty reply.
func PromptYesNo(prompt string, def bool) bool {
	suffix := "(y/N)"
	if def {
		suffix = "(Y/n)"
	}
	reply := strings.ToLower(PromptInput(fmt.Sprintf("%s %s", prompt, suffix), ""))
	if reply == "" {
		return def
	}
	return strings.HasPrefix(reply, "y")
}

// PromptSecret asks the user for a hidden input (no terminal echo).
func PromptSecret(prompt string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		zap.L().Error("Cannot prompt for secret input: not a TTY")
		return "", fmt.Errorf("secret prompt failed: no terminal available")
	}

	fmt.Print(prompt + ": ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	secret := strings.TrimSpace(string(raw))
	if secret == "" {
		zap.L().Warn("No input received for secret", zap.String("prompt", prompt))
	}
	return secret, nil
}

// PromptIfMissing returns the value of a CLI flag or prompts the user if it's
// unset. If isSecret is true, the input is hidden.
func PromptIfMissing(cmd *cobra.Command, flagName, prompt string, isSecret bool) (string, error) {
	val, err := cmd.Flags().GetString(flagName)
	if err != nil {
		return "", err
	}
	if val != "" {
		return val, nil
	}

	zap.L().Debug("Prompting for missing flag", zap.String("flag", flagName))
	if isSecret {
		return PromptSecret(prompt)
	}
	return PromptInput(prompt, ""), nil
}
