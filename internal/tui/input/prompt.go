// Package input parses the TUI's slash-command prompt.
package input

import "strings"

// PromptCommand describes a command suggestion entry.
type PromptCommand struct {
	Name        string
	Args        string
	Description string
}

// Prompt command names.
const (
	CmdStart  = "/start"
	CmdEnd    = "/end"
	CmdDays   = "/days"
	CmdSave   = "/save"
	CmdUpdate = "/update"
	CmdTodo   = "/todo"
	CmdGoto   = "/goto"
)

// Commands lists every prompt command in suggestion order.
var Commands = []PromptCommand{
	{Name: CmdStart, Args: "MM/DD", Description: "Set the start date"},
	{Name: CmdEnd, Args: "MM/DD", Description: "Set the end date"},
	{Name: CmdDays, Args: "N", Description: "End after N working days"},
	{Name: CmdSave, Args: "TITLE", Description: "Save the locked range"},
	{Name: CmdUpdate, Description: "Store toggled days in the saved range"},
	{Name: CmdTodo, Args: "TEXT", Description: "Add a task to the day"},
	{Name: CmdGoto, Args: "YYYY-MM", Description: "Jump to a month"},
}

// PromptMatchingCommands returns commands that match the current input prefix.
func PromptMatchingCommands(input string, commands []PromptCommand) []PromptCommand {
	if !strings.HasPrefix(strings.TrimSpace(input), "/") {
		return nil
	}
	if strings.Contains(input, " ") {
		return nil
	}

	prefix := strings.ToLower(strings.TrimSpace(input))
	matches := make([]PromptCommand, 0, len(commands))
	for _, cmd := range commands {
		if strings.HasPrefix(strings.ToLower(cmd.Name), prefix) {
			matches = append(matches, cmd)
		}
	}
	return matches
}

// PromptAutocomplete returns the first matching command and whether it exists.
func PromptAutocomplete(input string, commands []PromptCommand) (string, bool) {
	matches := PromptMatchingCommands(input, commands)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Name + " ", true
}

// Parse splits "/name arg..." into a known command name and its argument.
// The name is matched case-insensitively; unknown names report false.
func Parse(line string, commands []PromptCommand) (name, arg string, ok bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return "", "", false
	}
	head, rest, _ := strings.Cut(line, " ")
	head = strings.ToLower(head)
	for _, cmd := range commands {
		if cmd.Name == head {
			return cmd.Name, strings.TrimSpace(rest), true
		}
	}
	return "", "", false
}
