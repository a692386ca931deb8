package models

// Dex summarises one compiled bytecode container. Strings is the full
// sorted extraction; URLs and ShellCommands are classifications of it,
// deduplicated and sorted.
type Dex struct {
	File
	Strings       []string `json:"strings"`
	URLs          []string `json:"urls"`
	ShellCommands []string `json:"shell_commands"`
}
