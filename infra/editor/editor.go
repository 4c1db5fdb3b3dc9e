package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// EnvEditor prepares an external editor command using $EDITOR (fallback: "vi").
// It does NOT run the editor itself. Callers use tea.ExecProcess with the
// returned *exec.Cmd so Bubble Tea suspends raw terminal mode.
type EnvEditor struct{}

// NewEnvEditor creates an EnvEditor.
func NewEnvEditor() *EnvEditor {
	return &EnvEditor{}
}

const instructionEnd = "-->"

func instructions(replyTo string) string {
	var b strings.Builder
	b.WriteString("<!--\nMedplus: write your comment below.\n\n")
	if replyTo != "" {
		b.WriteString("Replying to " + replyTo + "\n\n")
	}
	b.WriteString("- SAVE and EXIT to use the text as your draft (e.g., :wq in vi).\n")
	b.WriteString("- Line breaks are joined into a single line.\n")
	b.WriteString("- Emptying the file keeps the previous draft.\n")
	b.WriteString(instructionEnd + "\n\n")
	return b.String()
}

// Cmd writes content under an instruction block to a temp file and returns
// the editor command for it along with the file path.
func (e *EnvEditor) Cmd(content, replyTo string) (*exec.Cmd, string, error) {
	editorCmd := os.Getenv("EDITOR")
	if editorCmd == "" {
		editorCmd = "vi"
	}

	tmpFile, err := os.CreateTemp("", "medplus-comment-*.md")
	if err != nil {
		return nil, "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer tmpFile.Close()

	if _, err := tmpFile.WriteString(instructions(replyTo) + content); err != nil {
		os.Remove(tmpPath)
		return nil, "", fmt.Errorf("writing to temp file: %w", err)
	}

	cmd := exec.Command(editorCmd, tmpPath)
	return cmd, tmpPath, nil
}

// ReadContent reads the temp file, removes it, and returns the text after
// the instruction block with line breaks folded into spaces.
func (e *EnvEditor) ReadContent(path string) (string, error) {
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading temp file: %w", err)
	}

	content := string(data)
	if idx := strings.Index(content, instructionEnd); idx != -1 {
		content = content[idx+len(instructionEnd):]
	}
	return strings.Join(strings.Fields(content), " "), nil
}
