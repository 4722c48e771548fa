package soundfont

import (
	"bytes"
	"fmt"
	"os/exec"
)

// DefaultCompilerCommand is the external tool expected on PATH when no
// compiler command is configured.
const DefaultCompilerCommand = "pysf"

// Compiler turns an instrument-definition document into a binary SoundFont.
type Compiler interface {
	Compile(docPath, outPath string) error
}

// ExecCompiler shells out to an external compiler, invoked as
// `<command> <doc.xml> <out.sf2>`.
type ExecCompiler struct {
	Command string
}

func (c ExecCompiler) Compile(docPath, outPath string) error {
	command := c.Command
	if command == "" {
		command = DefaultCompilerCommand
	}
	out, err := exec.Command(command, docPath, outPath).CombinedOutput()
	if err != nil {
		return fmt.Errorf("soundfont compiler %s failed: %w: %s", command, err, bytes.TrimSpace(out))
	}
	return nil
}
