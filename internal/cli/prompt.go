package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// prompter asks questions on the command's output and reads one line per
// answer from its input. A single reader is shared so buffered input is not
// lost between questions.
type prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{
		reader: bufio.NewReader(cmd.InOrStdin()),
		out:    cmd.OutOrStdout(),
	}
}

// ask prints question and returns the trimmed answer. End of input counts as
// an empty answer.
func (p *prompter) ask(question string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", question)
	answer, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(answer), nil
}
