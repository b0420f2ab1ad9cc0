package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/dlains/ringo/pkg/driver"
)

const (
	promptMain = "> "
	promptCont = ". "
	exitWord   = "exit"
	envCommand = ":env"
	historyLog = "repl_history"
)

// lineReader is the part of *liner.State the loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func runRepl(opts cliOptions) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := resolveRingoHome(); err == nil {
		histPath = filepath.Join(home, historyLog)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if err := os.MkdirAll(filepath.Dir(histPath), 0o755); err != nil {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	session := driver.NewSession(driver.SessionOptions{Logger: opts.logger})
	return replLoop(ln, session, os.Stdout)
}

// replLoop reads statements until EOF or the exit word. Errors on one line
// are reported and the session continues. `:env` lists the globals.
func replLoop(reader lineReader, session *driver.Session, out io.Writer) int {
	for {
		source, ok := readSource(reader)
		if !ok {
			fmt.Fprintln(out)
			return 0
		}
		trimmed := strings.TrimSpace(source)
		if trimmed == exitWord {
			return 0
		}
		if trimmed == "" {
			continue
		}
		if trimmed == envCommand {
			if err := session.WriteGlobals(out); err != nil {
				fmt.Fprintf(out, "%v\n", err)
			}
			continue
		}
		reader.AppendHistory(strings.ReplaceAll(source, "\n", " "))
		_ = session.Eval(source)
	}
}

// readSource keeps prompting while the input has unclosed delimiters.
func readSource(reader lineReader) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := reader.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !driver.Incomplete(b.String()) {
			return b.String(), true
		}
	}
}
