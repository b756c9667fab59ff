package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/calcfront/safeeval"
	"github.com/calcfront/safeeval/session"
)

const historyFile = ".safecalc_history"

const helpText = `Enter an expression to evaluate it; ans is the previous result and mem
is the memory register.
  :deg, :rad    set the angle mode
  :mode         print the angle mode
  :ans          print the previous result
  :m+ [expr]    add to memory (ans when no expression is given)
  :m- [expr]    subtract from memory (ans when no expression is given)
  :mr, :mem     print the memory register
  :mc           clear the memory register
  :hist [n]     print the n most recent evaluations (default 10)
  :clear        clear the history
  :save <file>  write the history to a file as JSON
  :help         print this help
  :quit         exit`

func main() {
	log.SetFlags(0)
	var (
		deg, echo bool
		with      [][2]string
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		with = append(with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	flag.BoolVar(&deg, "deg", false, "start in degree mode")
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.Func("given", "name=value variable definition (any number of times)", addwith)
	flag.Parse()

	s := &session.State{Extra: make(map[string]float64, len(with))}
	if deg {
		s.Mode = safeeval.Degrees
	}
	for _, d := range with {
		v, err := safeeval.EvalString(d[1], safeeval.Mode(s.Mode))
		if err != nil {
			log.Fatalf("setting %s: %v", d[0], err)
		}
		s.Extra[d[0]] = v
	}

	if flag.NArg() > 0 {
		os.Exit(evalArgs(s, flag.Args(), echo))
	}
	os.Exit(repl(s, echo))
}

func evalArgs(s *session.State, args []string, echo bool) int {
	code := 0
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		e, err := safeeval.Parse(arg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			code = 1
			continue
		}
		prefix := ""
		if echo {
			prefix = e.String() + " : "
		}
		r, err := s.EvaluateExpr(e, arg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			code = 1
			continue
		}
		fmt.Println(prefix + r.Display)
	}
	return code
}

func repl(s *session.State, echo bool) int {
	fmt.Printf("safecalc (%s mode). Ctrl+D or :quit exits; :help lists commands.\n", s.Mode)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, historyFile)
		if f, err := os.Open(path); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(path); err == nil {
				ln.WriteHistory(f)
				f.Close()
			}
		}()
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	for {
		line, err := ln.Prompt("> ")
		switch {
		case errors.Is(err, io.EOF):
			fmt.Println()
			return 0
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case err != nil:
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)
		if strings.HasPrefix(line, ":") {
			if command(s, line) {
				return 0
			}
			continue
		}
		e, err := safeeval.Parse(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		prefix := ""
		if echo {
			prefix = e.String() + " : "
		}
		r, err := s.EvaluateExpr(e, line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Println(prefix + r.Display)
	}
}

// command runs one ":" meta-command and reports whether the REPL should exit.
func command(s *session.State, line string) (quit bool) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case ":quit":
		return true
	case ":help":
		fmt.Println(helpText)
	case ":deg":
		s.Mode = safeeval.Degrees
	case ":rad":
		s.Mode = safeeval.Radians
	case ":mode":
		fmt.Println(s.Mode)
	case ":ans":
		fmt.Println(safeeval.Format(s.Ans))
	case ":mem", ":mr":
		fmt.Println(safeeval.Format(s.RecallMemory()))
	case ":m+":
		fmt.Println(safeeval.Format(s.AddToMemory(arg)))
	case ":m-":
		fmt.Println(safeeval.Format(s.SubtractFromMemory(arg)))
	case ":mc":
		s.ClearMemory()
	case ":hist":
		n := 10
		if arg != "" {
			v, err := strconv.Atoi(arg)
			if err != nil || v < 1 {
				fmt.Fprintf(os.Stderr, "count must be a positive integer, not %q\n", arg)
				return false
			}
			n = v
		}
		writeRecent(s, n)
	case ":clear":
		s.ClearHistory()
	case ":save":
		if arg == "" {
			fmt.Fprintln(os.Stderr, "usage: :save <file>")
			return false
		}
		if err := save(s, arg); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %s; :help lists commands\n", cmd)
	}
	return false
}

func writeRecent(s *session.State, n int) {
	h := s.History()
	if len(h) == 0 {
		fmt.Println("no history yet")
		return
	}
	if n > len(h) {
		n = len(h)
	}
	for i, r := range h[:n] {
		fmt.Printf("%d. %s = %s  (%s, %s)\n", i+1, r.Expression, r.Display, r.Time.Format("15:04:05"), r.Mode)
	}
}

func save(s *session.State, name string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := s.WriteHistory(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
