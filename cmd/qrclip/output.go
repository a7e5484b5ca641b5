package main

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// printer colours CLI output when the writer is a terminal.
type printer struct {
	w   io.Writer
	out *termenv.Output
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w, out: termenv.NewOutput(w)}
}

func (p *printer) result(text string) {
	fmt.Fprintln(p.w, p.out.String(text).Bold())
}

func (p *printer) link(target string) {
	fmt.Fprintln(p.w, p.out.String(target).Foreground(p.out.Color("4")).Underline())
}

func (p *printer) info(format string, args ...any) {
	fmt.Fprintln(p.w, p.out.String(fmt.Sprintf(format, args...)).Faint())
}

func (p *printer) failure(message string) {
	fmt.Fprintln(p.w, p.out.String(message).Foreground(p.out.Color("1")))
}
