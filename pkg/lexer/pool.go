package lexer

import (
	"io"
	"strings"
	"sync"
)

// Lexer pool for reusing read buffers across parses.
var lexerPool = sync.Pool{
	New: func() interface{} {
		return NewReader(strings.NewReader(""))
	},
}

// Get retrieves a lexer from the pool, reset to read from r.
func Get(r io.Reader) *Lexer {
	l := lexerPool.Get().(*Lexer)
	l.Reset(r)
	return l
}

// Put returns a lexer to the pool. l must not be used afterwards.
func Put(l *Lexer) {
	l.in.Reset(nil)
	lexerPool.Put(l)
}
