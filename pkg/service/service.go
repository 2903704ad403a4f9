// Package service runs parses with the limits a long-lived process needs:
// bounded input size, bounded nesting and a wall-clock deadline. Every parse
// takes its own pooled lexer and a fresh parser, so one Service is safe for
// concurrent use.
package service

import (
	"condexpr/pkg/ast"
	"condexpr/pkg/config"
	"condexpr/pkg/diag"
	"condexpr/pkg/lexer"
	"condexpr/pkg/parser"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

var (
	ErrInputTooLarge = errors.New("input too large")
	ErrTimeout       = errors.New("parse timed out")
)

type Result struct {
	ID          string
	Name        string
	Digest      string // blake2b-256 of the source, hex
	Tree        ast.Expression
	Identifiers []string
	Stats       ast.Stats
	Elapsed     time.Duration
}

type Service struct {
	cfg config.ParserConfig
	log *logrus.Entry
}

func New(cfg config.ParserConfig, log *logrus.Entry) *Service {
	return &Service{cfg: cfg, log: log}
}

// Limits reports the bounds this service enforces.
func (s *Service) Limits() config.ParserConfig {
	return s.cfg
}

type outcome struct {
	tree ast.Expression
	err  error
}

// Parse parses src under the configured limits. name only labels logs and
// diagnostics. Syntax errors are returned as produced by the lexer and
// parser; ErrInputTooLarge and ErrTimeout report the limits.
func (s *Service) Parse(ctx context.Context, name, src string) (*Result, error) {
	id := uuid.NewString()
	sum := blake2b.Sum256([]byte(src))
	digest := hex.EncodeToString(sum[:])
	log := s.log.WithFields(logrus.Fields{
		"id":     id,
		"name":   name,
		"bytes":  len(src),
		"digest": digest[:16],
	})

	if s.cfg.MaxInputBytes > 0 && len(src) > s.cfg.MaxInputBytes {
		log.Warn("input rejected")
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInputTooLarge, len(src), s.cfg.MaxInputBytes)
	}

	if s.cfg.Timeout.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout.Duration)
		defer cancel()
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	start := time.Now()
	done := make(chan outcome, 1)
	go func() {
		l := lexer.Get(strings.NewReader(src))
		defer lexer.Put(l)
		p := parser.New(l, parser.WithMaxDepth(s.cfg.MaxDepth))
		tree, err := p.Parse()
		done <- outcome{tree: tree, err: err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		log.WithField("elapsed", time.Since(start)).Warn("parse abandoned")
		return nil, fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
	}
	elapsed := time.Since(start)

	if out.err != nil {
		log.WithFields(logrus.Fields{
			"kind":    diag.Kind(out.err),
			"elapsed": elapsed,
		}).Info("parse failed: " + out.err.Error())
		return nil, out.err
	}

	res := &Result{
		ID:          id,
		Name:        name,
		Digest:      digest,
		Tree:        out.tree,
		Identifiers: ast.Identifiers(out.tree),
		Stats:       ast.Collect(out.tree),
		Elapsed:     elapsed,
	}
	log.WithFields(logrus.Fields{
		"depth":   res.Stats.Depth,
		"elapsed": elapsed,
	}).Debug("parsed")
	return res, nil
}
