// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package shopify parses the Shopify taxonomy listing, where every record is
// a single line of the form
//
//	gid://shopify/TaxonomyCategory/ap                : Animals & Pet Supplies
//
// into category rows. Blank lines are ignored, lines starting with # are
// counted as skipped, and lines that do not match are logged and skipped.
package shopify

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/taxonomy-tsv/pkg/types"
)

// DefaultScheme is the identifier prefix of Shopify taxonomy records.
const DefaultScheme = "gid://"

const (
	commentPrefix = "#"
	previewLen    = 50
)

// Result holds the rows parsed from a listing and the line counters.
type Result struct {
	Rows      []types.Row
	Converted int
	Skipped   int
}

// Parser extracts records whose identifier starts with a fixed scheme.
type Parser struct {
	scheme  string
	pattern *regexp.Regexp
	log     logrus.FieldLogger
}

// NewParser builds a parser for identifiers beginning with scheme. An empty
// scheme selects DefaultScheme. A nil logger discards warnings.
func NewParser(scheme string, log logrus.FieldLogger) *Parser {
	if scheme == "" {
		scheme = DefaultScheme
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Parser{
		scheme:  scheme,
		pattern: regexp.MustCompile(`^(` + regexp.QuoteMeta(scheme) + `\S+)\s+:\s+(.+)$`),
		log:     log,
	}
}

// Scheme returns the identifier prefix the parser matches.
func (p *Parser) Scheme() string {
	return p.scheme
}

// Parse reads r line by line. Only read errors are returned; lines that do
// not match are counted in Result.Skipped.
func (p *Parser) Parse(r io.Reader) (Result, error) {
	var res Result

	br := bufio.NewReader(r)

	lineNum := 0
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return res, fmt.Errorf("reading line %d: %w", lineNum+1, err)
		}
		if line == "" && err == io.EOF {
			return res, nil
		}
		lineNum++
		p.parseInto(&res, lineNum, strings.TrimRight(line, "\r\n"))
		if err == io.EOF {
			return res, nil
		}
	}
}

func (p *Parser) parseInto(res *Result, lineNum int, line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}
	if strings.HasPrefix(trimmed, commentPrefix) {
		p.log.WithField("line", lineNum).Debug("skipping comment")
		res.Skipped++
		return
	}

	row, ok := p.ParseLine(line)
	if !ok {
		p.log.WithField("line", lineNum).Warnf("line does not match, skipped: %s...", preview(line))
		res.Skipped++
		return
	}
	res.Rows = append(res.Rows, row)
	res.Converted++
}

// ParseLine matches a single record. Surrounding whitespace is trimmed from
// both the identifier and the text.
func (p *Parser) ParseLine(line string) (types.Row, bool) {
	m := p.pattern.FindStringSubmatch(line)
	if m == nil {
		return types.Row{}, false
	}
	return types.Row{
		ID:   strings.TrimSpace(m[1]),
		Text: strings.TrimSpace(m[2]),
	}, true
}

// preview returns at most previewLen runes of line.
func preview(line string) string {
	if utf8.RuneCountInString(line) <= previewLen {
		return line
	}
	runes := []rune(line)
	return string(runes[:previewLen])
}
