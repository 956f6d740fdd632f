// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package latex rewrites pandoc's longtable environments into the journal
// template's tabledata environment.
// Implements: prd003-tables (R1-R5);
//
//	docs/ARCHITECTURE § Table Rewriting.
package latex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	beginLongTable = `\begin{longtable}`
	endLongTable   = `\end{longtable}`

	beginTableData = `\begin{tabledata}`
	endTableData   = `\end{tabledata}`

	topRule    = `\toprule`
	endHead    = `\endhead`
	bottomRule = `\bottomrule`

	// tabularNewline terminates rows in pandoc's longtable output; the
	// tabledata environment uses a plain double backslash instead.
	tabularNewline = `\tabularnewline`
	rowTerminator  = `\\`

	headerTag = `\header `
	rowTag    = `\row `
)

// justificationPattern strips the longtable opener and its optional
// position argument, capturing the trailing {...} alignment token.
var justificationPattern = regexp.MustCompile(`\\begin\{longtable\}(?:\[[^\]]*\])?(\{.*\})\s*$`)

// MalformedTableError reports long-table markup that cannot be rewritten:
// unbalanced begin/end markers, missing rules, or an opener without an
// alignment spec.
type MalformedTableError struct {
	// Line is the 1-based line number in the input document.
	Line int

	// Reason describes what is wrong with the markup.
	Reason string
}

func (e *MalformedTableError) Error() string {
	return fmt.Sprintf("malformed table markup at line %d: %s", e.Line, e.Reason)
}

// TableBlock is a contiguous range of document lines holding one longtable
// environment. Start and End are inclusive indices of the lines carrying
// the begin and end markers.
type TableBlock struct {
	Start int
	End   int
}

// FindTableBlocks scans a document for longtable environments and returns
// their blocks in document order. Markers must come in matched begin/end
// pairs at nesting depth zero; anything else is a *MalformedTableError.
// A document without markers yields zero blocks and no error.
func FindTableBlocks(doc []string) ([]TableBlock, error) {
	var blocks []TableBlock
	open := -1

	for i, line := range doc {
		hasBegin := strings.Contains(line, beginLongTable)
		hasEnd := strings.Contains(line, endLongTable)

		switch {
		case hasBegin && hasEnd:
			return nil, &MalformedTableError{Line: i + 1, Reason: "begin and end markers on the same line"}
		case hasBegin:
			if open >= 0 {
				return nil, &MalformedTableError{Line: i + 1, Reason: "nested longtable environments are not supported"}
			}
			open = i
		case hasEnd:
			if open < 0 {
				return nil, &MalformedTableError{Line: i + 1, Reason: `\end{longtable} without a matching begin`}
			}
			blocks = append(blocks, TableBlock{Start: open, End: i})
			open = -1
		}
	}

	if open >= 0 {
		return nil, &MalformedTableError{Line: open + 1, Reason: `\begin{longtable} without a matching end`}
	}
	return blocks, nil
}

// ExtractJustification returns the column alignment token from a longtable
// opener line, e.g. "{@{}lr@{}}" from `\begin{longtable}[]{@{}lr@{}}`. The
// token is carried verbatim into the rewritten block. An opener without an
// alignment token is malformed; pandoc never emits one.
func ExtractJustification(beginLine string) (string, error) {
	m := justificationPattern.FindStringSubmatch(beginLine)
	if m == nil {
		return "", &MalformedTableError{Reason: fmt.Sprintf("longtable opener %q has no alignment spec", strings.TrimSpace(beginLine))}
	}
	return m[1], nil
}

// Rewrite transforms the block's lines into tabledata form and returns the
// replacement lines. The longtable's repeated header markup (first \toprule
// through last \endhead) collapses to a single tagged header row, the lines
// between the last \endhead and the last \bottomrule become tagged data
// rows, and the footer markup is dropped. Caption lines between the opener
// and the first \toprule are carried through.
func (b TableBlock) Rewrite(doc []string) ([]string, error) {
	block := doc[b.Start : b.End+1]

	spec, err := ExtractJustification(block[0])
	if err != nil {
		var mErr *MalformedTableError
		if errors.As(err, &mErr) {
			mErr.Line = b.Start + 1
		}
		return nil, err
	}

	firstTop := indexContaining(block, topRule, false)
	if firstTop < 0 {
		return nil, &MalformedTableError{Line: b.Start + 1, Reason: `table has no \toprule marker`}
	}
	lastHead := indexContaining(block, endHead, true)
	if lastHead < 0 {
		return nil, &MalformedTableError{Line: b.Start + 1, Reason: `table has no \endhead marker`}
	}
	if firstTop+1 >= lastHead {
		return nil, &MalformedTableError{Line: b.Start + firstTop + 1, Reason: `\toprule and \endhead are out of order`}
	}
	lastBottom := indexContaining(block, bottomRule, true)
	if lastBottom <= lastHead {
		return nil, &MalformedTableError{Line: b.Start + lastHead + 1, Reason: `table has no \bottomrule after its header`}
	}

	out := make([]string, 0, lastBottom-lastHead+2)
	out = append(out, beginTableData+spec)
	out = append(out, block[1:firstTop]...)
	out = append(out, headerTag+block[firstTop+1])
	for _, line := range block[lastHead+1 : lastBottom] {
		out = append(out, rowTag+line)
	}
	out = append(out, endTableData)

	for i, line := range out {
		// Stray markers surviving inside the block become tabledata markers.
		line = strings.ReplaceAll(line, beginLongTable, beginTableData)
		line = strings.ReplaceAll(line, endLongTable, endTableData)

		if strings.HasSuffix(line, tabularNewline) {
			line = strings.TrimSuffix(line, tabularNewline)
			if strings.HasPrefix(line, headerTag) || strings.HasPrefix(line, rowTag) {
				line += rowTerminator
			}
		}
		out[i] = line
	}
	return out, nil
}

// RewriteDocument rewrites every longtable block in the document, returning
// a fresh line slice. Lines outside table blocks are copied unchanged in a
// single forward pass, so block replacement never shifts indices under a
// later block.
func RewriteDocument(doc []string) ([]string, error) {
	blocks, err := FindTableBlocks(doc)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(doc))
	next := 0
	for _, b := range blocks {
		out = append(out, doc[next:b.Start]...)
		replacement, err := b.Rewrite(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, replacement...)
		next = b.End + 1
	}
	out = append(out, doc[next:]...)
	return out, nil
}

// RewriteTables reads a LaTeX file, rewrites its longtable blocks, and
// writes the result to outputPath. A document without table markers is
// written byte-identical to the input. The output is written to a temporary
// file and renamed into place so a failure never leaves a partial document
// behind.
func RewriteTables(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	text := string(data)
	trailingNewline := strings.HasSuffix(text, "\n")
	doc := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	blocks, err := FindTableBlocks(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", inputPath, err)
	}
	if len(blocks) == 0 {
		return writeAtomic(outputPath, data)
	}

	out, err := RewriteDocument(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", inputPath, err)
	}

	joined := strings.Join(out, "\n")
	if trailingNewline {
		joined += "\n"
	}
	return writeAtomic(outputPath, []byte(joined))
}

// writeAtomic writes data to path via a temporary file in the same
// directory, renaming it into place on success.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".rmd2tex-*")
	if err != nil {
		return fmt.Errorf("creating temporary output file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// indexContaining returns the index of the first (or last) line containing
// needle, or -1.
func indexContaining(lines []string, needle string, last bool) int {
	found := -1
	for i, line := range lines {
		if strings.Contains(line, needle) {
			found = i
			if !last {
				return i
			}
		}
	}
	return found
}
