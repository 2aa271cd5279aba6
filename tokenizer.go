package forthic

import (
	"errors"
	"unicode/utf8"
)

// ErrIncomplete is returned by Tokenizer.Next when streaming mode is on and
// the buffered input ends mid-token (an unclosed string, or a delimiter run
// whose triple-quote status can't yet be decided). The caller should Append
// more text and call Next again; nothing is consumed on this return.
var ErrIncomplete = errors.New("forthic: incomplete token, need more input")

func isWhitespaceSet(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '(', ')', ',':
		return true
	default:
		return false
	}
}

// Tokenizer turns source text into a stream of Tokens. It buffers
// the whole fragment in memory (Append grows the buffer), which is what
// makes streaming mode possible: an incomplete token just means "try again
// from the same start position after more text arrives."
type Tokenizer struct {
	runes     []rune
	pos       int
	at        Position
	streaming bool
}

// NewTokenizer creates a Tokenizer over src. If ref is non-nil, reported
// positions are computed relative to it, so that a fragment tokenized on
// its own (e.g. a named source file passed to RunNamed) reports locations
// the outer caller can make sense of. When streaming is true,
// Next returns ErrIncomplete instead of a lexical error on truncated input.
func NewTokenizer(src string, ref *Position, streaming bool) *Tokenizer {
	t := &Tokenizer{runes: []rune(src), streaming: streaming}
	if ref != nil {
		t.at = *ref
	} else {
		t.at = Position{Line: 1, Column: 1}
	}
	return t
}

// Append adds more text to the tokenizer's buffer, for use after a Next
// call returns ErrIncomplete.
func (t *Tokenizer) Append(src string) {
	t.runes = append(t.runes, []rune(src)...)
}

func (t *Tokenizer) currentPosition() Position { return t.at }

// advanceTo moves the cursor from t.pos to end, updating t.at to match.
func (t *Tokenizer) advanceTo(end int) {
	if end <= t.pos {
		return
	}
	nl, lastCol, nbytes := 0, t.at.Column, 0
	for i := t.pos; i < end; i++ {
		r := t.runes[i]
		nbytes += utf8.RuneLen(r)
		if r == '\n' {
			nl++
			lastCol = 1
		} else {
			lastCol++
		}
	}
	t.at = t.at.advance(nl, lastCol, nbytes)
	t.pos = end
}

func (t *Tokenizer) skipWhitespace() {
	i := t.pos
	for i < len(t.runes) && isWhitespaceSet(t.runes[i]) {
		i++
	}
	t.advanceTo(i)
}

// Next returns the next token, or ErrIncomplete in streaming mode on
// truncated input, or a lexical Error otherwise.
func (t *Tokenizer) Next() (Token, error) {
	t.skipWhitespace()
	if t.pos >= len(t.runes) {
		return Token{Kind: TokEOS, Pos: t.currentPosition()}, nil
	}

	startPos := t.currentPosition()
	c := t.runes[t.pos]

	switch c {
	case '#':
		end := t.pos + 1
		for end < len(t.runes) && t.runes[end] != '\n' {
			end++
		}
		text := string(t.runes[t.pos+1 : end])
		t.advanceTo(end)
		return Token{Kind: TokComment, Text: text, Pos: startPos}, nil

	case '[':
		t.advanceTo(t.pos + 1)
		return Token{Kind: TokStartArray, Text: "[", Pos: startPos}, nil

	case ']':
		t.advanceTo(t.pos + 1)
		return Token{Kind: TokEndArray, Text: "]", Pos: startPos}, nil

	case '{':
		name, end := t.scanWord(t.pos + 1)
		t.advanceTo(end)
		return Token{Kind: TokStartModule, Name: name, Pos: startPos}, nil

	case '}':
		t.advanceTo(t.pos + 1)
		return Token{Kind: TokEndModule, Pos: startPos}, nil

	case ';':
		t.advanceTo(t.pos + 1)
		return Token{Kind: TokEndDef, Pos: startPos}, nil

	case '"', '\'', '^':
		return t.scanString(c, startPos)
	}

	word, end := t.scanWord(t.pos)
	if word == ":" || word == "@:" {
		t.advanceTo(end)
		name, err := t.readBareName()
		if err != nil {
			return Token{}, err
		}
		kind := TokStartDef
		if word == "@:" {
			kind = TokStartMemo
		}
		return Token{Kind: kind, Name: name, Pos: startPos}, nil
	}
	t.advanceTo(end)
	if len(word) > 1 && word[0] == '.' {
		return Token{Kind: TokDotSymbol, Text: word, Name: word[1:], Pos: startPos}, nil
	}
	return Token{Kind: TokWord, Text: word, Pos: startPos}, nil
}

// readBareName skips whitespace and scans the plain name following ':' or
// '@:'. A quote, bracket, or brace where a name is expected is a lexical
// error for an invalid word name.
func (t *Tokenizer) readBareName() (string, error) {
	t.skipWhitespace()
	if t.pos >= len(t.runes) {
		return "", InvalidWordNameError{baseError: withPos(t.currentPosition()), Found: "<eos>"}
	}
	c := t.runes[t.pos]
	switch c {
	case '"', '\'', '^', '[', ']', '{', '}', ';', '#':
		return "", InvalidWordNameError{baseError: withPos(t.currentPosition()), Found: string(c)}
	}
	name, end := t.scanWord(t.pos)
	t.advanceTo(end)
	return name, nil
}

// scanWord accumulates a word token starting at start: runs of non-
// whitespace, non-terminator characters. '[' normally terminates the word,
// except when the text accumulated so far contains a 'T' (the start of an
// RFC 9557 zoned-datetime lexeme), in which case the bracketed zone name is
// absorbed verbatim through the matching ']'.
func (t *Tokenizer) scanWord(start int) (string, int) {
	var sb []rune
	i := start
loop:
	for i < len(t.runes) {
		c := t.runes[i]
		if isWhitespaceSet(c) {
			break loop
		}
		switch c {
		case ';', '{', '}', '#', ']':
			break loop
		case '[':
			if containsRune(sb, 'T') {
				j := i + 1
				for j < len(t.runes) && t.runes[j] != ']' {
					j++
				}
				if j < len(t.runes) {
					sb = append(sb, t.runes[i:j+1]...)
					i = j + 1
					continue loop
				}
			}
			break loop
		}
		sb = append(sb, c)
		i++
	}
	return string(sb), i
}

func containsRune(rs []rune, target rune) bool {
	for _, r := range rs {
		if r == target {
			return true
		}
	}
	return false
}

// scanString reads a string token starting at the delimiter character c.
// Three occurrences in a row opens a heredoc-style string that closes at
// the next triple occurrence, with the close deferred greedily: a longer
// run of the delimiter only has its last three characters treated as the
// terminator, the rest becomes literal content. A single occurrence opens
// a string that closes at the next single occurrence of the same delimiter.
func (t *Tokenizer) scanString(delim rune, startPos Position) (Token, error) {
	haveLookahead := t.pos+2 < len(t.runes)
	isTriple := haveLookahead && t.runes[t.pos+1] == delim && t.runes[t.pos+2] == delim
	if !isTriple && !haveLookahead && t.streaming {
		return Token{}, ErrIncomplete
	}

	if isTriple {
		content, end, closed := t.scanTripleBody(delim, t.pos+3)
		if !closed {
			if t.streaming {
				return Token{}, ErrIncomplete
			}
			return Token{}, UnterminatedStringError{baseError: withPos(startPos)}
		}
		t.advanceTo(end)
		return Token{Kind: TokString, Text: string(content), Pos: startPos}, nil
	}

	contentStart := t.pos + 1
	idx := -1
	for j := contentStart; j < len(t.runes); j++ {
		if t.runes[j] == delim {
			idx = j
			break
		}
	}
	if idx < 0 {
		if t.streaming {
			return Token{}, ErrIncomplete
		}
		return Token{}, UnterminatedStringError{baseError: withPos(startPos)}
	}
	t.advanceTo(idx + 1)
	return Token{Kind: TokString, Text: string(t.runes[contentStart:idx]), Pos: startPos}, nil
}

// scanTripleBody scans heredoc string content starting at start, returning
// the decoded content, the index just past the closing triple, and whether
// a close was actually found (as opposed to running off the end of the
// buffer).
func (t *Tokenizer) scanTripleBody(delim rune, start int) ([]rune, int, bool) {
	var content []rune
	i := start
	for i < len(t.runes) {
		if t.runes[i] != delim {
			content = append(content, t.runes[i])
			i++
			continue
		}
		j := i
		for j < len(t.runes) && t.runes[j] == delim {
			j++
		}
		run := j - i
		if run >= 3 {
			if j == len(t.runes) && t.streaming {
				// More delimiter characters might still arrive and shift
				// where the real close falls; don't commit yet.
				return content, i, false
			}
			for k := 0; k < run-3; k++ {
				content = append(content, delim)
			}
			return content, j, true
		}
		for k := 0; k < run; k++ {
			content = append(content, delim)
		}
		i = j
	}
	return content, i, false
}
