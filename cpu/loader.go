package cpu

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"
)

// Loader reads program images: text files with one base-2 byte literal per
// line. Anything after a '#' is a comment, and blank lines are skipped.
type Loader struct {
	Verbose bool // If set, logs every loaded byte.
}

// Load parses a program image with the default loader.
func Load(input io.Reader) (prog *Program, err error) {
	ld := &Loader{}
	return ld.Parse(input)
}

// Parse parses an input stream into a Program, one statement per byte.
func (ld *Loader) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	prog = &Program{}
	addr := 0

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		text_comment := strings.SplitN(text, "#", 2)
		line = strings.TrimSpace(text_comment[0])
		if len(line) == 0 {
			continue
		}

		var value uint8
		value, err = parseBinary(line)
		if err != nil {
			prog = nil
			return
		}

		if addr >= MEMORY_SIZE {
			err = ErrProgramSize
			prog = nil
			return
		}

		if ld.Verbose {
			log.Printf("%v: %02x = %08b", lineno, addr, value)
		}

		prog.Statements = append(prog.Statements, Statement{
			LineNo: lineno,
			Addr:   addr,
			Text:   line,
			Bytes:  []uint8{value},
		})
		addr++
	}

	err = scanner.Err()
	if err != nil {
		prog = nil
	}

	return
}

// parseBinary parses a base-2 byte literal, with an optional 0b prefix.
func parseBinary(word string) (value uint8, err error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(word, "0b"), "0B")
	v64, perr := strconv.ParseUint(digits, 2, 64)
	if perr != nil {
		if ne, ok := perr.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			err = ErrValueRange
			return
		}
		err = ErrParseNumber(word)
		return
	}
	if v64 > 0xff {
		err = ErrValueRange
		return
	}

	value = uint8(v64)
	return
}
