package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// lineReader pumps lines from the input on its own goroutine so a pending
// read can be abandoned when the context is cancelled mid-prompt.
type lineReader struct {
	lines chan readResult
	err   error
}

type readResult struct {
	line string
	err  error
}

func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{lines: make(chan readResult)}
	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lr.lines <- readResult{line: scanner.Text()}
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		lr.lines <- readResult{err: err}
		close(lr.lines)
	}()
	return lr
}

// ReadLine returns the next input line. Once the input ends or fails, the
// same error is returned on every subsequent call.
func (lr *lineReader) ReadLine(ctx context.Context) (string, error) {
	if lr.err != nil {
		return "", lr.err
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-lr.lines:
		if !ok {
			lr.err = io.EOF
			return "", lr.err
		}
		if res.err != nil {
			lr.err = res.err
			return "", lr.err
		}
		return res.line, nil
	}
}

// prompt writes the label and waits for one trimmed line of input.
func (c *Controller) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(c.out, label)
	line, err := c.in.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptID reads a single id attempt. A non-numeric entry aborts the
// operation with ok=false instead of reprompting, matching how ids are
// treated everywhere in the menu.
func (c *Controller) promptID(ctx context.Context, label string) (int64, bool, error) {
	raw, err := c.prompt(ctx, label)
	if err != nil {
		return 0, false, err
	}
	id, convErr := strconv.ParseInt(raw, 10, 64)
	if convErr != nil {
		fmt.Fprintln(c.out, "Please enter a valid student ID")
		return 0, false, nil
	}
	return id, true, nil
}

// promptAge keeps asking until a plausible age is entered.
func (c *Controller) promptAge(ctx context.Context) (int, error) {
	for {
		raw, err := c.prompt(ctx, "Age: ")
		if err != nil {
			return 0, err
		}
		age, convErr := strconv.Atoi(raw)
		if convErr != nil {
			fmt.Fprintln(c.out, "Please enter a valid number for age")
			continue
		}
		if age < 5 || age > 25 {
			fmt.Fprintln(c.out, "Please enter a valid age (5-25)")
			continue
		}
		return age, nil
	}
}

// promptMarks keeps asking until marks within range are entered.
func (c *Controller) promptMarks(ctx context.Context) (float64, error) {
	for {
		raw, err := c.prompt(ctx, "Marks (0-100): ")
		if err != nil {
			return 0, err
		}
		marks, convErr := strconv.ParseFloat(raw, 64)
		if convErr != nil {
			fmt.Fprintln(c.out, "Please enter a valid number for marks")
			continue
		}
		if marks < 0 || marks > 100 {
			fmt.Fprintln(c.out, "Please enter marks between 0 and 100")
			continue
		}
		return marks, nil
	}
}
