// Package matiserver implements MatiDB's line-oriented TCP protocol and
// the server and REPL shells built on top of it.
package matiserver

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Response is one reply in the line protocol: either a successful result
// or an error message, both carried as free-form text.
type Response struct {
	OK      bool
	Content string
}

// Ok constructs a successful response.
func Ok(content string) Response { return Response{OK: true, Content: content} }

// Err constructs an error response.
func Err(content string) Response { return Response{OK: false, Content: content} }

// ToBytes renders r in the wire format: a status line, the content, and
// a terminating "END" line.
func (r Response) ToBytes() []byte {
	status := "ERROR"
	if r.OK {
		status = "OK"
	}
	return []byte(fmt.Sprintf("%s\n%s\nEND\n", status, r.Content))
}

// WriteResponse writes r to w in wire format.
func WriteResponse(w io.Writer, r Response) error {
	_, err := w.Write(r.ToBytes())
	return err
}

// ReadResponse reads one response from r: a status line, content lines,
// and a terminating "END" line.
func ReadResponse(r *bufio.Reader) (Response, error) {
	statusLine, err := r.ReadString('\n')
	if err != nil {
		return Response{}, fmt.Errorf("Connection closed")
	}
	status := strings.TrimSuffix(statusLine, "\n")

	var contentLines []string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return Response{}, fmt.Errorf("Connection closed before END marker")
		}
		trimmed := strings.TrimSuffix(line, "\n")
		if trimmed == "END" {
			break
		}
		contentLines = append(contentLines, trimmed)
	}

	content := strings.Join(contentLines, "\n")
	switch status {
	case "OK":
		return Ok(content), nil
	case "ERROR":
		return Err(content), nil
	default:
		return Response{}, fmt.Errorf("Invalid response: %s", status)
	}
}

// ReadQuery reads a single query line (one line of SQL or a special
// command) from r.
func ReadQuery(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if line == "" {
			return "", err
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}
