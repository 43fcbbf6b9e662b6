// Package lsp implements a Language Server Protocol server for avo files.
// It reports syntax errors as diagnostics and formats documents; Go-level
// features are left to gopls running on the generated files.
package lsp

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/gerardmtb/avo/formatter"
	"github.com/gerardmtb/avo/parser"
)

// JSON-RPC error codes.
const (
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// Server is a language server speaking JSON-RPC over a byte stream.
type Server struct {
	documents map[string]string // uri -> current content
	mu        sync.RWMutex
	log       *log.Logger

	out   io.Writer
	outMu sync.Mutex
}

// New creates a new Server. A nil logger discards log output.
func New(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{
		documents: make(map[string]string),
		log:       logger,
	}
}

// Serve reads requests from r and writes responses and notifications to w
// until the client sends exit or r is exhausted.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	s.out = w
	reader := bufio.NewReader(r)

	for {
		msg, err := readMessage(reader)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		var req map[string]any
		if err := json.Unmarshal(msg, &req); err != nil {
			s.log.Printf("Dropping malformed message: %v", err)
			continue
		}

		method, _ := req["method"].(string)
		if method == "exit" {
			return nil
		}
		if resp := s.handle(method, req); resp != nil {
			if err := s.send(resp); err != nil {
				return err
			}
		}
	}
}

// handle dispatches one message. It returns the response to a request, or
// nil for notifications.
func (s *Server) handle(method string, req map[string]any) []byte {
	id, isRequest := req["id"]
	params, _ := req["params"].(map[string]any)

	switch method {
	case "initialize":
		return makeSuccessResponse(id, map[string]any{
			"capabilities": map[string]any{
				"textDocumentSync":           1, // full
				"documentFormattingProvider": true,
			},
			"serverInfo": map[string]any{"name": "avo"},
		})
	case "shutdown":
		return makeSuccessResponse(id, nil)
	case "textDocument/didOpen":
		s.handleDidOpen(params)
		return nil
	case "textDocument/didChange":
		s.handleDidChange(params)
		return nil
	case "textDocument/didClose":
		s.handleDidClose(params)
		return nil
	case "textDocument/formatting":
		return s.handleFormatting(id, params)
	}

	if isRequest {
		return makeErrorResponse(id, codeMethodNotFound, "Method not found: "+method)
	}
	return nil
}

func (s *Server) handleDidOpen(params map[string]any) {
	doc, _ := params["textDocument"].(map[string]any)
	uri, _ := doc["uri"].(string)
	text, ok := doc["text"].(string)
	if uri == "" || !ok {
		return
	}
	s.update(uri, text)
}

// handleDidChange applies a full-document change; the last change wins.
func (s *Server) handleDidChange(params map[string]any) {
	doc, _ := params["textDocument"].(map[string]any)
	uri, _ := doc["uri"].(string)
	changes, _ := params["contentChanges"].([]any)
	if uri == "" || len(changes) == 0 {
		return
	}
	change, _ := changes[len(changes)-1].(map[string]any)
	text, ok := change["text"].(string)
	if !ok {
		return
	}
	s.update(uri, text)
}

func (s *Server) handleDidClose(params map[string]any) {
	doc, _ := params["textDocument"].(map[string]any)
	uri, _ := doc["uri"].(string)
	if uri == "" {
		return
	}

	s.mu.Lock()
	delete(s.documents, uri)
	s.mu.Unlock()

	s.publishDiagnostics(uri, []any{})
}

func (s *Server) update(uri, text string) {
	s.mu.Lock()
	s.documents[uri] = text
	s.mu.Unlock()

	s.publishDiagnostics(uri, diagnose(uri, text))
}

// diagnose parses a document and reports its syntax error, if any.
func diagnose(uri, text string) []any {
	_, err := parser.Parse(uriToPath(uri), []byte(text))
	if err == nil {
		return []any{}
	}

	var line, char int
	message := err.Error()
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, char = syntaxErr.Pos.Line-1, syntaxErr.Pos.Column-1
		message = strings.TrimPrefix(message, syntaxErr.Filename+":"+syntaxErr.Pos.String()+": ")
	}
	pos := map[string]any{"line": max(line, 0), "character": max(char, 0)}

	return []any{map[string]any{
		"range":    map[string]any{"start": pos, "end": pos},
		"severity": 1, // error
		"source":   "avo",
		"message":  message,
	}}
}

func (s *Server) publishDiagnostics(uri string, diagnostics []any) {
	err := s.send(makeNotification("textDocument/publishDiagnostics", map[string]any{
		"uri":         uri,
		"diagnostics": diagnostics,
	}))
	if err != nil {
		s.log.Printf("Publishing diagnostics for %s: %v", uri, err)
	}
}

// handleFormatting handles textDocument/formatting requests.
func (s *Server) handleFormatting(id any, params map[string]any) []byte {
	doc, ok := params["textDocument"].(map[string]any)
	if !ok {
		return makeErrorResponse(id, codeInvalidParams, "Invalid textDocument")
	}
	uri, ok := doc["uri"].(string)
	if !ok {
		return makeErrorResponse(id, codeInvalidParams, "Invalid uri")
	}

	s.mu.RLock()
	content, ok := s.documents[uri]
	s.mu.RUnlock()
	if !ok {
		return makeErrorResponse(id, codeInternalError, "Document not open: "+uri)
	}

	formatted, err := formatter.Source(uriToPath(uri), []byte(content), nil)
	if err != nil {
		s.log.Printf("Format error: %v", err)
		return makeErrorResponse(id, codeInternalError, "Format error: "+err.Error())
	}

	if string(formatted) == content {
		return makeSuccessResponse(id, []any{})
	}

	// A single edit that replaces the entire document.
	lines := strings.Split(content, "\n")
	endLine := len(lines) - 1
	endChar := len(lines[endLine])

	edit := map[string]any{
		"range": map[string]any{
			"start": map[string]any{"line": 0, "character": 0},
			"end":   map[string]any{"line": endLine, "character": endChar},
		},
		"newText": string(formatted),
	}

	s.log.Printf("Formatted %s (%d -> %d bytes)", uri, len(content), len(formatted))
	return makeSuccessResponse(id, []any{edit})
}

func (s *Server) send(body []byte) error {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	return writeMessage(s.out, body)
}

// LSP message helpers

func readMessage(r *bufio.Reader) ([]byte, error) {
	var contentLength int
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break // end of headers
		}
		if strings.HasPrefix(line, "Content-Length:") {
			length := strings.TrimSpace(strings.TrimPrefix(line, "Content-Length:"))
			contentLength, _ = strconv.Atoi(length)
		}
	}

	if contentLength == 0 {
		return nil, fmt.Errorf("no Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}

func writeMessage(w io.Writer, body []byte) error {
	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(body))
	if _, err := w.Write([]byte(header)); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

func uriToPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

func makeSuccessResponse(id any, result any) []byte {
	data, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	})
	return data
}

func makeErrorResponse(id any, code int, message string) []byte {
	data, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
	return data
}

func makeNotification(method string, params any) []byte {
	data, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	})
	return data
}
