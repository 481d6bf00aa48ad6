package lsp

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"strings"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/wbm-mkopp/phpls/internal/php"
)

// Server dispatches the restricted set of LSP methods this language server
// answers -- initialize/initialized, the three didOpen/didChange/didClose
// document-sync notifications, completion, definition, implementation,
// workspace/didChangeWatchedFiles, and shutdown/exit. There is
// deliberately no hover, diagnostics, codeLens, codeAction, references or
// rename handling.
type Server struct {
	ws  *php.Workspace
	dm  *DocumentManager
}

func NewServer(ws *php.Workspace) *Server {
	return &Server{ws: ws, dm: NewDocumentManager(ws)}
}

// rwc adapts a separate Reader and Writer (stdin/stdout) into the
// io.ReadWriteCloser jsonrpc2.NewBufferedStream wants; the language server
// protocol never actually closes stdin/stdout itself, so Close is a no-op
// and real shutdown happens when the exit notification arrives.
type rwc struct {
	io.Reader
	io.Writer
}

func (rwc) Close() error { return nil }

// Start runs the server until the client sends exit or the connection
// drops, reading/writing length-prefixed JSON-RPC 2.0 messages on in/out.
func (s *Server) Start(in io.Reader, out io.Writer) error {
	stream := jsonrpc2.NewBufferedStream(rwc{in, out}, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(context.Background(), stream, jsonrpc2.HandlerWithError(s.handle))
	<-conn.DisconnectNotify()
	return nil
}

func (s *Server) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)

	case "initialized":
		return nil, nil

	case "textDocument/didOpen":
		var params DidOpenTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		s.dm.Open(params.TextDocument.URI, params.TextDocument.Text, params.TextDocument.Version)
		return nil, nil

	case "textDocument/didChange":
		var params DidChangeTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		if len(params.ContentChanges) == 0 {
			return nil, nil
		}
		// Full document sync only (see ServerCapabilities.TextDocumentSync):
		// the last change event carries the complete new text.
		text := params.ContentChanges[len(params.ContentChanges)-1].Text
		s.dm.ApplyFullSync(params.TextDocument.URI, text, params.TextDocument.Version)
		return nil, nil

	case "textDocument/didClose":
		var params DidCloseTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		s.dm.Close(params.TextDocument.URI)
		return nil, nil

	case "textDocument/completion":
		var params CompletionParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		return s.handleCompletion(params)

	case "textDocument/definition":
		var params TextDocumentPositionParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		return s.handleDefinition(params)

	case "textDocument/implementation":
		var params TextDocumentPositionParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		return s.handleImplementation(params)

	case "workspace/didChangeWatchedFiles":
		var params DidChangeWatchedFilesParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		s.handleDidChangeWatchedFiles(params)
		return nil, nil

	case "shutdown":
		return nil, nil

	case "exit":
		log.Println("received exit, closing connection")
		return nil, conn.Close()

	default:
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "method not supported: " + req.Method}
	}
}

func unmarshalParams(req *jsonrpc2.Request, out interface{}) error {
	if req.Params == nil {
		return nil
	}
	return json.Unmarshal(*req.Params, out)
}

func (s *Server) handleInitialize(req *jsonrpc2.Request) (interface{}, error) {
	var params InitializeParams
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}
	log.Printf("initialize: root=%s", firstNonEmpty(params.RootURI, params.RootPath))

	return InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: TextDocumentSyncOptions{
				OpenClose: true,
				Change:    1, // Full
			},
			CompletionProvider: CompletionOptions{
				TriggerCharacters: []string{">", ":", "$", "\\"},
			},
			DefinitionProvider:     true,
			ImplementationProvider: true,
		},
	}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func (s *Server) handleDidChangeWatchedFiles(params DidChangeWatchedFilesParams) {
	for _, change := range params.Changes {
		if !strings.HasSuffix(change.URI, ".php") {
			continue
		}
		path := php.URIToPath(change.URI)
		switch change.Type {
		case FileChangeDeleted:
			s.ws.InvalidateFile(path)
		default:
			s.ws.ReindexFile(path)
		}
	}
}
