// Package lspserver wires the pinyin completion engine to the Language
// Server Protocol over stdio, dispatching jsonrpc2 requests and
// notifications to the setting store, document mirror, dictionary store,
// and completion formatter.
package lspserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/anath2/pinyin-lsp/internal/classifier"
	"github.com/anath2/pinyin-lsp/internal/completion"
	"github.com/anath2/pinyin-lsp/internal/document"
	"github.com/anath2/pinyin-lsp/internal/lookup"
	"github.com/anath2/pinyin-lsp/internal/migrations"
	"github.com/anath2/pinyin-lsp/internal/segmenter"
	"github.com/anath2/pinyin-lsp/internal/setting"
	"github.com/anath2/pinyin-lsp/internal/store"
	"github.com/anath2/pinyin-lsp/internal/symbols"
)

// Server holds the process-wide state shared across every LSP request:
// mutable configuration, open document snapshots, and the dictionary
// index. The setting store and document mirror guard their own
// concurrency; dictMu guards swapping the dictionary handle.
type Server struct {
	logger        *zap.Logger
	migrationsDir string

	settings  *setting.Store
	documents *document.Mirror

	dictMu sync.RWMutex
	dict   *store.Store
}

// NewServer builds a Server. dbPath may be empty; the dictionary store is
// then opened lazily once a client supplies db_path via initialize or
// workspace/didChangeConfiguration.
func NewServer(dbPath, migrationsDir string, logger *zap.Logger) (*Server, error) {
	s := &Server{
		logger:        logger,
		migrationsDir: migrationsDir,
		settings:      setting.NewStore(),
		documents:     document.NewMirror(),
	}
	if dbPath != "" {
		if err := s.reopenDict(dbPath); err != nil {
			return nil, err
		}
		s.settings.Update(func(cur setting.Setting) setting.Setting {
			cur.DBPath = dbPath
			return cur
		})
	}
	return s, nil
}

func (s *Server) reopenDict(dbPath string) error {
	if err := migrations.RunUp(dbPath, s.migrationsDir); err != nil {
		return fmt.Errorf("lspserver: run migrations: %w", err)
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("lspserver: open dict store: %w", err)
	}

	s.dictMu.Lock()
	prev := s.dict
	s.dict = db
	s.dictMu.Unlock()

	if prev != nil {
		if err := prev.Close(); err != nil {
			s.logger.Warn("failed closing previous dict store", zap.Error(err))
		}
	}
	return nil
}

func (s *Server) dictStore() *store.Store {
	s.dictMu.RLock()
	defer s.dictMu.RUnlock()
	return s.dict
}

// Serve runs the JSON-RPC message loop over stream until the stream
// closes. An exit notification is acknowledged but does not itself end
// the loop.
func (s *Server) Serve(ctx context.Context, stream jsonrpc2.Stream) error {
	conn := jsonrpc2.NewConn(stream)
	conn.Go(ctx, s.handle)
	<-conn.Done()
	return conn.Err()
}

func (s *Server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	s.logger.Debug("request", zap.String("method", req.Method()))

	switch req.Method() {
	case "initialize":
		return s.handleInitialize(ctx, reply, req)
	case "initialized":
		return reply(ctx, nil, nil)
	case "shutdown":
		return reply(ctx, nil, nil)
	case "exit":
		return reply(ctx, nil, nil)
	case "textDocument/didOpen":
		return s.handleDidOpen(ctx, reply, req)
	case "textDocument/didChange":
		return s.handleDidChange(ctx, reply, req)
	case "textDocument/didClose":
		return s.handleDidClose(ctx, reply, req)
	case "textDocument/completion":
		return s.handleCompletion(ctx, reply, req)
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(ctx, reply, req)
	case "$/turn/completion":
		return s.handleTurnCompletion(ctx, reply, req)
	default:
		return reply(ctx, nil, nil)
	}
}

func (s *Server) handleInitialize(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.InitializeParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, fmt.Errorf("lspserver: decode initialize params: %w", err))
	}

	if params.InitializationOptions != nil {
		if raw, ok := params.InitializationOptions.(map[string]any); ok {
			updated, dbPathChanged := s.settings.ApplyOptions(raw)
			if dbPathChanged {
				if err := s.reopenDict(updated.DBPath); err != nil {
					s.logger.Error("failed opening dict store from initializationOptions", zap.Error(err))
				}
			}
		}
	}

	result := protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncKindIncremental,
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: symbols.TriggerCharacters(),
			},
		},
		ServerInfo: &protocol.ServerInfo{
			Name: "pinyin-lsp",
		},
	}
	return reply(ctx, result, nil)
}

func (s *Server) handleDidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, fmt.Errorf("lspserver: decode didOpen params: %w", err))
	}
	s.documents.Open(string(params.TextDocument.URI), params.TextDocument.Text)
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, fmt.Errorf("lspserver: decode didChange params: %w", err))
	}

	changes := make([]document.ContentChange, 0, len(params.ContentChanges))
	for _, c := range params.ContentChanges {
		if c.Range == nil {
			changes = append(changes, document.ContentChange{NewText: c.Text})
			continue
		}
		changes = append(changes, document.ContentChange{
			HasRange: true,
			Range: document.Range{
				Start: document.Position{Line: c.Range.Start.Line, Character: c.Range.Start.Character},
				End:   document.Position{Line: c.Range.End.Line, Character: c.Range.End.Character},
			},
			NewText: c.Text,
		})
	}
	s.documents.ApplyChanges(string(params.TextDocument.URI), changes)
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, fmt.Errorf("lspserver: decode didClose params: %w", err))
	}
	s.documents.Close(string(params.TextDocument.URI))
	return reply(ctx, nil, nil)
}

func (s *Server) handleDidChangeConfiguration(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params struct {
		Settings map[string]any `json:"settings"`
	}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, fmt.Errorf("lspserver: decode didChangeConfiguration params: %w", err))
	}

	updated, dbPathChanged := s.settings.ApplyOptions(params.Settings)
	if dbPathChanged {
		if err := s.reopenDict(updated.DBPath); err != nil {
			s.logger.Error("failed reopening dict store", zap.Error(err), zap.String("db_path", updated.DBPath))
		}
	}
	return reply(ctx, nil, nil)
}

func (s *Server) handleTurnCompletion(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params struct {
		On *bool `json:"completion_on"`
	}
	if len(req.Params()) > 0 {
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, fmt.Errorf("lspserver: decode $/turn/completion params: %w", err))
		}
	}
	s.settings.ToggleCompletionOn(params.On)
	return reply(ctx, nil, nil)
}

func (s *Server) handleCompletion(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.CompletionParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, fmt.Errorf("lspserver: decode completion params: %w", err))
	}

	pos := document.Position{Line: params.Position.Line, Character: params.Position.Character}
	list := s.resolveCompletion(string(params.TextDocument.URI), pos)
	return reply(ctx, list, nil)
}

// resolveCompletion computes the completion response for one request,
// honoring completion_on and falling through NoCompletion/missing-document/
// missing-store cases to a genuinely empty list rather than the placeholder
// ghost item, per E6 (completion_on=false yields an empty array response).
func (s *Server) resolveCompletion(uri string, pos document.Position) *protocol.CompletionList {
	cur := s.settings.Get()
	if !cur.CompletionOn {
		return completion.EmptyList()
	}

	doc := s.documents.Get(uri)
	if doc == nil {
		return completion.EmptyList()
	}

	result := classifier.Classify(doc, pos, cur)

	switch result.Kind {
	case classifier.SymbolExpansion:
		items := completion.FromSymbolExpansion(result.SymbolChar, result.ReplacementRange)
		return completion.List(items)

	case classifier.PinyinCompletion:
		dict := s.dictStore()
		if dict == nil {
			return completion.EmptyList()
		}
		items := s.completeFromDict(dict, result, cur)
		return completion.List(items)

	default:
		return completion.EmptyList()
	}
}

func (s *Server) completeFromDict(dict *store.Store, result classifier.Result, cur setting.Setting) []protocol.CompletionItem {
	entries, err := lookup.QueryDict(dict, result.Pinyin, cur.MaxSuggest, cur.MatchAsSameAsInput)
	if err != nil {
		s.logger.Warn("dict lookup failed", zap.Error(err), zap.String("pinyin", result.Pinyin))
		entries = nil
	}
	items := completion.FromSuggestions(entries, result.ReplacementRange)

	if result.UseLongSentence && len(entries) == 0 {
		if segmented, ok := segmenter.Segment(dict, result.Pinyin, cur.MatchAsSameAsInput); ok {
			items = completion.FromSegmentation(segmented, result.ReplacementRange)
		}
	}
	return items
}
