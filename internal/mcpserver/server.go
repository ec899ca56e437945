// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the backend's notes and file-search operations as tools
// for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/filesearch"
	"github.com/starford/ansuz/internal/notes"
)

// Server wraps the MCP server with tools bound to the repositories.
type Server struct {
	mcp   *server.MCPServer
	notes *notes.Repository
	files *filesearch.Repository
}

// New creates a new MCP server with all tools registered.
func New(notesRepo *notes.Repository, filesRepo *filesearch.Repository) *Server {
	s := &Server{notes: notesRepo, files: filesRepo}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_files",
		mcp.WithDescription("Full-text search across the remote file index."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchFiles)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List notes stored on the backend."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new note on the backend."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Note content")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("get_statistics",
		mcp.WithDescription("Read the file-search index statistics snapshot."),
	), s.getStatistics)

	s.mcp.AddTool(mcp.NewTool("list_directories",
		mcp.WithDescription("List the directories watched by the index subsystem."),
	), s.listDirectories)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.files.Search(ctx, filesearch.SearchQuery{Query: query, MaxResults: 20})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listNotes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, _, err := s.notes.List(ctx, 0, 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.notes.Create(ctx, notes.Draft{Title: title, Content: content})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", note.ID)), nil
}

func (s *Server) getStatistics(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.files.Statistics(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(stats, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listDirectories(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dirs, err := s.files.ListWatchedDirectories(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(dirs, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
