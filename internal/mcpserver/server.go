// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes MySnippets tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/mysnippets/internal/apperr"
	"github.com/starford/mysnippets/internal/menu"
	"github.com/starford/mysnippets/internal/snippetservice"
)

const (
	folderURI   = "mysnippets://folder"
	contractURI = "mysnippets://snippet-format"
)

// MenuDeps is what the menu tools need to build and drive a menu.
type MenuDeps struct {
	Controller *menu.Controller
	App        *menu.App
	Plugin     *menu.Plugin
	Settings   menu.Settings
}

// Server wraps the MCP server with MySnippets tools.
type Server struct {
	mcp   *server.MCPServer
	svc   *snippetservice.Service
	menus MenuDeps
}

// New creates a new MCP server with all MySnippets tools registered.
func New(svc *snippetservice.Service, menus MenuDeps, version string) *Server {
	s := &Server{svc: svc, menus: menus}

	s.mcp = server.NewMCPServer(
		"MySnippets",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_snippets",
		mcp.WithDescription("List every CSS snippet in the snippets folder with its enabled state."),
	), s.listSnippets)

	s.mcp.AddTool(mcp.NewTool("get_snippet",
		mcp.WithDescription("Read a snippet's metadata and, optionally, its CSS source."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Snippet name (file name without .css)")),
		mcp.WithBoolean("include_css", mcp.Description("Also return the raw CSS")),
	), s.getSnippet)

	s.mcp.AddTool(mcp.NewTool("set_snippet_enabled",
		mcp.WithDescription("Enable or disable a snippet."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Snippet name")),
		mcp.WithBoolean("enabled", mcp.Required(), mcp.Description("Desired state")),
	), s.setSnippetEnabled)

	s.mcp.AddTool(mcp.NewTool("toggle_snippet",
		mcp.WithDescription("Flip a snippet between enabled and disabled."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Snippet name")),
	), s.toggleSnippet)

	s.mcp.AddTool(mcp.NewTool("reload_snippets",
		mcp.WithDescription("Rescan the snippets folder for added, changed or removed files."),
	), s.reloadSnippets)

	s.mcp.AddTool(mcp.NewTool("get_snippet_contract",
		mcp.WithDescription("Returns the snippet file format, including the @settings metadata block."),
	), s.getSnippetContract)

	s.mcp.AddTool(mcp.NewTool("open_menu",
		mcp.WithDescription("Show the snippets menu for a viewport and return its layout. "+
			"If a menu is already showing it is returned unchanged."),
		mcp.WithNumber("width", mcp.Description("Viewport width in pixels")),
		mcp.WithNumber("height", mcp.Description("Viewport height in pixels")),
	), s.openMenu)

	s.mcp.AddTool(mcp.NewTool("click_menu",
		mcp.WithDescription("Click inside the live snippets menu. Either name a target "+
			"such as row-0/toggle or give menu-local x and y."),
		mcp.WithString("menu_id", mcp.Description("Menu id; empty addresses the live menu")),
		mcp.WithString("target", mcp.Description("Element id from the menu layout")),
		mcp.WithNumber("x", mcp.Description("Menu-local x")),
		mcp.WithNumber("y", mcp.Description("Menu-local y")),
	), s.clickMenu)

	s.mcp.AddResource(
		mcp.NewResource(folderURI, "Snippets Folder",
			mcp.WithResourceDescription("Absolute path of the folder the snippets are read from."),
			mcp.WithMIMEType("text/plain"),
		),
		s.readFolderResource,
	)

	s.mcp.AddResource(
		mcp.NewResource(contractURI, "Snippet Format",
			mcp.WithResourceDescription("How snippet files and their metadata are laid out."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
	)

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

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func snippetError(name string, err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrInvalidName) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", name))
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) listSnippets(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]any{
		"folder":   s.svc.Folder(),
		"snippets": s.svc.List(ctx),
	}), nil
}

func (s *Server) getSnippet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.svc.Get(ctx, name)
	if err != nil {
		return snippetError(name, err), nil
	}
	if !req.GetBool("include_css", false) {
		return jsonResult(d), nil
	}
	css, err := s.svc.Read(ctx, name)
	if err != nil {
		return snippetError(name, err), nil
	}
	return jsonResult(map[string]any{"snippet": d, "css": string(css)}), nil
}

func (s *Server) setSnippetEnabled(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	enabled, err := req.RequireBool("enabled")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.svc.SetEnabled(ctx, name, enabled)
	if err != nil {
		return snippetError(name, err), nil
	}
	return jsonResult(d), nil
}

func (s *Server) toggleSnippet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.svc.Toggle(ctx, name)
	if err != nil {
		return snippetError(name, err), nil
	}
	return jsonResult(d), nil
}

func (s *Server) reloadSnippets(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.svc.Reload(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to reload snippets: %v", err)), nil
	}
	return jsonResult(map[string]any{"snippets": list}), nil
}

func (s *Server) getSnippetContract(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(SnippetFormatContract), nil
}

func (s *Server) openMenu(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.menus.Controller == nil {
		return mcp.NewToolResultError("menu is not available"), nil
	}
	app := s.menus.App
	w, h := req.GetInt("width", 0), req.GetInt("height", 0)
	if w < 0 || h < 0 {
		return mcp.NewToolResultError("width and height must not be negative"), nil
	}
	if w > 0 && h > 0 {
		app = app.WithViewport(menu.FixedViewport{Width: w, Height: h})
	}
	view, shown, err := s.menus.Controller.Show(app, s.menus.Plugin, s.menus.Settings)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"shown": shown, "menu": view}), nil
}

func (s *Server) clickMenu(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.menus.Controller == nil {
		return mcp.NewToolResultError("menu is not available"), nil
	}
	ev := menu.Event{
		Pos:    menu.Point{X: req.GetInt("x", 0), Y: req.GetInt("y", 0)},
		Target: req.GetString("target", ""),
	}
	view, dismissed, err := s.menus.Controller.Click(req.GetString("menu_id", ""), ev)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"dismissed": dismissed, "menu": view}), nil
}

func (s *Server) readFolderResource(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      folderURI,
			MIMEType: "text/plain",
			Text:     s.svc.Folder(),
		},
	}, nil
}

func (s *Server) readContractResource(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      contractURI,
			MIMEType: "text/markdown",
			Text:     SnippetFormatContract,
		},
	}, nil
}
