// Package server implements the tool handlers and registers them as MCP tools.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonchun/stackteams/api"
	"github.com/jonchun/stackteams/htmltext"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPageSize = 5

	// defaultFilter asks the API to include full bodies in question payloads.
	defaultFilter = "!9_bDE(fI5"
)

// Sentinel messages returned verbatim when a lookup comes back empty.
const (
	msgNoQuestions      = "No relevant questions found."
	msgNoAnswers        = "No relevant answers found."
	msgNoExcerpts       = "No relevant excerpts found."
	msgQuestionNotFound = "Question not found."
	msgNoTagMatches     = "No questions found for the given tags."
)

// Core holds the per-process wiring for the five tool handlers. It keeps no
// cross-call state; every handler is a single-shot pipeline.
type Core struct {
	API  api.Getter
	Team string

	// Clean rewrites HTML fields into Markdown-ish text. Every title, body
	// and excerpt passes through it before rendering.
	Clean func(string) string

	PageSize int
	Filter   string

	logger *slog.Logger
}

type QueryInput struct {
	Query string `json:"query" jsonschema:"Free-text search query"`
}

type TagsInput struct {
	Tags string `json:"tags" jsonschema:"Semicolon-separated list of tags, e.g. go;http"`
}

type QuestionInput struct {
	QuestionID string `json:"question_id" jsonschema:"Numeric ID of the question to fetch"`
}

type CoreOption func(*Core)

func WithPageSize(n int) CoreOption {
	return func(c *Core) { c.PageSize = n }
}

func WithFilter(filter string) CoreOption {
	return func(c *Core) { c.Filter = filter }
}

func NewCore(client api.Getter, team string, logger *slog.Logger, opts ...CoreOption) *Core {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Core{
		API:      client,
		Team:     team,
		Clean:    htmltext.Clean,
		PageSize: defaultPageSize,
		Filter:   defaultFilter,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchQuestions queries /search/advanced and renders matching questions
// with their full bodies.
func (c *Core) SearchQuestions(ctx context.Context, in QueryInput) (string, error) {
	start := time.Now()

	params := c.searchParams("relevance")
	params.Set("q", in.Query)
	params.Set("filter", c.Filter)

	data, err := c.API.Get(ctx, "/search/advanced", params)
	if err != nil {
		c.logger.InfoContext(ctx, "search_questions",
			"query", in.Query,
			"outcome", "error",
			"error", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	c.logger.InfoContext(ctx, "search_questions",
		"query", in.Query,
		"outcome", "success",
		"items", len(data.Items),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if len(data.Items) == 0 {
		return msgNoQuestions, nil
	}

	entries := make([]string, 0, len(data.Items))
	for _, q := range data.Items {
		entries = append(entries, fmt.Sprintf("### %s\n%s\n🔗 [View Question](%s)",
			c.Clean(q.Title), c.Clean(q.Body), orHash(q.Link)))
	}
	return strings.Join(entries, "\n\n"), nil
}

// SearchAnswers queries /search/excerpts and keeps only answer items.
func (c *Core) SearchAnswers(ctx context.Context, in QueryInput) (string, error) {
	start := time.Now()

	params := c.searchParams("relevance")
	params.Set("q", in.Query)

	data, err := c.API.Get(ctx, "/search/excerpts", params)
	if err != nil {
		c.logger.InfoContext(ctx, "search_answers",
			"query", in.Query,
			"outcome", "error",
			"error", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	var answers []api.Item
	for _, it := range data.Items {
		if it.ItemType == "answer" {
			answers = append(answers, it)
		}
	}

	c.logger.InfoContext(ctx, "search_answers",
		"query", in.Query,
		"outcome", "success",
		"items", len(answers),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if len(answers) == 0 {
		return msgNoAnswers, nil
	}

	entries := make([]string, 0, len(answers))
	for _, ans := range answers {
		entries = append(entries, fmt.Sprintf("**Answer Excerpt:**\n%s\n🔗 [View Answer](%s)",
			c.Clean(ans.Excerpt), c.questionLink(ans.QuestionID)))
	}
	return strings.Join(entries, "\n\n"), nil
}

// SearchExcerpts queries /search/excerpts and renders question and answer
// excerpts alike.
func (c *Core) SearchExcerpts(ctx context.Context, in QueryInput) (string, error) {
	start := time.Now()

	params := c.searchParams("relevance")
	params.Set("q", in.Query)

	data, err := c.API.Get(ctx, "/search/excerpts", params)
	if err != nil {
		c.logger.InfoContext(ctx, "search_excerpts",
			"query", in.Query,
			"outcome", "error",
			"error", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	c.logger.InfoContext(ctx, "search_excerpts",
		"query", in.Query,
		"outcome", "success",
		"items", len(data.Items),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if len(data.Items) == 0 {
		return msgNoExcerpts, nil
	}

	entries := make([]string, 0, len(data.Items))
	for _, it := range data.Items {
		itemType := it.ItemType
		if itemType == "" {
			itemType = "unknown"
		}
		entries = append(entries, fmt.Sprintf("**Type:** %s\n**Title:** %s\n%s\n🔗 [View Full Post](%s)",
			itemType, c.Clean(it.Title), c.Clean(it.Excerpt), c.questionLink(it.QuestionID)))
	}
	return strings.Join(entries, "\n\n"), nil
}

// FetchQuestionByID renders one question with all of its answers. The
// question and answer reads are independent, so they run in parallel.
func (c *Core) FetchQuestionByID(ctx context.Context, in QuestionInput) (string, error) {
	id := strings.TrimSpace(in.QuestionID)
	if id == "" {
		return "", errors.New("question_id is required")
	}

	start := time.Now()

	params := url.Values{}
	params.Set("team", c.Team)
	params.Set("filter", c.Filter)

	var qData, aData api.Response
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		qData, err = c.API.Get(gctx, "/questions/"+url.PathEscape(id), params)
		return err
	})
	g.Go(func() error {
		var err error
		aData, err = c.API.Get(gctx, "/questions/"+url.PathEscape(id)+"/answers", params)
		return err
	})
	if err := g.Wait(); err != nil {
		c.logger.InfoContext(ctx, "fetch_question",
			"question_id", id,
			"outcome", "error",
			"error", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	c.logger.InfoContext(ctx, "fetch_question",
		"question_id", id,
		"outcome", "success",
		"answers", len(aData.Items),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if len(qData.Items) == 0 {
		return msgQuestionNotFound, nil
	}

	q := qData.Items[0]
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n%s\n\n", c.Clean(q.Title), c.Clean(q.Body))

	if len(aData.Items) == 0 {
		b.WriteString("\n\n_No answers found._")
		return b.String(), nil
	}

	b.WriteString("\n\n### Top Answers:\n")
	for _, ans := range aData.Items {
		fmt.Fprintf(&b, "\n**Score:** %d\n%s\n\n---", ans.Score, c.Clean(ans.Body))
	}
	return b.String(), nil
}

// SearchByTags queries /questions for questions carrying the given tags,
// most recently active first.
func (c *Core) SearchByTags(ctx context.Context, in TagsInput) (string, error) {
	start := time.Now()

	params := c.searchParams("activity")
	params.Set("tagged", in.Tags)

	data, err := c.API.Get(ctx, "/questions", params)
	if err != nil {
		c.logger.InfoContext(ctx, "search_by_tags",
			"tags", in.Tags,
			"outcome", "error",
			"error", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	c.logger.InfoContext(ctx, "search_by_tags",
		"tags", in.Tags,
		"outcome", "success",
		"items", len(data.Items),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if len(data.Items) == 0 {
		return msgNoTagMatches, nil
	}

	entries := make([]string, 0, len(data.Items))
	for _, q := range data.Items {
		entries = append(entries, fmt.Sprintf("**%s**\n🔗 [View Question](%s)",
			c.Clean(q.Title), orHash(q.Link)))
	}
	return strings.Join(entries, "\n\n"), nil
}

func (c *Core) searchParams(sort string) url.Values {
	params := url.Values{}
	params.Set("order", "desc")
	params.Set("sort", sort)
	params.Set("team", c.Team)
	params.Set("pagesize", strconv.Itoa(c.PageSize))
	return params
}

// questionLink builds a web link for endpoints that do not return one.
func (c *Core) questionLink(questionID int64) string {
	if questionID == 0 {
		return "#"
	}
	return fmt.Sprintf("https://%s.stackoverflowteams.com/c/%s/questions/%d", c.Team, c.Team, questionID)
}

func orHash(link string) string {
	if link == "" {
		return "#"
	}
	return link
}

type ServerOptions struct {
	// Name is the MCP server implementation name. Default: "stackteams".
	Name string
	// Version is the MCP server implementation version. Default: "0.1.0".
	Version string
}

// adapt folds a handler's outcome into the single text channel the tool
// contract exposes. Failures render as a normal "HTTP Error:" text result;
// no error ever reaches the transport, so callers distinguish failures only
// by that prefix.
func adapt[In any](fn func(context.Context, In) (string, error)) mcp.ToolHandlerFor[In, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		text, err := fn(ctx, in)
		if err != nil {
			text = "HTTP Error: " + err.Error()
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

func NewMCPServer(core *Core, logger *slog.Logger, opts ...ServerOptions) *mcp.Server {
	name := "stackteams"
	version := "0.1.0"
	if len(opts) > 0 {
		if opts[0].Name != "" {
			name = opts[0].Name
		}
		if opts[0].Version != "" {
			version = opts[0].Version
		}
	}
	srv := mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, &mcp.ServerOptions{Logger: logger})

	readOnly := &mcp.ToolAnnotations{ReadOnlyHint: true}

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "stackoverflow_search_questions",
		Description: "Search Stack Overflow Teams for relevant questions matching a query",
		Annotations: readOnly,
	}, adapt(core.SearchQuestions))

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "stackoverflow_search_answers",
		Description: "Search Stack Overflow Teams for relevant answers matching a query",
		Annotations: readOnly,
	}, adapt(core.SearchAnswers))

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "stackoverflow_search_excerpts",
		Description: "Search Stack Overflow Teams excerpts matching a query (questions and answers)",
		Annotations: readOnly,
	}, adapt(core.SearchExcerpts))

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "stackoverflow_fetch_question_by_id",
		Description: "Fetch full question (body and answers) from Stack Overflow Teams given a question ID",
		Annotations: readOnly,
	}, adapt(core.FetchQuestionByID))

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "stackoverflow_search_by_tags",
		Description: "Search Stack Overflow Teams questions by tags",
		Annotations: readOnly,
	}, adapt(core.SearchByTags))

	return srv
}

func RunStdio(ctx context.Context, core *Core, logger *slog.Logger, opts ...ServerOptions) error {
	server := NewMCPServer(core, logger, opts...)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("run mcp stdio server: %w", err)
	}
	return nil
}

// NewHTTPHandler returns an http.Handler serving MCP over SSE.
func NewHTTPHandler(core *Core, logger *slog.Logger, opts ...ServerOptions) http.Handler {
	srv := NewMCPServer(core, logger, opts...)
	return mcp.NewSSEHandler(func(_ *http.Request) *mcp.Server {
		return srv
	}, nil)
}
