package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hollisb/marginalia/internal/config"
	"github.com/hollisb/marginalia/internal/errors"
	"github.com/hollisb/marginalia/internal/ops"
	"github.com/hollisb/marginalia/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "marginalia",
		Usage:   "Highlights and notes for your reading",
		Version: Version,
		Commands: []*cli.Command{
			addCmd(db, cfg),
			getCmd(db),
			listCmd(db),
			renderCmd(db, cfg),
			highlightCmd(db),
			noteCmd(db),
			webCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// addCmd creates the add command.
func addCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Store a new article (reads content from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true, Usage: "Article title"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "markdown", Usage: "Content format: markdown|html|text"},
		},
		Action: func(c *cli.Context) error {
			// Require stdin input
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("content must be piped via stdin"))
			}

			content, err := readStdin()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			if content == "" {
				return outputError(errors.NewInvalidRequest("content is required"))
			}

			output, err := ops.AddArticle(db, cfg, ops.AddArticleInput{
				Title:   c.String("title"),
				Content: content,
				Format:  ops.ArticleFormat(c.String("format")),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// getCmd creates the get command.
func getCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Fetch an article and its highlights by ID or title",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Article title"},
		},
		Action: func(c *cli.Context) error {
			input := ops.GetArticleInput{}

			// Check for positional ID argument
			if c.NArg() > 0 {
				input.ID = c.Args().First()
			} else {
				input.Title = c.String("title")
			}

			output, err := ops.GetArticle(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List stored articles, most recently updated first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ListArticles(db, ops.ListArticlesInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// renderCmd creates the render command.
func renderCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render an article with all active highlights applied",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "content-only", Usage: "Print the annotated content instead of JSON"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("article id is required"))
			}

			output, err := ops.RenderArticle(db, cfg, ops.RenderArticleInput{
				ArticleID: c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}

			if c.Bool("content-only") {
				fmt.Println(output.Content)
				return nil
			}

			return outputJSON(output)
		},
	}
}

// highlightCmd creates the highlight command group.
func highlightCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:    "highlight",
		Aliases: []string{"hl"},
		Usage:   "Create and manage highlights",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Highlight a quoted phrase in an article",
				ArgsUsage: "<quote>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "article", Aliases: []string{"a"}, Required: true, Usage: "Article ID"},
					&cli.IntFlag{Name: "occurrence", Value: 1, Usage: "1-based occurrence of the quote"},
					&cli.StringFlag{Name: "color", Aliases: []string{"c"}, Usage: "Highlight color name"},
					&cli.StringFlag{Name: "note", Aliases: []string{"n"}, Usage: "Note attached on creation"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return outputError(errors.NewInvalidRequest("quote is required"))
					}

					output, err := ops.CreateHighlight(db, ops.CreateHighlightInput{
						ArticleID:  c.String("article"),
						Quote:      strings.Join(c.Args().Slice(), " "),
						Occurrence: c.Int("occurrence"),
						Color:      c.String("color"),
						Note:       c.String("note"),
					})
					if err != nil {
						return outputError(err)
					}

					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "List an article's active highlights with their notes",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "article", Aliases: []string{"a"}, Required: true, Usage: "Article ID"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.ListHighlights(db, ops.ListHighlightsInput{
						ArticleID: c.String("article"),
					})
					if err != nil {
						return outputError(err)
					}

					return outputJSON(output)
				},
			},
			{
				Name:      "rm",
				Usage:     "Soft-delete a highlight",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return outputError(errors.NewInvalidRequest("highlight id is required"))
					}

					output, err := ops.DeleteHighlight(db, ops.DeleteHighlightInput{
						ID: c.Args().First(),
					})
					if err != nil {
						return outputError(err)
					}

					return outputJSON(output)
				},
			},
			{
				Name:      "color",
				Usage:     "Change a highlight's color",
				ArgsUsage: "<id> <color>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						return outputError(errors.NewInvalidRequest("highlight id and color are required"))
					}

					output, err := ops.UpdateColor(db, ops.UpdateColorInput{
						ID:    c.Args().Get(0),
						Color: c.Args().Get(1),
					})
					if err != nil {
						return outputError(err)
					}

					return outputJSON(output)
				},
			},
			{
				Name:      "restore",
				Usage:     "Resolve a highlight's stored position against current content",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return outputError(errors.NewInvalidRequest("highlight id is required"))
					}

					output, err := ops.RestoreHighlight(db, ops.RestoreHighlightInput{
						HighlightID: c.Args().First(),
					})
					if err != nil {
						return outputError(err)
					}

					return outputJSON(output)
				},
			},
		},
	}
}

// noteCmd creates the note command group.
func noteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "note",
		Usage: "Attach and list notes",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Attach a note to a highlight or an article",
				ArgsUsage: "<content>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "highlight", Usage: "Highlight ID (exactly one of --highlight or --article)"},
					&cli.StringFlag{Name: "article", Aliases: []string{"a"}, Usage: "Article ID (exactly one of --highlight or --article)"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return outputError(errors.NewInvalidRequest("note content is required"))
					}

					output, err := ops.AddNote(db, ops.AddNoteInput{
						HighlightID: c.String("highlight"),
						ArticleID:   c.String("article"),
						Content:     strings.Join(c.Args().Slice(), " "),
					})
					if err != nil {
						return outputError(err)
					}

					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "List a highlight's or an article's notes",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "highlight", Usage: "Highlight ID (exactly one of --highlight or --article)"},
					&cli.StringFlag{Name: "article", Aliases: []string{"a"}, Usage: "Article ID (exactly one of --highlight or --article)"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.ListNotes(db, ops.ListNotesInput{
						HighlightID: c.String("highlight"),
						ArticleID:   c.String("article"),
					})
					if err != nil {
						return outputError(err)
					}

					return outputJSON(output)
				},
			},
		},
	}
}

// webCmd creates the web command.
func webCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the read-only reading UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 7333, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if appErr, ok := err.(*errors.Error); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", appErr.Code, appErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
