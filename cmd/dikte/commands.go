package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MrWong99/dikte/internal/app"
	"github.com/MrWong99/dikte/internal/correction"
	"github.com/MrWong99/dikte/internal/engine"
)

// output prints v as indented JSON with --json, or calls text otherwise.
func (c *cli) output(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	if c.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

// inputText joins args, or reads stdin when there are none or the only
// argument is "-".
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
	return strings.Join(args, " "), nil
}

// titleASCII upper-cases the first byte of s and lower-cases the rest.
func titleASCII(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// ── Transcripts ──────────────────────────────────────────────────────────────

func newProcessCmd(c *cli) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "process [text...]",
		Short: "Normalise a raw transcript",
		Long: `Run a raw transcript through the normalisation pipeline and print the
result. Reads stdin when no text is given.

Example:
  dikte process "cok guzel bir gun"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			return c.withApp(cmd.Context(), func(a *app.App) error {
				res, err := a.Engine().ProcessTranscript(cmd.Context(), lang, raw)
				if err != nil {
					return err
				}
				return c.output(cmd, res, func(w io.Writer) {
					if res.Rejected {
						fmt.Fprintf(w, "rejected: %s\n", res.Reason)
						return
					}
					fmt.Fprintln(w, res.Text)
				})
			})
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "language code (default: configured language)")
	return cmd
}

func newLearnCmd(c *cli) *cobra.Command {
	var original, edited string
	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Learn corrections from an edited transcript",
		Long: `Compare a transcript with your edited version and record the word
corrections it contains.

Example:
  dikte learn --original "kubernets hazır" --edited "kubernetes hazır"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				report := a.Engine().LearnFromEdit(cmd.Context(), original, edited)
				return c.output(cmd, report, func(w io.Writer) {
					if report.Empty() {
						fmt.Fprintln(w, "nothing learned")
						return
					}
					for _, p := range report.Direct {
						fmt.Fprintf(w, "%s -> %s\n", p.Wrong, p.Right)
					}
					for _, p := range report.Stem {
						fmt.Fprintf(w, "%s -> %s (stem)\n", p.Wrong, p.Right)
					}
				})
			})
		},
	}
	cmd.Flags().StringVar(&original, "original", "", "transcript as produced")
	cmd.Flags().StringVar(&edited, "edited", "", "transcript after your edits")
	_ = cmd.MarkFlagRequired("original")
	_ = cmd.MarkFlagRequired("edited")
	return cmd
}

// ── Corrections ──────────────────────────────────────────────────────────────

func newCorrectionsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "corrections",
		Aliases: []string{"c"},
		Short:   "Inspect and manage learned corrections",
	}
	cmd.AddCommand(
		newCorrectionsListCmd(c),
		newCorrectionsAddCmd(c),
		newCorrectionsChangeCmd(c, "remove", "Delete a correction", func(a *app.App, cmd *cobra.Command, wrong string) error {
			return matched(a.Engine().RemoveCorrection(cmd.Context(), wrong))
		}),
		newCorrectionsChangeCmd(c, "promote", "Make a Pending or Confirmed correction Active", func(a *app.App, cmd *cobra.Command, wrong string) error {
			if a.Engine().PromoteCorrection(cmd.Context(), wrong) {
				return nil
			}
			if err := a.Engine().PromoteError(wrong); err != nil && !errors.Is(err, engine.ErrCorrectionNotFound) {
				return err
			}
			return errNoMatch
		}),
		newCorrectionsChangeCmd(c, "demote", "Force a correction to Deprecated", func(a *app.App, cmd *cobra.Command, wrong string) error {
			return matched(a.Engine().DemoteCorrection(cmd.Context(), wrong))
		}),
		newCorrectionsRevertCmd(c),
		newCorrectionsExportCmd(c),
		newCorrectionsImportCmd(c),
		newCorrectionsSuggestCmd(c),
	)
	return cmd
}

func newCorrectionsListCmd(c *cli) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List corrections with status and confidence",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var want *correction.Status
			if status != "" {
				st, ok := correction.ParseStatus(titleASCII(status))
				if !ok {
					return fmt.Errorf("unknown status %q; valid: Pending, Confirmed, Active, Deprecated", status)
				}
				want = &st
			}
			return c.withApp(cmd.Context(), func(a *app.App) error {
				views := []correction.View{}
				for _, v := range a.Engine().Corrections() {
					if want == nil || v.Status == *want {
						views = append(views, v)
					}
				}
				return c.output(cmd, views, func(w io.Writer) {
					tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "WRONG\tRIGHT\tCOUNT\tREVERTS\tSTATUS\tSOURCE\tCONFIDENCE")
					for _, v := range views {
						fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\t%.2f\n",
							v.Wrong, v.Right, v.Count, v.RevertCount, v.Status, v.Source, v.Confidence)
					}
					_ = tw.Flush()
				})
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only show this status (Pending, Confirmed, Active, Deprecated)")
	return cmd
}

func newCorrectionsAddCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "add <wrong> <right>",
		Short: "Add a manual correction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				if err := a.Engine().AddCorrection(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				return c.output(cmd, map[string]string{"wrong": args[0], "right": args[1]}, func(w io.Writer) {
					fmt.Fprintf(w, "added %s -> %s\n", args[0], args[1])
				})
			})
		},
	}
}

var errNoMatch = errors.New("no matching correction")

func matched(ok bool) error {
	if !ok {
		return errNoMatch
	}
	return nil
}

// newCorrectionsChangeCmd builds a single-argument command that changes one
// correction and fails when change does.
func newCorrectionsChangeCmd(c *cli, use, short string, change func(*app.App, *cobra.Command, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <wrong>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				if err := change(a, cmd, args[0]); err != nil {
					return fmt.Errorf("%s %q: %w", use, args[0], err)
				}
				return c.output(cmd, map[string]string{"wrong": args[0], "action": use}, func(w io.Writer) {
					fmt.Fprintf(w, "%s: %s\n", use, args[0])
				})
			})
		},
	}
}

func newCorrectionsRevertCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "revert <wrong> <right>",
		Short: "Report that you undid a correction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				if !a.Engine().ReportRevert(cmd.Context(), args[0], args[1]) {
					return fmt.Errorf("revert %q -> %q: no matching correction", args[0], args[1])
				}
				return c.output(cmd, map[string]string{"wrong": args[0], "right": args[1], "action": "revert"}, func(w io.Writer) {
					fmt.Fprintf(w, "revert recorded: %s -> %s\n", args[0], args[1])
				})
			})
		},
	}
}

func newCorrectionsExportCmd(c *cli) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the correction store as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				data, err := a.Engine().Export()
				if err != nil {
					return err
				}
				if out == "" || out == "-" {
					_, err = cmd.OutOrStdout().Write(append(data, '\n'))
					return err
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", out, err)
				}
				c.log.Info("corrections exported", "path", out, "bytes", len(data))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newCorrectionsImportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the correction store from an exported document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}
			return c.withApp(cmd.Context(), func(a *app.App) error {
				n, err := a.Engine().Import(cmd.Context(), data)
				if err != nil {
					return err
				}
				return c.output(cmd, map[string]int{"imported": n}, func(w io.Writer) {
					fmt.Fprintf(w, "imported %d corrections\n", n)
				})
			})
		},
	}
}

func newCorrectionsSuggestCmd(c *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "suggest <word>",
		Short: "Find known terms that resemble a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				got := a.Engine().Suggest(args[0], limit)
				return c.output(cmd, got, func(w io.Writer) {
					if len(got) == 0 {
						fmt.Fprintln(w, "no suggestions")
						return
					}
					for _, s := range got {
						mark := ""
						if s.Phonetic {
							mark = " (sounds alike)"
						}
						fmt.Fprintf(w, "%s\t%.2f%s\n", s.Term, s.Score, mark)
					}
				})
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum suggestions (default 5)")
	return cmd
}

func newResetCmd(c *cli) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all corrections and the usage profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("reset deletes all learned corrections; pass --yes to confirm")
			}
			return c.withApp(cmd.Context(), func(a *app.App) error {
				a.Engine().Reset(cmd.Context())
				return c.output(cmd, map[string]string{"status": "reset"}, func(w io.Writer) {
					fmt.Fprintln(w, "corrections and profile cleared")
				})
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

// ── Profile ──────────────────────────────────────────────────────────────────

func newPromptCmd(c *cli) *cobra.Command {
	var (
		lang    string
		preview bool
	)
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the recogniser initial prompt",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				if preview {
					pv := a.Engine().PromptPreview(lang)
					return c.output(cmd, pv, func(w io.Writer) {
						fmt.Fprintf(w, "base:   %s\n", pv.BasePrompt)
						fmt.Fprintf(w, "domain: %s\n", pv.DomainAddition)
						fmt.Fprintf(w, "terms:  %s\n", pv.UserTerms)
						fmt.Fprintf(w, "length: %d/%d\n", pv.TotalLength, pv.MaxLength)
					})
				}
				p := a.Engine().Prompt(lang)
				return c.output(cmd, map[string]any{"prompt": p, "length": len(p)}, func(w io.Writer) {
					fmt.Fprintln(w, p)
				})
			})
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "language code (default: configured language)")
	cmd.Flags().BoolVar(&preview, "preview", false, "show the individual prompt layers")
	return cmd
}

func newProfileCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show usage statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				p := a.Engine().Profile()
				return c.output(cmd, p, func(w io.Writer) {
					fmt.Fprintf(w, "domain:          %s (%s)\n", p.Domain, p.Domain.Label())
					fmt.Fprintf(w, "transcriptions:  %d\n", p.TotalTranscriptions)
					fmt.Fprintf(w, "corrections:     %d\n", p.TotalCorrections)
					fmt.Fprintf(w, "frequent words:  %s\n", strings.Join(p.FrequentWords, ", "))
				})
			})
		},
	}
}

func newDomainCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "domain",
		Short: "Show the detected domain and its scores",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				info := a.Engine().DomainInfo()
				return c.output(cmd, info, func(w io.Writer) {
					fmt.Fprintf(w, "%s (%s)\n%s\n", info.Detected, info.Label, info.Explanation)
					for _, name := range slices.Sorted(maps.Keys(info.Scores)) {
						fmt.Fprintf(w, "  %-10s %d\n", name, info.Scores[name])
					}
				})
			})
		},
	}
}

func newNgramsCmd(c *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "ngrams",
		Short: "List the most frequent word sequences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				ngrams := a.Engine().Ngrams()
				if limit > 0 && len(ngrams) > limit {
					ngrams = ngrams[:limit]
				}
				return c.output(cmd, ngrams, func(w io.Writer) {
					for _, n := range ngrams {
						fmt.Fprintf(w, "%5d  %s\n", n.Count, n.Ngram)
					}
				})
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries (0 for all)")
	return cmd
}

func newHistoryCmd(c *cli) *cobra.Command {
	var (
		limit int
		clearAll bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear processed transcripts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				if clearAll {
					a.Engine().ClearHistory(cmd.Context())
					return c.output(cmd, map[string]string{"status": "cleared"}, func(w io.Writer) {
						fmt.Fprintln(w, "history cleared")
					})
				}
				entries := a.Engine().History()
				if limit > 0 && len(entries) > limit {
					entries = entries[:limit]
				}
				return c.output(cmd, entries, func(w io.Writer) {
					for _, e := range entries {
						fmt.Fprintf(w, "[%s] %s\n", e.Language, e.Text)
					}
				})
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries (0 for all)")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete the history")
	return cmd
}
