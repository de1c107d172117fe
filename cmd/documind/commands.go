package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"documind/internal/chat"
	"documind/internal/session"
	"documind/internal/upload"

	"github.com/urfave/cli/v2"
)

// ========== health ==========

func healthCommand(env *environment) *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "check that the API answers GET /health",
		Action: func(c *cli.Context) error {
			sess, err := env.newSession(c, nil)
			if err != nil {
				return err
			}
			defer sess.Close()

			status := sess.CheckHealth(c.Context)
			snap := sess.Snapshot()
			fmt.Fprintf(c.App.Writer, "%s  %s\n", snap.HealthLabel, snap.ResolvedBase)
			if status != session.HealthOnline {
				if snap.HealthReason != "" {
					fmt.Fprintln(c.App.Writer, snap.HealthReason)
				}
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

// ========== ask ==========

func askCommand(env *environment) *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "ask questions; reads one per line from stdin when none are given",
		ArgsUsage: "[QUESTION...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "export",
				Usage: "write the conversation to `PATH` (a directory gets the default file name)",
			},
		},
		Action: func(c *cli.Context) error {
			questions := c.Args().Slice()
			if len(questions) == 0 {
				var err error
				if questions, err = readLines(c); err != nil {
					return err
				}
			}
			if len(questions) == 0 {
				return cli.Exit("no questions given", 2)
			}

			out := c.App.Writer
			sess, err := env.newSession(c, session.NotifierFunc(func(ev session.Event) {
				switch ev.Type {
				case session.EventMessage:
					fmt.Fprintf(out, "[%s] %s: %s\n", ev.Node.Time, ev.Node.Label, ev.Node.Text)
					if ev.Node.Class == "bot" {
						fmt.Fprintln(out)
					}
				case session.EventAlert:
					fmt.Fprintln(c.App.ErrWriter, ev.Text)
				}
			}))
			if err != nil {
				return err
			}
			defer sess.Close()

			failed := 0
			for _, q := range questions {
				if len([]rune(q)) > session.MaxQuestionLength {
					fmt.Fprintf(c.App.ErrWriter, "skipping question over %d characters\n", session.MaxQuestionLength)
					failed++
					continue
				}
				if !sess.SendQuestion(c.Context, q) {
					continue
				}
				if sess.Snapshot().Status != "Answered" {
					failed++
				}
			}

			snap := sess.Snapshot()
			fmt.Fprintf(out, "%d question(s), avg latency %s, last status %s\n",
				snap.TotalQuestions, snap.Latency, snap.Status)

			if path := c.String("export"); path != "" {
				if err := writeExport(sess, path, c); err != nil {
					return err
				}
			}
			if failed > 0 {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func readLines(c *cli.Context) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(c.App.Reader)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	return lines, nil
}

func writeExport(sess *session.Session, path string, c *cli.Context) error {
	exp, err := sess.Export()
	if err != nil {
		if errors.Is(err, chat.ErrNothingToExport) {
			return nil
		}
		return err
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, exp.FileName)
	}
	if err := os.WriteFile(path, []byte(exp.Text), 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Exported to %s\n", path)
	return nil
}

// ========== upload ==========

func uploadCommand(env *environment) *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "upload PDF files to the API, one at a time",
		ArgsUsage: "FILE...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("usage: documind upload FILE...", 2)
			}

			sess, err := env.newSession(c, nil)
			if err != nil {
				return err
			}
			defer sess.Close()

			out := c.App.Writer
			sess.OpenDialog()
			for _, path := range c.Args().Slice() {
				f, err := upload.FromPath(path)
				if err != nil {
					fmt.Fprintf(c.App.ErrWriter, "skipping %s: %v\n", path, err)
					continue
				}
				if err := sess.AddFile(f); err != nil {
					fmt.Fprintf(c.App.ErrWriter, "skipping %s\n", path)
				}
			}

			staged := sess.StagedFiles()
			if len(staged) == 0 {
				return cli.Exit("nothing to upload", 1)
			}
			for _, item := range staged {
				if item.Pages > 0 {
					fmt.Fprintf(out, "  %s (%s, %d pages)\n", item.Name, item.Size, item.Pages)
				} else {
					fmt.Fprintf(out, "  %s (%s)\n", item.Name, item.Size)
				}
			}
			fmt.Fprintln(out, upload.ProgressText(len(staged)))

			res, _ := sess.UploadAll(c.Context)
			for _, fr := range res.Files {
				if fr.OK() {
					fmt.Fprintf(out, "✓ %s\n", fr.Name)
				} else {
					fmt.Fprintf(out, "✕ %s: %v\n", fr.Name, fr.Err)
				}
			}
			fmt.Fprintln(out, res.Summary())
			if res.Failed > 0 {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}
