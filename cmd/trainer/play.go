package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/palemoky/chinese-trainer/internal/answer"
	"github.com/palemoky/chinese-trainer/internal/database"
	"github.com/palemoky/chinese-trainer/internal/dataset"
	"github.com/palemoky/chinese-trainer/internal/exercise"
	"github.com/palemoky/chinese-trainer/internal/helpers"
	"github.com/palemoky/chinese-trainer/internal/loader"
	"github.com/palemoky/chinese-trainer/internal/logger"
	"github.com/palemoky/chinese-trainer/internal/pinyin"
	"github.com/palemoky/chinese-trainer/internal/session"
)

func newPlayCmd() *cobra.Command {
	var (
		file       string
		typeFilter string
		count      int
		kinds      []string
		sprint     bool
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Run a lesson in the terminal",
		Long: "Drill the active dataset in the terminal. Type :skip to skip an exercise and :quit to stop.\n" +
			"Pinyin answers accept tone numbers (ni3 hao3); tile answers are tile keys separated by spaces.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := database.Open(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()
			if err := db.Migrate(); err != nil {
				return err
			}
			repo := database.NewRepository(db)

			ds, err := resolveDataset(ctx, dataset.NewService(repo, cfg.Dataset.DefaultFile), file)
			if err != nil {
				return err
			}

			trainer := session.NewTrainer(
				database.NewCachedRepository(repo),
				answer.Matcher{AcceptVariantScript: cfg.Matching.AcceptVariantScript},
				nil,
			)
			trainer.SetDataset(ctx, ds)

			opts, err := helpers.LessonOptions(typeFilter, count, kinds, cfg.Lesson.DefaultCount)
			if err != nil {
				return err
			}

			start := trainer.Start
			if sprint {
				start = trainer.Sprint
			}
			snap, err := start(ctx, opts)
			if errors.Is(err, exercise.ErrNoData) {
				return fmt.Errorf("nothing to practice: no records of type %q or no exercise kinds selected", opts.TypeFilter)
			}
			if err != nil {
				return err
			}

			p := newPlayer(cmd.InOrStdin(), cmd.OutOrStdout(), trainer)
			return p.run(ctx, snap)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Vocabulary file to upload before playing")
	cmd.Flags().StringVarP(&typeFilter, "type", "t", dataset.TypeAll, "Only practice records of this type")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of exercises (0 = lesson.default_count)")
	cmd.Flags().StringSliceVarP(&kinds, "kinds", "k", nil, "Exercise kinds to enable (default: all)")
	cmd.Flags().BoolVar(&sprint, "sprint", false, "Quick five exercise review")
	return cmd
}

// resolveDataset uploads file when given, otherwise returns the active dataset.
func resolveDataset(ctx context.Context, service *dataset.Service, file string) (dataset.Dataset, error) {
	if file == "" {
		return service.Active(ctx)
	}

	data, ok, err := loader.ReadFile(file)
	if err != nil {
		return dataset.Dataset{}, err
	}
	if !ok {
		return dataset.Dataset{}, fmt.Errorf("%s does not exist", file)
	}

	sel, err := service.Upload(ctx, data)
	if err != nil {
		return dataset.Dataset{}, err
	}
	if !sel.Persist {
		logger.Warn("No usable records in file, keeping the previous dataset",
			zap.String("file", file),
			zap.String("source", string(sel.Dataset.Source)),
		)
	}
	return sel.Dataset, nil
}

// player drives one lesson over a line based terminal.
type player struct {
	in      *bufio.Scanner
	out     io.Writer
	trainer *session.Trainer
}

func newPlayer(in io.Reader, out io.Writer, trainer *session.Trainer) *player {
	return &player{in: bufio.NewScanner(in), out: out, trainer: trainer}
}

func (p *player) run(ctx context.Context, snap session.Snapshot) error {
	var err error
	for !snap.Finished {
		p.show(snap)

		line, ok := p.readLine()
		if !ok {
			break
		}

		switch line {
		case ":q", ":quit":
			return p.summary()
		case ":s", ":skip":
			if snap, err = p.trainer.Skip(); err != nil {
				return err
			}
			continue
		}

		outcome, err := p.trainer.Answer(ctx, parseAnswer(snap.Exercise, line))
		if err != nil {
			return err
		}
		p.showOutcome(outcome)
		if outcome.Finished {
			break
		}

		if snap, err = p.trainer.Next(); err != nil {
			return err
		}
	}
	return p.summary()
}

func (p *player) readLine() (string, bool) {
	fmt.Fprint(p.out, "> ")
	if !p.in.Scan() {
		fmt.Fprintln(p.out)
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}

func (p *player) show(snap session.Snapshot) {
	ex := snap.Exercise
	fmt.Fprintf(p.out, "\n[%d/%d] hearts %d  xp %d\n", snap.Position, snap.Total, snap.Hearts, snap.LessonXP)

	switch ex.Kind {
	case exercise.MatchMeaning:
		fmt.Fprintf(p.out, "What does %s (%s) mean?\n", ex.Prompt, ex.Pinyin)
		for i, opt := range ex.Options {
			fmt.Fprintf(p.out, "  %d) %s\n", i+1, opt)
		}
	case exercise.ProduceScript:
		fmt.Fprintf(p.out, "Write in Chinese: %s\n", ex.Prompt)
	case exercise.ProducePhonetic:
		fmt.Fprintf(p.out, "Type the pinyin of %s (%s)\n", ex.Prompt, ex.Hint)
	case exercise.ConstructFromBlank:
		fmt.Fprintf(p.out, "Fill the blank: %s\n", ex.Sentence)
		if ex.SentenceEnglish != "" {
			fmt.Fprintf(p.out, "  %s\n", ex.SentenceEnglish)
		}
		fmt.Fprintf(p.out, "Pick %d tiles: %s\n", ex.Slots, formatTiles(ex.Tiles))
	case exercise.ReorderTokens:
		fmt.Fprintf(p.out, "Put in order: %s\n", formatTiles(ex.Tiles))
	}
}

func (p *player) showOutcome(o session.Outcome) {
	if o.Verdict.Correct {
		fmt.Fprintf(p.out, "Correct! +%d xp\n", session.XPPerCorrect)
	} else {
		fmt.Fprintf(p.out, "Wrong. Answer: %s (hearts left: %d)\n", o.Verdict.Expected, o.Hearts)
	}
	r := o.Verdict.Record
	fmt.Fprintf(p.out, "  %s  %s  %s\n", r.Chinese, r.Pinyin, r.English)
}

func (p *player) summary() error {
	pr := p.trainer.Progress()
	snap, err := p.trainer.Current()
	if err != nil {
		return err
	}
	if snap.Finished {
		fmt.Fprintln(p.out, "Lesson complete.")
	}
	fmt.Fprintf(p.out, "Lesson xp %d, total xp %d, streak %d\n", snap.LessonXP, pr.XP, pr.Streak)
	return nil
}

// parseAnswer turns a typed line into an answer for ex. Option numbers pick
// a meaning, tone numbers become marks and tile answers are keys.
func parseAnswer(ex *exercise.Exercise, line string) exercise.Answer {
	switch ex.Kind {
	case exercise.MatchMeaning:
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(ex.Options) {
			return exercise.Answer{Text: ex.Options[n-1]}
		}
		return exercise.Answer{Text: line}
	case exercise.ProducePhonetic:
		return exercise.Answer{Text: pinyin.ConvertNumbered(line)}
	case exercise.ConstructFromBlank, exercise.ReorderTokens:
		return exercise.Answer{Tiles: strings.Fields(line)}
	default:
		return exercise.Answer{Text: line}
	}
}

func formatTiles(tiles []exercise.Tile) string {
	parts := make([]string, len(tiles))
	for i, t := range tiles {
		parts[i] = t.Key + ":" + t.Text
	}
	return strings.Join(parts, "  ")
}
