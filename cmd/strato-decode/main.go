// strato-decode replays a captured backend frame dump (newline-delimited
// JSON, one frame per line) through the real stream decoder and prints the
// resulting events. Useful for debugging decoder behavior against recorded
// sessions without touching the network.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	_ "github.com/joho/godotenv/autoload"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/stratollm/strato/pkg/slogx"
	"github.com/stratollm/strato/pkg/uuidx"
	"github.com/stratollm/strato/provider"
	"github.com/stratollm/strato/provider/bedrock"
	"github.com/stratollm/strato/transport"
)

var (
	modelID string
	render  bool
	verbose bool
)

func main() {
	root := &cobra.Command{
		Use:   "strato-decode [dump-file]",
		Short: "Replay a captured frame dump through the stream decoder",
		Long: `Reads newline-delimited JSON frames from a file (or stdin when no
file is given), runs them through the decoder, and prints the
normalized event stream.`,
		Args: cobra.MaximumNArgs(1),
		RunE: run,
	}
	root.Flags().StringVarP(&modelID, "model", "m", "", "model id to resolve (defaults to the catalog default)")
	root.Flags().BoolVar(&render, "render", false, "render the assembled text as markdown when done")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp}
	log := zerolog.New(output).With().Timestamp().Logger()
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: level}),
	))

	frames, err := readFrames(args)
	if err != nil {
		return err
	}
	slog.Debug("loaded frame dump", slog.Int("frames", len(frames)))

	prov, err := bedrock.New(
		bedrock.WithModel(modelID),
		bedrock.WithInvoker(transport.InvokerFunc(
			func(context.Context, string, []byte) (transport.Stream, error) {
				return transport.Replay(frames...), nil
			},
		)),
	)
	if err != nil {
		return err
	}

	events, err := prov.CreateMessage(cmd.Context(), provider.CompletionParams{
		RunID: uuidx.New(),
	})
	if err != nil {
		return err
	}

	var text string
	var failure error
	for event := range events {
		switch e := event.(type) {
		case provider.Delta:
			text += e.Text
			fmt.Fprint(os.Stdout, e.Text)
		case provider.Usage:
			fmt.Fprintf(os.Stderr, "%s input=%d output=%d\n",
				color.YellowString("usage:"), e.InputTokens, e.OutputTokens)
		case provider.Error:
			failure = e
		}
	}
	fmt.Fprintln(os.Stdout)

	if failure != nil {
		slog.Error("stream failed", slogx.Error(failure))
		return failure
	}

	if render && text != "" {
		glam, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
		if err != nil {
			return err
		}
		pretty, err := glam.Render(text)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, pretty)
	}
	return nil
}

func readFrames(args []string) ([][]byte, error) {
	var in io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}

	var frames [][]byte
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		frame := make([]byte, len(line))
		copy(frame, line)
		frames = append(frames, frame)
	}
	return frames, scanner.Err()
}
