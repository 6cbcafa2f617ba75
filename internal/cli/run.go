package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/printdir/internal/journal"
	"github.com/temirov/printdir/internal/output"
	"github.com/temirov/printdir/internal/tokenizer"
	"github.com/temirov/printdir/internal/tree"
	"github.com/temirov/printdir/internal/utils"
)

const (
	warningSkipDirectoryFormat = "Skipping %v"
	artifactWrittenFormat      = "Tree written to %s (%s)"
	clipboardCopiedMessage     = "Tree copied to clipboard"
	tokenEstimateFormat        = "Tokens: %d (%s, %d lines)"
	elapsedFormat              = "Elapsed: %s"
	copyErrorFormat            = "copy tree: %w"
	tokenCountErrorFormat      = "count tokens: %w"
)

// runTree renders the tree of options.WorkingDirectory to every configured sink.
func (app *application) runTree(ctx context.Context, options runOptions) error {
	startTime := time.Now()
	logger := app.dependencies.Logger

	var tokenCounter tokenizer.Counter
	if options.TokensEnabled {
		counter, _, counterErr := app.dependencies.NewTokenCounter(tokenizer.Config{Model: options.TokenModel})
		if counterErr != nil {
			return counterErr
		}
		tokenCounter = counter
	}

	sinks := []output.Sink{output.NewWriterSink(app.dependencies.Stdout)}
	var artifact *output.FileSink
	if options.ToFile {
		header := journal.NewRecord(app.arguments).String()
		fileSink, sinkErr := output.NewFileSink(filepath.Join(options.WorkingDirectory, journal.ArtifactName), header)
		if sinkErr != nil {
			return sinkErr
		}
		artifact = fileSink
		sinks = append(sinks, artifact)
	}
	var capture *output.CaptureSink
	if options.CopyToClipboard || tokenCounter != nil {
		capture = output.NewCaptureSink()
		sinks = append(sinks, capture)
	}
	sink := output.NewMultiSink(sinks...)

	treeOptions := options.treeOptions()
	treeOptions.Warn = func(walkErr error) {
		logger.Warn(fmt.Sprintf(warningSkipDirectoryFormat, walkErr))
	}

	renderErr := dispatchLines(ctx,
		func(streamCtx context.Context, lines chan<- tree.Line) error {
			return tree.Render(treeOptions, func(line tree.Line) error {
				select {
				case <-streamCtx.Done():
					return streamCtx.Err()
				case lines <- line:
					return nil
				}
			})
		},
		func(line tree.Line) error {
			return sink.Handle(line.String())
		},
	)
	flushErr := sink.Flush()
	if renderErr != nil {
		return renderErr
	}
	if flushErr != nil {
		return flushErr
	}

	if artifact != nil {
		logArtifact(logger, artifact.Path())
	}
	if options.CopyToClipboard {
		if err := app.dependencies.Clipboard.Copy(capture.Text()); err != nil {
			return fmt.Errorf(copyErrorFormat, err)
		}
		logger.Info(clipboardCopiedMessage)
	}
	if tokenCounter != nil {
		estimate, err := tokenizer.CountText(tokenCounter, capture.Text())
		if err != nil {
			return fmt.Errorf(tokenCountErrorFormat, err)
		}
		logger.Info(fmt.Sprintf(tokenEstimateFormat, estimate.Tokens, estimate.Model, capture.Lines()))
	}
	if options.Timing {
		logger.Info(fmt.Sprintf(elapsedFormat, utils.FormatElapsed(time.Since(startTime))))
	}
	return nil
}

func logArtifact(logger *zap.Logger, path string) {
	size := int64(0)
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}
	logger.Info(fmt.Sprintf(artifactWrittenFormat, path, utils.FormatFileSize(size)))
}

// dispatchLines runs produce and consume concurrently, passing lines through an unbuffered channel
// so they are consumed in the order they are produced. A consumer error cancels the producer.
func dispatchLines(
	ctx context.Context,
	produce func(context.Context, chan<- tree.Line) error,
	consume func(tree.Line) error,
) error {
	group, streamCtx := errgroup.WithContext(ctx)
	lines := make(chan tree.Line)

	group.Go(func() error {
		defer close(lines)
		return produce(streamCtx, lines)
	})

	group.Go(func() error {
		for {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case line, ok := <-lines:
				if !ok {
					return nil
				}
				if err := consume(line); err != nil {
					return err
				}
			}
		}
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
