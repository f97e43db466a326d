package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/HC-ProductTech/hwpers/article"
	"github.com/HC-ProductTech/hwpers/hwpx"
	"github.com/HC-ProductTech/hwpers/jobs"
	"github.com/HC-ProductTech/hwpers/media"
	"github.com/HC-ProductTech/hwpers/state"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return failInput("no input source has been specified")
	}
	stdin := src == "-"
	if !stdin {
		if src, err = filepath.Abs(src); err != nil {
			return err
		}
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")
	env.ValidateOnly, env.IncludeHeader = cmd.Bool("validate"), cmd.Bool("include-header")
	env.BasePath = cmd.String("base-path")

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, stdin, int(cmd.Int("workers")), log)
}

// process handles the core conversion logic independently of CLI framework.
// A single payload read from stdin or a file is converted synchronously, a
// directory is walked for article payloads which are spread over the worker
// pool.
func process(ctx context.Context, src, dst string, stdin bool, workers int, log *zap.Logger) error {
	if stdin {
		_, err := processArticle(ctx, os.Stdin, "stdin.json", "", dst, log)
		return err
	}

	fi, err := os.Stat(src)
	if err != nil {
		return failInput("unable to access input source (%s): %w", src, err)
	}

	if fi.Mode().IsDir() {
		return processDir(ctx, src, dst, workers, log)
	}
	if !fi.Mode().IsRegular() {
		return failInput("input source is not a regular file (%s)", src)
	}

	file, err := os.Open(src)
	if err != nil {
		return failInput("unable to open article source (%s): %w", src, err)
	}
	defer file.Close()

	_, err = processArticle(ctx, file, filepath.Base(src), filepath.Dir(src), dst, log)
	return err
}

// processDir walks directory tree collecting article payloads in natural
// order and feeds them to the job queue.
func processDir(ctx context.Context, dir, dst string, workers int, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".json") {
			log.Debug("Skipping file, not recognized as article payload", zap.String("file", path))
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Debug("Nothing to process", zap.String("dir", dir))
		return nil
	}
	sort.Sort(natural.StringSlice(files))

	if workers <= 0 {
		workers = env.Cfg.Jobs.Workers
	}

	store, err := jobs.OpenStore(env.Cfg.Jobs.StorePath, log)
	if err != nil {
		return err
	}
	defer store.Close()

	queue := jobs.NewQueue(ctx, store, workers, env.Cfg.Jobs.QueueDepth, log)

	ids := make([]string, 0, len(files))
	for _, path := range files {
		src := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		job, err := queue.Enqueue(ctx, src, func(ctx context.Context) (string, error) {
			f, err := os.Open(path)
			if err != nil {
				return "", failInput("unable to open article source (%s): %w", path, err)
			}
			defer f.Close()
			return processArticle(ctx, f, src, filepath.Dir(path), dst, log)
		})
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Error("Unable to queue file", zap.String("file", path), zap.Error(err))
			continue
		}
		ids = append(ids, job.ID)
	}
	queue.Close()

	if err := ctx.Err(); err != nil {
		return err
	}

	var converted, failed int
	for _, id := range ids {
		job, err := store.Get(id)
		if err != nil {
			return err
		}
		if job == nil {
			continue
		}
		switch job.Status {
		case jobs.StatusCompleted:
			converted++
		case jobs.StatusFailed:
			failed++
		}
	}
	log.Info("Batch completed", zap.Int("files", len(files)), zap.Int("converted", converted), zap.Int("failed", failed))

	// A persistent store accumulates records between runs, trim it on the
	// way out.
	if len(env.Cfg.Jobs.StorePath) > 0 && env.Cfg.Jobs.ExpiryHours > 0 {
		if _, err := store.CleanupExpired(time.Duration(env.Cfg.Jobs.ExpiryHours) * time.Hour); err != nil {
			log.Warn("Unable to clean up expired jobs", zap.Error(err))
		}
	}

	if failed > 0 && converted == 0 {
		return failConversion("all %d conversions failed", failed)
	}
	return nil
}

// processArticle converts a single exported payload. "src" is part of the
// source path used for logging and output naming, relative to the original
// input path (for directory input it keeps the subdirectories, otherwise it
// is just the base file name). "srcDir" is where relative image references
// resolve unless the command line says otherwise. "dst" is the destination
// directory. Returns the path of the produced package.
func processArticle(ctx context.Context, r io.Reader, src, srcDir, dst string, log *zap.Logger) (outputName string, rerr error) {
	env := state.EnvFromContext(ctx)

	var atclID string

	log.Info("Conversion starting", zap.String("from", src))
	defer func(start time.Time) {
		// NOTE: image decoding works on untrusted bytes, when multiple
		// articles are being processed we do not want one of them to stop
		// the batch.
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = failConversion("conversion panic: %v", r)
		} else if rerr == nil {
			log.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.String("atcl_id", atclID))
		}
	}(time.Now())

	e, err := article.Prepare(ctx, r, src, log)
	if err != nil {
		return "", failInput("unable to prepare article source (%s): %w", src, err)
	}
	art := &e.Data.Article
	atclID = strings.TrimSpace(art.AtclID)

	if env.IncludeHeader {
		// command line wins over what the payload asked for
		e.Options.IncludeHeader = true
	}

	if env.ValidateOnly {
		log.Info("Validation succeeded", zap.String("atcl_id", atclID))
		return "", nil
	}

	// Determine output file name and path based on input and configuration.
	outputName = buildOutputPath(art, src, dst, env)

	// Check if output file already exists
	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return "", failIO("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		if err = os.Remove(outputName); err != nil {
			return "", failIO("unable to remove existing output file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return "", failIO("unable to check output file: %w", err)
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return "", failIO("unable to create output directory: %w", err)
	}

	base := env.BasePath
	if len(base) == 0 {
		base = srcDir
	}
	if len(base) == 0 {
		base = "."
	}
	loader := media.NewLoader(base, &env.Cfg.Fetch, log)

	d, err := Build(ctx, e, loader, &env.Cfg.Document, log)
	if err != nil {
		return "", err
	}

	if err := hwpx.Generate(ctx, d, outputName, &env.Cfg.Document, log); err != nil {
		return "", failIO("unable to generate output: %w", err)
	}

	// Store conversion result for debugging
	env.Rpt.Store(fmt.Sprintf("result-%s%s", atclID, outputExtension), outputName)

	return outputName, nil
}
