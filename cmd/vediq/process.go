// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veg-briyani/vediq/internal/convert"
	"github.com/Veg-briyani/vediq/internal/document"
	"github.com/Veg-briyani/vediq/internal/extract"
	"github.com/Veg-briyani/vediq/internal/library"
	"github.com/Veg-briyani/vediq/pkg/types"
)

var processCmd = &cobra.Command{
	Use:   "process [path]",
	Short: "Extract rules from book files into the knowledge base",
	Long: `Process converts book files (.pdf, .txt, .md) to text, filters
astrological sentences, extracts structured rules, and stores them in the
knowledge base. A directory processes every supported file inside it;
--registered processes every book in the corpus library with its stored
metadata. A single file's failure never aborts a batch.`,
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	registered, _ := cmd.Flags().GetBool("registered")
	if !registered && len(args) != 1 {
		return fmt.Errorf("provide a file or directory path, or use --registered")
	}

	cfg := loadConfig()
	w := os.Stdout

	var jobs []processJob
	var err error
	if registered {
		jobs, err = registeredJobs(cfg, w)
	} else {
		jobs, err = pathJobs(cmd, args[0])
	}
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no book files to process")
	}

	proc := document.NewProcessor()
	var groups []extract.SentenceGroup
	converted := 0
	for _, job := range jobs {
		backend, err := convert.ForFile(job.path)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", filepath.Base(job.path), err)
			continue
		}
		text, pages, err := backend.Extract(job.path)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", filepath.Base(job.path), err)
			continue
		}

		doc := proc.Process(filepath.Base(job.path), text, pages)
		fmt.Fprintf(w, "processed %s: %d sentences, %d astrological\n",
			doc.Filename, len(doc.Sentences), len(doc.Astrological))
		converted++

		groups = append(groups, extract.SentenceGroup{
			Sentences: doc.Astrological,
			Source:    job.source,
		})
	}
	if converted == 0 {
		return fmt.Errorf("all %d file(s) failed processing", len(jobs))
	}

	runExtraction, _ := cmd.Flags().GetBool("extract")
	if !runExtraction {
		return nil
	}

	extractor := extract.NewExtractor()
	rules, _ := extractor.ExtractBatch(groups, w)
	if len(rules) == 0 {
		return nil
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if _, err := store.StoreBatch(context.Background(), rules, w); err != nil {
		return err
	}

	samples, _ := cmd.Flags().GetInt("samples")
	if samples > len(rules) {
		samples = len(rules)
	}
	for i := 0; i < samples; i++ {
		fmt.Fprintf(w, "\nSample rule %d:\n", i+1)
		printRule(w, rules[i])
	}
	return nil
}

// processJob pairs one book file with the source stamped onto its rules.
type processJob struct {
	path   string
	source types.SourceInfo
}

// pathJobs builds jobs from a file or directory argument, taking source
// metadata from the flags.
func pathJobs(cmd *cobra.Command, path string) ([]processJob, error) {
	authority, err := authorityFromFlag(cmd)
	if err != nil {
		return nil, err
	}
	title, _ := cmd.Flags().GetString("title")
	author, _ := cmd.Flags().GetString("author")
	page, _ := cmd.Flags().GetInt("page")

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var files []string
	if info.IsDir() {
		for _, pattern := range []string{"*.pdf", "*.txt", "*.md"} {
			matches, err := filepath.Glob(filepath.Join(path, pattern))
			if err != nil {
				return nil, fmt.Errorf("listing %s: %w", path, err)
			}
			files = append(files, matches...)
		}
		sort.Strings(files)
	} else {
		files = []string{path}
	}

	jobs := make([]processJob, len(files))
	for i, f := range files {
		t := title
		// An explicit title only makes sense for a single file.
		if t == "" || info.IsDir() {
			base := filepath.Base(f)
			t = strings.TrimSuffix(base, filepath.Ext(base))
		}
		jobs[i] = processJob{
			path: f,
			source: types.SourceInfo{
				Title:      t,
				Author:     author,
				PageNumber: page,
				Authority:  authority,
			},
		}
	}
	return jobs, nil
}

// registeredJobs builds jobs from every book in the corpus library.
func registeredJobs(cfg types.Config, w *os.File) ([]processJob, error) {
	lib := library.New(cfg.Corpus.BaseDir)
	books, err := lib.Books(w)
	if err != nil {
		return nil, err
	}

	jobs := make([]processJob, len(books))
	for i, b := range books {
		jobs[i] = processJob{path: b.Path, source: b.Source()}
	}
	return jobs, nil
}

func init() {
	processCmd.Flags().String("title", "", "source title (default: filename stem)")
	processCmd.Flags().String("author", "", "source author")
	processCmd.Flags().String("authority", "", "authority level: classical, traditional, modern, or commentary")
	processCmd.Flags().Int("page", 0, "page number the content starts on")
	processCmd.Flags().Bool("extract", true, "extract rules and store them in the knowledge base")
	processCmd.Flags().Int("samples", 0, "print the first N extracted rules")
	processCmd.Flags().Bool("registered", false, "process every registered corpus book with its stored metadata")

	rootCmd.AddCommand(processCmd)
}
