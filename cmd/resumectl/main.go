package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"resumeforge/internal/latex"
	"resumeforge/pkg/models"
)

var (
	templateID   string
	outputFormat string
	outDir       string
	templatesDir string
	latexCommand string
	timeout      time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "resumectl",
	Short: "Compile structured resume data into LaTeX and PDF",
	Long: `resumectl drives the same compilation engine as the HTTP server:
it escapes resume content, substitutes it into a LaTeX template and
optionally runs the external toolchain to produce a PDF.`,
	SilenceUsage: true,
}

var compileCmd = &cobra.Command{
	Use:   "compile <resume.json>",
	Short: "Compile a resume JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available template ids",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := latex.NewStore(templatesDir)
		if err != nil {
			return err
		}
		for _, id := range store.IDs() {
			marker := "  "
			if id == latex.DefaultTemplateID {
				marker = "* "
			}
			fmt.Fprintln(cmd.OutOrStdout(), marker+id)
		}
		return nil
	},
}

func init() {
	compileCmd.Flags().StringVarP(&templateID, "template", "t", "", "template id (default template when empty)")
	compileCmd.Flags().StringVarP(&outputFormat, "format", "f", string(models.FormatBoth), "output format: rendered, source or both")
	compileCmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory to write resume.tex / resume.pdf into")
	compileCmd.Flags().StringVar(&latexCommand, "latex", "pdflatex", "LaTeX compiler executable")
	compileCmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "compilation timeout")

	rootCmd.PersistentFlags().StringVar(&templatesDir, "templates-dir", "", "extra directory of .tex templates")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(templatesCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading resume file: %w", err)
	}

	var resume models.ResumeData
	if err := json.Unmarshal(raw, &resume); err != nil {
		return fmt.Errorf("parsing resume file: %w", err)
	}

	format := models.OutputFormat(outputFormat)
	if !format.Valid() {
		return fmt.Errorf("unknown output format %q", outputFormat)
	}

	store, err := latex.NewStore(templatesDir)
	if err != nil {
		return err
	}

	compiler := latex.NewPDFLaTeX(latex.PDFLaTeXConfig{
		Command: latexCommand,
		Timeout: timeout,
	})
	pool := latex.NewCompilePool(latex.PoolConfig{MaxConcurrent: 1})
	engine := latex.NewEngine(store, compiler, pool)
	defer engine.Shutdown()

	result, err := engine.Compile(context.Background(), latex.CompilationRequest{
		Resume:       resume,
		TemplateID:   templateID,
		OutputFormat: format,
	})
	if err != nil {
		if log := latex.DiagnosticLog(err); log != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), log)
		}
		return err
	}

	if format.WantsSource() {
		path := filepath.Join(outDir, "resume.tex")
		if err := os.WriteFile(path, []byte(result.Source), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "wrote "+path)
	}
	if format.WantsRendered() {
		path := filepath.Join(outDir, "resume.pdf")
		if err := os.WriteFile(path, result.PDF, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "wrote "+path)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "done in %s\n", result.Duration.Round(time.Millisecond))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
