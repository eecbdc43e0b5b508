// Command calc evaluates decimal arithmetic expressions exactly, or serves
// them over HTTP.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calculator"
	"github.com/zephyrtronium/calculator/internal/config"
	"github.com/zephyrtronium/calculator/internal/server"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:          "calc [expression...]",
	Short:        "Exact decimal calculator",
	Long:         "calc evaluates each argument as an expression. With no arguments, it reads one expression per line from -in or stdin.",
	RunE:         run,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:          "serve",
	Short:        "Serve the calculator over HTTP",
	Args:         cobra.NoArgs,
	RunE:         serve,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version + " (commit=" + commit + ", built=" + date + ")"
	rootCmd.SetVersionTemplate("calc version {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "TOML or YAML config file (env "+config.EnvConfig+")")
	pf.Int("scale", calculator.DefaultScale, "decimal places kept by every value (env "+config.EnvScale+")")
	pf.Bool("round-half-up", true, "round discarded digits half-up rather than truncating (env "+config.EnvRoundHalfUp+")")

	rootCmd.Flags().String("in", "", "input file, one expression per line (default stdin if no args given)")
	rootCmd.Flags().Bool("terms", false, "print the terms of each expression")
	rootCmd.Flags().Bool("rpn", false, "print the postfix form of each expression")

	serveCmd.Flags().String("addr", "", "listen address (default "+config.DefaultAddr+", env "+config.EnvAddr+")")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	log.SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and environment, then applies flags that
// were set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path := os.Getenv(config.EnvConfig)
	if v, _ := cmd.Flags().GetString("config"); v != "" {
		path = v
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("scale") {
		cfg.Scale, _ = cmd.Flags().GetInt("scale")
	}
	if cmd.Flags().Changed("round-half-up") {
		cfg.RoundHalfUp, _ = cmd.Flags().GetBool("round-half-up")
	}
	if cmd.Flags().Lookup("addr") != nil && cmd.Flags().Changed("addr") {
		cfg.Addr, _ = cmd.Flags().GetString("addr")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	inname, _ := cmd.Flags().GetString("in")
	showTerms, _ := cmd.Flags().GetBool("terms")
	showRPN, _ := cmd.Flags().GetBool("rpn")

	exprs := args
	f, err := infile(inname, len(args) == 0, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if f != nil {
		lines, err := readLines(f)
		if c, ok := f.(*os.File); ok && c != os.Stdin {
			c.Close()
		}
		if err != nil {
			return err
		}
		exprs = append(lines, exprs...)
	}

	p := printer{e: cfg.Engine(), w: cmd.OutOrStdout(), terms: showTerms, rpn: showRPN}
	failed := 0
	for _, x := range exprs {
		if !p.print(x) {
			failed++
		}
	}
	if failed != 0 {
		return fmt.Errorf("%d of %d expressions failed", failed, len(exprs))
	}
	return nil
}

func infile(inname string, std bool, stdin io.Reader) (io.Reader, error) {
	switch {
	case inname != "" && inname != "-":
		return os.Open(inname)
	case inname == "-", std:
		return stdin, nil
	}
	return nil, nil
}

// readLines gets the non-blank lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if l := strings.TrimSpace(sc.Text()); l != "" {
			lines = append(lines, l)
		}
	}
	return lines, sc.Err()
}

// printer writes the result of each expression, optionally preceded by its
// terms and postfix form.
type printer struct {
	e     *calculator.Engine
	w     io.Writer
	terms bool
	rpn   bool
}

// print evaluates x and reports whether it succeeded. Errors are printed in
// place of the result.
func (p printer) print(x string) bool {
	terms, err := calculator.SplitTerms(x)
	if err != nil {
		fmt.Fprintln(p.w, err)
		return false
	}
	if p.terms {
		fmt.Fprintln(p.w, strings.Join(terms, " "))
	}
	rpn, err := calculator.ToPostfix(terms)
	if err != nil {
		fmt.Fprintln(p.w, err)
		return false
	}
	if p.rpn {
		fmt.Fprintln(p.w, strings.Join(rpn, " "))
	}
	r, err := p.e.EvaluatePostfix(rpn)
	if err != nil {
		fmt.Fprintln(p.w, err)
		return false
	}
	fmt.Fprintln(p.w, r)
	return true
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	srv := server.New(cfg.Engine(), os.Stderr)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("shutting down")
		if err := srv.Shutdown(); err != nil {
			log.Printf("error during shutdown: %v", err)
		}
	}()

	log.Printf("calc listening on %s (scale=%d, round-half-up=%t)", cfg.Addr, cfg.Scale, cfg.RoundHalfUp)
	return srv.Listen(cfg.Addr)
}
